package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"trustly/internal/models/db_models"
	"trustly/internal/models/request_models"
	"trustly/internal/repositories"
	"trustly/pkg/memcache"
	"trustly/pkg/realtime"
	"trustly/pkg/storage"
)

var errBoom = errors.New("boom")

func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// ------------------- businesses -------------------

type fakeBusinessRepo struct {
	byID  map[uuid.UUID]*db_models.Business
	calls int
}

func newFakeBusinessRepo(businesses ...*db_models.Business) *fakeBusinessRepo {
	r := &fakeBusinessRepo{byID: map[uuid.UUID]*db_models.Business{}}
	for _, b := range businesses {
		newID(&b.ID)
		r.byID[b.ID] = b
	}
	return r
}

func (r *fakeBusinessRepo) Create(_ context.Context, b *db_models.Business) error {
	r.calls++
	for _, existing := range r.byID {
		if existing.UserID == b.UserID {
			return nil
		}
	}
	newID(&b.ID)
	r.byID[b.ID] = b
	return nil
}

func (r *fakeBusinessRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Business, error) {
	r.calls++
	return r.byID[id], nil
}

func (r *fakeBusinessRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*db_models.Business, error) {
	r.calls++
	for _, b := range r.byID {
		if b.UserID == userID {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBusinessRepo) FindOwned(_ context.Context, id, userID uuid.UUID) (*db_models.Business, error) {
	r.calls++
	if b, ok := r.byID[id]; ok && b.UserID == userID {
		return b, nil
	}
	return nil, nil
}

func (r *fakeBusinessRepo) Save(_ context.Context, b *db_models.Business) error {
	r.calls++
	r.byID[b.ID] = b
	return nil
}

// ------------------- campaigns -------------------

type fakeCampaignRepo struct {
	byID      map[uuid.UUID]*db_models.Campaign
	totalSent map[uuid.UUID]int
	calls     int
}

func newFakeCampaignRepo(campaigns ...*db_models.Campaign) *fakeCampaignRepo {
	r := &fakeCampaignRepo{byID: map[uuid.UUID]*db_models.Campaign{}, totalSent: map[uuid.UUID]int{}}
	for _, c := range campaigns {
		newID(&c.ID)
		r.byID[c.ID] = c
	}
	return r
}

func (r *fakeCampaignRepo) Create(_ context.Context, c *db_models.Campaign) error {
	r.calls++
	newID(&c.ID)
	r.byID[c.ID] = c
	return nil
}

func (r *fakeCampaignRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Campaign, error) {
	r.calls++
	return r.byID[id], nil
}

func (r *fakeCampaignRepo) FindBySlug(_ context.Context, slug string) (*db_models.Campaign, error) {
	r.calls++
	for _, c := range r.byID {
		if c.UniqueSlug == slug {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCampaignRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	c, _ := r.FindBySlug(ctx, slug)
	return c != nil, nil
}

func (r *fakeCampaignRepo) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]db_models.Campaign, error) {
	r.calls++
	var out []db_models.Campaign
	for _, c := range r.byID {
		if c.BusinessID == businessID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCampaignRepo) UpdateDetails(_ context.Context, c *db_models.Campaign) error {
	r.calls++
	stored, ok := r.byID[c.ID]
	if !ok {
		return nil
	}
	stored.Name, stored.Description = c.Name, c.Description
	stored.WelcomeVideoURL, stored.VideoAutoplay = c.WelcomeVideoURL, c.VideoAutoplay
	stored.CustomQuestions = c.CustomQuestions
	stored.AllowVideo, stored.AllowPhoto = c.AllowVideo, c.AllowPhoto
	stored.AllowText, stored.AllowRating = c.AllowText, c.AllowRating
	return nil
}

func (r *fakeCampaignRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.calls++
	delete(r.byID, id)
	return nil
}

func (r *fakeCampaignRepo) UpdateFormConfig(_ context.Context, id uuid.UUID, cfg datatypes.JSON) error {
	r.calls++
	r.byID[id].FormConfig = cfg
	return nil
}

func (r *fakeCampaignRepo) SetTotalSent(_ context.Context, id uuid.UUID, total int) error {
	r.calls++
	r.totalSent[id] = total
	if c, ok := r.byID[id]; ok {
		c.TotalSent = total
	}
	return nil
}

func (r *fakeCampaignRepo) IncrementSubmitted(_ context.Context, id uuid.UUID) error {
	r.calls++
	if c, ok := r.byID[id]; ok {
		c.TotalSubmitted++
	}
	return nil
}

// ------------------- recipients -------------------

type fakeRecipientRepo struct {
	byToken map[string]*db_models.CampaignRecipient
	calls   int
}

func newFakeRecipientRepo(recipients ...*db_models.CampaignRecipient) *fakeRecipientRepo {
	r := &fakeRecipientRepo{byToken: map[string]*db_models.CampaignRecipient{}}
	for _, rec := range recipients {
		newID(&rec.ID)
		r.byToken[rec.UniqueToken] = rec
	}
	return r
}

func (r *fakeRecipientRepo) Create(_ context.Context, rec *db_models.CampaignRecipient) error {
	r.calls++
	newID(&rec.ID)
	r.byToken[rec.UniqueToken] = rec
	return nil
}

func (r *fakeRecipientRepo) FindByToken(_ context.Context, token string) (*db_models.CampaignRecipient, error) {
	r.calls++
	return r.byToken[token], nil
}

func (r *fakeRecipientRepo) MarkSent(_ context.Context, token string, at time.Time) error {
	r.calls++
	rec := r.byToken[token]
	rec.Status, rec.SentAt = db_models.RecipientSent, &at
	return nil
}

func (r *fakeRecipientRepo) MarkSubmitted(_ context.Context, token string, at time.Time) (bool, error) {
	r.calls++
	rec, ok := r.byToken[token]
	if !ok || rec.Status == db_models.RecipientSubmitted {
		return false, nil
	}
	rec.Status, rec.SubmittedAt = db_models.RecipientSubmitted, &at
	return true, nil
}

// ------------------- testimonials and media -------------------

type fakeTestimonialRepo struct {
	rows  []*db_models.Testimonial
	media *fakeMediaRepo
	calls int
}

func newFakeTestimonialRepo(media *fakeMediaRepo, rows ...*db_models.Testimonial) *fakeTestimonialRepo {
	r := &fakeTestimonialRepo{media: media}
	for _, t := range rows {
		newID(&t.ID)
		r.rows = append(r.rows, t)
	}
	return r
}

func (r *fakeTestimonialRepo) Create(_ context.Context, t *db_models.Testimonial) error {
	r.calls++
	newID(&t.ID)
	r.rows = append(r.rows, t)
	return nil
}

func (r *fakeTestimonialRepo) find(id uuid.UUID) *db_models.Testimonial {
	for _, t := range r.rows {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (r *fakeTestimonialRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Testimonial, error) {
	r.calls++
	t := r.find(id)
	if t == nil {
		return nil, nil
	}
	if r.media != nil {
		t.Photos, t.Videos = r.media.photosOf(id), r.media.videosOf(id)
	}
	return t, nil
}

func (r *fakeTestimonialRepo) CountByEmailSince(_ context.Context, email string, since time.Time) (int64, error) {
	r.calls++
	var n int64
	for _, t := range r.rows {
		if t.Email != nil && *t.Email == email && !t.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeTestimonialRepo) List(_ context.Context, f repositories.TestimonialFilter) ([]db_models.Testimonial, error) {
	r.calls++
	var out []db_models.Testimonial
	for _, t := range r.rows {
		if t.BusinessID != f.BusinessID {
			continue
		}
		if f.CampaignID != nil && (t.CampaignID == nil || *t.CampaignID != *f.CampaignID) {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if !f.Since.IsZero() && t.CreatedAt.Before(f.Since) {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTestimonialRepo) UpdateStatus(_ context.Context, id uuid.UUID, status db_models.ModerationStatus) error {
	r.calls++
	r.find(id).Status = status
	return nil
}

func (r *fakeTestimonialRepo) SetPhotoURL(_ context.Context, id uuid.UUID, url string) error {
	r.calls++
	if t := r.find(id); t != nil && t.PhotoURL == nil {
		t.PhotoURL = &url
	}
	return nil
}

func (r *fakeTestimonialRepo) ListApprovedForWidget(_ context.Context, businessID uuid.UUID, limit int) ([]db_models.Testimonial, error) {
	r.calls++
	var out []db_models.Testimonial
	for _, t := range r.rows {
		if t.BusinessID == businessID && t.Status == db_models.StatusApproved && len(out) < limit {
			row := *t
			if r.media != nil {
				row.Photos = r.media.photosOf(t.ID)
				row.Videos = r.media.videosOf(t.ID)
			}
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeMediaRepo struct {
	photos       map[uuid.UUID]*db_models.TestimonialPhoto
	videos       map[uuid.UUID]*db_models.TestimonialVideo
	testimonials *fakeTestimonialRepo
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{
		photos: map[uuid.UUID]*db_models.TestimonialPhoto{},
		videos: map[uuid.UUID]*db_models.TestimonialVideo{},
	}
}

func (r *fakeMediaRepo) photosOf(id uuid.UUID) []db_models.TestimonialPhoto {
	var out []db_models.TestimonialPhoto
	for _, p := range r.photos {
		if p.TestimonialID == id {
			out = append(out, *p)
		}
	}
	return out
}

func (r *fakeMediaRepo) videosOf(id uuid.UUID) []db_models.TestimonialVideo {
	var out []db_models.TestimonialVideo
	for _, v := range r.videos {
		if v.TestimonialID == id {
			out = append(out, *v)
		}
	}
	return out
}

func (r *fakeMediaRepo) CreatePhoto(_ context.Context, p *db_models.TestimonialPhoto) error {
	newID(&p.ID)
	r.photos[p.ID] = p
	return nil
}

func (r *fakeMediaRepo) CreateVideo(_ context.Context, v *db_models.TestimonialVideo) error {
	newID(&v.ID)
	r.videos[v.ID] = v
	return nil
}

func (r *fakeMediaRepo) owner(id uuid.UUID) *db_models.Testimonial {
	if r.testimonials == nil {
		return nil
	}
	return r.testimonials.find(id)
}

func (r *fakeMediaRepo) FindPhoto(_ context.Context, id uuid.UUID) (*db_models.TestimonialPhoto, error) {
	p, ok := r.photos[id]
	if !ok {
		return nil, nil
	}
	p.Testimonial = r.owner(p.TestimonialID)
	return p, nil
}

func (r *fakeMediaRepo) FindVideo(_ context.Context, id uuid.UUID) (*db_models.TestimonialVideo, error) {
	v, ok := r.videos[id]
	if !ok {
		return nil, nil
	}
	v.Testimonial = r.owner(v.TestimonialID)
	return v, nil
}

func (r *fakeMediaRepo) ListPhotosByBusiness(_ context.Context, f repositories.MediaFilter) ([]db_models.TestimonialPhoto, error) {
	var out []db_models.TestimonialPhoto
	for _, p := range r.photos {
		if t := r.owner(p.TestimonialID); t != nil && t.BusinessID == f.BusinessID && (f.Status == "" || p.Status == f.Status) {
			row := *p
			row.Testimonial = t
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeMediaRepo) ListVideosByBusiness(_ context.Context, f repositories.MediaFilter) ([]db_models.TestimonialVideo, error) {
	var out []db_models.TestimonialVideo
	for _, v := range r.videos {
		if t := r.owner(v.TestimonialID); t != nil && t.BusinessID == f.BusinessID && (f.Status == "" || v.Status == f.Status) {
			row := *v
			row.Testimonial = t
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeMediaRepo) UpdatePhotoStatus(_ context.Context, id uuid.UUID, status db_models.ModerationStatus, approvedAt *time.Time) error {
	r.photos[id].Status, r.photos[id].ApprovedAt = status, approvedAt
	return nil
}

func (r *fakeMediaRepo) UpdateVideoStatus(_ context.Context, id uuid.UUID, status db_models.ModerationStatus, approvedAt *time.Time) error {
	r.videos[id].Status, r.videos[id].ApprovedAt = status, approvedAt
	return nil
}

func (r *fakeMediaRepo) DeletePhoto(_ context.Context, id uuid.UUID) error {
	delete(r.photos, id)
	return nil
}

func (r *fakeMediaRepo) DeleteVideo(_ context.Context, id uuid.UUID) error {
	delete(r.videos, id)
	return nil
}

// ------------------- object store -------------------

const fakeStoreBase = "https://files.test/"

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	removed []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (s *fakeStore) Upload(_ context.Context, bucket storage.Bucket, key string, r io.Reader, _ string, upsert bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := string(bucket) + "/" + key
	if _, exists := s.objects[path]; exists && !upsert {
		return "", storage.ErrObjectExists
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.objects[path] = data
	return fakeStoreBase + path, nil
}

func (s *fakeStore) Open(_ context.Context, bucket storage.Bucket, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[string(bucket)+"/"+key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStore) Remove(_ context.Context, bucket storage.Bucket, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := string(bucket) + "/" + key
	delete(s.objects, path)
	s.removed = append(s.removed, path)
	return nil
}

func (s *fakeStore) PublicURL(bucket storage.Bucket, key string) string {
	return fakeStoreBase + string(bucket) + "/" + key
}

func (s *fakeStore) KeyFromURL(bucket storage.Bucket, rawURL string) (string, bool) {
	prefix := fakeStoreBase + string(bucket) + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	return strings.TrimPrefix(rawURL, prefix), true
}

func (s *fakeStore) Close() error { return nil }

func (s *fakeStore) count(bucket storage.Bucket) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for path := range s.objects {
		if strings.HasPrefix(path, string(bucket)+"/") {
			n++
		}
	}
	return n
}

// ------------------- broker and mail -------------------

type fakeBroker struct {
	mu        sync.Mutex
	published []realtime.Event
}

func (b *fakeBroker) Publish(_ context.Context, ev realtime.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, ev)
	return nil
}

func (b *fakeBroker) Subscribe(uuid.UUID) (<-chan realtime.Event, func()) {
	ch := make(chan realtime.Event)
	return ch, func() {}
}

func (b *fakeBroker) Close() error { return nil }

type fakeMailer struct {
	failFor       map[string]bool
	invitations   []InvitationEmail
	notifications []TestimonialNotificationEmail
	tests         []string
}

func (m *fakeMailer) SendCampaignInvitation(_ context.Context, inv InvitationEmail) error {
	if m.failFor[inv.To] {
		return errBoom
	}
	m.invitations = append(m.invitations, inv)
	return nil
}

func (m *fakeMailer) SendNewTestimonialNotification(_ context.Context, n TestimonialNotificationEmail) error {
	if m.failFor[n.To] {
		return errBoom
	}
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *fakeMailer) SendTestEmail(_ context.Context, to, _ string) error {
	if m.failFor[to] {
		return errBoom
	}
	m.tests = append(m.tests, to)
	return nil
}

// ------------------- helpers -------------------

func newTestFormCache() *FormCache {
	return NewFormCache(memcache.NewMemoryStore(), time.Minute, zap.NewNop())
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func upload(name, contentType, body string) request_models.UploadedFile {
	return request_models.UploadedFile{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(body)),
		Open:        func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader(body)), nil },
	}
}

func brokenUpload(name, contentType string) request_models.UploadedFile {
	return request_models.UploadedFile{
		Filename:    name,
		ContentType: contentType,
		Open:        func() (io.ReadCloser, error) { return nil, errBoom },
	}
}

func strPtr(s string) *string { return &s }
