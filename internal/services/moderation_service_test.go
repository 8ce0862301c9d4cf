package services

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"trustly/internal/models/db_models"
	"trustly/internal/models/request_models"
	"trustly/internal/repositories"
	"trustly/pkg/realtime"
	"trustly/pkg/storage"
	"trustly/pkg/utils"
)

type moderationFixture struct {
	svc          *ModerationService
	business     *db_models.Business
	testimonial  *db_models.Testimonial
	testimonials *fakeTestimonialRepo
	media        *fakeMediaRepo
	store        *fakeStore
	broker       *fakeBroker
	now          time.Time
}

func newModerationFixture() *moderationFixture {
	business := db_models.NewBusiness(uuid.New(), "Acme Coffee")
	business.ID = uuid.New()
	testimonial := &db_models.Testimonial{
		BusinessID: business.ID,
		Name:       "Jane Customer",
		Rating:     4,
		Status:     db_models.StatusPending,
	}

	f := &moderationFixture{
		business:    business,
		testimonial: testimonial,
		media:       newFakeMediaRepo(),
		store:       newFakeStore(),
		broker:      &fakeBroker{},
		now:         time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.testimonials = newFakeTestimonialRepo(f.media, testimonial)
	f.media.testimonials = f.testimonials
	f.svc = NewModerationService(newFakeBusinessRepo(business), f.testimonials, f.media, f.store, f.broker, zap.NewNop()).(*ModerationService)
	f.svc.now = fixedClock(f.now)
	return f
}

func (f *moderationFixture) addPhoto(t *testing.T) *db_models.TestimonialPhoto {
	t.Helper()
	url, err := f.store.Upload(context.Background(), storage.BucketTestimonialPhotos, f.testimonial.ID.String()+"/"+uuid.NewString()+".jpg", strings.NewReader("jpeg"), "image/jpeg", false)
	require.NoError(t, err)
	photo := &db_models.TestimonialPhoto{TestimonialID: f.testimonial.ID, PhotoURL: url, Status: db_models.StatusPending}
	require.NoError(t, f.media.CreatePhoto(context.Background(), photo))
	return photo
}

func TestUpdateTestimonialStatusPublishesEvent(t *testing.T) {
	f := newModerationFixture()

	resp, err := f.svc.UpdateTestimonialStatus(context.Background(), f.business.UserID, f.testimonial.ID, "approved")
	require.NoError(t, err)
	assert.Equal(t, "approved", string(resp.Status))
	assert.Equal(t, db_models.StatusApproved, f.testimonial.Status)

	require.Len(t, f.broker.published, 1)
	ev := f.broker.published[0]
	assert.Equal(t, realtime.EventTestimonialStatusChanged, ev.Type)
	assert.Equal(t, "approved", ev.Status)
	assert.Equal(t, "Jane Customer", ev.Name)

	// any transition is allowed, including back to pending
	_, err = f.svc.UpdateTestimonialStatus(context.Background(), f.business.UserID, f.testimonial.ID, "pending")
	require.NoError(t, err)
	assert.Equal(t, db_models.StatusPending, f.testimonial.Status)
}

func TestUpdateTestimonialStatusRejectsUnknownStatus(t *testing.T) {
	f := newModerationFixture()
	calls := f.testimonials.calls

	_, err := f.svc.UpdateTestimonialStatus(context.Background(), f.business.UserID, f.testimonial.ID, "published")
	_, ok := utils.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, calls, f.testimonials.calls)
	assert.Empty(t, f.broker.published)
}

func TestUpdateTestimonialStatusChecksOwnership(t *testing.T) {
	f := newModerationFixture()
	other := db_models.NewBusiness(uuid.New(), "Rival Roasters")
	f.svc.businessRepo = newFakeBusinessRepo(f.business, other)

	_, err := f.svc.UpdateTestimonialStatus(context.Background(), other.UserID, f.testimonial.ID, "approved")
	assert.ErrorIs(t, err, utils.ErrForbidden)
	assert.Equal(t, db_models.StatusPending, f.testimonial.Status)
}

func TestUpdateMediaStatusSetsAndClearsApprovedAt(t *testing.T) {
	f := newModerationFixture()
	photo := f.addPhoto(t)

	resp, err := f.svc.UpdateMediaStatus(context.Background(), f.business.UserID, repositories.MediaPhoto, photo.ID, "approved")
	require.NoError(t, err)
	require.NotNil(t, f.media.photos[photo.ID].ApprovedAt)
	assert.Equal(t, f.now, *f.media.photos[photo.ID].ApprovedAt)
	assert.NotNil(t, resp.ApprovedAt)

	_, err = f.svc.UpdateMediaStatus(context.Background(), f.business.UserID, repositories.MediaPhoto, photo.ID, "rejected")
	require.NoError(t, err)
	assert.Equal(t, db_models.StatusRejected, f.media.photos[photo.ID].Status)
	assert.Nil(t, f.media.photos[photo.ID].ApprovedAt)
}

func TestDeleteMediaRemovesObjectThenRow(t *testing.T) {
	f := newModerationFixture()
	photo := f.addPhoto(t)

	key, ok := f.store.KeyFromURL(storage.BucketTestimonialPhotos, photo.PhotoURL)
	require.True(t, ok)

	require.NoError(t, f.svc.DeleteMedia(context.Background(), f.business.UserID, repositories.MediaPhoto, photo.ID))
	assert.Empty(t, f.media.photos)
	assert.Equal(t, []string{"testimonial-photos/" + key}, f.store.removed)
	assert.Zero(t, f.store.count(storage.BucketTestimonialPhotos))
}

func TestDeleteMediaOfAnotherBusinessIsForbidden(t *testing.T) {
	f := newModerationFixture()
	photo := f.addPhoto(t)
	other := db_models.NewBusiness(uuid.New(), "Rival Roasters")
	f.svc.businessRepo = newFakeBusinessRepo(f.business, other)

	err := f.svc.DeleteMedia(context.Background(), other.UserID, repositories.MediaPhoto, photo.ID)
	assert.ErrorIs(t, err, utils.ErrForbidden)
	assert.Len(t, f.media.photos, 1)
	assert.Empty(t, f.store.removed)
}

func TestOpenMediaNamesDownloadAfterCustomer(t *testing.T) {
	f := newModerationFixture()
	photo := f.addPhoto(t)

	download, err := f.svc.OpenMedia(context.Background(), f.business.UserID, repositories.MediaPhoto, photo.ID)
	require.NoError(t, err)
	defer download.Body.Close()

	assert.Equal(t, "Jane_Customer-photo-"+photo.ID.String()+".jpg", download.Filename)
	assert.Equal(t, "image/jpeg", download.ContentType)
	body, err := io.ReadAll(download.Body)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(body))
}

func TestAddTestimonialMediaCollectsFailures(t *testing.T) {
	f := newModerationFixture()

	resp, err := f.svc.AddTestimonialMedia(context.Background(), f.business.UserID, f.testimonial.ID,
		[]request_models.UploadedFile{upload("a.png", "image/png", "png"), upload("notes.txt", "text/plain", "hi")},
		[]request_models.UploadedFile{upload("clip.mov", "video/quicktime", "mov")})
	require.NoError(t, err)

	assert.Len(t, resp.Photos, 1)
	assert.Len(t, resp.Videos, 1)
	require.Len(t, resp.MediaFailures, 1)
	assert.Equal(t, "notes.txt", resp.MediaFailures[0].Filename)
	assert.Equal(t, "Only image files can be uploaded as photos", resp.MediaFailures[0].Reason)
	assert.NotNil(t, f.testimonial.PhotoURL)
}

func TestListMediaFiltersByKindAndStatus(t *testing.T) {
	f := newModerationFixture()
	approved := f.addPhoto(t)
	approved.Status = db_models.StatusApproved
	f.addPhoto(t)
	require.NoError(t, f.media.CreateVideo(context.Background(), &db_models.TestimonialVideo{
		TestimonialID: f.testimonial.ID, VideoURL: "https://files.test/testimonial-videos/x.mp4", Status: db_models.StatusApproved,
	}))

	all, err := f.svc.ListMedia(context.Background(), f.business.UserID, request_models.ListMediaQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	photos, err := f.svc.ListMedia(context.Background(), f.business.UserID, request_models.ListMediaQuery{Kind: "photo", Status: "approved"})
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, approved.ID, photos[0].ID)
	assert.Equal(t, "Jane Customer", photos[0].TestimonialName)
}
