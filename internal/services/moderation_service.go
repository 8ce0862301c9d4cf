package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"regexp"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"trustly/internal/models/db_models"
	"trustly/internal/models/request_models"
	"trustly/internal/models/response_models"
	"trustly/internal/repositories"
	"trustly/pkg/realtime"
	"trustly/pkg/storage"
	"trustly/pkg/utils"
)

// MediaDownload is an opened stored object. Callers close Body.
type MediaDownload struct {
	Filename    string
	ContentType string
	Body        io.ReadCloser
}

type ModerationServiceInterface interface {
	ListTestimonials(ctx context.Context, userID uuid.UUID, query request_models.ListTestimonialsQuery) ([]response_models.TestimonialResponse, error)
	UpdateTestimonialStatus(ctx context.Context, userID, testimonialID uuid.UUID, status string) (*response_models.TestimonialResponse, error)
	ListTestimonialMedia(ctx context.Context, userID, testimonialID uuid.UUID) (*response_models.TestimonialMediaResponse, error)
	AddTestimonialMedia(ctx context.Context, userID, testimonialID uuid.UUID, photos, videos []request_models.UploadedFile) (*response_models.TestimonialMediaResponse, error)

	ListMedia(ctx context.Context, userID uuid.UUID, query request_models.ListMediaQuery) ([]response_models.MediaResponse, error)
	UpdateMediaStatus(ctx context.Context, userID uuid.UUID, kind repositories.MediaKind, mediaID uuid.UUID, status string) (*response_models.MediaResponse, error)
	DeleteMedia(ctx context.Context, userID uuid.UUID, kind repositories.MediaKind, mediaID uuid.UUID) error
	OpenMedia(ctx context.Context, userID uuid.UUID, kind repositories.MediaKind, mediaID uuid.UUID) (*MediaDownload, error)
}

type ModerationService struct {
	businessRepo    repositories.BusinessRepository
	testimonialRepo repositories.TestimonialRepository
	mediaRepo       repositories.MediaRepository
	store           storage.ObjectStore
	broker          realtime.Broker
	now             utils.Clock
	logger          *zap.Logger
}

func NewModerationService(
	businessRepo repositories.BusinessRepository,
	testimonialRepo repositories.TestimonialRepository,
	mediaRepo repositories.MediaRepository,
	store storage.ObjectStore,
	broker realtime.Broker,
	logger *zap.Logger,
) ModerationServiceInterface {
	return &ModerationService{
		businessRepo:    businessRepo,
		testimonialRepo: testimonialRepo,
		mediaRepo:       mediaRepo,
		store:           store,
		broker:          broker,
		now:             utils.SystemClock,
		logger:          logger.Named("moderation"),
	}
}

func parseStatus(s string) (db_models.ModerationStatus, error) {
	status, err := db_models.ParseModerationStatus(s)
	if err != nil {
		return "", utils.NewValidationError("Status must be one of pending, approved or rejected")
	}
	return status, nil
}

// ------------------- Testimonials -------------------

func (s *ModerationService) ListTestimonials(ctx context.Context, userID uuid.UUID, query request_models.ListTestimonialsQuery) ([]response_models.TestimonialResponse, error) {
	filter := repositories.TestimonialFilter{}
	if query.Status != "" {
		status, err := parseStatus(query.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}
	if query.CampaignID != "" {
		id, err := uuid.Parse(query.CampaignID)
		if err != nil {
			return nil, utils.NewValidationError("campaign_id must be a UUID")
		}
		filter.CampaignID = &id
	}

	business, err := callerBusiness(ctx, s.businessRepo, userID)
	if err != nil {
		return nil, err
	}
	filter.BusinessID = business.ID

	testimonials, err := s.testimonialRepo.List(ctx, filter)
	if err != nil {
		return nil, dbError(err)
	}
	return response_models.ToTestimonialResponses(testimonials), nil
}

func (s *ModerationService) UpdateTestimonialStatus(ctx context.Context, userID, testimonialID uuid.UUID, statusText string) (*response_models.TestimonialResponse, error) {
	status, err := parseStatus(statusText)
	if err != nil {
		return nil, err
	}

	business, err := callerBusiness(ctx, s.businessRepo, userID)
	if err != nil {
		return nil, err
	}
	testimonial, err := ownedTestimonial(ctx, s.testimonialRepo, business, testimonialID)
	if err != nil {
		return nil, err
	}

	if err := s.testimonialRepo.UpdateStatus(ctx, testimonial.ID, status); err != nil {
		return nil, dbError(err)
	}
	testimonial.Status = status

	ev := realtime.Event{
		Type:          realtime.EventTestimonialStatusChanged,
		BusinessID:    business.ID,
		TestimonialID: testimonial.ID,
		Name:          testimonial.Name,
		Rating:        testimonial.Rating,
		Status:        string(status),
		OccurredAt:    s.now(),
	}
	if err := s.broker.Publish(ctx, ev); err != nil {
		s.logger.Warn("publish status change failed", zap.String("testimonial_id", testimonial.ID.String()), zap.Error(err))
	}

	resp := response_models.ToTestimonialResponse(testimonial)
	return &resp, nil
}

func (s *ModerationService) ListTestimonialMedia(ctx context.Context, userID, testimonialID uuid.UUID) (*response_models.TestimonialMediaResponse, error) {
	business, err := callerBusiness(ctx, s.businessRepo, userID)
	if err != nil {
		return nil, err
	}
	testimonial, err := ownedTestimonial(ctx, s.testimonialRepo, business, testimonialID)
	if err != nil {
		return nil, err
	}
	return mediaOf(testimonial), nil
}

func (s *ModerationService) AddTestimonialMedia(ctx context.Context, userID, testimonialID uuid.UUID, photos, videos []request_models.UploadedFile) (*response_models.TestimonialMediaResponse, error) {
	if len(photos)+len(videos) == 0 {
		return nil, utils.NewValidationError("Please choose at least one file")
	}

	business, err := callerBusiness(ctx, s.businessRepo, userID)
	if err != nil {
		return nil, err
	}
	testimonial, err := ownedTestimonial(ctx, s.testimonialRepo, business, testimonialID)
	if err != nil {
		return nil, err
	}

	uploader := mediaUploader{store: s.store, media: s.mediaRepo, testimonials: s.testimonialRepo}
	var failures []response_models.MediaFailure
	for _, photo := range photos {
		if err := uploader.addPhoto(ctx, testimonial, photo, true); err != nil {
			s.logger.Warn("photo upload failed", zap.String("testimonial_id", testimonial.ID.String()), zap.Error(err))
			failures = append(failures, response_models.MediaFailure{Kind: "photo", Filename: photo.Filename, Reason: mediaFailureReason(err)})
		}
	}
	for _, video := range videos {
		if err := uploader.addVideo(ctx, testimonial, video); err != nil {
			s.logger.Warn("video upload failed", zap.String("testimonial_id", testimonial.ID.String()), zap.Error(err))
			failures = append(failures, response_models.MediaFailure{Kind: "video", Filename: video.Filename, Reason: mediaFailureReason(err)})
		}
	}

	reloaded, err := s.testimonialRepo.FindByID(ctx, testimonial.ID)
	if err != nil {
		return nil, dbError(err)
	}
	if reloaded == nil {
		return nil, utils.ErrTestimonialNotFound
	}
	resp := mediaOf(reloaded)
	resp.MediaFailures = failures
	return resp, nil
}

func mediaOf(t *db_models.Testimonial) *response_models.TestimonialMediaResponse {
	resp := &response_models.TestimonialMediaResponse{
		Photos: make([]response_models.MediaResponse, 0, len(t.Photos)),
		Videos: make([]response_models.MediaResponse, 0, len(t.Videos)),
	}
	for i := range t.Photos {
		resp.Photos = append(resp.Photos, response_models.PhotoToMediaResponse(&t.Photos[i]))
	}
	for i := range t.Videos {
		resp.Videos = append(resp.Videos, response_models.VideoToMediaResponse(&t.Videos[i]))
	}
	return resp
}

// ------------------- Media manager -------------------

func (s *ModerationService) ListMedia(ctx context.Context, userID uuid.UUID, query request_models.ListMediaQuery) ([]response_models.MediaResponse, error) {
	filter := repositories.MediaFilter{}
	if query.Status != "" {
		status, err := parseStatus(query.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}

	business, err := callerBusiness(ctx, s.businessRepo, userID)
	if err != nil {
		return nil, err
	}
	filter.BusinessID = business.ID

	out := []response_models.MediaResponse{}
	if query.Kind == "" || query.Kind == string(repositories.MediaPhoto) {
		photos, err := s.mediaRepo.ListPhotosByBusiness(ctx, filter)
		if err != nil {
			return nil, dbError(err)
		}
		for i := range photos {
			out = append(out, response_models.PhotoToMediaResponse(&photos[i]))
		}
	}
	if query.Kind == "" || query.Kind == string(repositories.MediaVideo) {
		videos, err := s.mediaRepo.ListVideosByBusiness(ctx, filter)
		if err != nil {
			return nil, dbError(err)
		}
		for i := range videos {
			out = append(out, response_models.VideoToMediaResponse(&videos[i]))
		}
	}
	return out, nil
}

// mediaItem is a photo or video row with its owning testimonial loaded.
type mediaItem struct {
	kind        repositories.MediaKind
	id          uuid.UUID
	url         string
	testimonial *db_models.Testimonial
	photo       *db_models.TestimonialPhoto
	video       *db_models.TestimonialVideo
}

func (m *mediaItem) bucket() storage.Bucket {
	if m.kind == repositories.MediaVideo {
		return storage.BucketTestimonialVideos
	}
	return storage.BucketTestimonialPhotos
}

func (m *mediaItem) response() response_models.MediaResponse {
	if m.kind == repositories.MediaVideo {
		return response_models.VideoToMediaResponse(m.video)
	}
	return response_models.PhotoToMediaResponse(m.photo)
}

// loadMedia resolves the media row and checks ownership through testimonial -> business -> user.
func (s *ModerationService) loadMedia(ctx context.Context, userID uuid.UUID, kind repositories.MediaKind, mediaID uuid.UUID) (*mediaItem, error) {
	business, err := callerBusiness(ctx, s.businessRepo, userID)
	if err != nil {
		return nil, err
	}

	item := &mediaItem{kind: kind, id: mediaID}
	switch kind {
	case repositories.MediaPhoto:
		photo, err := s.mediaRepo.FindPhoto(ctx, mediaID)
		if err != nil {
			return nil, dbError(err)
		}
		if photo == nil {
			return nil, utils.ErrMediaNotFound
		}
		item.photo, item.url, item.testimonial = photo, photo.PhotoURL, photo.Testimonial
	case repositories.MediaVideo:
		video, err := s.mediaRepo.FindVideo(ctx, mediaID)
		if err != nil {
			return nil, dbError(err)
		}
		if video == nil {
			return nil, utils.ErrMediaNotFound
		}
		item.video, item.url, item.testimonial = video, video.VideoURL, video.Testimonial
	default:
		return nil, utils.ErrMediaNotFound
	}

	if item.testimonial == nil {
		return nil, utils.ErrMediaNotFound
	}
	if item.testimonial.BusinessID != business.ID {
		return nil, utils.ErrForbidden
	}
	return item, nil
}

func (s *ModerationService) UpdateMediaStatus(ctx context.Context, userID uuid.UUID, kind repositories.MediaKind, mediaID uuid.UUID, statusText string) (*response_models.MediaResponse, error) {
	status, err := parseStatus(statusText)
	if err != nil {
		return nil, err
	}

	item, err := s.loadMedia(ctx, userID, kind, mediaID)
	if err != nil {
		return nil, err
	}

	approvedAt := db_models.ApprovedAtFor(status, s.now())
	if kind == repositories.MediaVideo {
		err = s.mediaRepo.UpdateVideoStatus(ctx, item.id, status, approvedAt)
		item.video.Status, item.video.ApprovedAt = status, approvedAt
	} else {
		err = s.mediaRepo.UpdatePhotoStatus(ctx, item.id, status, approvedAt)
		item.photo.Status, item.photo.ApprovedAt = status, approvedAt
	}
	if err != nil {
		return nil, dbError(err)
	}

	resp := item.response()
	return &resp, nil
}

func (s *ModerationService) DeleteMedia(ctx context.Context, userID uuid.UUID, kind repositories.MediaKind, mediaID uuid.UUID) error {
	item, err := s.loadMedia(ctx, userID, kind, mediaID)
	if err != nil {
		return err
	}

	if key, ok := s.store.KeyFromURL(item.bucket(), item.url); ok {
		if err := s.store.Remove(ctx, item.bucket(), key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			return storageError(err)
		}
	} else {
		s.logger.Warn("media url not owned by the store, deleting row only", zap.String("url", item.url))
	}

	if kind == repositories.MediaVideo {
		err = s.mediaRepo.DeleteVideo(ctx, item.id)
	} else {
		err = s.mediaRepo.DeletePhoto(ctx, item.id)
	}
	if err != nil {
		return dbError(err)
	}

	s.logger.Info("media deleted", zap.String("kind", string(kind)), zap.String("media_id", item.id.String()))
	return nil
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func (s *ModerationService) OpenMedia(ctx context.Context, userID uuid.UUID, kind repositories.MediaKind, mediaID uuid.UUID) (*MediaDownload, error) {
	item, err := s.loadMedia(ctx, userID, kind, mediaID)
	if err != nil {
		return nil, err
	}

	key, ok := s.store.KeyFromURL(item.bucket(), item.url)
	if !ok {
		return nil, utils.ErrMediaNotFound
	}
	body, err := s.store.Open(ctx, item.bucket(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, utils.ErrMediaNotFound
		}
		return nil, storageError(err)
	}

	ext := storage.Extension(path.Base(key))
	contentType := mime.TypeByExtension("." + ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	customer := unsafeFilename.ReplaceAllString(item.testimonial.Name, "_")

	return &MediaDownload{
		Filename:    fmt.Sprintf("%s-%s-%s.%s", customer, kind, item.id, ext),
		ContentType: contentType,
		Body:        body,
	}, nil
}
