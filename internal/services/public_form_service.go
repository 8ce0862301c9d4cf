package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"trustly/internal/models/db_models"
	"trustly/internal/models/request_models"
	"trustly/internal/models/response_models"
	"trustly/internal/repositories"
	"trustly/pkg/metrics"
	"trustly/pkg/realtime"
	"trustly/pkg/storage"
	"trustly/pkg/utils"
)

const (
	DuplicateWindow   = 5 * time.Minute
	defaultWidgetSize = 20
)

// FormTarget identifies a public form: a campaign by slug, or the business-level legacy form.
type FormTarget struct {
	Slug       string
	BusinessID uuid.UUID
}

type PublicFormServiceInterface interface {
	ResolveForm(ctx context.Context, target FormTarget, token string) (*response_models.PublicFormResponse, error)
	Submit(ctx context.Context, target FormTarget, input request_models.SubmissionInput) (*response_models.SubmissionResponse, error)
	WidgetFeed(ctx context.Context, businessID uuid.UUID, limit int) (*response_models.WidgetFeedResponse, error)
}

type PublicFormService struct {
	businessRepo    repositories.BusinessRepository
	campaignRepo    repositories.CampaignRepository
	recipientRepo   repositories.RecipientRepository
	testimonialRepo repositories.TestimonialRepository
	mediaRepo       repositories.MediaRepository
	store           storage.ObjectStore
	broker          realtime.Broker
	forms           *FormCache
	now             utils.Clock
	logger          *zap.Logger
}

func NewPublicFormService(
	businessRepo repositories.BusinessRepository,
	campaignRepo repositories.CampaignRepository,
	recipientRepo repositories.RecipientRepository,
	testimonialRepo repositories.TestimonialRepository,
	mediaRepo repositories.MediaRepository,
	store storage.ObjectStore,
	broker realtime.Broker,
	forms *FormCache,
	logger *zap.Logger,
) PublicFormServiceInterface {
	return &PublicFormService{
		businessRepo:    businessRepo,
		campaignRepo:    campaignRepo,
		recipientRepo:   recipientRepo,
		testimonialRepo: testimonialRepo,
		mediaRepo:       mediaRepo,
		store:           store,
		broker:          broker,
		forms:           forms,
		now:             utils.SystemClock,
		logger:          logger.Named("public_form"),
	}
}

// ------------------- Loading -------------------

func (s *PublicFormService) ResolveForm(ctx context.Context, target FormTarget, token string) (*response_models.PublicFormResponse, error) {
	form, err := s.resolve(ctx, target)
	if err != nil {
		return nil, err
	}

	if token != "" {
		recipient, err := s.recipientRepo.FindByToken(ctx, token)
		if err != nil {
			s.logger.Warn("recipient lookup failed", zap.Error(err))
		} else if recipient != nil {
			form.Prefill = &response_models.Prefill{Name: recipient.CustomerName, Email: recipient.CustomerEmail}
		}
	}
	return form, nil
}

func (s *PublicFormService) resolve(ctx context.Context, target FormTarget) (*response_models.PublicFormResponse, error) {
	var key string
	if target.Slug != "" {
		key = slugFormKey(target.Slug)
	} else if target.BusinessID != uuid.Nil {
		key = businessFormKey(target.BusinessID)
	} else {
		return nil, utils.ErrFormNotFound
	}

	var cached response_models.PublicFormResponse
	if s.forms.get(ctx, key, &cached) {
		return &cached, nil
	}

	var (
		campaign *db_models.Campaign
		err      error
	)
	businessID := target.BusinessID
	if target.Slug != "" {
		campaign, err = s.campaignRepo.FindBySlug(ctx, target.Slug)
		if err != nil {
			return nil, dbError(err)
		}
		if campaign == nil {
			return nil, utils.ErrFormNotFound
		}
		businessID = campaign.BusinessID
	}

	business, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		return nil, dbError(err)
	}
	if business == nil {
		return nil, utils.ErrFormNotFound
	}

	form := &response_models.PublicFormResponse{
		Branding:   publicBranding(business),
		FormConfig: db_models.DefaultFormConfig(),
	}
	if campaign != nil {
		form.Campaign = publicCampaign(campaign)
		if form.FormConfig, err = db_models.DecodeFormConfig(campaign.FormConfig); err != nil {
			s.logger.Warn("stored form config unreadable, serving defaults", zap.String("campaign_id", campaign.ID.String()), zap.Error(err))
		}
	}

	s.forms.put(ctx, key, form)
	return form, nil
}

func publicBranding(b *db_models.Business) response_models.PublicBranding {
	return response_models.PublicBranding{
		BusinessID:     b.ID,
		BusinessName:   b.BusinessName,
		LogoURL:        b.DisplayLogoURL(),
		PrimaryColor:   b.PrimaryColor(),
		SecondaryColor: b.CustomColors.Data().Secondary,
		ShowBranding:   b.ShowBranding,
	}
}

func publicCampaign(c *db_models.Campaign) *response_models.PublicCampaign {
	questions := []db_models.CustomQuestion(c.CustomQuestions)
	if questions == nil {
		questions = []db_models.CustomQuestion{}
	}
	return &response_models.PublicCampaign{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		WelcomeVideoURL: c.WelcomeVideoURL,
		VideoAutoplay:   c.VideoAutoplay,
		CustomQuestions: questions,
		AllowVideo:      c.AllowVideo,
		AllowPhoto:      c.AllowPhoto,
		AllowText:       c.AllowText,
		AllowRating:     c.AllowRating,
		UniqueSlug:      c.UniqueSlug,
	}
}

// ------------------- Submitting -------------------

func (s *PublicFormService) Submit(ctx context.Context, target FormTarget, input request_models.SubmissionInput) (*response_models.SubmissionResponse, error) {
	input = sanitizeSubmission(input)

	if err := validateSubmission(input); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	form, err := s.resolve(ctx, target)
	if err != nil {
		return nil, err
	}

	answers, err := checkAgainstForm(form, &input)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	now := s.now()
	if input.Email != "" {
		recent, err := s.testimonialRepo.CountByEmailSince(ctx, input.Email, now.Add(-DuplicateWindow))
		if err != nil {
			return nil, dbError(err)
		}
		if recent > 0 {
			metrics.SubmissionsTotal.WithLabelValues("duplicate").Inc()
			return nil, utils.ErrDuplicateSubmission
		}
	}

	testimonial := &db_models.Testimonial{
		BusinessID:    form.Branding.BusinessID,
		Name:          input.Name,
		Rating:        input.Rating,
		Text:          input.Text,
		Status:        db_models.StatusPending,
		CustomAnswers: datatypes.NewJSONType(answers),
	}
	testimonial.CreatedAt = now
	if form.Campaign != nil {
		campaignID := form.Campaign.ID
		testimonial.CampaignID = &campaignID
	}
	if input.Email != "" {
		email := input.Email
		testimonial.Email = &email
	}

	if err := s.testimonialRepo.Create(ctx, testimonial); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		return nil, dbError(err)
	}
	metrics.SubmissionsTotal.WithLabelValues("accepted").Inc()

	log := s.logger.With(zap.String("testimonial_id", testimonial.ID.String()), zap.String("business_id", testimonial.BusinessID.String()))

	result := &response_models.SubmissionResponse{
		TestimonialID:  testimonial.ID,
		MediaFailures:  []response_models.MediaFailure{},
		SuccessTitle:   form.FormConfig.Customization.SuccessTitle,
		SuccessMessage: form.FormConfig.Customization.SuccessMessage,
	}
	result.PhotosStored, result.VideosStored = s.attachMedia(ctx, log, testimonial, input.Photos, input.Videos, &result.MediaFailures)

	if input.Token != "" {
		s.markRecipientSubmitted(ctx, log, testimonial.BusinessID, input.Token, now)
	}

	s.publish(ctx, log, realtime.Event{
		Type:          realtime.EventTestimonialCreated,
		BusinessID:    testimonial.BusinessID,
		TestimonialID: testimonial.ID,
		Name:          testimonial.Name,
		Rating:        testimonial.Rating,
		Status:        string(testimonial.Status),
		OccurredAt:    now,
	})

	return result, nil
}

// attachMedia stores each file and records a row for it. A failing item is reported and the rest
// continue.
func (s *PublicFormService) attachMedia(
	ctx context.Context,
	log *zap.Logger,
	testimonial *db_models.Testimonial,
	photos, videos []request_models.UploadedFile,
	failures *[]response_models.MediaFailure,
) (photosStored, videosStored int) {
	uploader := mediaUploader{store: s.store, media: s.mediaRepo, testimonials: s.testimonialRepo}

	for _, photo := range photos {
		if err := uploader.addPhoto(ctx, testimonial, photo, photosStored == 0); err != nil {
			log.Warn("photo upload failed", zap.String("filename", photo.Filename), zap.Error(err))
			*failures = append(*failures, response_models.MediaFailure{Kind: "photo", Filename: photo.Filename, Reason: mediaFailureReason(err)})
			metrics.MediaUploadsTotal.WithLabelValues("photo", "failed").Inc()
			continue
		}
		metrics.MediaUploadsTotal.WithLabelValues("photo", "stored").Inc()
		photosStored++
	}

	for _, video := range videos {
		if err := uploader.addVideo(ctx, testimonial, video); err != nil {
			log.Warn("video upload failed", zap.String("filename", video.Filename), zap.Error(err))
			*failures = append(*failures, response_models.MediaFailure{Kind: "video", Filename: video.Filename, Reason: mediaFailureReason(err)})
			metrics.MediaUploadsTotal.WithLabelValues("video", "failed").Inc()
			continue
		}
		metrics.MediaUploadsTotal.WithLabelValues("video", "stored").Inc()
		videosStored++
	}
	return photosStored, videosStored
}

// markRecipientSubmitted counts a submission against the recipient's campaign once, and only when
// that campaign belongs to the business the testimonial was submitted to.
func (s *PublicFormService) markRecipientSubmitted(ctx context.Context, log *zap.Logger, businessID uuid.UUID, token string, at time.Time) {
	recipient, err := s.recipientRepo.FindByToken(ctx, token)
	if err != nil {
		log.Warn("recipient lookup failed", zap.Error(err))
		return
	}
	if recipient == nil || recipient.Status == db_models.RecipientSubmitted {
		return
	}

	campaign, err := s.campaignRepo.FindByID(ctx, recipient.CampaignID)
	if err != nil {
		log.Warn("recipient campaign lookup failed", zap.String("campaign_id", recipient.CampaignID.String()), zap.Error(err))
		return
	}
	if campaign == nil || campaign.BusinessID != businessID {
		log.Warn("recipient token belongs to another business", zap.String("recipient_id", recipient.ID.String()))
		return
	}

	marked, err := s.recipientRepo.MarkSubmitted(ctx, token, at)
	if err != nil {
		log.Warn("mark recipient submitted failed", zap.String("recipient_id", recipient.ID.String()), zap.Error(err))
		return
	}
	if !marked {
		return
	}
	if err := s.campaignRepo.IncrementSubmitted(ctx, recipient.CampaignID); err != nil {
		log.Warn("increment total_submitted failed", zap.String("campaign_id", recipient.CampaignID.String()), zap.Error(err))
	}
}

func (s *PublicFormService) publish(ctx context.Context, log *zap.Logger, ev realtime.Event) {
	if err := s.broker.Publish(ctx, ev); err != nil {
		log.Warn("publish event failed", zap.String("type", string(ev.Type)), zap.Error(err))
	}
}

func sanitizeSubmission(in request_models.SubmissionInput) request_models.SubmissionInput {
	in.Name = utils.SanitizeText(in.Name)
	in.Email = utils.SanitizeText(in.Email)
	in.Text = utils.SanitizeText(in.Text)
	in.Token = strings.TrimSpace(in.Token)
	if in.Answers != nil {
		in.Answers = utils.SanitizeMap(in.Answers)
	}
	return in
}

// validateSubmission checks the fields that need no stored state.
func validateSubmission(in request_models.SubmissionInput) error {
	if in.Rating == 0 {
		return utils.NewValidationError("Please select a rating")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return utils.NewValidationError("Rating must be between 1 and 5")
	}

	nameLen := utf8.RuneCountInString(in.Name)
	if nameLen < 2 {
		return utils.NewValidationError("Please enter your name (at least 2 characters)")
	}
	if nameLen > 100 {
		return utils.NewValidationError("Name must be less than 100 characters")
	}

	if in.Email != "" {
		if !strings.Contains(in.Email, "@") {
			return utils.NewValidationError("Please enter a valid email address")
		}
		if !utils.ValidateVar(in.Email, "max=255") {
			return utils.NewValidationError("Email must be less than 255 characters")
		}
	}

	if utf8.RuneCountInString(in.Text) > 2000 {
		return utils.NewValidationError("Text must be less than 2000 characters")
	}
	for _, answer := range in.Answers {
		if utf8.RuneCountInString(answer) > 1000 {
			return utils.NewValidationError("Answer must be less than 1000 characters")
		}
	}
	return nil
}

// checkAgainstForm applies the rules of the resolved form and returns the answers to store, keyed
// "q<index>" for the campaign's questions only.
func checkAgainstForm(form *response_models.PublicFormResponse, in *request_models.SubmissionInput) (map[string]string, error) {
	fields := form.FormConfig.Fields
	answers := map[string]string{}

	if fields.Email.Enabled && fields.Email.Required && in.Email == "" {
		return nil, utils.NewValidationError("Please enter your email address")
	}

	textAllowed := form.Campaign == nil || form.Campaign.AllowText
	if !textAllowed {
		in.Text = ""
	} else if fields.Text.Enabled && fields.Text.Required && in.Text == "" {
		return nil, utils.NewValidationError("Please share your experience")
	}

	if form.Campaign == nil {
		return answers, nil
	}

	if len(in.Photos) > 0 && !form.Campaign.AllowPhoto {
		return nil, utils.NewValidationError("This form does not accept photos")
	}
	if len(in.Videos) > 0 && !form.Campaign.AllowVideo {
		return nil, utils.NewValidationError("This form does not accept videos")
	}

	for i, q := range form.Campaign.CustomQuestions {
		key := fmt.Sprintf("q%d", i)
		answer := in.Answers[key]
		if q.Required && answer == "" {
			return nil, utils.NewValidationError(fmt.Sprintf("Please answer: %s", q.Question))
		}
		if answer != "" {
			answers[key] = answer
		}
	}
	return answers, nil
}

// ------------------- Widget -------------------

func (s *PublicFormService) WidgetFeed(ctx context.Context, businessID uuid.UUID, limit int) (*response_models.WidgetFeedResponse, error) {
	if limit <= 0 {
		limit = defaultWidgetSize
	}

	business, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		return nil, dbError(err)
	}
	if business == nil {
		return nil, utils.ErrBusinessNotFound
	}

	testimonials, err := s.testimonialRepo.ListApprovedForWidget(ctx, businessID, limit)
	if err != nil {
		return nil, dbError(err)
	}

	feed := &response_models.WidgetFeedResponse{
		Business:     publicBranding(business),
		Testimonials: make([]response_models.WidgetTestimonial, 0, len(testimonials)),
	}
	for _, t := range testimonials {
		if t.Status != db_models.StatusApproved {
			continue
		}
		item := response_models.WidgetTestimonial{
			ID:        t.ID,
			Name:      t.Name,
			Rating:    t.Rating,
			Text:      t.Text,
			Photos:    []string{},
			Videos:    []string{},
			CreatedAt: t.CreatedAt,
		}
		for _, p := range t.Photos {
			if p.Status == db_models.StatusApproved {
				item.Photos = append(item.Photos, p.PhotoURL)
			}
		}
		for _, v := range t.Videos {
			if v.Status == db_models.StatusApproved {
				item.Videos = append(item.Videos, v.VideoURL)
			}
		}
		if len(item.Photos) > 0 {
			item.PhotoURL = &item.Photos[0]
		}
		feed.Testimonials = append(feed.Testimonials, item)
	}
	return feed, nil
}
