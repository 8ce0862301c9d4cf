package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"trustly/internal/models/db_models"
	"trustly/internal/models/request_models"
	"trustly/internal/models/response_models"
	"trustly/internal/repositories"
	"trustly/pkg/storage"
	"trustly/pkg/utils"
)

type CampaignServiceInterface interface {
	ListCampaigns(ctx context.Context, userID uuid.UUID) ([]response_models.CampaignResponse, error)
	CreateCampaign(ctx context.Context, userID uuid.UUID, request request_models.CampaignRequest) (*response_models.CampaignResponse, error)
	GetCampaign(ctx context.Context, userID, campaignID uuid.UUID) (*response_models.CampaignResponse, error)
	UpdateCampaign(ctx context.Context, userID, campaignID uuid.UUID, request request_models.CampaignRequest) (*response_models.CampaignResponse, error)
	DeleteCampaign(ctx context.Context, userID, campaignID uuid.UUID) error
	UploadWelcomeVideo(ctx context.Context, userID, campaignID uuid.UUID, file request_models.UploadedFile) (*response_models.CampaignResponse, error)
	GetFormConfig(ctx context.Context, userID, campaignID uuid.UUID) (*db_models.FormConfig, error)
	SaveFormConfig(ctx context.Context, userID, campaignID uuid.UUID, cfg db_models.FormConfig) (*db_models.FormConfig, error)
	GetCampaignDashboard(ctx context.Context, userID uuid.UUID, slug string) (*response_models.CampaignDashboardResponse, error)
}

type CampaignService struct {
	businessRepo    repositories.BusinessRepository
	campaignRepo    repositories.CampaignRepository
	testimonialRepo repositories.TestimonialRepository
	store           storage.ObjectStore
	forms           *FormCache
	appBaseURL      string
	slugs           SlugFunc
	logger          *zap.Logger
}

func NewCampaignService(
	businessRepo repositories.BusinessRepository,
	campaignRepo repositories.CampaignRepository,
	testimonialRepo repositories.TestimonialRepository,
	store storage.ObjectStore,
	forms *FormCache,
	appBaseURL string,
	logger *zap.Logger,
) CampaignServiceInterface {
	return &CampaignService{
		businessRepo:    businessRepo,
		campaignRepo:    campaignRepo,
		testimonialRepo: testimonialRepo,
		store:           store,
		forms:           forms,
		appBaseURL:      appBaseURL,
		slugs:           RandomSlug,
		logger:          logger.Named("campaign"),
	}
}

func (s *CampaignService) ListCampaigns(ctx context.Context, userID uuid.UUID) ([]response_models.CampaignResponse, error) {
	business, err := callerBusiness(ctx, s.businessRepo, userID)
	if err != nil {
		return nil, err
	}

	campaigns, err := s.campaignRepo.ListByBusiness(ctx, business.ID)
	if err != nil {
		return nil, dbError(err)
	}

	out := make([]response_models.CampaignResponse, 0, len(campaigns))
	for i := range campaigns {
		out = append(out, response_models.ToCampaignResponse(&campaigns[i], s.appBaseURL))
	}
	return out, nil
}

func (s *CampaignService) CreateCampaign(ctx context.Context, userID uuid.UUID, request request_models.CampaignRequest) (*response_models.CampaignResponse, error) {
	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, utils.NewValidationError("Campaign name is required")
	}
	if err := validateQuestions(request.CustomQuestions); err != nil {
		return nil, err
	}

	business, err := callerBusiness(ctx, s.businessRepo, userID)
	if err != nil {
		return nil, err
	}

	campaign := db_models.NewCampaign(business.ID, name)
	applyCampaignRequest(campaign, request)

	if campaign.UniqueSlug, err = allocateSlug(ctx, s.campaignRepo, name, s.slugs); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, dbError(err)
	}

	s.logger.Info("campaign created", zap.String("campaign_id", campaign.ID.String()), zap.String("slug", campaign.UniqueSlug))
	resp := response_models.ToCampaignResponse(campaign, s.appBaseURL)
	return &resp, nil
}

func (s *CampaignService) GetCampaign(ctx context.Context, userID, campaignID uuid.UUID) (*response_models.CampaignResponse, error) {
	campaign, err := s.load(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}
	resp := response_models.ToCampaignResponse(campaign, s.appBaseURL)
	return &resp, nil
}

func (s *CampaignService) UpdateCampaign(ctx context.Context, userID, campaignID uuid.UUID, request request_models.CampaignRequest) (*response_models.CampaignResponse, error) {
	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, utils.NewValidationError("Campaign name is required")
	}
	if err := validateQuestions(request.CustomQuestions); err != nil {
		return nil, err
	}

	campaign, err := s.load(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}

	campaign.Name = name
	applyCampaignRequest(campaign, request)

	if err := s.campaignRepo.UpdateDetails(ctx, campaign); err != nil {
		return nil, dbError(err)
	}
	s.forms.Invalidate(ctx, campaign.BusinessID, campaign.UniqueSlug)

	resp := response_models.ToCampaignResponse(campaign, s.appBaseURL)
	return &resp, nil
}

func (s *CampaignService) DeleteCampaign(ctx context.Context, userID, campaignID uuid.UUID) error {
	campaign, err := s.load(ctx, userID, campaignID)
	if err != nil {
		return err
	}

	if err := s.campaignRepo.Delete(ctx, campaign.ID); err != nil {
		return dbError(err)
	}
	s.forms.Invalidate(ctx, campaign.BusinessID, campaign.UniqueSlug)

	s.logger.Info("campaign deleted", zap.String("campaign_id", campaign.ID.String()))
	return nil
}

func (s *CampaignService) UploadWelcomeVideo(ctx context.Context, userID, campaignID uuid.UUID, file request_models.UploadedFile) (*response_models.CampaignResponse, error) {
	if !storage.IsMediaType(file.ContentType, "video") {
		return nil, utils.NewValidationError("Welcome video must be a video file")
	}

	campaign, err := s.load(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}

	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	key, err := storage.RandomKey(campaign.ID.String(), file.ContentType)
	if err != nil {
		return nil, err
	}
	url, err := s.store.Upload(ctx, storage.BucketCampaignVideos, key, rc, file.ContentType, false)
	if err != nil {
		return nil, storageError(err)
	}

	campaign.WelcomeVideoURL = &url
	if err := s.campaignRepo.UpdateDetails(ctx, campaign); err != nil {
		return nil, dbError(err)
	}
	s.forms.Invalidate(ctx, campaign.BusinessID, campaign.UniqueSlug)

	resp := response_models.ToCampaignResponse(campaign, s.appBaseURL)
	return &resp, nil
}

func (s *CampaignService) GetFormConfig(ctx context.Context, userID, campaignID uuid.UUID) (*db_models.FormConfig, error) {
	campaign, err := s.load(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}

	cfg, err := db_models.DecodeFormConfig(campaign.FormConfig)
	if err != nil {
		s.logger.Warn("stored form config unreadable, serving defaults", zap.String("campaign_id", campaign.ID.String()), zap.Error(err))
	}
	return &cfg, nil
}

func (s *CampaignService) SaveFormConfig(ctx context.Context, userID, campaignID uuid.UUID, cfg db_models.FormConfig) (*db_models.FormConfig, error) {
	if err := utils.ValidateStruct(cfg); err != nil {
		return nil, err
	}

	campaign, err := s.load(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}

	raw, err := db_models.EncodeFormConfig(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.campaignRepo.UpdateFormConfig(ctx, campaign.ID, raw); err != nil {
		return nil, dbError(err)
	}
	s.forms.Invalidate(ctx, campaign.BusinessID, campaign.UniqueSlug)

	return &cfg, nil
}

func (s *CampaignService) GetCampaignDashboard(ctx context.Context, userID uuid.UUID, slug string) (*response_models.CampaignDashboardResponse, error) {
	business, err := callerBusiness(ctx, s.businessRepo, userID)
	if err != nil {
		return nil, err
	}

	campaign, err := s.campaignRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, dbError(err)
	}
	if campaign == nil {
		return nil, utils.ErrCampaignNotFound
	}
	if campaign.BusinessID != business.ID {
		return nil, utils.ErrForbidden
	}

	testimonials, err := s.testimonialRepo.List(ctx, repositories.TestimonialFilter{
		BusinessID: business.ID,
		CampaignID: &campaign.ID,
	})
	if err != nil {
		return nil, dbError(err)
	}

	return &response_models.CampaignDashboardResponse{
		Campaign:     response_models.ToCampaignResponse(campaign, s.appBaseURL),
		Summary:      summarize(testimonials),
		Testimonials: response_models.ToTestimonialResponses(testimonials),
	}, nil
}

func (s *CampaignService) load(ctx context.Context, userID, campaignID uuid.UUID) (*db_models.Campaign, error) {
	business, err := callerBusiness(ctx, s.businessRepo, userID)
	if err != nil {
		return nil, err
	}
	return ownedCampaign(ctx, s.campaignRepo, business, campaignID)
}

func applyCampaignRequest(c *db_models.Campaign, r request_models.CampaignRequest) {
	c.Description = nil
	if r.Description != nil {
		if d := strings.TrimSpace(*r.Description); d != "" {
			c.Description = &d
		}
	}
	if r.CustomQuestions != nil {
		questions := make([]db_models.CustomQuestion, 0, len(r.CustomQuestions))
		for _, q := range r.CustomQuestions {
			questions = append(questions, db_models.CustomQuestion{Question: strings.TrimSpace(q.Question), Required: q.Required})
		}
		c.CustomQuestions = datatypes.JSONSlice[db_models.CustomQuestion](questions)
	}
	setFlag(&c.VideoAutoplay, r.VideoAutoplay)
	setFlag(&c.AllowVideo, r.AllowVideo)
	setFlag(&c.AllowPhoto, r.AllowPhoto)
	setFlag(&c.AllowText, r.AllowText)
	setFlag(&c.AllowRating, r.AllowRating)
}

func setFlag(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func validateQuestions(questions []db_models.CustomQuestion) error {
	for _, q := range questions {
		q.Question = strings.TrimSpace(q.Question)
		if err := utils.ValidateStruct(q); err != nil {
			return utils.NewValidationError("Every custom question needs text (up to 500 characters)")
		}
	}
	return nil
}

func summarize(testimonials []db_models.Testimonial) response_models.CampaignSummary {
	var summary response_models.CampaignSummary
	var ratingSum int
	for _, t := range testimonials {
		summary.Total++
		ratingSum += t.Rating
		switch t.Status {
		case db_models.StatusApproved:
			summary.Approved++
		case db_models.StatusRejected:
			summary.Rejected++
		default:
			summary.Pending++
		}
	}
	if summary.Total > 0 {
		summary.AverageRating = float64(ratingSum) / float64(summary.Total)
	}
	return summary
}
