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

const maxLogoBytes = 5 << 20

type BusinessServiceInterface interface {
	GetBusiness(ctx context.Context, userID uuid.UUID) (*response_models.BusinessResponse, error)
	UpdateBusiness(ctx context.Context, userID uuid.UUID, request request_models.UpdateBusinessRequest) (*response_models.BusinessResponse, error)
	UploadLogo(ctx context.Context, userID uuid.UUID, target request_models.LogoTarget, file request_models.UploadedFile) (*response_models.LogoUploadResponse, error)
	UpdateBranding(ctx context.Context, userID uuid.UUID, request request_models.UpdateBrandingRequest) (*response_models.BusinessResponse, error)
	GetEmailSettings(ctx context.Context, userID uuid.UUID) (*response_models.EmailSettingsResponse, error)
	UpdateEmailSettings(ctx context.Context, userID uuid.UUID, request request_models.UpdateEmailSettingsRequest) (*response_models.EmailSettingsResponse, error)
	SendTestEmail(ctx context.Context, userID uuid.UUID) error
}

type BusinessService struct {
	businessRepo repositories.BusinessRepository
	campaignRepo repositories.CampaignRepository
	store        storage.ObjectStore
	mail         IMailService
	forms        *FormCache
	logger       *zap.Logger
}

func NewBusinessService(
	businessRepo repositories.BusinessRepository,
	campaignRepo repositories.CampaignRepository,
	store storage.ObjectStore,
	mail IMailService,
	forms *FormCache,
	logger *zap.Logger,
) BusinessServiceInterface {
	return &BusinessService{
		businessRepo: businessRepo,
		campaignRepo: campaignRepo,
		store:        store,
		mail:         mail,
		forms:        forms,
		logger:       logger.Named("business"),
	}
}

func (s *BusinessService) GetBusiness(ctx context.Context, userID uuid.UUID) (*response_models.BusinessResponse, error) {
	business, err := callerBusiness(ctx, s.businessRepo, userID)
	if err != nil {
		return nil, err
	}
	return response_models.ToBusinessResponse(business), nil
}

func (s *BusinessService) UpdateBusiness(ctx context.Context, userID uuid.UUID, request request_models.UpdateBusinessRequest) (*response_models.BusinessResponse, error) {
	business, err := callerBusiness(ctx, s.businessRepo, userID)
	if err != nil {
		return nil, err
	}

	business.BusinessName = strings.TrimSpace(request.BusinessName)
	business.BrandColor = request.BrandColor
	business.LogoURL = request.LogoURL

	if err := s.save(ctx, business); err != nil {
		return nil, err
	}
	return response_models.ToBusinessResponse(business), nil
}

func (s *BusinessService) UploadLogo(ctx context.Context, userID uuid.UUID, target request_models.LogoTarget, file request_models.UploadedFile) (*response_models.LogoUploadResponse, error) {
	if file.Size > maxLogoBytes {
		return nil, utils.NewValidationError("Logo must be less than 5MB")
	}
	ext, ok := storage.MediaExtension(file.ContentType)
	if !ok || !storage.IsMediaType(file.ContentType, "image") {
		return nil, utils.NewValidationError("Logo must be an image")
	}

	business, err := callerBusiness(ctx, s.businessRepo, userID)
	if err != nil {
		return nil, err
	}

	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	key := business.ID.String() + "/logo." + ext
	url, err := s.store.Upload(ctx, storage.BucketBusinessLogos, key, rc, file.ContentType, true)
	if err != nil {
		return nil, storageError(err)
	}

	if target == request_models.LogoTargetBranding {
		business.CustomLogoURL = &url
	} else {
		business.LogoURL = &url
	}
	if err := s.save(ctx, business); err != nil {
		return nil, err
	}

	s.logger.Info("logo uploaded", zap.String("business_id", business.ID.String()), zap.String("target", string(target)))
	return &response_models.LogoUploadResponse{URL: url}, nil
}

func (s *BusinessService) UpdateBranding(ctx context.Context, userID uuid.UUID, request request_models.UpdateBrandingRequest) (*response_models.BusinessResponse, error) {
	business, err := callerBusiness(ctx, s.businessRepo, userID)
	if err != nil {
		return nil, err
	}

	primary := request.PrimaryColor
	business.CustomColors = datatypes.NewJSONType(db_models.BrandColors{
		Primary:   primary,
		Secondary: request.SecondaryColor,
	})
	business.BrandColor = &primary
	business.ShowBranding = request.ShowBranding
	business.CustomLogoURL = nil
	if request.CustomLogoURL != nil && strings.TrimSpace(*request.CustomLogoURL) != "" {
		business.CustomLogoURL = request.CustomLogoURL
	}

	if err := s.save(ctx, business); err != nil {
		return nil, err
	}
	return response_models.ToBusinessResponse(business), nil
}

func (s *BusinessService) GetEmailSettings(ctx context.Context, userID uuid.UUID) (*response_models.EmailSettingsResponse, error) {
	business, err := callerBusiness(ctx, s.businessRepo, userID)
	if err != nil {
		return nil, err
	}
	settings := response_models.ToEmailSettingsResponse(business)
	return &settings, nil
}

func (s *BusinessService) UpdateEmailSettings(ctx context.Context, userID uuid.UUID, request request_models.UpdateEmailSettingsRequest) (*response_models.EmailSettingsResponse, error) {
	business, err := callerBusiness(ctx, s.businessRepo, userID)
	if err != nil {
		return nil, err
	}

	business.NotificationEmail = nil
	if request.NotificationEmail != nil {
		if email := strings.TrimSpace(*request.NotificationEmail); email != "" {
			business.NotificationEmail = &email
		}
	}
	business.NotifyNewTestimonial = request.NotifyNewTestimonial
	business.NotifyOnApproval = request.NotifyOnApproval
	business.EmailEnabled = request.EmailEnabled

	if err := s.businessRepo.Save(ctx, business); err != nil {
		return nil, dbError(err)
	}
	settings := response_models.ToEmailSettingsResponse(business)
	return &settings, nil
}

func (s *BusinessService) SendTestEmail(ctx context.Context, userID uuid.UUID) error {
	business, err := callerBusiness(ctx, s.businessRepo, userID)
	if err != nil {
		return err
	}
	if business.NotificationEmail == nil || *business.NotificationEmail == "" {
		return utils.ErrMailNotConfigured
	}
	if err := s.mail.SendTestEmail(ctx, *business.NotificationEmail, business.BusinessName); err != nil {
		s.logger.Error("test email failed", zap.String("business_id", business.ID.String()), zap.Error(err))
		return err
	}
	return nil
}

// save persists business and drops cached public forms, which embed its branding.
func (s *BusinessService) save(ctx context.Context, business *db_models.Business) error {
	if err := s.businessRepo.Save(ctx, business); err != nil {
		return dbError(err)
	}

	campaigns, err := s.campaignRepo.ListByBusiness(ctx, business.ID)
	if err != nil {
		s.logger.Warn("list campaigns for cache invalidation", zap.Error(err))
	}
	slugs := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		slugs = append(slugs, c.UniqueSlug)
	}
	s.forms.Invalidate(ctx, business.ID, slugs...)
	return nil
}
