package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"trustly/internal/models/db_models"
	"trustly/internal/models/request_models"
	"trustly/internal/models/response_models"
	"trustly/internal/repositories"
	"trustly/pkg/metrics"
	"trustly/pkg/utils"
)

type DispatchServiceInterface interface {
	// Dispatch creates a campaign for the business and emails every valid customer a personal
	// submission link. Per-customer failures are logged and skipped.
	Dispatch(ctx context.Context, userID uuid.UUID, request request_models.DispatchRequest) (*response_models.DispatchResult, error)
	DispatchCSV(ctx context.Context, userID, businessID uuid.UUID, campaignName string, csvFile io.Reader) (*response_models.DispatchResult, error)
	PreviewCSV(csvFile io.Reader) ([]response_models.CustomerPreview, error)
}

type DispatchService struct {
	businessRepo  repositories.BusinessRepository
	campaignRepo  repositories.CampaignRepository
	recipientRepo repositories.RecipientRepository
	mail          IMailService
	appBaseURL    string
	now           utils.Clock
	newToken      func() string
	slugs         SlugFunc
	logger        *zap.Logger
}

func NewDispatchService(
	businessRepo repositories.BusinessRepository,
	campaignRepo repositories.CampaignRepository,
	recipientRepo repositories.RecipientRepository,
	mail IMailService,
	appBaseURL string,
	logger *zap.Logger,
) DispatchServiceInterface {
	return &DispatchService{
		businessRepo:  businessRepo,
		campaignRepo:  campaignRepo,
		recipientRepo: recipientRepo,
		mail:          mail,
		appBaseURL:    appBaseURL,
		now:           utils.SystemClock,
		newToken:      uuid.NewString,
		slugs:         RandomSlug,
		logger:        logger.Named("dispatch"),
	}
}

func (s *DispatchService) Dispatch(ctx context.Context, userID uuid.UUID, request request_models.DispatchRequest) (*response_models.DispatchResult, error) {
	campaignName := strings.TrimSpace(request.CampaignName)
	if campaignName == "" {
		return nil, utils.NewValidationError("Campaign name is required")
	}

	customers := make([]request_models.CustomerInput, 0, len(request.Customers))
	for _, c := range request.Customers {
		if valid, ok := validCustomer(c); ok {
			customers = append(customers, valid)
		}
	}
	if len(customers) == 0 {
		return nil, utils.ErrNoValidCustomers
	}

	business, err := s.businessRepo.FindOwned(ctx, request.BusinessID, userID)
	if err != nil {
		return nil, dbError(err)
	}
	if business == nil {
		return nil, utils.ErrForbidden
	}

	campaign := db_models.NewCampaign(business.ID, campaignName)
	if campaign.UniqueSlug, err = allocateSlug(ctx, s.campaignRepo, campaignName, s.slugs); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, dbError(err)
	}

	log := s.logger.With(zap.String("business_id", business.ID.String()), zap.String("campaign_id", campaign.ID.String()))
	log.Info("starting campaign", zap.String("campaign_name", campaignName), zap.Int("customers", len(customers)))

	sentCount := 0
	for _, customer := range customers {
		if err := s.sendOne(ctx, business, campaign, customer); err != nil {
			metrics.DispatchEmailsTotal.WithLabelValues("failed").Inc()
			log.Warn("invitation failed", zap.String("email", customer.Email), zap.Error(err))
			continue
		}
		metrics.DispatchEmailsTotal.WithLabelValues("sent").Inc()
		sentCount++
	}

	if err := s.campaignRepo.SetTotalSent(ctx, campaign.ID, sentCount); err != nil {
		log.Error("failed to record total_sent", zap.Int("sent", sentCount), zap.Error(err))
	}

	log.Info("campaign complete", zap.Int("sent", sentCount), zap.Int("customers", len(customers)))

	return &response_models.DispatchResult{
		CampaignID:     campaign.ID,
		SentCount:      sentCount,
		TotalCustomers: len(customers),
	}, nil
}

func (s *DispatchService) sendOne(ctx context.Context, business *db_models.Business, campaign *db_models.Campaign, customer request_models.CustomerInput) error {
	token := s.newToken()

	recipient := &db_models.CampaignRecipient{
		CampaignID:    campaign.ID,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		UniqueToken:   token,
		Status:        db_models.RecipientPending,
	}
	if err := s.recipientRepo.Create(ctx, recipient); err != nil {
		return fmt.Errorf("create recipient: %w", err)
	}

	link := fmt.Sprintf("%s/submit?b=%s&t=%s", s.appBaseURL, business.ID, url.QueryEscape(token))

	if err := s.mail.SendCampaignInvitation(ctx, InvitationEmail{
		To:           customer.Email,
		CustomerName: customer.Name,
		BusinessName: business.BusinessName,
		BrandColor:   business.PrimaryColor(),
		Link:         link,
	}); err != nil {
		return fmt.Errorf("send invitation: %w", err)
	}

	if err := s.recipientRepo.MarkSent(ctx, token, s.now()); err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}
	return nil
}

func (s *DispatchService) DispatchCSV(ctx context.Context, userID, businessID uuid.UUID, campaignName string, csvFile io.Reader) (*response_models.DispatchResult, error) {
	customers, err := ParseCustomerCSV(csvFile)
	if err != nil {
		return nil, err
	}
	return s.Dispatch(ctx, userID, request_models.DispatchRequest{
		BusinessID:   businessID,
		CampaignName: campaignName,
		Customers:    customers,
	})
}

func (s *DispatchService) PreviewCSV(csvFile io.Reader) ([]response_models.CustomerPreview, error) {
	customers, err := ParseCustomerCSV(csvFile)
	if err != nil {
		return nil, err
	}
	out := make([]response_models.CustomerPreview, 0, len(customers))
	for _, c := range customers {
		out = append(out, response_models.CustomerPreview{Name: c.Name, Email: c.Email})
	}
	return out, nil
}
