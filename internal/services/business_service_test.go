package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"trustly/internal/models/db_models"
	"trustly/internal/models/request_models"
	"trustly/pkg/storage"
	"trustly/pkg/utils"
)

type businessFixture struct {
	svc      *BusinessService
	business *db_models.Business
	store    *fakeStore
	mailer   *fakeMailer
	forms    *FormCache
	campaign *db_models.Campaign
}

func newBusinessFixture() *businessFixture {
	business := db_models.NewBusiness(uuid.New(), "Acme Coffee")
	business.ID = uuid.New()
	campaign := db_models.NewCampaign(business.ID, "Spring")
	campaign.UniqueSlug = "spring-abcdef"

	f := &businessFixture{
		business: business,
		store:    newFakeStore(),
		mailer:   &fakeMailer{failFor: map[string]bool{}},
		forms:    newTestFormCache(),
		campaign: campaign,
	}
	f.svc = NewBusinessService(newFakeBusinessRepo(business), newFakeCampaignRepo(campaign), f.store, f.mailer, f.forms, zap.NewNop()).(*BusinessService)
	return f
}

func TestUploadLogoUpsertsAndTargetsColumn(t *testing.T) {
	f := newBusinessFixture()

	resp, err := f.svc.UploadLogo(context.Background(), f.business.UserID, request_models.LogoTargetSettings, upload("logo.png", "image/png", "v1"))
	require.NoError(t, err)
	assert.Equal(t, fakeStoreBase+"business-logos/"+f.business.ID.String()+"/logo.png", resp.URL)
	require.NotNil(t, f.business.LogoURL)
	assert.Equal(t, resp.URL, *f.business.LogoURL)

	// a second upload replaces the object in place
	_, err = f.svc.UploadLogo(context.Background(), f.business.UserID, request_models.LogoTargetBranding, upload("logo.png", "image/png", "v2"))
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.count(storage.BucketBusinessLogos))
	require.NotNil(t, f.business.CustomLogoURL)

	_, err = f.svc.UploadLogo(context.Background(), f.business.UserID, request_models.LogoTargetSettings, upload("notes.txt", "text/plain", "x"))
	_, ok := utils.IsValidationError(err)
	assert.True(t, ok)
}

func TestUpdateBrandingSetsBrandColorAndInvalidatesForms(t *testing.T) {
	f := newBusinessFixture()
	ctx := context.Background()
	f.forms.put(ctx, slugFormKey(f.campaign.UniqueSlug), "cached")

	resp, err := f.svc.UpdateBranding(ctx, f.business.UserID, request_models.UpdateBrandingRequest{
		PrimaryColor:   "#112233",
		SecondaryColor: "#445566",
		ShowBranding:   false,
	})
	require.NoError(t, err)

	require.NotNil(t, resp.BrandColor)
	assert.Equal(t, "#112233", *resp.BrandColor)
	assert.Equal(t, "#445566", resp.CustomColors.Secondary)
	assert.False(t, resp.ShowBranding)
	assert.Equal(t, "#112233", f.business.PrimaryColor())

	var cached string
	assert.False(t, f.forms.get(ctx, slugFormKey(f.campaign.UniqueSlug), &cached))
}

func TestEmailSettingsAndTestEmail(t *testing.T) {
	f := newBusinessFixture()

	err := f.svc.SendTestEmail(context.Background(), f.business.UserID)
	assert.ErrorIs(t, err, utils.ErrMailNotConfigured)

	settings, err := f.svc.UpdateEmailSettings(context.Background(), f.business.UserID, request_models.UpdateEmailSettingsRequest{
		NotificationEmail:    strPtr(" owner@acme.test "),
		NotifyNewTestimonial: true,
		NotifyOnApproval:     true,
		EmailEnabled:         true,
	})
	require.NoError(t, err)
	assert.True(t, settings.NotifyOnApproval)

	require.NoError(t, f.svc.SendTestEmail(context.Background(), f.business.UserID))
	assert.Equal(t, []string{"owner@acme.test"}, f.mailer.tests)
}

func TestBusinessSettingsRequireBusiness(t *testing.T) {
	f := newBusinessFixture()
	_, err := f.svc.GetBusiness(context.Background(), uuid.New())
	assert.ErrorIs(t, err, utils.ErrBusinessNotFound)
}
