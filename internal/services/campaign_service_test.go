package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"trustly/internal/models/db_models"
	"trustly/internal/models/request_models"
	"trustly/pkg/utils"
)

type campaignFixture struct {
	svc       *CampaignService
	business  *db_models.Business
	campaigns *fakeCampaignRepo
	forms     *FormCache
}

func newCampaignFixture(campaigns ...*db_models.Campaign) *campaignFixture {
	business := db_models.NewBusiness(uuid.New(), "Acme Coffee")
	business.ID = uuid.New()
	f := &campaignFixture{
		business:  business,
		campaigns: newFakeCampaignRepo(campaigns...),
		forms:     newTestFormCache(),
	}
	media := newFakeMediaRepo()
	testimonials := newFakeTestimonialRepo(media)
	media.testimonials = testimonials
	f.svc = NewCampaignService(newFakeBusinessRepo(business), f.campaigns, testimonials, newFakeStore(), f.forms, "https://app.test", zap.NewNop()).(*CampaignService)
	return f
}

func sequenceSlugs(slugs ...string) SlugFunc {
	i := 0
	return func(string) (string, error) {
		s := slugs[i%len(slugs)]
		i++
		return s, nil
	}
}

func TestCreateCampaignDefaults(t *testing.T) {
	f := newCampaignFixture()

	resp, err := f.svc.CreateCampaign(context.Background(), f.business.UserID, request_models.CampaignRequest{Name: "  Spring Feedback! "})
	require.NoError(t, err)

	assert.Equal(t, "Spring Feedback!", resp.Name)
	assert.True(t, strings.HasPrefix(resp.UniqueSlug, "spring-feedback-"))
	assert.Len(t, strings.TrimPrefix(resp.UniqueSlug, "spring-feedback-"), 6)
	assert.Equal(t, "https://app.test/submit/"+resp.UniqueSlug, resp.Link)
	assert.True(t, resp.AllowVideo && resp.AllowPhoto && resp.AllowText && resp.AllowRating && resp.VideoAutoplay)
	assert.Equal(t, f.business.ID, resp.BusinessID)
	assert.NotNil(t, resp.CustomQuestions)
}

func TestCreateCampaignRetriesSlugCollision(t *testing.T) {
	taken := db_models.NewCampaign(uuid.New(), "Other")
	taken.UniqueSlug = "spring-aaaaaa"
	f := newCampaignFixture(taken)
	f.svc.slugs = sequenceSlugs("spring-aaaaaa", "spring-bbbbbb")

	resp, err := f.svc.CreateCampaign(context.Background(), f.business.UserID, request_models.CampaignRequest{Name: "Spring"})
	require.NoError(t, err)
	assert.Equal(t, "spring-bbbbbb", resp.UniqueSlug)

	f.svc.slugs = sequenceSlugs("spring-aaaaaa")
	_, err = f.svc.CreateCampaign(context.Background(), f.business.UserID, request_models.CampaignRequest{Name: "Spring"})
	assert.ErrorIs(t, err, utils.ErrSlugExhausted)
}

func TestCreateCampaignRequiresName(t *testing.T) {
	f := newCampaignFixture()

	_, err := f.svc.CreateCampaign(context.Background(), f.business.UserID, request_models.CampaignRequest{Name: "   "})
	ve, ok := utils.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "Campaign name is required", ve.Message)
	assert.Zero(t, f.campaigns.calls)
}

func TestCampaignMutationsCheckOwnership(t *testing.T) {
	foreign := db_models.NewCampaign(uuid.New(), "Not yours")
	foreign.UniqueSlug = "not-yours-123456"
	f := newCampaignFixture(foreign)

	_, err := f.svc.UpdateCampaign(context.Background(), f.business.UserID, foreign.ID, request_models.CampaignRequest{Name: "Mine now"})
	assert.ErrorIs(t, err, utils.ErrForbidden)
	assert.Equal(t, "Not yours", foreign.Name)

	err = f.svc.DeleteCampaign(context.Background(), f.business.UserID, foreign.ID)
	assert.ErrorIs(t, err, utils.ErrForbidden)
	assert.Contains(t, f.campaigns.byID, foreign.ID)

	_, err = f.svc.GetCampaign(context.Background(), f.business.UserID, uuid.New())
	assert.ErrorIs(t, err, utils.ErrCampaignNotFound)
}

func TestFormConfigRoundTrip(t *testing.T) {
	f := newCampaignFixture()
	created, err := f.svc.CreateCampaign(context.Background(), f.business.UserID, request_models.CampaignRequest{Name: "Spring"})
	require.NoError(t, err)

	cfg, err := f.svc.GetFormConfig(context.Background(), f.business.UserID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, db_models.DefaultFormConfig(), *cfg)

	edited := db_models.DefaultFormConfig()
	edited.Fields.Email.Required = true
	edited.Fields.Video.Enabled = false
	edited.Customization.Title = "Tell us about your visit"
	edited.Customization.RatingEmojis = map[string]string{"1": "meh", "5": "wow"}
	edited.Styling.PrimaryColor = "#112233"
	edited.Styling.ShowPoweredBy = false

	_, err = f.svc.SaveFormConfig(context.Background(), f.business.UserID, created.ID, edited)
	require.NoError(t, err)

	reloaded, err := f.svc.GetFormConfig(context.Background(), f.business.UserID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, edited, *reloaded)

	cleared := db_models.DefaultFormConfig()
	cleared.Fields.Name.Placeholder = ""
	cleared.Fields.Email.Label = ""
	cleared.Customization.SubmitButtonText = ""
	cleared.Customization.RatingEmojis = map[string]string{}
	cleared.Styling.FontFamily = ""
	cleared.Styling.ShowLogo = false

	_, err = f.svc.SaveFormConfig(context.Background(), f.business.UserID, created.ID, cleared)
	require.NoError(t, err)

	reloaded, err = f.svc.GetFormConfig(context.Background(), f.business.UserID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, cleared, *reloaded)
}

func TestSaveFormConfigValidatesAndInvalidatesCache(t *testing.T) {
	f := newCampaignFixture()
	created, err := f.svc.CreateCampaign(context.Background(), f.business.UserID, request_models.CampaignRequest{Name: "Spring"})
	require.NoError(t, err)

	bad := db_models.DefaultFormConfig()
	bad.Styling.PrimaryColor = "teal"
	_, err = f.svc.SaveFormConfig(context.Background(), f.business.UserID, created.ID, bad)
	_, ok := utils.IsValidationError(err)
	assert.True(t, ok)

	ctx := context.Background()
	f.forms.put(ctx, slugFormKey(created.UniqueSlug), "cached")
	_, err = f.svc.SaveFormConfig(ctx, f.business.UserID, created.ID, db_models.DefaultFormConfig())
	require.NoError(t, err)

	var cached string
	assert.False(t, f.forms.get(ctx, slugFormKey(created.UniqueSlug), &cached))
}

func TestCampaignDashboardSummary(t *testing.T) {
	f := newCampaignFixture()
	created, err := f.svc.CreateCampaign(context.Background(), f.business.UserID, request_models.CampaignRequest{Name: "Spring"})
	require.NoError(t, err)

	testimonials := f.svc.testimonialRepo.(*fakeTestimonialRepo)
	for _, row := range []struct {
		status db_models.ModerationStatus
		rating int
	}{{db_models.StatusApproved, 5}, {db_models.StatusPending, 3}, {db_models.StatusRejected, 1}} {
		require.NoError(t, testimonials.Create(context.Background(), &db_models.Testimonial{
			BusinessID: f.business.ID, CampaignID: &created.ID, Name: "Customer", Rating: row.rating, Status: row.status,
		}))
	}

	dash, err := f.svc.GetCampaignDashboard(context.Background(), f.business.UserID, created.UniqueSlug)
	require.NoError(t, err)
	assert.Equal(t, 3, dash.Summary.Total)
	assert.Equal(t, 1, dash.Summary.Approved)
	assert.Equal(t, 1, dash.Summary.Pending)
	assert.Equal(t, 1, dash.Summary.Rejected)
	assert.InDelta(t, 3.0, dash.Summary.AverageRating, 0.001)
	assert.Len(t, dash.Testimonials, 3)
}

// staleCampaignRepo hands out copies and lands a submission between the read and the write.
type staleCampaignRepo struct {
	*fakeCampaignRepo
}

func (r staleCampaignRepo) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Campaign, error) {
	c, err := r.fakeCampaignRepo.FindByID(ctx, id)
	if c == nil || err != nil {
		return c, err
	}
	snapshot := *c
	if err := r.IncrementSubmitted(ctx, id); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func TestUpdateCampaignKeepsConcurrentCounters(t *testing.T) {
	f := newCampaignFixture()
	created, err := f.svc.CreateCampaign(context.Background(), f.business.UserID, request_models.CampaignRequest{Name: "Spring"})
	require.NoError(t, err)
	stored := f.campaigns.byID[created.ID]
	stored.TotalSent = 4
	stored.TotalSubmitted = 2
	f.svc.campaignRepo = staleCampaignRepo{f.campaigns}

	resp, err := f.svc.UpdateCampaign(context.Background(), f.business.UserID, created.ID, request_models.CampaignRequest{Name: "Spring revisited"})
	require.NoError(t, err)
	assert.Equal(t, "Spring revisited", resp.Name)

	assert.Equal(t, "Spring revisited", stored.Name)
	assert.Equal(t, 4, stored.TotalSent)
	assert.Equal(t, 3, stored.TotalSubmitted)
}
