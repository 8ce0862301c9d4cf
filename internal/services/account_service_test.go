package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"trustly/internal/models/db_models"
	"trustly/internal/models/request_models"
	"trustly/pkg/utils"
)

type fakeAccountRepo struct {
	byID       map[uuid.UUID]*db_models.Account
	businesses *fakeBusinessRepo
}

func (r *fakeAccountRepo) CreateWithBusiness(ctx context.Context, account *db_models.Account, business *db_models.Business) error {
	newID(&account.ID)
	r.byID[account.ID] = account
	business.UserID = account.ID
	return r.businesses.Create(ctx, business)
}

func (r *fakeAccountRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Account, error) {
	return r.byID[id], nil
}

func (r *fakeAccountRepo) FindByEmail(_ context.Context, email string) (*db_models.Account, error) {
	for _, a := range r.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, nil
}

func newAccountFixture() (*AccountService, *fakeAccountRepo, *utils.TokenManager) {
	businesses := newFakeBusinessRepo()
	accounts := &fakeAccountRepo{byID: map[uuid.UUID]*db_models.Account{}, businesses: businesses}
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	return NewAccountService(accounts, businesses, tokens, zap.NewNop()).(*AccountService), accounts, tokens
}

func TestSignUpProvisionsBusiness(t *testing.T) {
	svc, _, tokens := newAccountFixture()

	resp, err := svc.SignUp(context.Background(), request_models.SignUpRequest{
		Email:    "Owner@Acme.test",
		Password: "hunter22",
	})
	require.NoError(t, err)

	assert.Equal(t, "owner@acme.test", resp.Account.Email)
	require.NotNil(t, resp.Business)
	assert.Equal(t, db_models.DefaultBusinessName, resp.Business.BusinessName)
	assert.Equal(t, resp.Account.ID, resp.Business.UserID)

	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, resp.Account.ID, userID)
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newAccountFixture()
	req := request_models.SignUpRequest{BusinessName: "Acme", Email: "owner@acme.test", Password: "hunter22"}

	_, err := svc.SignUp(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.SignUp(context.Background(), req)
	assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)
}

func TestSignIn(t *testing.T) {
	svc, _, _ := newAccountFixture()
	_, err := svc.SignUp(context.Background(), request_models.SignUpRequest{Email: "owner@acme.test", Password: "hunter22"})
	require.NoError(t, err)

	resp, err := svc.SignIn(context.Background(), request_models.SignInRequest{Email: " OWNER@acme.test", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.SignIn(context.Background(), request_models.SignInRequest{Email: "owner@acme.test", Password: "wrong-pass"})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, err = svc.SignIn(context.Background(), request_models.SignInRequest{Email: "nobody@acme.test", Password: "hunter22"})
	assert.ErrorIs(t, err, utils.ErrAccountNotFound)
}

func TestMeProvisionsMissingBusiness(t *testing.T) {
	svc, accounts, _ := newAccountFixture()
	account := &db_models.Account{Name: "Jo's Bakery", Email: "jo@bakery.test"}
	account.ID = uuid.New()
	accounts.byID[account.ID] = account

	resp, err := svc.Me(context.Background(), account.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.Business)
	assert.Equal(t, "Jo's Bakery", resp.Business.BusinessName)

	again, err := svc.Me(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Business.ID, again.Business.ID)

	_, err = svc.Me(context.Background(), uuid.New())
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
}
