package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"trustly/internal/models/db_models"
	"trustly/internal/models/request_models"
	"trustly/internal/models/response_models"
	"trustly/internal/repositories"
	"trustly/pkg/utils"
)

type AccountServiceInterface interface {
	SignUp(ctx context.Context, request request_models.SignUpRequest) (*response_models.AuthResponse, error)
	SignIn(ctx context.Context, request request_models.SignInRequest) (*response_models.AuthResponse, error)
	// Me returns the account and its business, provisioning the business on first use.
	Me(ctx context.Context, userID uuid.UUID) (*response_models.AuthResponse, error)
}

type AccountService struct {
	accountRepo  repositories.AccountRepository
	businessRepo repositories.BusinessRepository
	tokens       *utils.TokenManager
	logger       *zap.Logger
}

func NewAccountService(
	accountRepo repositories.AccountRepository,
	businessRepo repositories.BusinessRepository,
	tokens *utils.TokenManager,
	logger *zap.Logger,
) AccountServiceInterface {
	return &AccountService{
		accountRepo:  accountRepo,
		businessRepo: businessRepo,
		tokens:       tokens,
		logger:       logger.Named("account"),
	}
}

func (a *AccountService) SignUp(ctx context.Context, request request_models.SignUpRequest) (*response_models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(request.Email))

	existingAccount, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, dbError(err)
	}
	if existingAccount != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, err
	}

	newAccount := &db_models.Account{
		Name:         strings.TrimSpace(request.Name),
		Email:        email,
		PasswordHash: hashedPassword,
	}
	business := db_models.NewBusiness(uuid.Nil, strings.TrimSpace(request.BusinessName))

	if err := a.accountRepo.CreateWithBusiness(ctx, newAccount, business); err != nil {
		return nil, dbError(err)
	}

	token, err := a.tokens.CreateToken(newAccount.ID, newAccount.Email)
	if err != nil {
		return nil, err
	}

	a.logger.Info("account created", zap.String("account_id", newAccount.ID.String()), zap.String("business_id", business.ID.String()))

	return &response_models.AuthResponse{
		Token:    token,
		Account:  response_models.ToAccountResponse(newAccount),
		Business: response_models.ToBusinessResponse(business),
	}, nil
}

func (a *AccountService) SignIn(ctx context.Context, request request_models.SignInRequest) (*response_models.AuthResponse, error) {
	startTime := time.Now()

	account, err := a.accountRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(request.Email)))
	if err != nil {
		return nil, dbError(err)
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	token, err := a.tokens.CreateToken(account.ID, account.Email)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("sign in", zap.String("account_id", account.ID.String()), zap.Duration("took", time.Since(startTime)))

	return &response_models.AuthResponse{
		Token:   token,
		Account: response_models.ToAccountResponse(account),
	}, nil
}

func (a *AccountService) Me(ctx context.Context, userID uuid.UUID) (*response_models.AuthResponse, error) {
	account, err := a.accountRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, dbError(err)
	}
	if account == nil {
		return nil, utils.ErrUnauthorized
	}

	business, err := a.ensureBusiness(ctx, account)
	if err != nil {
		return nil, err
	}

	return &response_models.AuthResponse{
		Account:  response_models.ToAccountResponse(account),
		Business: response_models.ToBusinessResponse(business),
	}, nil
}

func (a *AccountService) ensureBusiness(ctx context.Context, account *db_models.Account) (*db_models.Business, error) {
	business, err := a.businessRepo.FindByUserID(ctx, account.ID)
	if err != nil {
		return nil, dbError(err)
	}
	if business != nil {
		return business, nil
	}

	if err := a.businessRepo.Create(ctx, db_models.NewBusiness(account.ID, account.Name)); err != nil {
		return nil, dbError(err)
	}
	// re-read: a concurrent request may have won the insert
	business, err = a.businessRepo.FindByUserID(ctx, account.ID)
	if err != nil {
		return nil, dbError(err)
	}
	if business == nil {
		return nil, utils.ErrBusinessNotFound
	}
	a.logger.Info("business provisioned", zap.String("account_id", account.ID.String()), zap.String("business_id", business.ID.String()))
	return business, nil
}
