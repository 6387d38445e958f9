package services

import (
	"context"

	"milsonresponse/internal/models"
	"milsonresponse/internal/repositories/interfaces"
	"milsonresponse/internal/utils"
	"milsonresponse/pkg/errs"
	"milsonresponse/pkg/identity"
	"milsonresponse/pkg/logger"
)

type UserService interface {
	// Sync mirrors a verified identity-provider account into the user
	// directory so listings can show display names. Idempotent.
	Sync(ctx context.Context, account *identity.Account) (*models.User, error)

	Get(ctx context.Context, uid string) (*models.User, error)

	// List pages the directory, narrowed by an optional case-insensitive
	// name or email search.
	List(ctx context.Context, query string, params *utils.PaginationParams) ([]*models.User, *utils.PaginationMeta, error)
}

type userService struct {
	userRepo interfaces.UserRepository
	roles    *identity.RoleResolver
	logger   *logger.Logger
}

func NewUserService(userRepo interfaces.UserRepository, roles *identity.RoleResolver, log *logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		roles:    roles,
		logger:   log,
	}
}

func (s *userService) Sync(ctx context.Context, account *identity.Account) (*models.User, error) {
	if account == nil || account.UID == "" {
		return nil, errs.Wrap(errs.ErrValidation, "account uid is required")
	}

	user := &models.User{
		UID:         account.UID,
		DisplayName: account.DisplayName,
		Email:       account.Email,
		Role:        s.roles.Resolve(account.Email),
	}

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) Get(ctx context.Context, uid string) (*models.User, error) {
	return s.userRepo.GetByUID(ctx, uid)
}

func (s *userService) List(ctx context.Context, query string, params *utils.PaginationParams) ([]*models.User, *utils.PaginationMeta, error) {
	if params == nil {
		params = &utils.PaginationParams{Page: 1, PageSize: utils.DefaultPageSize, Sort: "created_at", Order: "desc"}
	}

	users, total, err := s.userRepo.List(ctx, query, params)
	if err != nil {
		return nil, nil, err
	}

	return users, utils.NewPaginationMeta(params, total), nil
}
