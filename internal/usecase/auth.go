package usecase

import (
	"context"

	"rfq-market/internal/domain/user"
	"rfq-market/internal/pkg/errs"
	"rfq-market/internal/pkg/jwt"
	"rfq-market/internal/pkg/password"
	"rfq-market/internal/usecase/queries"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound         = errs.New("user not found")
	ErrInvalidCredentials   = errs.New("invalid email or password")
	ErrUserInactive         = errs.New("user account is inactive")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
)

type UserReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error)
	FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error)
}

type AuthUseCase interface {
	Login(ctx context.Context, email, plainPassword string) (string, *queries.AuthorizedUserView, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*queries.AuthorizedUserView, error)
	ValidateToken(tokenString string) (*jwt.Claims, error)
}

type authUseCaseImpl struct {
	users      UserReadStore
	jwtService *jwt.Service
}

func NewAuthUseCase(users UserReadStore, jwtService *jwt.Service) AuthUseCase {
	return &authUseCaseImpl{
		users:      users,
		jwtService: jwtService,
	}
}

func (a *authUseCaseImpl) Login(ctx context.Context, email, plainPassword string) (string, *queries.AuthorizedUserView, error) {
	view, hashedPassword, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !view.IsActive {
		return "", nil, ErrUserInactive
	}
	if err := password.ComparePassword(hashedPassword, plainPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	role, err := user.NewRole(view.Role)
	if err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	orgID := uuid.Nil
	if view.OrgID != nil {
		orgID = *view.OrgID
	}

	token, err := a.jwtService.GenerateToken(view.ID, role, orgID)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	return token, view, nil
}

func (a *authUseCaseImpl) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*queries.AuthorizedUserView, error) {
	view, err := a.users.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !view.IsActive {
		return nil, ErrUserInactive
	}
	return view, nil
}

func (a *authUseCaseImpl) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return a.jwtService.ValidateToken(tokenString)
}
