// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "companion/internal/delivery/context"
	"companion/internal/domain/entity"
	domainerrors "companion/internal/domain/errors"
	"companion/internal/domain/repository"
	"companion/internal/domain/service"
	"companion/internal/usecase"
)

// tokenTypeBearer is the token_type value returned with every issued pair.
const tokenTypeBearer = "bearer"

// authService implements the AuthUsecase interface.
type authService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	codec     service.TokenCodec
	logger    *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Codec     service.TokenCodec
	Logger    *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		hasher:    params.Hasher,
		codec:     params.Codec,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new account. The duplicate check and insert run in one
// transaction; the unique index on email remains the real guard against
// concurrent registrations.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password during registration")
	}

	var registeredUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		_, findErr := userRepo.FindByEmail(ctx, input.Email)
		if findErr == nil {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already registered")
		}
		if !errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.Wrap(findErr, "failed to check for existing user")
		}

		newUser := &entity.User{
			Email:        input.Email,
			Username:     input.Username,
			PasswordHash: hashedPassword,
		}
		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}
		registeredUser = newUser

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", registeredUser.ID))

	return &usecase.RegisterOutput{User: registeredUser.Public()}, nil
}

// Login verifies the credentials and issues a token pair. Unknown email and
// wrong password both map to ErrInvalidCredentials so the two cases stay
// indistinguishable to the caller.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.TokenPairOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	// Bcrypt comparison runs outside any transaction, it is CPU-bound.
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	pair, err := srv.issueTokenPair(user.Email)
	if err != nil {
		srv.log(ctx).Error("Failed to issue tokens", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue token pair")
	}
	srv.log(ctx).Debug("User logged in", slog.Any("userID", user.ID))

	return pair, nil
}

// Refresh rotates the token pair. A missing token is the caller's condition
// and maps to ErrMissingToken; every decode failure, including a token of the
// wrong class, maps to ErrInvalidToken. A subject that no longer resolves to
// an account yields ErrUserNotFound.
func (srv *authService) Refresh(ctx context.Context, input *usecase.RefreshInput) (*usecase.TokenPairOutput, error) {
	if input.RefreshToken == "" {
		return nil, domainerrors.ErrMissingToken.WrapMessage("no refresh token presented")
	}

	claims, err := srv.codec.Decode(input.RefreshToken)
	if err != nil {
		srv.log(ctx).Warn("Refresh rejected", slog.Any("error", err))

		return nil, errors.Wrap(err, "invalid refresh token")
	}
	if claims.Class != service.TokenClassRefresh {
		srv.log(ctx).Warn("Refresh rejected, wrong token class", slog.String("class", string(claims.Class)))

		return nil, domainerrors.ErrInvalidToken.WrapMessage("token is not a refresh token")
	}

	user, err := srv.userRepo.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("refresh subject no longer exists")
		}

		return nil, errors.Wrap(err, "failed to resolve refresh subject")
	}

	pair, err := srv.issueTokenPair(user.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to rotate token pair")
	}
	srv.log(ctx).Debug("Token pair rotated", slog.Any("userID", user.ID))

	return pair, nil
}

// issueTokenPair mints a fresh access and refresh token for the subject.
func (srv *authService) issueTokenPair(subject string) (*usecase.TokenPairOutput, error) {
	now := time.Now()

	accessToken, err := srv.codec.Encode(subject, service.TokenClassAccess, now)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode access token")
	}

	refreshToken, err := srv.codec.Encode(subject, service.TokenClassRefresh, now)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode refresh token")
	}

	return &usecase.TokenPairOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenTypeBearer,
	}, nil
}
