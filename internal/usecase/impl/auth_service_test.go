package impl

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"companion/config"
	"companion/internal/domain/entity"
	domainerrors "companion/internal/domain/errors"
	"companion/internal/domain/repository"
	"companion/internal/domain/service"
	"companion/internal/errors"
	"companion/internal/infra/auth"
	"companion/internal/mocks"
	"companion/internal/usecase"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service   usecase.AuthUsecase
	txManager *mocks.TransactionManager
	userRepo  *mocks.UserRepository
	hasher    *mocks.PasswordHasher
	codec     *mocks.TokenCodec
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	t.Helper()

	userRepo := new(mocks.UserRepository)
	txManager := &mocks.TransactionManager{Factory: &mocks.RepositoryFactory{Users: userRepo}}
	hasher := new(mocks.PasswordHasher)
	codec := new(mocks.TokenCodec)

	svc := NewAuthService(AuthServiceParams{
		TxManager: txManager,
		UserRepo:  userRepo,
		Hasher:    hasher,
		Codec:     codec,
		Logger:    slog.New(slog.DiscardHandler),
	})

	return authServiceFixtures{
		service:   svc,
		txManager: txManager,
		userRepo:  userRepo,
		hasher:    hasher,
		codec:     codec,
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.hasher.On("Hash", "Password123!").Return("hashed", nil)
	fx.txManager.On("Execute", ctx, mock.Anything).Return(nil)
	fx.userRepo.On("FindByEmail", ctx, "new@example.com").Return(nil, repository.ErrUserNotFound)
	fx.userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*entity.User)
			user.ID = uuid.New()
			user.CreatedAt = time.Now()
		}).
		Return(nil)

	output, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Email:    "new@example.com",
		Username: "newbie",
		Password: "Password123!",
	})

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", output.User.Email)
	assert.Equal(t, "newbie", output.User.Username)
	fx.userRepo.AssertCalled(t, "Create", ctx, mock.AnythingOfType("*entity.User"))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.hasher.On("Hash", "Password123!").Return("hashed", nil)
	fx.txManager.On("Execute", ctx, mock.Anything).Return(nil)
	fx.userRepo.On("FindByEmail", ctx, "taken@example.com").Return(&entity.User{ID: uuid.New()}, nil)

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Email:    "taken@example.com",
		Password: "Password123!",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
	fx.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Register_HashFailure(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.hasher.On("Hash", "pw").Return("", errors.New("entropy starved"))

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{Email: "a@b.c", Password: "pw"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordHashFailed))
}

func TestAuthService_Login_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "user@example.com", PasswordHash: "stored-hash"}

	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	fx.hasher.On("Check", "Password123!", "stored-hash").Return(true)
	fx.codec.On("Encode", user.Email, service.TokenClassAccess, mock.AnythingOfType("time.Time")).Return("access-token", nil)
	fx.codec.On("Encode", user.Email, service.TokenClassRefresh, mock.AnythingOfType("time.Time")).Return("refresh-token", nil)

	pair, err := fx.service.Login(ctx, &usecase.LoginInput{Email: user.Email, Password: "Password123!"})

	require.NoError(t, err)
	assert.Equal(t, "access-token", pair.AccessToken)
	assert.Equal(t, "refresh-token", pair.RefreshToken)
	assert.Equal(t, "bearer", pair.TokenType)
}

// Unknown email and wrong password must yield the exact same error.
func TestAuthService_Login_IndistinguishableFailures(t *testing.T) {
	ctx := context.Background()

	unknownFx := createTestAuthService(t)
	unknownFx.userRepo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound)

	_, unknownErr := unknownFx.service.Login(ctx, &usecase.LoginInput{Email: "ghost@example.com", Password: "whatever"})
	require.Error(t, unknownErr)

	wrongFx := createTestAuthService(t)
	wrongFx.userRepo.On("FindByEmail", ctx, "user@example.com").
		Return(&entity.User{Email: "user@example.com", PasswordHash: "h"}, nil)
	wrongFx.hasher.On("Check", "bad", "h").Return(false)

	_, wrongErr := wrongFx.service.Login(ctx, &usecase.LoginInput{Email: "user@example.com", Password: "bad"})
	require.Error(t, wrongErr)

	assert.True(t, errors.Is(unknownErr, domainerrors.ErrInvalidCredentials))
	assert.True(t, errors.Is(wrongErr, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Refresh_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "user@example.com"}

	fx.codec.On("Decode", "old-refresh").
		Return(&service.Claims{Subject: user.Email, Class: service.TokenClassRefresh}, nil)
	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	fx.codec.On("Encode", user.Email, service.TokenClassAccess, mock.AnythingOfType("time.Time")).Return("new-access", nil)
	fx.codec.On("Encode", user.Email, service.TokenClassRefresh, mock.AnythingOfType("time.Time")).Return("new-refresh", nil)

	pair, err := fx.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: "old-refresh"})

	require.NoError(t, err)
	assert.Equal(t, "new-access", pair.AccessToken)
	// Rotation must issue a fresh refresh token, not echo the old one.
	assert.Equal(t, "new-refresh", pair.RefreshToken)
}

// Rotation must hold even when the refresh lands within the same second as
// the submitted token's issuance, where sub, class, iat, and exp all repeat.
func TestAuthService_Refresh_RotatesWithRealCodec(t *testing.T) {
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "user@example.com"}

	cfg := &config.Config{}
	cfg.Auth = &config.AuthConfig{
		SecretKey:          "test_secret_key_very_long_for_testing",
		Algorithm:          "HS256",
		AccessTokenMinutes: 30,
		RefreshTokenDays:   7,
	}
	codec, err := auth.NewJWTCodec(cfg)
	require.NoError(t, err)

	userRepo := new(mocks.UserRepository)
	userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)

	svc := NewAuthService(AuthServiceParams{
		TxManager: &mocks.TransactionManager{Factory: &mocks.RepositoryFactory{Users: userRepo}},
		UserRepo:  userRepo,
		Hasher:    new(mocks.PasswordHasher),
		Codec:     codec,
		Logger:    slog.New(slog.DiscardHandler),
	})

	submitted, err := codec.Encode(user.Email, service.TokenClassRefresh, time.Now())
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, &usecase.RefreshInput{RefreshToken: submitted})

	require.NoError(t, err)
	assert.NotEqual(t, submitted, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	// The rotated token is itself a valid refresh token.
	claims, err := codec.Decode(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.Email, claims.Subject)
	assert.Equal(t, service.TokenClassRefresh, claims.Class)
}

func TestAuthService_Refresh_MissingToken(t *testing.T) {
	fx := createTestAuthService(t)

	_, err := fx.service.Refresh(context.Background(), &usecase.RefreshInput{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrMissingToken))
	fx.codec.AssertNotCalled(t, "Decode", mock.Anything)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	fx := createTestAuthService(t)

	fx.codec.On("Decode", "garbage").
		Return(nil, domainerrors.ErrInvalidToken.WrapMessage("bad signature"))

	_, err := fx.service.Refresh(context.Background(), &usecase.RefreshInput{RefreshToken: "garbage"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
}

// An access token presented to the refresh endpoint is rejected even though
// its signature verifies.
func TestAuthService_Refresh_WrongClass(t *testing.T) {
	fx := createTestAuthService(t)

	fx.codec.On("Decode", "access-token").
		Return(&service.Claims{Subject: "user@example.com", Class: service.TokenClassAccess}, nil)

	_, err := fx.service.Refresh(context.Background(), &usecase.RefreshInput{RefreshToken: "access-token"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
}

func TestAuthService_Refresh_SubjectGone(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.codec.On("Decode", "orphan-refresh").
		Return(&service.Claims{Subject: "gone@example.com", Class: service.TokenClassRefresh}, nil)
	fx.userRepo.On("FindByEmail", ctx, "gone@example.com").Return(nil, repository.ErrUserNotFound)

	_, err := fx.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: "orphan-refresh"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}
