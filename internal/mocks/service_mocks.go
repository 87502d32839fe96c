package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"companion/internal/domain/service"
)

// PasswordHasher mocks service.PasswordHasher.
type PasswordHasher struct {
	mock.Mock
}

func (m *PasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

// TokenCodec mocks service.TokenCodec.
type TokenCodec struct {
	mock.Mock
}

func (m *TokenCodec) Encode(subject string, class service.TokenClass, now time.Time) (string, error) {
	args := m.Called(subject, class, now)

	return args.String(0), args.Error(1)
}

func (m *TokenCodec) Decode(token string) (*service.Claims, error) {
	args := m.Called(token)
	if claims, ok := args.Get(0).(*service.Claims); ok {
		return claims, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *TokenCodec) AccessTokenDuration() time.Duration {
	return m.Called().Get(0).(time.Duration)
}

func (m *TokenCodec) RefreshTokenDuration() time.Duration {
	return m.Called().Get(0).(time.Duration)
}

// TextGenerator mocks service.TextGenerator. Chunks set on the mock are fed
// through the callback before the configured return values apply.
type TextGenerator struct {
	mock.Mock
	Chunks []string
}

func (m *TextGenerator) Stream(ctx context.Context, prompt service.TextPrompt, fn func(chunk string) error) (string, error) {
	args := m.Called(ctx, prompt, fn)
	for _, chunk := range m.Chunks {
		if err := fn(chunk); err != nil {
			return "", err
		}
	}

	return args.String(0), args.Error(1)
}

// ImageGenerator mocks service.ImageGenerator.
type ImageGenerator struct {
	mock.Mock
}

func (m *ImageGenerator) Generate(ctx context.Context, req *service.Txt2ImgRequest) (*service.Txt2ImgResult, error) {
	args := m.Called(ctx, req)
	if result, ok := args.Get(0).(*service.Txt2ImgResult); ok {
		return result, args.Error(1)
	}

	return nil, args.Error(1)
}
