package impl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "companion/internal/delivery/context"
	"companion/internal/domain/service"
	"companion/internal/infra/cache"
	"companion/internal/infra/metrics"
	"companion/internal/usecase"
)

// imageGenService implements the ImageGenUsecase interface.
type imageGenService struct {
	generator service.ImageGenerator
	cache     *cache.Cache
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// ImageGenServiceParams holds dependencies for imageGenService, injected by Fx.
type ImageGenServiceParams struct {
	fx.In

	Generator service.ImageGenerator
	Cache     *cache.Cache     `optional:"true"`
	Metrics   *metrics.Metrics `optional:"true"`
	Logger    *slog.Logger
}

// NewImageGenService is the constructor for imageGenService.
func NewImageGenService(params ImageGenServiceParams) usecase.ImageGenUsecase {
	return &imageGenService{
		generator: params.Generator,
		cache:     params.Cache,
		metrics:   params.Metrics,
		logger:    params.Logger,
	}
}

func (srv *imageGenService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GenerateImage serves the request from the digest cache when possible and
// falls through to the upstream otherwise. Caching is advisory, a cache
// failure never fails the request.
func (srv *imageGenService) GenerateImage(ctx context.Context, req *service.Txt2ImgRequest) (*service.Txt2ImgResult, error) {
	key, err := requestDigest(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to digest image request")
	}

	if cached, ok := srv.cache.Get(ctx, key); ok {
		var result service.Txt2ImgResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			srv.metrics.ObserveImageGeneration("cached")
			srv.log(ctx).Debug("Image served from cache", slog.String("digest", key))

			return &result, nil
		}
		srv.log(ctx).Warn("Discarding malformed cache entry", slog.String("digest", key))
	}

	result, err := srv.generator.Generate(ctx, req)
	if err != nil {
		srv.metrics.ObserveImageGeneration("error")
		srv.metrics.ObserveUpstreamFailure("image")
		srv.log(ctx).Error("Image generation failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "image generation failed")
	}
	srv.metrics.ObserveImageGeneration("success")

	if payload, err := json.Marshal(result); err == nil {
		srv.cache.Set(ctx, key, string(payload))
	}

	return result, nil
}

// requestDigest derives a stable cache key from the full request payload.
func requestDigest(req *service.Txt2ImgRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(payload)

	return "imagegen:" + hex.EncodeToString(sum[:]), nil
}
