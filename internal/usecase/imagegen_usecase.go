package usecase

import (
	"context"

	"companion/internal/domain/service"
)

// ImageGenUsecase defines the image generation operation. Results are cached
// by request digest so identical prompts do not hit the upstream twice.
type ImageGenUsecase interface {
	GenerateImage(ctx context.Context, req *service.Txt2ImgRequest) (*service.Txt2ImgResult, error)
}
