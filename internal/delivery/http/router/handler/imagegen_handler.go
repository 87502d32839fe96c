package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"companion/internal/delivery/http/response"
	"companion/internal/domain/service"
	"companion/internal/usecase"
)

// ImageGenHandler holds dependencies for the image generation endpoint.
type ImageGenHandler struct {
	uc usecase.ImageGenUsecase
}

// NewImageGenHandler is the constructor for ImageGenHandler, injected by Fx.
func NewImageGenHandler(uc usecase.ImageGenUsecase) *ImageGenHandler {
	return &ImageGenHandler{uc: uc}
}

// Generate proxies a txt2img request to the image generation service.
func (h *ImageGenHandler) Generate(c echo.Context) error {
	var input service.Txt2ImgRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid image generation input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	result, err := h.uc.GenerateImage(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Image generated successfully")
}
