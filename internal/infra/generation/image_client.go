package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"companion/config"
	domainerrors "companion/internal/domain/errors"
	"companion/internal/domain/service"
)

const txt2imgPath = "/sdapi/v1/txt2img"

// Defaults applied when the caller leaves a txt2img field unset.
const (
	defaultNegativePrompt = "blurry, low quality, worst quality, deformed, messy"
	defaultSteps          = 20
	defaultSampler        = "Euler a"
	defaultDimension      = 1024
	defaultCfgScale       = 7
)

// imageClient talks to a Stable Diffusion WebUI instance over its txt2img
// API.
type imageClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewImageGenerator builds the txt2img client from config.
func NewImageGenerator(cfg *config.Config, logger *slog.Logger) service.ImageGenerator {
	gen := cfg.Generation

	return &imageClient{
		baseURL: strings.TrimRight(gen.ImageBaseURL, "/"),
		client:  &http.Client{Timeout: gen.Timeout},
		logger:  logger,
	}
}

type txt2imgPayload struct {
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt"`
	Steps          int     `json:"steps"`
	SamplerName    string  `json:"sampler_name"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	CfgScale       float64 `json:"cfg_scale"`
}

type txt2imgResponse struct {
	Images []string `json:"images"`
}

// Generate posts the request to the upstream txt2img endpoint and returns
// the base64-encoded images.
func (c *imageClient) Generate(ctx context.Context, req *service.Txt2ImgRequest) (*service.Txt2ImgResult, error) {
	payload := applyTxt2ImgDefaults(req)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal txt2img request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+txt2imgPath, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build txt2img request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Error("Image generation service unreachable", "error", err)

		return nil, domainerrors.NewUpstreamError(0, "image generation service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		return nil, domainerrors.NewUpstreamError(resp.StatusCode, "image generation service error: "+strings.TrimSpace(string(detail)), nil)
	}

	var decoded txt2imgResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, domainerrors.NewUpstreamError(0, "image generation service returned malformed response", err)
	}

	return &service.Txt2ImgResult{Images: decoded.Images}, nil
}

// applyTxt2ImgDefaults fills unset fields with the service defaults so the
// upstream always receives a complete payload.
func applyTxt2ImgDefaults(req *service.Txt2ImgRequest) txt2imgPayload {
	payload := txt2imgPayload{
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		Steps:          req.Steps,
		SamplerName:    req.SamplerName,
		Width:          req.Width,
		Height:         req.Height,
		CfgScale:       req.CfgScale,
	}
	if payload.NegativePrompt == "" {
		payload.NegativePrompt = defaultNegativePrompt
	}
	if payload.Steps == 0 {
		payload.Steps = defaultSteps
	}
	if payload.SamplerName == "" {
		payload.SamplerName = defaultSampler
	}
	if payload.Width == 0 {
		payload.Width = defaultDimension
	}
	if payload.Height == 0 {
		payload.Height = defaultDimension
	}
	if payload.CfgScale == 0 {
		payload.CfgScale = defaultCfgScale
	}

	return payload
}
