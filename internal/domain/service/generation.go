package service

import "context"

// TextPrompt is the input to a single chat completion.
type TextPrompt struct {
	SystemPrompt string // The character's personality, may be empty.
	UserMessage  string
}

// TextGenerator produces a character reply for a user message. Stream invokes
// fn for every chunk as it arrives and returns the full accumulated reply.
// Returning an error from fn aborts the stream.
type TextGenerator interface {
	Stream(ctx context.Context, prompt TextPrompt, fn func(chunk string) error) (string, error)
}

// Txt2ImgRequest mirrors the Automatic1111 txt2img payload subset the service
// exposes. Zero values are filled with defaults before the upstream call.
type Txt2ImgRequest struct {
	Prompt         string  `json:"prompt" validate:"required"`
	NegativePrompt string  `json:"negative_prompt,omitempty"`
	Steps          int     `json:"steps,omitempty" validate:"omitempty,min=1,max=150"`
	SamplerName    string  `json:"sampler_name,omitempty"`
	Width          int     `json:"width,omitempty" validate:"omitempty,min=64,max=2048"`
	Height         int     `json:"height,omitempty" validate:"omitempty,min=64,max=2048"`
	CfgScale       float64 `json:"cfg_scale,omitempty"`
}

// Txt2ImgResult carries the upstream's base64-encoded images.
type Txt2ImgResult struct {
	Images []string `json:"images"`
}

// ImageGenerator proxies text-to-image requests to the external service.
type ImageGenerator interface {
	Generate(ctx context.Context, req *Txt2ImgRequest) (*Txt2ImgResult, error)
}
