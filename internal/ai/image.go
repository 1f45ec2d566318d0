package ai

import (
	"context"
	"errors"
	"strings"
)

// ImageGenerator is implemented by providers that can draw.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

var ErrUnknownImageKind = errors.New("unknown image type")

const (
	ImageMonitor  = "monitor"
	ImageKeyboard = "keyboard"
)

var imagePrompts = map[string]string{
	ImageMonitor: "A front-facing retro 1980s CRT computer monitor bezel, beige plastic, empty dark screen, " +
		"soft studio lighting, photorealistic, centered, no text",
	ImageKeyboard: "A top-down retro mechanical computer keyboard, beige keycaps, 1980s style, " +
		"soft studio lighting, photorealistic, no text",
}

// ImagePrompt maps a decoration kind to its prompt.
func ImagePrompt(kind string) (string, error) {
	p, ok := imagePrompts[strings.ToLower(strings.TrimSpace(kind))]
	if !ok {
		return "", ErrUnknownImageKind
	}
	return p, nil
}
