package utils

import "context"

// TextGenerator sends instructions plus a prompt to a language model and
// returns its raw text. The text is untrusted.
type TextGenerator interface {
	GenerateText(ctx context.Context, instructions, prompt string) (string, error)
}

// ImageGenerator turns a style prompt into the URL of a generated image.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// ImageDescriber returns a free-text visual description of an image.
type ImageDescriber interface {
	DescribeImage(ctx context.Context, image []byte, mimeType, instruction string, maxTokens int) (string, error)
}
