package ports

import "context"

// Generator is the reasoning black box: a fallible, latency-bearing
// text-completion call. No retry policy is built in; callers own their
// failure handling per the boundary they sit at.
type Generator interface {
	// GenerateText completes a text-only prompt
	GenerateText(ctx context.Context, prompt string) (string, error)

	// GenerateVision completes a prompt with an attached JPEG image
	GenerateVision(ctx context.Context, prompt string, imageJPEG []byte) (string, error)
}
