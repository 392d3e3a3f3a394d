package extractor

import (
	"context"
	"path/filepath"
)

// ImageExtractor produces a descriptive record for image files. Captioning
// is an external concern and is not performed here.
type ImageExtractor struct{}

func (e *ImageExtractor) Extract(ctx context.Context, path string) (*Raw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	return &Raw{
		Title:   name,
		Content: "Image file: " + name,
	}, nil
}

// AudioExtractor produces a descriptive record for audio files.
type AudioExtractor struct{}

func (e *AudioExtractor) Extract(ctx context.Context, path string) (*Raw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	return &Raw{
		Title:   name,
		Content: "Audio file: " + name,
	}, nil
}
