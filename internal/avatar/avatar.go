// Package avatar picks a local image to use as the profile picture.
package avatar

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrCanceled is returned when the user backs out without choosing.
var ErrCanceled = errors.New("avatar selection canceled")

// Picker returns a local reference to a chosen image.
type Picker interface {
	Pick(ctx context.Context, input string) (string, error)
}

// FilePicker accepts a filesystem path to a decodable image.
type FilePicker struct{}

// Pick resolves input to an absolute path and checks that it decodes as
// an image. Blank input cancels.
func (FilePicker) Pick(_ context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrCanceled
	}

	path, err := expandHome(input)
	if err != nil {
		return "", fmt.Errorf("pick avatar: %w", err)
	}

	path, err = filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("pick avatar: %w", err)
	}

	if _, err := Describe(path); err != nil {
		return "", fmt.Errorf("pick avatar: %w", err)
	}

	return path, nil
}

// Info summarizes an image file.
type Info struct {
	Format string
	Width  int
	Height int
}

// Describe decodes the image header at path.
func Describe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Info{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
