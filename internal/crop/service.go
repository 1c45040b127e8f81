// Package crop implements the crop service: it trims a fixed band from the top
// and bottom of every image in a source directory and writes the results, under
// the same file names, into an output directory.
package crop

import (
	"context"
	"fmt"
	"os"

	"github.com/oukeidos/cropper/internal/config"
)

// Request names both directories explicitly so they cannot be swapped by position.
type Request struct {
	ImageSourceDir string `json:"image_source_dir" yaml:"image_source_dir"`
	CropOutputDir  string `json:"crop_output_dir" yaml:"crop_output_dir"`
}

// Result is a completed crop run. Failed lists one descriptor per file that
// could not be processed, in directory order; empty means total success.
type Result struct {
	Failed []string `json:"failed" yaml:"failed"`
}

// Service is the crop boundary the workflow controller calls. A non-nil error
// is a top-level failure (bad directories, I/O failure, unavailable service);
// per-file problems are reported through Result.Failed instead.
type Service interface {
	Crop(ctx context.Context, req Request) (Result, error)
}

// ServiceFunc adapts a function to Service.
type ServiceFunc func(ctx context.Context, req Request) (Result, error)

func (f ServiceFunc) Crop(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}

// FileError describes one file the engine could not crop.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// NewService returns the out-of-process command when s.EngineCommand is set
// and the in-process engine otherwise.
func NewService(s config.Settings) (Service, error) {
	if s.EngineCommand != "" {
		return &Command{Path: s.EngineCommand, Env: append(os.Environ(), s.Environ()...)}, nil
	}
	e, err := NewEngine(OptionsFromSettings(s))
	if err != nil {
		return nil, err
	}
	return e, nil
}
