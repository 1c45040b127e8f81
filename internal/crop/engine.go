package crop

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nfnt/resize"

	"github.com/oukeidos/cropper/internal/apperrors"
	"github.com/oukeidos/cropper/internal/config"
	"github.com/oukeidos/cropper/internal/files"
	"github.com/oukeidos/cropper/internal/logger"
)

const outputPerms os.FileMode = 0644

// Options configures the in-process engine.
type Options struct {
	Geometry    Geometry
	Concurrency int
	JPEGQuality int
	// MaxWidth downscales wider crops, keeping the aspect ratio. 0 disables.
	MaxWidth  int
	Overwrite bool
}

// OptionsFromSettings maps loaded settings onto engine options.
func OptionsFromSettings(s config.Settings) Options {
	return Options{
		Geometry:    Geometry{TopRatio: s.TopRatio, BottomRatio: s.BottomRatio},
		Concurrency: s.Concurrency,
		JPEGQuality: s.JPEGQuality,
		MaxWidth:    s.MaxWidth,
		Overwrite:   s.Overwrite,
	}
}

// Engine crops images in-process with a bounded worker pool.
type Engine struct {
	opts Options
}

func NewEngine(opts Options) (*Engine, error) {
	if opts.Concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be greater than 0, got %d", opts.Concurrency)
	}
	if opts.JPEGQuality < 1 || opts.JPEGQuality > 100 {
		return nil, fmt.Errorf("jpeg quality must be in [1, 100], got %d", opts.JPEGQuality)
	}
	if opts.MaxWidth < 0 {
		return nil, fmt.Errorf("max width must not be negative, got %d", opts.MaxWidth)
	}
	return &Engine{opts: opts}, nil
}

type job struct {
	index int
	name  string
}

// Crop processes every regular file directly inside req.ImageSourceDir.
// Subdirectories and .DS_Store are skipped.
func (e *Engine) Crop(ctx context.Context, req Request) (Result, error) {
	logger.Debug("crop", "src", req.ImageSourceDir, "dst", req.CropOutputDir)

	src, err := files.RequireDir(req.ImageSourceDir)
	if err != nil {
		return Result{}, apperrors.InvalidPath(fmt.Sprintf("image folder %q is not usable: %v", req.ImageSourceDir, err), err)
	}
	dst, err := files.RequireDir(req.CropOutputDir)
	if err != nil {
		return Result{}, apperrors.InvalidPath(fmt.Sprintf("crop folder %q is not usable: %v", req.CropOutputDir, err), err)
	}
	// Resolve symlinks once so per-file writes only refuse links at the file itself.
	if resolved, err := filepath.EvalSymlinks(dst); err == nil {
		dst = resolved
	}
	if resolvedSrc, err := filepath.EvalSymlinks(src); err == nil && resolvedSrc == dst {
		return Result{}, apperrors.InvalidPath("image folder and crop folder must be different directories", nil)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return Result{}, apperrors.IO(err)
	}

	var jobs []job
	for _, entry := range entries {
		if entry.IsDir() || strings.EqualFold(entry.Name(), ".ds_store") {
			continue
		}
		jobs = append(jobs, job{index: len(jobs), name: entry.Name()})
	}

	start := time.Now()
	fileErrs := make([]error, len(jobs))
	queue := make(chan job, len(jobs))
	for _, j := range jobs {
		queue <- j
	}
	close(queue)

	workers := e.opts.Concurrency
	if workers > len(jobs) {
		workers = len(jobs)
	}
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				if ctx.Err() != nil {
					return
				}
				if err := e.cropFile(src, dst, j.name); err != nil {
					ferr := &FileError{Path: filepath.Join(src, j.name), Err: err}
					logger.Warn("File failed", "path", ferr.Path, "error", err)
					fileErrs[j.index] = ferr
				}
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{Failed: []string{}}
	for _, err := range fileErrs {
		if err != nil {
			res.Failed = append(res.Failed, err.Error())
		}
	}
	logger.Info("Crop finished", "files", len(jobs), "failed", len(res.Failed), "elapsed", time.Since(start).Round(time.Millisecond))
	return res, nil
}

func (e *Engine) cropFile(srcDir, dstDir, name string) error {
	format, err := FormatFromPath(name)
	if err != nil {
		return err
	}
	if !format.CanEncode() {
		return fmt.Errorf("%s: %w", format, ErrEncodeUnsupported)
	}

	img, err := readImage(filepath.Join(srcDir, name))
	if err != nil {
		return err
	}
	cropped, err := e.opts.Geometry.Apply(img)
	if err != nil {
		return err
	}
	if maxW := e.opts.MaxWidth; maxW > 0 && cropped.Bounds().Dx() > maxW {
		cropped = resize.Resize(uint(maxW), 0, cropped, resize.Lanczos3)
	}

	out := filepath.Join(dstDir, name)
	if !e.opts.Overwrite {
		if out, _, err = files.UniquePath(dstDir, name); err != nil {
			return err
		}
	}
	return files.AtomicWriteFunc(out, outputPerms, func(w io.Writer) error {
		return encode(w, cropped, format, e.opts.JPEGQuality)
	})
}

func readImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}
