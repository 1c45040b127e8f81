package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oukeidos/cropper/internal/cleanup"
	"github.com/oukeidos/cropper/internal/config"
	"github.com/oukeidos/cropper/internal/crop"
	"github.com/oukeidos/cropper/internal/files"
	"github.com/oukeidos/cropper/internal/logger"
	"github.com/oukeidos/cropper/internal/prompt"
	"github.com/oukeidos/cropper/internal/workflow"
)

var (
	newService   = crop.NewService
	newConfirmer = prompt.DefaultConfirmer
)

type cropOptions struct {
	source      string
	output      string
	concurrency int
	topRatio    float64
	bottomRatio float64
	jpegQuality int
	maxWidth    int
	noOverwrite bool
	engineCmd   string
	timeout     string
	format      string
	logFilePath string
	debug       bool
	yes         bool
}

func newCropCmd(root *rootOptions) *cobra.Command {
	opts := cropOptions{}
	cmd := &cobra.Command{
		Use:   "crop --source <image folder> --output <crop folder>",
		Short: "Crop every image in a folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrop(cmd, root.settings, &opts)
		},
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	f := cmd.Flags()
	f.StringVarP(&opts.source, "source", "s", "", "Folder with the images to crop")
	f.StringVarP(&opts.output, "output", "o", "", "Folder that receives the cropped images")
	f.IntVar(&opts.concurrency, "concurrency", 0, fmt.Sprintf("Images cropped in parallel (%d-%d, default: CPU count)", config.MinConcurrency, config.MaxConcurrency))
	f.Float64Var(&opts.topRatio, "top-ratio", config.DefaultTopRatio, "Fraction of the height removed from the top (rounded up)")
	f.Float64Var(&opts.bottomRatio, "bottom-ratio", config.DefaultBottomRatio, "Fraction of the height removed from the bottom (rounded down)")
	f.IntVar(&opts.jpegQuality, "jpeg-quality", config.DefaultJPEGQuality, "JPEG output quality (1-100)")
	f.IntVar(&opts.maxWidth, "max-width", 0, "Downscale crops wider than this many pixels (0 keeps the width)")
	f.BoolVar(&opts.noOverwrite, "no-overwrite", false, "Keep existing output files and write numbered copies instead")
	f.StringVar(&opts.engineCmd, "engine", "", "Run crops through this cropper binary instead of in-process")
	f.StringVar(&opts.timeout, "timeout", "", "Abort the crop after this long, e.g. 10m (default: no limit)")
	f.StringVar(&opts.format, "format", "text", "Report format: text, json or yaml")
	f.StringVar(&opts.logFilePath, "log-file", "", "Path to save machine-readable JSONL logs")
	f.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	f.BoolVarP(&opts.yes, "yes", "y", false, "Write into a non-empty output folder without asking")
	return cmd
}

// applyFlags overlays explicitly set flags on top of the loaded settings.
func applyFlags(flags *pflag.FlagSet, s config.Settings, opts *cropOptions) (config.Settings, error) {
	if flags.Changed("concurrency") {
		s.Concurrency = opts.concurrency
	}
	if flags.Changed("top-ratio") {
		s.TopRatio = opts.topRatio
	}
	if flags.Changed("bottom-ratio") {
		s.BottomRatio = opts.bottomRatio
	}
	if flags.Changed("jpeg-quality") {
		s.JPEGQuality = opts.jpegQuality
	}
	if flags.Changed("max-width") {
		s.MaxWidth = opts.maxWidth
	}
	if opts.noOverwrite {
		s.Overwrite = false
	}
	if flags.Changed("engine") {
		s.EngineCommand = strings.TrimSpace(opts.engineCmd)
	}
	if flags.Changed("timeout") {
		d, err := parseTimeout(opts.timeout)
		if err != nil {
			return s, err
		}
		s.Timeout = d
	}
	if opts.debug {
		s.LogLevel = "debug"
	}
	return s, nil
}

func runCrop(cmd *cobra.Command, loaded config.Settings, opts *cropOptions) error {
	format, err := parseReportFormat(opts.format)
	if err != nil {
		return err
	}
	settings, err := applyFlags(cmd.Flags(), loaded, opts)
	if err != nil {
		return err
	}

	var logFileW io.Writer
	if opts.logFilePath != "" {
		if err := files.RejectSymlinkPath(opts.logFilePath); err != nil {
			return err
		}
		f, err := os.OpenFile(opts.logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register("log file", f.Close)
		logFileW = f
	}
	logger.Init(logger.ParseLevel(settings.LogLevel), logFileW)

	settings, notes := settings.Normalize()
	for _, note := range notes {
		logger.Warn("Setting adjusted", "note", note)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	if ok, err := confirmOutput(opts.output, settings.Overwrite, opts.yes); err != nil {
		return err
	} else if !ok {
		return errors.New("aborted: output folder is not empty")
	}

	svc, err := newService(settings)
	if err != nil {
		return err
	}
	ctrl, err := workflow.New(workflow.Options{
		Service:  svc,
		Notifier: &reportNotifier{w: cmd.OutOrStdout(), format: format},
		Timeout:  settings.Timeout,
		Context:  cmd.Context(),
	})
	if err != nil {
		return err
	}

	if opts.source != "" {
		if err := ctrl.SetDirectory(workflow.ImageSourceDir, opts.source); err != nil {
			return err
		}
	}
	if opts.output != "" {
		if err := ctrl.SetDirectory(workflow.CropOutputDir, opts.output); err != nil {
			return err
		}
	}

	inv, err := ctrl.TriggerCrop()
	if err != nil {
		return err
	}
	// The service honors the command context, so this returns once it stops.
	outcome, err := inv.Wait(context.Background())
	if err != nil {
		return err
	}
	return outcomeError(outcome)
}

// confirmOutput asks before replacing files in a non-empty output folder.
// Missing or unreadable folders are left for the crop service to report.
func confirmOutput(dir string, overwrite, yes bool) (bool, error) {
	if dir == "" || !overwrite || yes {
		return true, nil
	}
	empty, err := files.IsEmptyDir(dir)
	if err != nil || empty {
		return true, nil
	}
	return newConfirmer().ConfirmNonEmptyOutput(dir, false)
}

func outcomeError(o workflow.Outcome) error {
	switch o.Kind {
	case workflow.OutcomeSuccess:
		return nil
	case workflow.OutcomePartialFailure:
		return fmt.Errorf("%d file(s) could not be cropped", len(o.FailedFiles))
	default:
		return errors.New(o.Message)
	}
}

func parseTimeout(v string) (d time.Duration, err error) {
	v = strings.TrimSpace(v)
	if v == "" || v == "0" {
		return 0, nil
	}
	d, err = time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid --timeout %q: %w", v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid --timeout %q: must not be negative", v)
	}
	return d, nil
}
