package crop

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/oukeidos/cropper/internal/apperrors"
	"github.com/oukeidos/cropper/internal/logger"
)

const maxStderrTail = 512

// Command runs crops out-of-process by invoking the cropper CLI and reading
// the tagged JSON response from its stdout.
type Command struct {
	// Path is the cropper executable.
	Path string
	// ExtraArgs are appended after the crop flags (for example engine tuning flags).
	ExtraArgs []string
	// Env, when non-nil, replaces the child's environment.
	Env []string
}

func (c *Command) args(req Request) []string {
	args := []string{
		"crop",
		"--source", req.ImageSourceDir,
		"--output", req.CropOutputDir,
		"--format", "json",
		"--yes",
	}
	return append(args, c.ExtraArgs...)
}

func (c *Command) Crop(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(c.Path) == "" {
		return Result{}, apperrors.Unavailable(errors.New("crop command path is empty"))
	}
	cmd := exec.CommandContext(ctx, c.Path, c.args(req)...)
	if c.Env != nil {
		cmd.Env = c.Env
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("Running crop command", "path", c.Path, "src", req.ImageSourceDir, "dst", req.CropOutputDir)
	runErr := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, ctxErr
	}

	// The CLI exits non-zero for error and partial outcomes but still prints a
	// response, so a decodable stdout wins over the exit status.
	if resp, err := ReadResponse(&stdout); err == nil {
		return resp.Unpack()
	}
	if runErr != nil {
		return Result{}, apperrors.Unavailable(fmt.Errorf("%w: %s", runErr, tail(stderr.String())))
	}
	return Result{}, apperrors.Unavailable(fmt.Errorf("crop command produced no response: %s", tail(stderr.String())))
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderrTail {
		return "..." + s[len(s)-maxStderrTail:]
	}
	return s
}
