// Package workflow holds the directory-selection and crop-invocation state
// machine shared by the CLI and the desktop front-end.
package workflow

import (
	"fmt"
	"strings"
)

// Role names one of the two directory selections.
type Role int

const (
	ImageSourceDir Role = iota
	CropOutputDir
)

func (r Role) String() string {
	switch r {
	case ImageSourceDir:
		return "image_source"
	case CropOutputDir:
		return "crop_output"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Title is the picker dialog title for the role.
func (r Role) Title() string {
	if r == CropOutputDir {
		return "Select crop folder"
	}
	return "Select image folder"
}

func (r Role) valid() bool {
	return r == ImageSourceDir || r == CropOutputDir
}

type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota + 1
	OutcomePartialFailure
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomePartialFailure:
		return "partial_failure"
	case OutcomeError:
		return "error"
	default:
		return "none"
	}
}

// Outcome is what the user is told about a trigger.
type Outcome struct {
	Kind OutcomeKind
	// FailedFiles is set for OutcomePartialFailure, in service order.
	FailedFiles []string
	// Message is set for OutcomeError.
	Message string
}

func Success() Outcome { return Outcome{Kind: OutcomeSuccess} }

func PartialFailure(files []string) Outcome {
	return Outcome{Kind: OutcomePartialFailure, FailedFiles: append([]string(nil), files...)}
}

func ErrorOutcome(msg string) Outcome { return Outcome{Kind: OutcomeError, Message: msg} }

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeSuccess:
		return "All images cropped."
	case OutcomePartialFailure:
		return fmt.Sprintf("%d file(s) could not be cropped:\n%s", len(o.FailedFiles), strings.Join(o.FailedFiles, "\n"))
	case OutcomeError:
		return o.Message
	default:
		return ""
	}
}

func (o Outcome) clone() Outcome {
	o.FailedFiles = append([]string(nil), o.FailedFiles...)
	return o
}

// State is a copy of the controller state.
type State struct {
	Status         Status
	ImageSourceDir string
	CropOutputDir  string
	// LastOutcome is nil until the first trigger resolves.
	LastOutcome *Outcome
}

// Selection returns the selected path for role.
func (s State) Selection(role Role) string {
	if role == CropOutputDir {
		return s.CropOutputDir
	}
	return s.ImageSourceDir
}

// Ready reports whether both directories are selected and nothing is running.
func (s State) Ready() bool {
	return s.Status != StatusRunning && s.ImageSourceDir != "" && s.CropOutputDir != ""
}
