package main

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oukeidos/cropper/internal/crop"
	"github.com/oukeidos/cropper/internal/logger"
	"github.com/oukeidos/cropper/internal/workflow"
)

type reportFormat string

const (
	formatText reportFormat = "text"
	formatJSON reportFormat = "json"
	formatYAML reportFormat = "yaml"
)

func parseReportFormat(v string) (reportFormat, error) {
	switch f := reportFormat(strings.ToLower(strings.TrimSpace(v))); f {
	case formatText, formatJSON, formatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported --format %q (supported: text, json, yaml)", v)
	}
}

// yamlReport is the human-oriented structured report.
type yamlReport struct {
	Status string   `yaml:"status"`
	Failed []string `yaml:"failed,omitempty"`
	Error  string   `yaml:"error,omitempty"`
}

// reportNotifier prints each outcome to w. JSON output is the crop wire
// response, which is what crop.Command parses when cropper runs as an engine.
type reportNotifier struct {
	w      io.Writer
	format reportFormat
}

func (n *reportNotifier) Notify(o workflow.Outcome) {
	if err := writeReport(n.w, n.format, o); err != nil {
		logger.Error("Failed to write report", "error", err)
	}
}

func writeReport(w io.Writer, format reportFormat, o workflow.Outcome) error {
	switch format {
	case formatJSON:
		return crop.WriteResponse(w, responseFor(o))
	case formatYAML:
		data, err := yaml.Marshal(yamlReport{Status: o.Kind.String(), Failed: o.FailedFiles, Error: o.Message})
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		// Errors surface as the command's returned error.
		if o.Kind == workflow.OutcomeError {
			return nil
		}
		_, err := fmt.Fprintln(w, o.String())
		return err
	}
}

func responseFor(o workflow.Outcome) crop.Response {
	switch o.Kind {
	case workflow.OutcomeSuccess:
		return crop.NewResponse(crop.Result{}, nil)
	case workflow.OutcomePartialFailure:
		return crop.NewResponse(crop.Result{Failed: o.FailedFiles}, nil)
	default:
		return crop.Response{Status: crop.StatusError, Error: o.Message}
	}
}
