package main

import "github.com/oukeidos/cropper/internal/workflow"

type AppState int

const (
	StateIdle AppState = iota
	StateProcessing
	StateSuccess
	StatePartialFailure
	StateFailure
)

func (s AppState) label() string {
	switch s {
	case StateProcessing:
		return "Cropping…"
	case StateSuccess:
		return "Done."
	case StatePartialFailure:
		return "Done, with some files skipped."
	case StateFailure:
		return "Crop failed."
	default:
		return "Select an image folder and a crop folder."
	}
}

func stateForOutcome(o workflow.Outcome) AppState {
	switch o.Kind {
	case workflow.OutcomeSuccess:
		return StateSuccess
	case workflow.OutcomePartialFailure:
		return StatePartialFailure
	default:
		return StateFailure
	}
}
