package main

import (
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/cropper/internal/workflow"
)

// dialogNotifier shows each outcome as a dialog and a desktop notification.
type dialogNotifier struct {
	app *cropperApp
}

func (n *dialogNotifier) Notify(o workflow.Outcome) {
	a := n.app
	a.setState(stateForOutcome(o))
	a.safeDo("notify.dialog", func() {
		switch o.Kind {
		case workflow.OutcomeSuccess:
			dialog.ShowInformation("Crop complete", o.String(), a.window)
		case workflow.OutcomePartialFailure:
			a.showFailedFiles(o.FailedFiles)
		default:
			dialog.ShowError(errors.New(o.Message), a.window)
		}
	})
	if app := fyne.CurrentApp(); app != nil {
		app.SendNotification(fyne.NewNotification("cropper", notificationText(o)))
	}
}

func notificationText(o workflow.Outcome) string {
	switch o.Kind {
	case workflow.OutcomeSuccess:
		return "All images cropped."
	case workflow.OutcomePartialFailure:
		return fmt.Sprintf("Cropped with %d file(s) skipped.", len(o.FailedFiles))
	default:
		return "Crop failed: " + o.Message
	}
}

func (a *cropperApp) showFailedFiles(failed []string) {
	list := widget.NewMultiLineEntry()
	list.SetText(strings.Join(failed, "\n"))
	list.Wrapping = fyne.TextWrapOff
	list.Disable()

	scroll := container.NewScroll(list)
	scroll.SetMinSize(fyne.NewSize(560, 240))
	content := container.NewBorder(
		widget.NewLabel(fmt.Sprintf("%d file(s) could not be cropped:", len(failed))),
		nil, nil, nil,
		scroll,
	)
	dialog.ShowCustom("Some files were skipped", "Close", content, a.window)
}
