package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

func (a *cropperApp) showSettingsWindow() {
	if a.currentSettingsWin != nil {
		a.currentSettingsWin.RequestFocus()
		return
	}

	w := fyne.CurrentApp().NewWindow("Settings")
	a.currentSettingsWin = w
	w.SetOnClosed(func() {
		a.currentSettingsWin = nil
	})

	current := formFromSettings(a.currentSettings())
	concurrency := newEntryWithText(current.Concurrency)
	topRatio := newEntryWithText(current.TopRatio)
	bottomRatio := newEntryWithText(current.BottomRatio)
	jpegQuality := newEntryWithText(current.JPEGQuality)
	maxWidth := newEntryWithText(current.MaxWidth)
	maxWidth.SetPlaceHolder("0 keeps the cropped width")
	timeout := newEntryWithText(current.Timeout)
	timeout.SetPlaceHolder("No limit (e.g. 10m)")
	engine := newEntryWithText(current.EngineCommand)
	engine.SetPlaceHolder("Crop in-process")
	overwrite := widget.NewCheck("Replace files with the same name", nil)
	overwrite.SetChecked(current.Overwrite)

	form := widget.NewForm(
		widget.NewFormItem("Parallel images", concurrency),
		widget.NewFormItem("Top ratio", topRatio),
		widget.NewFormItem("Bottom ratio", bottomRatio),
		widget.NewFormItem("JPEG quality", jpegQuality),
		widget.NewFormItem("Max width", maxWidth),
		widget.NewFormItem("Timeout", timeout),
		widget.NewFormItem("Engine binary", engine),
		widget.NewFormItem("", overwrite),
	)

	saveBtn := widget.NewButton("Save", func() {
		f := settingsForm{
			Concurrency:   concurrency.Text,
			TopRatio:      topRatio.Text,
			BottomRatio:   bottomRatio.Text,
			JPEGQuality:   jpegQuality.Text,
			MaxWidth:      maxWidth.Text,
			Timeout:       timeout.Text,
			EngineCommand: engine.Text,
			Overwrite:     overwrite.Checked,
		}
		s, err := f.settings(a.currentSettings())
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		a.updateSettings(s)
		dialog.ShowInformation("Saved", "Settings apply to the next crop.", w)
	})
	saveBtn.Importance = widget.HighImportance

	resetBtn := widget.NewButton("Reset to Defaults", func() {
		dialog.ShowConfirm("Reset", "Restore the default crop settings?", func(ok bool) {
			if !ok {
				return
			}
			a.updateSettings(a.baseSettings)
			w.Close()
		}, w)
	})

	settingsTab := container.NewPadded(container.NewVBox(
		widget.NewLabelWithStyle("Crop", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		form,
		container.NewHBox(saveBtn, resetBtn),
	))

	tabs := container.NewAppTabs(
		container.NewTabItem("Settings", settingsTab),
		container.NewTabItem("About", buildAboutTab(w)),
	)
	w.SetContent(tabs)
	w.Resize(fyne.NewSize(520, 520))
	w.CenterOnScreen()
	w.Show()
}

func newEntryWithText(text string) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(text)
	return e
}
