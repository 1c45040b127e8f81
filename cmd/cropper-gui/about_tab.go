package main

import (
	"fmt"
	"net/url"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/cropper/internal/crop"
	"github.com/oukeidos/cropper/internal/version"
)

const githubURL = "https://github.com/oukeidos/cropper"

func buildAboutTab(w fyne.Window) fyne.CanvasObject {
	commit, built := version.Details()
	aboutSection := container.NewVBox(
		widget.NewLabelWithStyle("About", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("App", widget.NewLabel("cropper")),
			widget.NewFormItem("Version", widget.NewLabel(version.Version)),
			widget.NewFormItem("Commit", widget.NewLabel(commit)),
			widget.NewFormItem("Build", widget.NewLabel(built)),
			widget.NewFormItem("Links", newHyperlink("GitHub", githubURL)),
		),
	)

	formatsBtn := widget.NewButton("Supported Formats", func() {
		showTextDialog(w, "Supported Formats", supportedFormatsText())
	})

	return container.NewPadded(container.NewVScroll(container.NewVBox(
		aboutSection,
		widget.NewSeparator(),
		formatsBtn,
	)))
}

func supportedFormatsText() string {
	var b strings.Builder
	for _, ext := range crop.SupportedExtensions() {
		f, _ := crop.FormatFromPath(ext)
		if f.CanEncode() {
			fmt.Fprintf(&b, "%s\t%s\n", ext, f)
		} else {
			fmt.Fprintf(&b, "%s\t%s (read only, reported as skipped)\n", ext, f)
		}
	}
	return b.String()
}

func newHyperlink(label, raw string) *widget.Hyperlink {
	u, _ := url.Parse(raw)
	return widget.NewHyperlink(label, u)
}

func showTextDialog(w fyne.Window, title, text string) {
	entry := widget.NewMultiLineEntry()
	entry.SetText(text)
	entry.Wrapping = fyne.TextWrapWord
	lock := false
	entry.OnChanged = func(s string) {
		if lock || s == text {
			return
		}
		lock = true
		entry.SetText(text)
		lock = false
	}
	scroll := container.NewScroll(entry)
	scroll.SetMinSize(fyne.NewSize(480, 320))
	d := dialog.NewCustom(title, "Close", scroll, w)
	d.Resize(fyne.NewSize(520, 380))
	d.Show()
}
