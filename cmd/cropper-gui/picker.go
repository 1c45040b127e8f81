package main

import (
	"context"
	"errors"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"github.com/oukeidos/cropper/internal/workflow"
)

var errUnsupportedPick = errors.New("only single directory selection is supported")

type pickResult struct {
	path string
	ok   bool
	err  error
}

// folderPicker opens fyne's folder dialog and blocks the calling goroutine
// until the user picks or dismisses it.
type folderPicker struct {
	app *cropperApp
	// startDir returns the folder the dialog opens in, if any.
	startDir func() string
}

func (p *folderPicker) PickDirectory(ctx context.Context, req workflow.PickRequest) (string, bool, error) {
	if !req.Directory || req.Multiple {
		return "", false, errUnsupportedPick
	}

	result := make(chan pickResult, 1)
	p.app.safeDo("picker.open", func() {
		d := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
			switch {
			case err != nil:
				result <- pickResult{err: err}
			case uri == nil:
				result <- pickResult{}
			default:
				result <- pickResult{path: uri.Path(), ok: true}
			}
		}, p.app.window)
		d.SetTitleText(req.Title)
		if lister := p.startLocation(); lister != nil {
			d.SetLocation(lister)
		}
		d.Resize(fyne.NewSize(900, 650))
		d.Show()
	})

	select {
	case r := <-result:
		return r.path, r.ok, r.err
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

func (p *folderPicker) startLocation() fyne.ListableURI {
	if p.startDir == nil {
		return nil
	}
	dir := p.startDir()
	if dir == "" {
		return nil
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil
	}
	lister, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		return nil
	}
	return lister
}
