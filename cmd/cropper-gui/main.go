package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/cropper/internal/config"
	"github.com/oukeidos/cropper/internal/crop"
	"github.com/oukeidos/cropper/internal/logger"
	"github.com/oukeidos/cropper/internal/workflow"
)

var newService = crop.NewService

type cropperApp struct {
	window fyne.Window
	prefs  fyne.Preferences
	ctrl   *workflow.Controller
	state  AppState

	settingsMu   sync.RWMutex
	baseSettings config.Settings
	settings     config.Settings

	// UI Components
	sourceLabel *widget.Label
	outputLabel *widget.Label
	statusLabel *widget.Label
	sourceBtn   *widget.Button
	outputBtn   *widget.Button
	cropBtn     *widget.Button
	progress    *widget.ProgressBarInfinite

	currentSettingsWin fyne.Window
	panicNoticeOnce    sync.Once
}

func newCropperApp(w fyne.Window, prefs fyne.Preferences, base config.Settings) (*cropperApp, error) {
	a := &cropperApp{window: w, prefs: prefs, baseSettings: base}
	a.settings = settingsFromPreferences(prefs, base)

	ctrl, err := workflow.New(workflow.Options{
		Service:  a.cropService(),
		Picker:   &folderPicker{app: a, startDir: a.lastSelectedDir},
		Notifier: &dialogNotifier{app: a},
		OnChange: a.onWorkflowChange,
	})
	if err != nil {
		return nil, err
	}
	a.ctrl = ctrl
	a.setupUI()
	return a, nil
}

func (a *cropperApp) currentSettings() config.Settings {
	a.settingsMu.RLock()
	defer a.settingsMu.RUnlock()
	return a.settings
}

func (a *cropperApp) updateSettings(s config.Settings) {
	a.settingsMu.Lock()
	a.settings = s
	a.settingsMu.Unlock()
	saveSettingsToPreferences(a.prefs, s)
	logger.Info("Settings saved", "concurrency", s.Concurrency, "top_ratio", s.TopRatio, "bottom_ratio", s.BottomRatio, "engine", s.EngineCommand)
}

// cropService resolves settings on every call so changes made in the
// settings window apply to the next crop.
func (a *cropperApp) cropService() crop.Service {
	return crop.ServiceFunc(func(ctx context.Context, req crop.Request) (crop.Result, error) {
		s := a.currentSettings()
		svc, err := newService(s)
		if err != nil {
			return crop.Result{}, err
		}
		if s.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.Timeout)
			defer cancel()
		}
		return svc.Crop(ctx, req)
	})
}

func (a *cropperApp) lastSelectedDir() string {
	s := a.ctrl.Snapshot()
	if s.CropOutputDir != "" {
		return s.CropOutputDir
	}
	return s.ImageSourceDir
}

func (a *cropperApp) setupUI() {
	a.sourceLabel = widget.NewLabel(pathLabelText(""))
	a.outputLabel = widget.NewLabel(pathLabelText(""))
	a.statusLabel = widget.NewLabelWithStyle(StateIdle.label(), fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	a.sourceBtn = widget.NewButtonWithIcon(workflow.ImageSourceDir.Title(), theme.FolderOpenIcon(), func() {
		a.pick(workflow.ImageSourceDir)
	})
	a.outputBtn = widget.NewButtonWithIcon(workflow.CropOutputDir.Title(), theme.FolderOpenIcon(), func() {
		a.pick(workflow.CropOutputDir)
	})
	a.cropBtn = widget.NewButtonWithIcon("Crop", theme.ContentCutIcon(), a.triggerCrop)
	a.cropBtn.Importance = widget.HighImportance

	a.progress = widget.NewProgressBarInfinite()
	a.progress.Stop()
	a.progress.Hide()

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), a.showSettingsWindow)
	settingsBtn.Importance = widget.LowImportance

	form := container.New(layout.NewFormLayout(),
		a.sourceBtn, a.sourceLabel,
		a.outputBtn, a.outputLabel,
	)
	content := container.NewVBox(
		container.NewHBox(layout.NewSpacer(), settingsBtn),
		form,
		widget.NewSeparator(),
		a.cropBtn,
		a.progress,
		a.statusLabel,
	)
	a.window.SetContent(container.NewPadded(content))
}

func (a *cropperApp) pick(role workflow.Role) {
	a.safeGo("ui.pick."+role.String(), func() {
		a.ctrl.SelectDirectory(context.Background(), role)
	})
}

func (a *cropperApp) triggerCrop() {
	if _, err := a.ctrl.TriggerCrop(); err != nil && !errors.Is(err, workflow.ErrAlreadyRunning) {
		logger.Debug("Crop not started", "error", err)
	}
}

func (a *cropperApp) onWorkflowChange(s workflow.State) {
	a.safeDo("workflow.change", func() {
		a.sourceLabel.SetText(pathLabelText(s.ImageSourceDir))
		a.outputLabel.SetText(pathLabelText(s.CropOutputDir))
		if s.Status == workflow.StatusRunning {
			a.applyState(StateProcessing)
		}
	})
}

func (a *cropperApp) setState(s AppState) {
	a.safeDo("app.set_state", func() {
		a.applyState(s)
	})
}

// applyState must run on the UI goroutine.
func (a *cropperApp) applyState(s AppState) {
	a.state = s
	a.statusLabel.SetText(s.label())
	if s == StateProcessing {
		a.cropBtn.Disable()
		a.progress.Show()
		a.progress.Start()
		return
	}
	a.cropBtn.Enable()
	a.progress.Stop()
	a.progress.Hide()
}

func (a *cropperApp) handleDropped(uris []fyne.URI) {
	var dirs []string
	for _, u := range uris {
		if info, err := os.Stat(u.Path()); err == nil && info.IsDir() {
			dirs = append(dirs, u.Path())
		}
	}
	for role, path := range dropTargets(dirs, a.ctrl.Snapshot()) {
		if err := a.ctrl.SetDirectory(role, path); err != nil {
			logger.Warn("Dropped folder rejected", "path", path, "error", err)
		}
	}
}

// dropTargets assigns dropped folders to roles. Two folders fill both roles in
// order; a single folder fills the image folder first, then the crop folder.
func dropTargets(dirs []string, s workflow.State) map[workflow.Role]string {
	targets := map[workflow.Role]string{}
	switch {
	case len(dirs) >= 2:
		targets[workflow.ImageSourceDir] = dirs[0]
		targets[workflow.CropOutputDir] = dirs[1]
	case len(dirs) == 1 && s.ImageSourceDir != "" && s.CropOutputDir == "":
		targets[workflow.CropOutputDir] = dirs[0]
	case len(dirs) == 1:
		targets[workflow.ImageSourceDir] = dirs[0]
	}
	return targets
}

func main() {
	base := loadBaseSettings()
	logger.Init(logger.ParseLevel(base.LogLevel), nil)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Unrecovered GUI panic", "scope", "main", "panic", fmt.Sprint(r))
			os.Exit(1)
		}
	}()

	myApp := app.NewWithID("com.oukeidos.cropper")
	w := myApp.NewWindow("cropper")
	w.SetMaster()
	w.Resize(fyne.NewSize(640, 300))
	w.CenterOnScreen()

	ca, err := newCropperApp(w, myApp.Preferences(), base)
	if err != nil {
		logger.Fatal("Failed to start", "error", err)
	}
	w.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		ca.handleDropped(uris)
	})

	w.ShowAndRun()
}
