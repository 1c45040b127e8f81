package main

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/oukeidos/cropper/internal/config"
	"github.com/oukeidos/cropper/internal/crop"
	"github.com/oukeidos/cropper/internal/prompt"
)

func withDefaultSettings(t *testing.T) {
	t.Helper()
	prev := loadSettings
	loadSettings = func(config.LoadOptions) (config.Settings, error) {
		s := config.Default()
		s.Concurrency = 2
		return s, nil
	}
	t.Cleanup(func() { loadSettings = prev })
}

func withConfirmer(t *testing.T, interactive bool, answer string) {
	t.Helper()
	prev := newConfirmer
	newConfirmer = func() prompt.Confirmer {
		return prompt.Confirmer{
			In:            strings.NewReader(answer),
			Out:           &bytes.Buffer{},
			IsInteractive: func() bool { return interactive },
		}
	}
	t.Cleanup(func() { newConfirmer = prev })
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
}

func decodeResponse(t *testing.T, out string) crop.Response {
	t.Helper()
	resp, err := crop.ReadResponse(strings.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a crop response: %v (%q)", err, out)
	}
	return resp
}

func TestRoot_NoArgsShowsHelp(t *testing.T) {
	withDefaultSettings(t)
	out, err := executeCommand(t)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"crop", "formats", "about"} {
		if !strings.Contains(out, want) {
			t.Fatalf("help missing %q: %s", want, out)
		}
	}
}

func TestRoot_UnknownArg(t *testing.T) {
	withDefaultSettings(t)
	if _, err := executeCommand(t, "resize"); err == nil || !strings.Contains(err.Error(), `unknown command "resize"`) {
		t.Fatalf("err = %v", err)
	}
}

func TestRoot_SettingsLoadFailure(t *testing.T) {
	_, err := executeCommand(t, "crop", "--env-file", filepath.Join(t.TempDir(), "missing.env"))
	if err == nil || !strings.Contains(err.Error(), "failed to load settings") {
		t.Fatalf("err = %v", err)
	}
}

func TestFormatsCmd(t *testing.T) {
	withDefaultSettings(t)
	out, err := executeCommand(t, "formats")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, ".jpg") || !strings.Contains(out, ".webp  webp (read only") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestAboutCmd(t *testing.T) {
	withDefaultSettings(t)
	out, err := executeCommand(t, "about")
	if err != nil || !strings.Contains(out, "github.com/oukeidos/cropper") {
		t.Fatalf("about = %q, %v", out, err)
	}
}

func TestCrop_JSONSuccess(t *testing.T) {
	withDefaultSettings(t)
	src, dst := t.TempDir(), t.TempDir()
	writeTestPNG(t, filepath.Join(src, "a.png"), 10, 100)

	out, err := executeCommand(t, "crop", "--source", src, "--output", dst, "--format", "json")
	if err != nil {
		t.Fatalf("crop: %v (%s)", err, out)
	}
	if strings.TrimSpace(out) != `{"status":"ok","data":[]}` {
		t.Fatalf("output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dst, "a.png")); err != nil {
		t.Fatalf("crop not written: %v", err)
	}
}

func TestCrop_TextPartialFailure(t *testing.T) {
	withDefaultSettings(t)
	src, dst := t.TempDir(), t.TempDir()
	writeTestPNG(t, filepath.Join(src, "a.png"), 10, 100)
	if err := os.WriteFile(filepath.Join(src, "notes.txt"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(t, "crop", "-s", src, "-o", dst)
	if err == nil || err.Error() != "1 file(s) could not be cropped" {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(out, filepath.Join(src, "notes.txt")) {
		t.Fatalf("output does not list failed file: %s", out)
	}
}

func TestCrop_YAMLReport(t *testing.T) {
	withDefaultSettings(t)
	src, dst := t.TempDir(), t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "b.gif"), []byte("not a gif"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(t, "crop", "-s", src, "-o", dst, "--format", "yaml")
	if err == nil {
		t.Fatalf("expected partial failure error")
	}
	var rep yamlReport
	if err := yaml.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("yaml: %v (%s)", err, out)
	}
	if rep.Status != "partial_failure" || len(rep.Failed) != 1 {
		t.Fatalf("report = %+v", rep)
	}
}

func TestCrop_MissingSelection(t *testing.T) {
	withDefaultSettings(t)
	out, err := executeCommand(t, "crop", "--output", t.TempDir(), "--format", "json")
	if err == nil || err.Error() != "selection incomplete" {
		t.Fatalf("err = %v", err)
	}
	resp := decodeResponse(t, out)
	if resp.Status != crop.StatusError || resp.Error != "selection incomplete" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestCrop_SameDirectory(t *testing.T) {
	withDefaultSettings(t)
	dir := t.TempDir()
	_, err := executeCommand(t, "crop", "-s", dir, "-o", dir, "--yes")
	if err == nil || !strings.Contains(err.Error(), "different directories") {
		t.Fatalf("err = %v", err)
	}
}

func TestCrop_MissingSourceReportsServiceError(t *testing.T) {
	withDefaultSettings(t)
	missing := filepath.Join(t.TempDir(), "nope")
	out, err := executeCommand(t, "crop", "-s", missing, "-o", t.TempDir(), "--format", "json")
	if err == nil {
		t.Fatalf("expected error")
	}
	resp := decodeResponse(t, out)
	if resp.Status != crop.StatusError || !strings.Contains(resp.Error, "image folder") {
		t.Fatalf("response = %+v", resp)
	}
}

func TestCrop_UnavailableEngine(t *testing.T) {
	withDefaultSettings(t)
	out, err := executeCommand(t, "crop", "-s", t.TempDir(), "-o", t.TempDir(), "--format", "json",
		"--engine", filepath.Join(t.TempDir(), "no-such-cropper"))
	if err == nil {
		t.Fatalf("expected error")
	}
	resp := decodeResponse(t, out)
	if resp.Error != "The crop service is unavailable." {
		t.Fatalf("response = %+v", resp)
	}
}

func TestCrop_NonEmptyOutputNeedsConfirmation(t *testing.T) {
	withDefaultSettings(t)
	src, dst := t.TempDir(), t.TempDir()
	writeTestPNG(t, filepath.Join(src, "a.png"), 10, 100)
	if err := os.WriteFile(filepath.Join(dst, "a.png"), []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	withConfirmer(t, false, "")
	if _, err := executeCommand(t, "crop", "-s", src, "-o", dst); !errors.Is(err, prompt.ErrNonInteractive) {
		t.Fatalf("non-interactive err = %v", err)
	}

	withConfirmer(t, true, "n\n")
	if _, err := executeCommand(t, "crop", "-s", src, "-o", dst); err == nil || !strings.Contains(err.Error(), "aborted") {
		t.Fatalf("declined err = %v", err)
	}
	if data, _ := os.ReadFile(filepath.Join(dst, "a.png")); string(data) != "old" {
		t.Fatalf("output replaced after decline")
	}

	if _, err := executeCommand(t, "crop", "-s", src, "-o", dst, "-y"); err != nil {
		t.Fatalf("--yes: %v", err)
	}

	// --no-overwrite never replaces, so it does not ask either.
	withConfirmer(t, false, "")
	if _, err := executeCommand(t, "crop", "-s", src, "-o", dst, "--no-overwrite"); err != nil {
		t.Fatalf("--no-overwrite: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "a_1.png")); err != nil {
		t.Fatalf("numbered copy missing: %v", err)
	}
}

func TestCrop_InvalidFlags(t *testing.T) {
	withDefaultSettings(t)
	cases := [][]string{
		{"crop", "--format", "xml"},
		{"crop", "--timeout", "soon"},
		{"crop", "--timeout", "-1s"},
		{"crop", "--top-ratio", "0.6", "--bottom-ratio", "0.5"},
		{"crop", "extra-arg"},
	}
	for _, args := range cases {
		if _, err := executeCommand(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}
