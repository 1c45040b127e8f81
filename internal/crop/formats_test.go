package crop

import (
	"bytes"
	"errors"
	"image"
	"testing"
)

func TestFormatFromPath(t *testing.T) {
	cases := map[string]Format{
		"a.jpg":       FormatJPEG,
		"B.JPEG":      FormatJPEG,
		"c.png":       FormatPNG,
		"d.Gif":       FormatGIF,
		"e.bmp":       FormatBMP,
		"f.tif":       FormatTIFF,
		"g.tiff":      FormatTIFF,
		"h.webp":      FormatWEBP,
		"/x/y/z.jpe":  FormatJPEG,
		"dir.d/i.png": FormatPNG,
	}
	for path, want := range cases {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v; want %q", path, got, err, want)
		}
	}

	for _, path := range []string{"notes.txt", "README", ".DS_Store"} {
		if _, err := FormatFromPath(path); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("FormatFromPath(%q) err = %v, want ErrUnsupportedFormat", path, err)
		}
	}
}

func TestCanEncode(t *testing.T) {
	for _, f := range []Format{FormatJPEG, FormatPNG, FormatGIF, FormatBMP, FormatTIFF} {
		if !f.CanEncode() {
			t.Errorf("%s should be encodable", f)
		}
	}
	if FormatWEBP.CanEncode() {
		t.Errorf("webp should be decode-only")
	}
}

func TestSupportedExtensionsSorted(t *testing.T) {
	exts := SupportedExtensions()
	if len(exts) != len(extensionFormats) {
		t.Fatalf("len = %d", len(exts))
	}
	for i := 1; i < len(exts); i++ {
		if exts[i-1] >= exts[i] {
			t.Fatalf("not sorted: %v", exts)
		}
	}
}

func TestEncodeDecodeEachWritableFormat(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for _, f := range []Format{FormatJPEG, FormatPNG, FormatGIF, FormatBMP, FormatTIFF} {
		var buf bytes.Buffer
		if err := encode(&buf, img, f, 90); err != nil {
			t.Fatalf("encode %s: %v", f, err)
		}
		got, err := decode(&buf)
		if err != nil {
			t.Fatalf("decode %s: %v", f, err)
		}
		if got.Bounds().Dx() != 8 || got.Bounds().Dy() != 6 {
			t.Fatalf("%s bounds = %v", f, got.Bounds())
		}
	}

	if err := encode(&bytes.Buffer{}, img, FormatWEBP, 90); !errors.Is(err, ErrEncodeUnsupported) {
		t.Fatalf("webp encode err = %v", err)
	}
}
