package crop

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestGeometry_Rect(t *testing.T) {
	g := Geometry{TopRatio: 0.055, BottomRatio: 0.124}
	cases := []struct {
		height   int
		wantTop  int
		wantKept int
	}{
		{100, 6, 82},
		{1000, 55, 821},
		{20, 2, 16},
	}
	for _, tc := range cases {
		r, err := g.Rect(image.Rect(0, 0, 40, tc.height))
		if err != nil {
			t.Fatalf("h=%d: %v", tc.height, err)
		}
		if r.Min.Y != tc.wantTop || r.Dy() != tc.wantKept || r.Dx() != 40 {
			t.Errorf("h=%d: rect = %v, want top %d height %d", tc.height, r, tc.wantTop, tc.wantKept)
		}
	}
}

func TestGeometry_RectOffsetBounds(t *testing.T) {
	g := Geometry{TopRatio: 0.055, BottomRatio: 0.124}
	r, err := g.Rect(image.Rect(5, 10, 15, 110))
	if err != nil {
		t.Fatal(err)
	}
	if r != image.Rect(5, 16, 15, 98) {
		t.Fatalf("rect = %v", r)
	}
}

func TestGeometry_TooSmall(t *testing.T) {
	g := Geometry{TopRatio: 0.055, BottomRatio: 0.124}
	if _, err := g.Rect(image.Rect(0, 0, 10, 1)); !errors.Is(err, ErrTooSmall) {
		t.Fatalf("err = %v, want ErrTooSmall", err)
	}
	if _, err := g.Rect(image.Rect(0, 0, 0, 100)); !errors.Is(err, ErrTooSmall) {
		t.Fatalf("zero width err = %v, want ErrTooSmall", err)
	}
}

type plainImage struct{ image.Image }

func TestGeometry_ApplyWithoutSubImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, color.RGBA{R: uint8(y), A: 255})
		}
	}
	g := Geometry{TopRatio: 0.055, BottomRatio: 0.124}

	out, err := g.Apply(plainImage{src})
	if err != nil {
		t.Fatal(err)
	}
	if out.Bounds() != image.Rect(0, 0, 4, 82) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if r, _, _, _ := out.At(0, 0).RGBA(); r>>8 != 6 {
		t.Fatalf("first kept row = %d, want 6", r>>8)
	}

	sub, err := g.Apply(src)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Bounds().Min.Y != 6 || sub.Bounds().Dy() != 82 {
		t.Fatalf("subimage bounds = %v", sub.Bounds())
	}
}
