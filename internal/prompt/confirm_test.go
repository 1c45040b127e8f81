package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestConfirmNonEmptyOutput_NonInteractive(t *testing.T) {
	c := Confirmer{
		In:            bytes.NewBufferString("y\n"),
		IsInteractive: func() bool { return false },
	}
	ok, err := c.ConfirmNonEmptyOutput("/out", false)
	if !errors.Is(err, ErrNonInteractive) {
		t.Fatalf("expected ErrNonInteractive, got ok=%v err=%v", ok, err)
	}
}

func TestConfirmNonEmptyOutput_Force(t *testing.T) {
	c := Confirmer{
		In:            bytes.NewBufferString("n\n"),
		IsInteractive: func() bool { return false },
	}
	ok, err := c.ConfirmNonEmptyOutput("/out", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true when forced")
	}
}

func TestConfirmNonEmptyOutput_Interactive(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tc := range cases {
		t.Run(strings.TrimSpace(tc.input), func(t *testing.T) {
			var out bytes.Buffer
			c := Confirmer{
				In:            bytes.NewBufferString(tc.input),
				Out:           &out,
				IsInteractive: func() bool { return true },
			}
			ok, err := c.ConfirmNonEmptyOutput("/out", false)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tc.want {
				t.Fatalf("ok = %v, want %v", ok, tc.want)
			}
			if !strings.Contains(out.String(), "/out") {
				t.Fatalf("prompt should name the directory: %q", out.String())
			}
		})
	}
}
