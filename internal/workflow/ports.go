package workflow

import "context"

// PickRequest describes the native directory dialog to open.
type PickRequest struct {
	Title     string
	Multiple  bool
	Directory bool
}

// Picker asks the user for a directory. ok=false means the dialog was
// dismissed without a choice.
type Picker interface {
	PickDirectory(ctx context.Context, req PickRequest) (path string, ok bool, err error)
}

type PickerFunc func(ctx context.Context, req PickRequest) (string, bool, error)

func (f PickerFunc) PickDirectory(ctx context.Context, req PickRequest) (string, bool, error) {
	return f(ctx, req)
}

// Notifier shows an outcome to the user.
type Notifier interface {
	Notify(Outcome)
}

type NotifierFunc func(Outcome)

func (f NotifierFunc) Notify(o Outcome) { f(o) }
