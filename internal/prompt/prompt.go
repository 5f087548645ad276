// Package prompt defines the blocking prompt seam used by the generators.
//
// A Driver suspends the calling goroutine until the user confirms or
// cancels. Cancel is not an error: it yields an empty answer. A non-nil error
// means the prompt host itself failed.
package prompt

import (
	"context"
	"errors"
)

// ErrCanceled marks a run aborted because a prompt was dismissed.
var ErrCanceled = errors.New("canceled")

// Driver shows prompts to the user.
type Driver interface {
	// Text asks for a line of text. It returns "" when the prompt is canceled.
	Text(ctx context.Context, caption, initial string) (string, error)
	// Choice asks for one of options. It returns "" when the prompt is
	// canceled. defaultIndex < 0 means no preselection.
	Choice(ctx context.Context, options []string, placeholder string, defaultIndex int) (string, error)
}

const (
	Yes = "Yes"
	No  = "No"
)

// Confirm asks a yes/no question. canceled is true when the user dismissed
// the prompt instead of answering.
func Confirm(ctx context.Context, d Driver, title string) (yes, canceled bool, err error) {
	answer, err := d.Choice(ctx, []string{Yes, No}, title, 0)
	if err != nil {
		return false, false, err
	}
	if answer == "" {
		return false, true, nil
	}
	return answer == Yes, false, nil
}

// IndexOf returns the position of s in options, or -1.
func IndexOf(options []string, s string) int {
	for i, o := range options {
		if o == s {
			return i
		}
	}
	return -1
}
