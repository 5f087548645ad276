package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// Survey prompts on the controlling terminal, line by line.
type Survey struct {
	opts []survey.AskOpt
}

// NewSurvey creates a terminal driver. opts are passed to every question,
// e.g. survey.WithStdio in tests.
func NewSurvey(opts ...survey.AskOpt) *Survey {
	return &Survey{opts: opts}
}

func (d *Survey) Text(ctx context.Context, caption, initial string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	q := &survey.Input{Message: caption, Default: initial}
	if err := survey.AskOne(q, &out, d.opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *Survey) Choice(ctx context.Context, options []string, placeholder string, defaultIndex int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(options) == 0 {
		return "", nil
	}
	q := &survey.Select{Message: placeholder, Options: options}
	if defaultIndex >= 0 && defaultIndex < len(options) {
		q.Default = options[defaultIndex]
	}
	var out string
	if err := survey.AskOne(q, &out, d.opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

// translateSurveyErr turns an interrupt into a cancel (nil error, empty
// answer) and wraps anything else.
func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return nil
	}
	return fmt.Errorf("prompt failed: %w", err)
}
