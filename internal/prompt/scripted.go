package prompt

import (
	"context"
	"sync"
)

// Scripted answers prompts from a fixed list. Running out of answers
// behaves like a cancel. Choice answers may be given as an option or as
// "" to accept the default.
type Scripted struct {
	mu      sync.Mutex
	answers []string
	pos     int
	asked   []string
}

// NewScripted creates a driver that replays answers in order.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

func (s *Scripted) next(caption string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, caption)
	if s.pos >= len(s.answers) {
		return "", false
	}
	answer := s.answers[s.pos]
	s.pos++
	return answer, true
}

func (s *Scripted) Text(ctx context.Context, caption, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	answer, _ := s.next(caption)
	return answer, nil
}

func (s *Scripted) Choice(ctx context.Context, options []string, placeholder string, defaultIndex int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	answer, ok := s.next(placeholder)
	if !ok {
		return "", nil
	}
	if answer == "" && defaultIndex >= 0 && defaultIndex < len(options) {
		return options[defaultIndex], nil
	}
	if IndexOf(options, answer) < 0 {
		// An answer outside the offered options is treated as a dismissal.
		return "", nil
	}
	return answer, nil
}

// Asked returns the captions and placeholders seen so far.
func (s *Scripted) Asked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.asked))
	copy(out, s.asked)
	return out
}
