package model

// Summary holds the results of an operation for display.
type Summary struct {
	Created  []string
	Modified []string
	Failed   []string
	Message  string
	// Canceled is set when the user dismissed a prompt.
	Canceled bool
}

// Empty reports whether the operation touched no files.
func (s Summary) Empty() bool {
	return len(s.Created) == 0 && len(s.Modified) == 0 && len(s.Failed) == 0
}
