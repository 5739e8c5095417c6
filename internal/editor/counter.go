package editor

import "unicode/utf8"

// DefaultLabelLimit is the max length of question labels and survey titles.
const DefaultLabelLimit = 255

// Counter computes the remaining characters of a length-limited input.
type Counter struct {
	Limit int
}

// Remaining returns Limit minus the number of characters in s. It goes
// negative when s is over the limit.
func (c Counter) Remaining(s string) int {
	return c.Limit - utf8.RuneCountInString(s)
}
