package editor

// Option is one entry of a skip-to-question selector. Value is the target
// question's sort order, Label its current label.
type Option struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

const noSelection = -1

// Selector is the skip-to-question control of one question row.
type Selector struct {
	options  []Option
	selected int
}

func newSelector() *Selector {
	return &Selector{selected: noSelection}
}

// Options returns a copy of the current options in sort order.
func (s *Selector) Options() []Option {
	out := make([]Option, len(s.options))
	copy(out, s.options)
	return out
}

// Selected returns the selected value, if any.
func (s *Selector) Selected() (int, bool) {
	return s.selected, s.selected != noSelection
}

// Has reports whether an option keyed by value exists.
func (s *Selector) Has(value int) bool {
	return s.index(value) >= 0
}

func (s *Selector) index(value int) int {
	for i, o := range s.options {
		if o.Value == value {
			return i
		}
	}
	return -1
}

func (s *Selector) selectValue(value int) error {
	if !s.Has(value) {
		return ErrInvalidSkipTarget
	}
	s.selected = value
	return nil
}

func (s *Selector) clear() {
	s.selected = noSelection
}

// rename updates the label of the option keyed by value without touching
// the selection.
func (s *Selector) rename(value int, label string) bool {
	i := s.index(value)
	if i < 0 {
		return false
	}
	s.options[i].Label = label
	return true
}

func (s *Selector) reset(opts []Option) {
	s.options = opts
	s.selected = noSelection
}
