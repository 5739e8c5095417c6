package editor

import (
	"errors"
	"fmt"
)

var (
	ErrInvariantViolation  = errors.New("action would break a skip logic reference")
	ErrNoSibling           = errors.New("no sibling question in that direction")
	ErrReentrantAction     = errors.New("row action already in progress")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrDuplicateQuestion   = errors.New("duplicate question id")
	ErrDuplicateSortOrder  = errors.New("duplicate question sort order")
	ErrInvalidSkipTarget   = errors.New("skip target is not a later question")
	ErrInvalidQuestionType = errors.New("unknown question type")
	ErrInvalidSkipAction   = errors.New("unknown skip action")
	ErrTargetRequired      = errors.New("a question must be selected to progress to")
	ErrSurveyRequired      = errors.New("a survey must be selected to progress to")
	ErrOptionDisabled      = errors.New("display option is disabled")
	ErrTooLong             = errors.New("text exceeds the character limit")
)

// Violation is returned when a guarded row action is refused. Referrers
// holds the labels of every question whose skip logic blocks the action.
type Violation struct {
	Kind      OpKind
	Referrers []string
}

func (v *Violation) Error() string {
	first := ""
	if len(v.Referrers) > 0 {
		first = v.Referrers[0]
	}

	switch v.Kind {
	case OpMoveUp:
		return fmt.Sprintf("Cannot move above %q, please change the logic.", first)
	case OpMoveDown:
		return fmt.Sprintf("Cannot move below %q, please change the logic.", first)
	default:
		if extra := len(v.Referrers) - 1; extra > 0 {
			return fmt.Sprintf("Cannot delete, referenced by skip logic in question %q and %d other question(s).", first, extra)
		}
		return fmt.Sprintf("Cannot delete, referenced by skip logic in question %q.", first)
	}
}

func (v *Violation) Unwrap() error { return ErrInvariantViolation }
