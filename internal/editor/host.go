package editor

import "sort"

// OpKind names a structural row action.
type OpKind string

const (
	OpAdd      OpKind = "add"
	OpMoveUp   OpKind = "move_up"
	OpMoveDown OpKind = "move_down"
	OpDelete   OpKind = "delete"
)

// Op describes a row action about to run.
type Op struct {
	Kind OpKind
	Self *Question
	// Other is the adjacent sibling swapped by a move. Nil for add and delete.
	Other *Question
	// Rows is a snapshot of the current order.
	Rows []*Question
}

// Hook runs before a row action. A non-nil error cancels the action.
type Hook func(op Op) error

// Host owns the ordered question rows and renumbers them after every
// structural action. Hooks registered with Use run in order before the
// action and may refuse it.
type Host struct {
	rows  []*Question
	hooks []Hook
	busy  bool
}

// NewHost orders rows by sort order and renumbers them 0..N-1.
func NewHost(rows []*Question) *Host {
	h := &Host{rows: append([]*Question(nil), rows...)}
	sort.SliceStable(h.rows, func(i, j int) bool {
		return h.rows[i].SortOrder < h.rows[j].SortOrder
	})
	h.renumber()
	return h
}

// Use appends a pre-action hook.
func (h *Host) Use(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// Rows returns the rows in order.
func (h *Host) Rows() []*Question {
	return append([]*Question(nil), h.rows...)
}

// Len returns the number of rows.
func (h *Host) Len() int { return len(h.rows) }

// Add appends q as the last row.
func (h *Host) Add(q *Question) error {
	return h.run(Op{Kind: OpAdd, Self: q}, func() {
		h.rows = append(h.rows, q)
	})
}

// MoveUp swaps q with the row before it.
func (h *Host) MoveUp(q *Question) error {
	i := h.indexOf(q)
	if i == 0 {
		return ErrNoSibling
	}
	return h.run(Op{Kind: OpMoveUp, Self: q, Other: h.rows[i-1]}, func() {
		h.rows[i-1], h.rows[i] = h.rows[i], h.rows[i-1]
	})
}

// MoveDown swaps q with the row after it.
func (h *Host) MoveDown(q *Question) error {
	i := h.indexOf(q)
	if i == len(h.rows)-1 {
		return ErrNoSibling
	}
	return h.run(Op{Kind: OpMoveDown, Self: q, Other: h.rows[i+1]}, func() {
		h.rows[i], h.rows[i+1] = h.rows[i+1], h.rows[i]
	})
}

// Delete removes q. A removed row keeps SortOrder -1.
func (h *Host) Delete(q *Question) error {
	i := h.indexOf(q)
	return h.run(Op{Kind: OpDelete, Self: q}, func() {
		h.rows = append(h.rows[:i], h.rows[i+1:]...)
		q.SortOrder = -1
	})
}

func (h *Host) run(op Op, apply func()) error {
	if h.busy {
		return ErrReentrantAction
	}
	h.busy = true
	defer func() { h.busy = false }()

	op.Rows = h.Rows()
	for _, hook := range h.hooks {
		if err := hook(op); err != nil {
			return err
		}
	}

	apply()
	h.renumber()
	return nil
}

func (h *Host) renumber() {
	for i, q := range h.rows {
		q.SortOrder = i
	}
}

// indexOf panics when q is not one of the host's rows; callers resolve rows
// through the session lookup first.
func (h *Host) indexOf(q *Question) int {
	for i, r := range h.rows {
		if r == q {
			return i
		}
	}
	panic("editor: row " + q.ID.String() + " is not owned by this host")
}
