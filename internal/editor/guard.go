package editor

// Guard refuses row actions that would break an active skip-to-question
// reference. It is registered as the session's first Host hook.
//
// Delete scans every sibling and reports all referrers.
func Guard(op Op) error {
	switch op.Kind {
	case OpDelete:
		var referrers []string
		for _, q := range op.Rows {
			if q == op.Self {
				continue
			}
			if t, ok := q.activeTarget(); ok && t == op.Self.SortOrder {
				referrers = append(referrers, q.Label)
			}
		}
		if len(referrers) > 0 {
			return &Violation{Kind: OpDelete, Referrers: referrers}
		}

	case OpMoveUp:
		// Self would land before Other, which targets it.
		if t, ok := op.Other.activeTarget(); ok && t == op.Self.SortOrder {
			return &Violation{Kind: OpMoveUp, Referrers: []string{op.Other.Label}}
		}

	case OpMoveDown:
		// Other would land before Self, which targets it.
		if t, ok := op.Self.activeTarget(); ok && t == op.Other.SortOrder {
			return &Violation{Kind: OpMoveDown, Referrers: []string{op.Other.Label}}
		}
	}
	return nil
}
