package editor

// selectedTargets resolves every selection to the question it points at,
// so selections survive renumbering.
func selectedTargets(rows []*Question) map[*Question]*Question {
	targets := make(map[*Question]*Question)
	for _, q := range rows {
		v, ok := q.mustSelector().Selected()
		if !ok || v < 0 || v >= len(rows) {
			continue
		}
		targets[q] = rows[v]
	}
	return targets
}

// populateOptions rebuilds q's selector with one option per later row and
// reselects target if it still comes after q.
func populateOptions(rows []*Question, q *Question, target *Question) {
	sel := q.mustSelector()

	opts := make([]Option, 0, len(rows))
	for _, r := range rows {
		if r.SortOrder > q.SortOrder {
			opts = append(opts, Option{Value: r.SortOrder, Label: r.Label})
		}
	}
	sel.reset(opts)

	if target != nil && target.SortOrder > q.SortOrder {
		sel.selected = target.SortOrder
	}
}

func populateAll(rows []*Question, targets map[*Question]*Question) {
	for _, q := range rows {
		populateOptions(rows, q, targets[q])
	}
}

// relabelOptions copies q's label into the option keyed by q's sort order
// in every other selector. It returns how many options changed.
func relabelOptions(rows []*Question, q *Question) int {
	n := 0
	for _, r := range rows {
		if r == q {
			continue
		}
		if r.mustSelector().rename(q.SortOrder, q.Label) {
			n++
		}
	}
	return n
}
