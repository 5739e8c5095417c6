package editor

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hostRows(labels ...string) []*Question {
	rows := make([]*Question, len(labels))
	for i, l := range labels {
		rows[i] = &Question{ID: uuid.New(), SortOrder: len(labels) - i, Label: l, Type: TypeText, selector: newSelector()}
	}
	return rows
}

func labels(rows []*Question) []string {
	out := make([]string, len(rows))
	for i, q := range rows {
		out[i] = q.Label
	}
	return out
}

func TestHostOrdersAndRenumbers(t *testing.T) {
	h := NewHost(hostRows("c", "b", "a"))
	assert.Equal(t, []string{"a", "b", "c"}, labels(h.Rows()))
	for i, q := range h.Rows() {
		assert.Equal(t, i, q.SortOrder)
	}
}

func TestHostHooksRunInOrderAndCanDeny(t *testing.T) {
	h := NewHost(hostRows("c", "b", "a"))
	var calls []string
	deny := errors.New("denied")

	h.Use(func(op Op) error {
		calls = append(calls, "first:"+string(op.Kind))
		return nil
	})
	h.Use(func(op Op) error {
		calls = append(calls, "second:"+string(op.Kind))
		if op.Kind == OpDelete {
			return deny
		}
		return nil
	})

	rows := h.Rows()
	require.NoError(t, h.MoveDown(rows[0]))
	assert.Equal(t, []string{"b", "a", "c"}, labels(h.Rows()))

	assert.ErrorIs(t, h.Delete(rows[0]), deny)
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []string{"first:move_down", "second:move_down", "first:delete", "second:delete"}, calls)
}

func TestHostMoveOpCarriesSibling(t *testing.T) {
	h := NewHost(hostRows("c", "b", "a"))
	rows := h.Rows()

	var seen Op
	h.Use(func(op Op) error {
		seen = op
		return nil
	})
	require.NoError(t, h.MoveUp(rows[1]))
	assert.Same(t, rows[1], seen.Self)
	assert.Same(t, rows[0], seen.Other)
	assert.Len(t, seen.Rows, 3)
}

func TestHostRefusesReentrantActions(t *testing.T) {
	h := NewHost(hostRows("c", "b", "a"))
	rows := h.Rows()

	var inner error
	h.Use(func(op Op) error {
		if op.Kind == OpMoveUp {
			inner = h.Delete(rows[0])
		}
		return nil
	})
	require.NoError(t, h.MoveUp(rows[2]))
	assert.ErrorIs(t, inner, ErrReentrantAction)
	assert.Equal(t, 3, h.Len())
}

func TestHostDeleteMarksRemovedRow(t *testing.T) {
	h := NewHost(hostRows("c", "b", "a"))
	rows := h.Rows()

	require.NoError(t, h.Delete(rows[1]))
	assert.Equal(t, -1, rows[1].SortOrder)
	assert.Equal(t, []string{"a", "c"}, labels(h.Rows()))
	assert.Equal(t, 1, rows[2].SortOrder)
}

func TestHostPanicsOnForeignRow(t *testing.T) {
	h := NewHost(hostRows("a"))
	assert.Panics(t, func() {
		_ = h.Delete(&Question{ID: uuid.New(), selector: newSelector()})
	})
}
