package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayOptionsInitialState(t *testing.T) {
	assert.Equal(t, DisplayState{MultiStepEnabled: true, DisplayDirectlyEnabled: true},
		NewDisplayOptions(false, false).State())
	assert.Equal(t, DisplayState{MultiStep: true, MultiStepEnabled: true},
		NewDisplayOptions(true, false).State())
	assert.Equal(t, DisplayState{DisplayDirectly: true, DisplayDirectlyEnabled: true},
		NewDisplayOptions(false, true).State())
	// Multi-step wins when both were stored.
	assert.Equal(t, DisplayState{MultiStep: true, MultiStepEnabled: true},
		NewDisplayOptions(true, true).State())
}

func TestDisplayOptionsToggle(t *testing.T) {
	d := NewDisplayOptions(false, false)

	require.NoError(t, d.SetMultiStep(true))
	assert.False(t, d.State().DisplayDirectlyEnabled)
	assert.ErrorIs(t, d.SetDisplayDirectly(true), ErrOptionDisabled)

	require.NoError(t, d.SetMultiStep(false))
	assert.True(t, d.State().DisplayDirectlyEnabled)
	require.NoError(t, d.SetDisplayDirectly(true))
	assert.False(t, d.State().MultiStepEnabled)

	// Unchanged values are accepted even while disabled.
	assert.NoError(t, d.SetMultiStep(false))
}

func TestDisplayOptionsApply(t *testing.T) {
	d := NewDisplayOptions(true, false)

	require.NoError(t, d.Apply(false, true))
	assert.Equal(t, DisplayState{DisplayDirectly: true, DisplayDirectlyEnabled: true}, d.State())

	before := d.State()
	assert.ErrorIs(t, d.Apply(true, true), ErrOptionDisabled)
	assert.Equal(t, before, d.State())
}
