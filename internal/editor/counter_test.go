package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterRemaining(t *testing.T) {
	c := Counter{Limit: 10}
	assert.Equal(t, 10, c.Remaining(""))
	assert.Equal(t, 5, c.Remaining("hello"))
	assert.Equal(t, 8, c.Remaining("ñé"))
	assert.Equal(t, -2, c.Remaining("twelve chars"))
}
