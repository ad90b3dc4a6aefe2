package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPRGate(t *testing.T) {
	t.Run("parked runs are handed over in order", func(t *testing.T) {
		g := newPRGate()
		assert.True(t, g.enter("acme/widgets#42", "run-1"))
		assert.False(t, g.enter("acme/widgets#42", "run-2"))
		assert.False(t, g.enter("acme/widgets#42", "run-3"))
		assert.False(t, g.enter("acme/widgets#42", "run-2"), "a run is parked once")

		next, ok := g.next("acme/widgets#42", false)
		assert.True(t, ok)
		assert.Equal(t, "run-2", next)
		next, ok = g.next("acme/widgets#42", false)
		assert.True(t, ok)
		assert.Equal(t, "run-3", next)

		_, ok = g.next("acme/widgets#42", false)
		assert.False(t, ok)
		assert.Empty(t, g.parked)
	})

	t.Run("other keys are independent", func(t *testing.T) {
		g := newPRGate()
		assert.True(t, g.enter("acme/widgets#42", "run-1"))
		assert.True(t, g.enter("acme/widgets#43", "run-2"))
		assert.True(t, g.enter("other/repo#1", "run-3"))
		assert.Len(t, g.parked, 3)
	})

	t.Run("giving up releases the key", func(t *testing.T) {
		g := newPRGate()
		assert.True(t, g.enter("acme/widgets#42", "run-1"))
		assert.False(t, g.enter("acme/widgets#42", "run-2"))

		_, ok := g.next("acme/widgets#42", true)
		assert.False(t, ok)
		assert.Empty(t, g.parked)
		assert.True(t, g.enter("acme/widgets#42", "run-2"), "a released key can be owned again")
	})
}
