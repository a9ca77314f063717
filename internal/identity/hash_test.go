package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasher(t *testing.T) {
	h := NewHasher("secret-a")

	t.Run("stable across calls", func(t *testing.T) {
		assert.Equal(t, h.Hash("user-42"), h.Hash("user-42"))
	})

	t.Run("distinct users get distinct tokens", func(t *testing.T) {
		assert.NotEqual(t, h.Hash("user-42"), h.Hash("user-43"))
	})

	t.Run("token never contains the raw id", func(t *testing.T) {
		assert.NotContains(t, h.Hash("user-42"), "user-42")
	})

	t.Run("fixed hex length", func(t *testing.T) {
		assert.Len(t, h.Hash("user-42"), tokenBytes*2)
	})

	t.Run("secret changes the token", func(t *testing.T) {
		other := NewHasher("secret-b")
		assert.NotEqual(t, h.Hash("user-42"), other.Hash("user-42"))
	})
}
