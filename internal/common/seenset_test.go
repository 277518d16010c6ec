package common

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeenSet_AddAndContains(t *testing.T) {
	set := NewSeenSet(3)

	inserted, _, evicted := set.Add("a")
	assert.True(t, inserted)
	assert.False(t, evicted)
	assert.True(t, set.Contains("a"))
	assert.False(t, set.Contains("b"))

	inserted, _, _ = set.Add("a")
	assert.False(t, inserted, "adding a present identifier is a no-op")
	assert.Equal(t, 1, set.Len())
}

func TestSeenSet_EvictsOldestInserted(t *testing.T) {
	set := NewSeenSet(50)
	for i := 0; i < 50; i++ {
		set.Add(fmt.Sprintf("server-%d", i))
	}
	assert.Equal(t, 50, set.Len())

	inserted, evictedId, evicted := set.Add("server-50")
	assert.True(t, inserted)
	assert.True(t, evicted)
	assert.Equal(t, "server-0", evictedId)
	assert.Equal(t, 50, set.Len())
	assert.False(t, set.Contains("server-0"))

	// The evicted identifier is new again
	inserted, evictedId, _ = set.Add("server-0")
	assert.True(t, inserted)
	assert.Equal(t, "server-1", evictedId)
}

func TestSeenSet_MembershipDoesNotRefresh(t *testing.T) {
	set := NewSeenSet(2)
	set.Add("a")
	set.Add("b")

	// Looking up "a" must not protect it from eviction
	assert.True(t, set.Contains("a"))
	set.Add("a")
	_, evictedId, evicted := set.Add("c")

	assert.True(t, evicted)
	assert.Equal(t, "a", evictedId)
	assert.Equal(t, []string{"b", "c"}, set.Items())
}

func TestSeenSet_NeverExceedsCapacity(t *testing.T) {
	set := NewSeenSet(5)
	for i := 0; i < 100; i++ {
		set.Add(fmt.Sprintf("%d", i%17))
		assert.LessOrEqual(t, set.Len(), 5)
	}
}

func TestSeenSet_MinimumCapacity(t *testing.T) {
	set := NewSeenSet(0)
	assert.Equal(t, 1, set.Capacity())
}
