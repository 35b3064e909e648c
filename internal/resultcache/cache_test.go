package resultcache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupMissOnEmpty(t *testing.T) {
	c := New()
	_, ok := c.Lookup("anything")
	require.False(t, ok)
}

func TestInsertThenLookup(t *testing.T) {
	c := New()
	c.Insert("k1", "v1")
	v, ok := c.Lookup("k1")
	require.True(t, ok)
	require.Equal(t, "v1", v)
}

func TestLookupStableAcrossRepeatedCalls(t *testing.T) {
	// A successful lookup followed by another lookup without an intervening
	// eviction must return the same value.
	c := New()
	c.Insert("zzz", "zzz,2,3,9\n")
	v1, ok1 := c.Lookup("zzz")
	v2, ok2 := c.Lookup("zzz")
	require.True(t, ok1)
	require.True(t, ok2)
	require.Equal(t, v1, v2)
}

func TestInsertDeduplicatesExistingKey(t *testing.T) {
	c := New()
	c.Insert("k", "v1")
	c.Insert("k", "v2")
	require.Equal(t, 1, c.Size())
	v, ok := c.Lookup("k")
	require.True(t, ok)
	require.Equal(t, "v2", v)
}

func TestNewWithCapacityEvictsAtSmallerBound(t *testing.T) {
	c := NewWithCapacity(2)
	c.Insert("a", "1")
	c.Insert("b", "2")
	require.Equal(t, 2, c.Size())

	c.Insert("c", "3")
	require.Equal(t, 2, c.Size())
	_, aStillPresent := c.Lookup("a")
	require.False(t, aStillPresent)
}

func TestNewWithCapacityNonPositiveFallsBackToDefault(t *testing.T) {
	c := NewWithCapacity(0)
	for i := 0; i < Capacity; i++ {
		c.Insert(fmt.Sprintf("k%d", i), "v")
	}
	require.Equal(t, Capacity, c.Size())
}

func TestFillsToCapacityThenEvicts(t *testing.T) {
	c := New()
	for i := 0; i < Capacity; i++ {
		c.Insert(fmt.Sprintf("key-%d", i), "v")
	}
	require.Equal(t, Capacity, c.Size())

	// (Capacity+1)th distinct key leaves size at Capacity.
	c.Insert("one-more", "v")
	require.Equal(t, Capacity, c.Size())
}

func TestClockEvictsSlotWithUsedZero(t *testing.T) {
	c := New()
	for i := 0; i < Capacity; i++ {
		c.Insert(fmt.Sprintf("key-%d", i), "v")
	}
	// Touch every slot except key-0. Every slot's used bit, key-0's included,
	// is already set by its insert, so the sweep has to clear them all.
	for i := 1; i < Capacity; i++ {
		c.Lookup(fmt.Sprintf("key-%d", i))
	}

	c.Insert("new-key", "new-value")

	// key-0 must have been evicted: the hand starts at slot 0, the sweep
	// clears every used bit once around the table, and slot 0 is the first
	// slot it then finds clear.
	_, ok := c.Lookup("key-0")
	require.False(t, ok, "expected key-0 to be evicted by the clock sweep")

	v, ok := c.Lookup("new-key")
	require.True(t, ok)
	require.Equal(t, "new-value", v)
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	c := New()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k-%d-%d", n, j%32)
				c.Insert(key, "v")
				c.Lookup(key)
			}
		}(i)
	}
	wg.Wait()

	require.LessOrEqual(t, c.Size(), Capacity)
}

func TestDistinctKeysInvariant(t *testing.T) {
	c := New()
	for i := 0; i < 50; i++ {
		c.Insert(fmt.Sprintf("k-%d", i%10), "v")
	}
	require.Equal(t, 10, c.Size())
}
