package ldapwire

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageIDAllocatorSequential(t *testing.T) {
	alloc := NewMessageIDAllocator()
	for want := int32(1); want <= 100; want++ {
		assert.Equal(t, want, alloc.Next())
	}
}

func TestMessageIDAllocatorWraparound(t *testing.T) {
	alloc := NewMessageIDAllocator()
	alloc.last.Store(MaxMessageID - 1)

	assert.Equal(t, int32(MaxMessageID), alloc.Next())
	// 0 is never issued; the successor of the maximum is 1.
	assert.Equal(t, int32(1), alloc.Next())
	assert.Equal(t, int32(2), alloc.Next())
}

func TestMessageIDAllocatorConcurrent(t *testing.T) {
	const (
		goroutines = 32
		perWorker  = 250
	)
	alloc := NewMessageIDAllocator()

	var mu sync.Mutex
	ids := make([]int32, 0, goroutines*perWorker)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int32, 0, perWorker)
			for j := 0; j < perWorker; j++ {
				local = append(local, alloc.Next())
			}
			mu.Lock()
			ids = append(ids, local...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, ids, goroutines*perWorker)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for i, id := range ids {
		require.Equal(t, int32(i+1), id, "IDs must be distinct, gap-free, and never 0")
	}
}
