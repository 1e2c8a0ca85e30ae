package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avykov/go-auth-keeper/internal/logger"
)

// slowHasher counts how many derivations run at the same time.
type slowHasher struct {
	active  atomic.Int32
	maxSeen atomic.Int32
}

func (s *slowHasher) Hash(password string) (string, error) {
	n := s.active.Add(1)
	defer s.active.Add(-1)
	for {
		seen := s.maxSeen.Load()
		if n <= seen || s.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	return "$argon2id$fake$" + password, nil
}

func (s *slowHasher) Verify(password, encodedHash string) (bool, error) {
	return encodedHash == "$argon2id$fake$"+password, nil
}

func TestHashPool_BoundsConcurrency(t *testing.T) {
	hasher := &slowHasher{}
	pool := NewHashPool(hasher, 2, logger.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := pool.Hash(context.Background(), "pw")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, hasher.maxSeen.Load(), int32(2))
}

func TestHashPool_VerifyPassesThrough(t *testing.T) {
	pool := NewHashPool(&slowHasher{}, 1, logger.Nop())

	encoded, err := pool.Hash(context.Background(), "pw")
	require.NoError(t, err)

	ok, err := pool.Verify(context.Background(), "pw", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHashPool_CancelledWhileWaiting(t *testing.T) {
	pool := NewHashPool(&slowHasher{}, 1, logger.Nop())

	// occupy the only slot
	pool.slots <- struct{}{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pool.Hash(ctx, "pw")
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewHashPool_NonPositiveSize(t *testing.T) {
	pool := NewHashPool(&slowHasher{}, 0, logger.Nop())
	assert.Equal(t, 1, cap(pool.slots))
}
