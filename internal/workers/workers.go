// Package workers bounds the CPU- and memory-hungry password derivations so
// that a login storm cannot exhaust the process. Each argon2id derivation
// pins 64 MiB for its duration; the pool caps how many run at once and makes
// waiting callers honour context cancellation.
package workers

import (
	"context"
	"fmt"

	"github.com/avykov/go-auth-keeper/internal/crypto"
	"github.com/avykov/go-auth-keeper/internal/logger"
)

// HashPool serializes access to a [crypto.Hasher] through a fixed number of
// slots. It is safe for concurrent use; the zero value is not usable, always
// construct via [NewHashPool].
type HashPool struct {
	hasher crypto.Hasher
	slots  chan struct{}
	logger *logger.Logger
}

// NewHashPool wraps hasher with a pool of size concurrent slots.
// A non-positive size falls back to a single slot.
func NewHashPool(hasher crypto.Hasher, size int, logger *logger.Logger) *HashPool {
	if size < 1 {
		size = 1
	}
	logger.Debug().Int("slots", size).Msg("creating hashing pool")

	return &HashPool{
		hasher: hasher,
		slots:  make(chan struct{}, size),
		logger: logger,
	}
}

// Hash derives a storable hash for password once a slot is free.
// Returns ctx.Err() if the context is cancelled while waiting.
func (p *HashPool) Hash(ctx context.Context, password string) (string, error) {
	if err := p.acquire(ctx); err != nil {
		return "", err
	}
	defer p.release()

	return p.hasher.Hash(password)
}

// Verify checks password against encodedHash once a slot is free.
// Returns ctx.Err() if the context is cancelled while waiting.
func (p *HashPool) Verify(ctx context.Context, password, encodedHash string) (bool, error) {
	if err := p.acquire(ctx); err != nil {
		return false, err
	}
	defer p.release()

	return p.hasher.Verify(password, encodedHash)
}

func (p *HashPool) acquire(ctx context.Context) error {
	select {
	case p.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("hashing pool wait aborted: %w", ctx.Err())
	}
}

func (p *HashPool) release() {
	<-p.slots
}
