package helpers

import (
	"context"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// PasswordCost is the bcrypt work factor used for stored passwords.
const PasswordCost = 12

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func hashWithCost(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// PasswordHasher runs bcrypt on a bounded number of goroutines so that hashing
// bursts cannot starve request handling.
type PasswordHasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewPasswordHasher builds a hasher; cost outside bcrypt bounds falls back to PasswordCost
// and workers <= 0 means one worker per CPU.
func NewPasswordHasher(cost, workers int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = PasswordCost
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &PasswordHasher{cost: cost, sem: semaphore.NewWeighted(int64(workers))}
}

func (h *PasswordHasher) Cost() int { return h.cost }

// Hash waits for a free worker, honouring ctx, then hashes plain.
func (h *PasswordHasher) Hash(ctx context.Context, plain string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)
	return hashWithCost(plain, h.cost)
}

// Compare reports whether plain matches hash. It returns false when ctx ends
// before a worker is available.
func (h *PasswordHasher) Compare(ctx context.Context, hash, plain string) bool {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)
	return CompareHashAndPassword(hash, plain)
}
