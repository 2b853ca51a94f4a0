// Package otp implements the Redis-backed one-time-password store used by
// the password reset flow. Issuing a new code overwrites the outstanding
// one, so only the most recently issued code ever verifies.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// DefaultTTL matches the 120-second countdown the UI shells show
	DefaultTTL = 120 * time.Second

	keyPrefix = "otp:"
)

var ErrInvalidCode = errors.New("invalid or expired code")

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb, ttl: DefaultTTL}
}

// NewStoreWithTTL is used by tests that need a shorter expiry
func NewStoreWithTTL(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) TTL() time.Duration { return s.ttl }

// Issue generates a six-digit code for the address and stores it with the
// configured TTL. Any prior outstanding code for the address is replaced.
func (s *Store) Issue(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, keyPrefix+email, code, s.ttl).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks the code for the address and consumes it on success, so a
// code can only be redeemed once.
func (s *Store) Verify(ctx context.Context, email, code string) error {
	stored, err := s.rdb.Get(ctx, keyPrefix+email).Result()
	if err == redis.Nil {
		return ErrInvalidCode
	}
	if err != nil {
		return err
	}
	if stored != code {
		return ErrInvalidCode
	}
	return s.rdb.Del(ctx, keyPrefix+email).Err()
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
