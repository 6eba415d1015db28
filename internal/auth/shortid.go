package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	// ShortIDLength is the length of user and roster IDs.
	ShortIDLength = 5

	// SessionIDLength is the length of session IDs. Sessions rely on
	// entropy alone and are never collision-checked.
	SessionIDLength = 16

	// maxIDAttempts bounds the collision re-roll for short IDs. The ID
	// space is large relative to expected row counts, so exhausting the
	// attempts means something is badly wrong, not bad luck.
	maxIDAttempts = 10
)

var errIDCollision = errors.New("short id collision")

// RandomHex returns n characters of hex from a cryptographically strong
// source.
func RandomHex(n int) (string, error) {
	buf := make([]byte, (n+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf)[:n], nil
}

// NewSessionID returns a fresh 16-character session identifier.
func NewSessionID() (string, error) {
	return RandomHex(SessionIDLength)
}

// NewUniqueShortID generates a 5-character ID, re-rolling while exists
// reports a collision. The retry is bounded so an adversarially full ID
// space fails loudly instead of looping forever.
func NewUniqueShortID(ctx context.Context, exists func(string) (bool, error)) (string, error) {
	var id string
	backoff := retry.WithMaxRetries(maxIDAttempts-1, retry.NewConstant(time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		candidate, err := RandomHex(ShortIDLength)
		if err != nil {
			return err
		}
		taken, err := exists(candidate)
		if err != nil {
			return err
		}
		if taken {
			return retry.RetryableError(errIDCollision)
		}
		id = candidate
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generate short id: %w", err)
	}
	return id, nil
}
