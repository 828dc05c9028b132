package store

import (
	"errors"
	"fmt"
	"testing"
)

// Compile-time checks that the interface is importable and usable.
func TestLedgerStoreInterfaceExists(t *testing.T) {
	var _ LedgerStore
	var _ Tx
}

func TestSentinelErrorsSurviveWrapping(t *testing.T) {
	sentinels := []error{ErrAccountNotFound, ErrEntryNotFound, ErrUsernameTaken, ErrConcurrentModification}
	for _, sentinel := range sentinels {
		wrapped := fmt.Errorf("lookup failed: %w", sentinel)
		if !errors.Is(wrapped, sentinel) {
			t.Errorf("Expected %v to match after wrapping", sentinel)
		}
	}
}
