package service

import (
	"fmt"
	"time"
)

// SequenceStore is the atomic counter behind tracking id allocation.
type SequenceStore interface {
	NextSequence(year int) (int64, error)
}

// TrackingAllocator produces unique, human-readable complaint tracking ids of
// the form SJD/<year>/CMP<sequence>. Uniqueness rests entirely on the store's
// atomic increment: the allocator itself holds no state, so any number of
// instances can allocate concurrently.
type TrackingAllocator struct {
	seq SequenceStore
	now func() time.Time
}

// NewTrackingAllocator creates a new tracking id allocator
func NewTrackingAllocator(seq SequenceStore) *TrackingAllocator {
	return &TrackingAllocator{seq: seq, now: time.Now}
}

// Allocate returns the next tracking id for the current year. The sequence is
// monotonically increasing within a year and zero-padded for readability.
func (a *TrackingAllocator) Allocate() (string, error) {
	year := a.now().Year()
	seq, err := a.seq.NextSequence(year)
	if err != nil {
		return "", fmt.Errorf("failed to allocate tracking id: %w", err)
	}
	return fmt.Sprintf("SJD/%d/CMP%05d", year, seq), nil
}
