package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDScheme names an id generation strategy.
type IDScheme string

const (
	IDTimestamp IDScheme = "timestamp"
	IDUUID      IDScheme = "uuid"
)

// IDGenerator produces a fresh id not present in taken.
type IDGenerator interface {
	NewID(taken map[string]bool) string
}

// NewIDGenerator returns the generator for scheme.
func NewIDGenerator(scheme IDScheme) (IDGenerator, error) {
	switch IDScheme(strings.ToLower(string(scheme))) {
	case "", IDTimestamp:
		return TimestampIDs{Now: time.Now}, nil
	case IDUUID:
		return UUIDs{}, nil
	}
	return nil, fmt.Errorf("unknown id scheme %q", scheme)
}

// TimestampIDs derives ids from the creation time in Unix milliseconds.
// Items created within the same millisecond get the next free value.
type TimestampIDs struct {
	Now func() time.Time
}

func (g TimestampIDs) NewID(taken map[string]bool) string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	ms := now().UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if !taken[id] {
			return id
		}
		ms++
	}
}

// UUIDs yields random v4 uuids.
type UUIDs struct{}

func (UUIDs) NewID(taken map[string]bool) string {
	for {
		id := uuid.NewString()
		if !taken[id] {
			return id
		}
	}
}
