package consent

import (
	"context"
	"fmt"

	"offerlink/internal/storage"
)

// Status is the user's answer to the OS tracking-permission prompt.
//
// authorized    - user granted permission
// denied        - user denied permission
// restricted    - user can't grant permission at all (MDM, child account)
// notDetermined - prompt hasn't been shown yet
// unknown       - fallback for values we don't recognize
type Status string

const (
	StatusAuthorized    Status = "authorized"
	StatusDenied        Status = "denied"
	StatusRestricted    Status = "restricted"
	StatusNotDetermined Status = "notDetermined"
	StatusUnknown       Status = "unknown"
)

// ParseStatus maps a raw persisted value back to a Status.
func ParseStatus(raw string) Status {
	switch Status(raw) {
	case StatusAuthorized, StatusDenied, StatusRestricted, StatusNotDetermined:
		return Status(raw)
	default:
		return StatusUnknown
	}
}

// Determined reports whether the prompt has already resolved.
func (s Status) Determined() bool {
	return s != StatusNotDetermined && s != ""
}

// Store owns the persisted consent value. All writes go through the
// Gate; everything else only reads.
type Store struct {
	kv storage.KV
}

func NewStore(kv storage.KV) *Store {
	return &Store{kv: kv}
}

// Current returns the persisted status, defaulting to notDetermined
// when nothing has been stored yet.
func (s *Store) Current(ctx context.Context) Status {
	raw, ok, err := s.kv.GetString(ctx, storage.KeyTrackingConsent)
	if err != nil || !ok {
		return StatusNotDetermined
	}
	return ParseStatus(raw)
}

func (s *Store) Set(ctx context.Context, st Status) error {
	if err := s.kv.SetString(ctx, storage.KeyTrackingConsent, string(st)); err != nil {
		return fmt.Errorf("persist consent status: %w", err)
	}
	return nil
}
