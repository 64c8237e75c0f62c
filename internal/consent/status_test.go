package consent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"offerlink/internal/storage"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
	}{
		{"authorized", StatusAuthorized},
		{"denied", StatusDenied},
		{"restricted", StatusRestricted},
		{"notDetermined", StatusNotDetermined},
		{"", StatusUnknown},
		{"garbage", StatusUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseStatus(tt.raw), "raw=%q", tt.raw)
	}
}

func TestStore_DefaultsToNotDetermined(t *testing.T) {
	store := NewStore(storage.NewMemory())
	assert.Equal(t, StatusNotDetermined, store.Current(context.Background()))
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(storage.NewMemory())

	assert.NoError(t, store.Set(ctx, StatusRestricted))
	assert.Equal(t, StatusRestricted, store.Current(ctx))
}
