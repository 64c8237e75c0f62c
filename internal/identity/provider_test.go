package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offerlink/internal/storage"
)

func TestProvider_Resolve(t *testing.T) {
	tests := []struct {
		name       string
		adID       string
		authorized bool
		wantType   string
		wantID     string // empty means "generated fallback"
	}{
		{
			name:       "authorized with real advertising id",
			adID:       "ABCD-1234",
			authorized: true,
			wantType:   TypeIDFA,
			wantID:     "ABCD-1234",
		},
		{
			name:       "authorized but zero advertising id",
			adID:       "",
			authorized: true,
			wantType:   TypeIDFV,
		},
		{
			name:       "not authorized ignores advertising id",
			adID:       "ABCD-1234",
			authorized: false,
			wantType:   TypeIDFV,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProvider(StaticSource{ID: tt.adID}, storage.NewMemory())

			id, idType, err := p.Resolve(context.Background(), tt.authorized)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, idType)
			if tt.wantID != "" {
				assert.Equal(t, tt.wantID, id)
			} else {
				assert.NotEmpty(t, id)
				assert.NotEqual(t, ZeroAdvertisingID, id)
			}
		})
	}
}

func TestProvider_FallbackIsStablePerInstall(t *testing.T) {
	kv := storage.NewMemory()
	p := NewProvider(StaticSource{}, kv)

	first, idType, err := p.Resolve(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, TypeIDFV, idType)

	second, _, err := p.Resolve(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, first, second, "fallback id survives across calls and consent states")

	persisted, ok, err := kv.GetString(context.Background(), storage.KeyVendorIdentifier)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, first, persisted)
}
