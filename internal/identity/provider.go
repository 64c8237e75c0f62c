package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"offerlink/internal/storage"
)

// Identifier types reported alongside the resolved identifier.
const (
	TypeIDFA = "idfa"
	TypeIDFV = "idfv"
)

// ZeroAdvertisingID is the sentinel the platform returns when the
// advertising identifier is unavailable.
const ZeroAdvertisingID = "00000000-0000-0000-0000-000000000000"

// Source returns the platform advertising identifier.
type Source interface {
	AdvertisingID(ctx context.Context) (string, error)
}

// StaticSource serves a fixed advertising identifier, or the zero
// sentinel when unset.
type StaticSource struct {
	ID string
}

func (s StaticSource) AdvertisingID(context.Context) (string, error) {
	if s.ID == "" {
		return ZeroAdvertisingID, nil
	}
	return s.ID, nil
}

// Provider resolves the identifier to substitute into offer templates.
type Provider struct {
	src Source
	kv  storage.KV
}

func NewProvider(src Source, kv storage.KV) *Provider {
	return &Provider{src: src, kv: kv}
}

// Resolve returns the advertising identifier when tracking is
// authorized and the platform reports a usable value; otherwise it
// falls back to the stable per-install vendor identifier, generating
// and persisting one on first use.
func (p *Provider) Resolve(ctx context.Context, authorized bool) (string, string, error) {
	if authorized {
		id, err := p.src.AdvertisingID(ctx)
		if err == nil && id != "" && id != ZeroAdvertisingID {
			return id, TypeIDFA, nil
		}
	}

	id, ok, err := p.kv.GetString(ctx, storage.KeyVendorIdentifier)
	if err != nil {
		return "", "", fmt.Errorf("read vendor identifier: %w", err)
	}
	if !ok || id == "" {
		id = uuid.NewString()
		if err := p.kv.SetString(ctx, storage.KeyVendorIdentifier, id); err != nil {
			return "", "", fmt.Errorf("persist vendor identifier: %w", err)
		}
	}
	return id, TypeIDFV, nil
}
