package storage

import "context"

// Keys used by the pipeline. All durable state lives behind these.
const (
	KeyTrackingConsent    = "tracking_consent"
	KeyVendorIdentifier   = "vendor_identifier"
	KeyOnboardingComplete = "onboarding_complete"
)

// KV is the durable key-value store backing consent status, the
// generated fallback identifier and the onboarding flag.
type KV interface {
	GetString(ctx context.Context, key string) (value string, ok bool, err error)
	SetString(ctx context.Context, key, value string) error
	GetBool(ctx context.Context, key string) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error
}
