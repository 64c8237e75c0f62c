package offer

import (
	"net/url"
	"strings"
)

// Placeholder tokens understood by offer templates. Unrecognized
// tokens are passed through verbatim so newer templates keep working
// against older clients.
const (
	tokenIdentifier     = "{t1}"
	tokenPlatform       = "{t2}"
	tokenBundleID       = "{t3}"
	tokenIdentifierType = "{t4}"
)

// ExpandParams are the runtime values substituted into a template.
type ExpandParams struct {
	Identifier     string
	IdentifierType string
	Platform       string
	AppID          string
}

// ExpandTemplate replaces placeholder tokens with literal substring
// substitution on the raw template, then validates the result as a
// URL. Substitution happens before parsing; the order of tokens does
// not matter since they are disjoint.
func ExpandTemplate(t Template, p ExpandParams) (*url.URL, error) {
	expanded := strings.NewReplacer(
		tokenIdentifier, p.Identifier,
		tokenPlatform, p.Platform,
		tokenBundleID, p.AppID,
		tokenIdentifierType, p.IdentifierType,
	).Replace(string(t))

	u, err := url.Parse(expanded)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, ErrInvalidOfferURL
	}
	return u, nil
}
