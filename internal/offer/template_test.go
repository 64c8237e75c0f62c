package offer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandTemplate(t *testing.T) {
	params := ExpandParams{
		Identifier:     "ABCD-1234",
		IdentifierType: "idfv",
		Platform:       "ios",
		AppID:          "com.app.test",
	}

	tests := []struct {
		name     string
		template Template
		want     string
		wantErr  error
	}{
		{
			name:     "all four tokens",
			template: "https://x.test/go?u={t1}&p={t2}&b={t3}&ty={t4}",
			want:     "https://x.test/go?u=ABCD-1234&p=ios&b=com.app.test&ty=idfv",
		},
		{
			name:     "no tokens",
			template: "https://x.test/landing",
			want:     "https://x.test/landing",
		},
		{
			name:     "single token",
			template: "https://x.test/go?u={t1}",
			want:     "https://x.test/go?u=ABCD-1234",
		},
		{
			name:     "repeated token replaced everywhere",
			template: "https://x.test/{t2}/go?p={t2}",
			want:     "https://x.test/ios/go?p=ios",
		},
		{
			name:     "unrecognized token left verbatim",
			template: "https://x.test/go?u={t1}&next={t9}",
			want:     "https://x.test/go?u=ABCD-1234&next={t9}",
		},
		{
			name:     "missing scheme",
			template: "x.test/go?u={t1}",
			wantErr:  ErrInvalidOfferURL,
		},
		{
			name:     "not a url at all",
			template: "::::{t1}",
			wantErr:  ErrInvalidOfferURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ExpandTemplate(tt.template, params)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, u.String())
		})
	}
}
