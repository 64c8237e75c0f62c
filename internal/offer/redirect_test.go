package offer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFinal(t *testing.T) {
	var sawMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawMethod = r.Method
		switch r.URL.Path {
		case "/start":
			http.Redirect(w, r, "/hop", http.StatusFound)
		case "/hop":
			http.Redirect(w, r, "/final", http.StatusMovedPermanently)
		case "/final":
			w.WriteHeader(http.StatusOK)
		case "/broken":
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	r := NewRedirectResolver(time.Second)

	t.Run("follows chain to terminal url", func(t *testing.T) {
		start, _ := url.Parse(srv.URL + "/start")
		final, err := r.ResolveFinal(context.Background(), start)
		require.NoError(t, err)
		assert.Equal(t, srv.URL+"/final", final.String())
		assert.Equal(t, http.MethodHead, sawMethod)
	})

	t.Run("no redirects returns start url", func(t *testing.T) {
		start, _ := url.Parse(srv.URL + "/final")
		final, err := r.ResolveFinal(context.Background(), start)
		require.NoError(t, err)
		assert.Equal(t, start.String(), final.String())
	})

	t.Run("terminal non-2xx fails", func(t *testing.T) {
		start, _ := url.Parse(srv.URL + "/broken")
		_, err := r.ResolveFinal(context.Background(), start)
		var fe *FinalStatusError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, http.StatusServiceUnavailable, fe.Code)
	})
}
