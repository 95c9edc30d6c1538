package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	client := New(3 * time.Second)
	assert.Equal(t, 3*time.Second, client.Timeout)
	assert.NotNil(t, client.Transport)
}

func TestWithHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := WithHeaders(time.Second, map[string]string{
		"X-Title": "Model Search",
		"X-Empty": "",
	})

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Model Search", got.Get("X-Title"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Empty(t, got.Values("X-Empty"))
	assert.Empty(t, req.Header.Get("X-Title"), "original request must not be modified")
}
