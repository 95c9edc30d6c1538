package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "default config", config: DefaultConfig()},
		{name: "nil config", config: nil},
		{
			name:   "console format",
			config: &Config{Level: "info", Format: "console", Output: "console"},
		},
		{
			name:   "stderr output",
			config: &Config{Level: "warn", Format: "console", Output: "stderr"},
		},
		{
			name: "file output",
			config: &Config{
				Level:  "debug",
				Format: "json",
				Output: "file",
				File:   FileConfig{Filename: filepath.Join(dir, "a.log"), MaxSize: 10, MaxAge: 7, MaxBackups: 3},
			},
		},
		{
			name: "both output",
			config: &Config{
				Level:  "warn",
				Format: "json",
				Output: "both",
				File:   FileConfig{Filename: filepath.Join(dir, "b.log"), MaxSize: 10, MaxAge: 7},
			},
		},
		{
			name:    "invalid level",
			config:  &Config{Level: "loud", Format: "json", Output: "console"},
			wantErr: true,
		},
		{
			name:    "invalid format",
			config:  &Config{Level: "info", Format: "xml", Output: "console"},
			wantErr: true,
		},
		{
			name:    "invalid output",
			config:  &Config{Level: "info", Format: "json", Output: "syslog"},
			wantErr: true,
		},
		{
			name:    "file output without filename",
			config:  &Config{Level: "info", Format: "json", Output: "file"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, l)
			assert.NotNil(t, l.Config())
			_ = l.Sync()
		})
	}
}

func TestContextRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "", GetRequestID(context.Background()))

	l := NewNop()
	ctx = ToContext(ctx, l)
	assert.NotNil(t, FromContext(ctx))
}

func TestGinLogger_SetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(GinLogger(NewNop()))
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "fixed")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "fixed", w.Body.String())
}

func TestGinRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(GinRecovery(NewNop()))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
