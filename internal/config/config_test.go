package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DM_API_BASE_URL", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 8000, cfg.API.FallbackPort)
	require.Equal(t, 60*time.Second, cfg.API.Timeout)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)

	base, err := cfg.API.ResolveBaseURL()
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:8000", base)
}

func TestLoad_EnvOverridesBaseURL(t *testing.T) {
	t.Setenv("DM_API_BASE_URL", "https://dm.example.com/api/")

	cfg, err := Load("")
	require.NoError(t, err)

	base, err := cfg.API.ResolveBaseURL()
	require.NoError(t, err)
	require.Equal(t, "https://dm.example.com/api", base)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("DM_API_BASE_URL", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
api:
  host: game.local
  fallback_port: 8100
  timeout: 5s
log:
  level: debug
  format: json
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, 5*time.Second, cfg.API.Timeout)
	require.Equal(t, "json", cfg.Log.Format)

	base, err := cfg.API.ResolveBaseURL()
	require.NoError(t, err)
	require.Equal(t, "http://game.local:8100", base)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestResolveBaseURL(t *testing.T) {
	cases := []struct {
		name    string
		cfg     APIConfig
		want    string
		wantErr bool
	}{
		{name: "override wins", cfg: APIConfig{BaseURL: "http://dm:7000", Host: "ignored", FallbackPort: 1}, want: "http://dm:7000"},
		{name: "derived from host", cfg: APIConfig{Host: "10.0.0.5", FallbackPort: 8000}, want: "http://10.0.0.5:8000"},
		{name: "ipv6 host", cfg: APIConfig{Host: "::1", FallbackPort: 8000}, want: "http://[::1]:8000"},
		{name: "fallback port", cfg: APIConfig{}, want: "http://127.0.0.1:8000"},
		{name: "bad scheme", cfg: APIConfig{BaseURL: "ftp://dm"}, wantErr: true},
		{name: "no host", cfg: APIConfig{BaseURL: "http://"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.cfg.ResolveBaseURL()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
