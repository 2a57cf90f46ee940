package utils

import (
	"crypto/tls"
	"net/http"
	"time"
)

const defaultHTTPTimeout = 60 * time.Second

// NewHTTPClient builds the client used for calls to the DM service. A
// non-positive timeout falls back to a minute; the DM can be slow.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
