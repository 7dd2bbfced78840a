package http

import (
	"crypto/tls"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayClientConfig(t *testing.T) {
	cfg := GatewayClientConfig()

	assert.False(t, cfg.InsecureSkipVerify)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinTLSVersion)
	assert.True(t, cfg.DisableCompression)
	assert.LessOrEqual(t, cfg.MaxIdleConnsPerHost, cfg.MaxIdleConns)
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(GatewayClientConfig(), 30*time.Second)

	assert.Equal(t, 30*time.Second, client.Timeout)

	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 25, transport.MaxIdleConnsPerHost)
	assert.Equal(t, 100, transport.MaxConnsPerHost)
	assert.True(t, transport.ForceAttemptHTTP2)
	assert.Equal(t, uint16(tls.VersionTLS12), transport.TLSClientConfig.MinVersion)
}
