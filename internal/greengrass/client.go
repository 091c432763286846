package greengrass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muurk/ggdiscover/internal/logging"
)

const (
	// DefaultPort is the port the discovery API listens on
	DefaultPort = 8443

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second

	// discoverPath is the discovery API path prefix
	discoverPath = "/greengrass/discover/thing/"

	// maxErrorBody caps how much of a non-2xx body is kept in HTTPStatusError
	maxErrorBody = 1024
)

// options holds Discover settings
type options struct {
	ca         []byte
	port       int
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures Discover
type Option func(*options)

// WithCA trusts the given PEM CA instead of the bundled Amazon root
func WithCA(caPEM []byte) Option {
	return func(o *options) {
		o.ca = caPEM
	}
}

// WithPort overrides the discovery port (default 8443)
func WithPort(port int) Option {
	return func(o *options) {
		o.port = port
	}
}

// WithTimeout sets the HTTP request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithHTTPClient uses client as-is for the request. The caller is then
// responsible for its TLS configuration; clientCert, privateKey and WithCA are
// ignored.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// DiscoveryURL returns the discovery URL for a thing
func DiscoveryURL(endpoint, thingName string, port int) string {
	if port == 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("https://%s:%d%s%s", endpoint, port, discoverPath, url.PathEscape(thingName))
}

// Discover retrieves the Greengrass discovery document for thingName from
// endpoint using mutual TLS and returns it wrapped in a DiscoveryInfo.
//
// clientCert and privateKey are PEM encoded. *HTTPStatusError, returned for
// a non-2xx status, is the only error Discover creates itself. Every other
// error comes unmodified from crypto/tls, net/http or encoding/json.
func Discover(ctx context.Context, endpoint, thingName string, clientCert, privateKey []byte, opts ...Option) (*DiscoveryInfo, error) {
	o := options{
		port:    DefaultPort,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	client := o.httpClient
	if client == nil {
		tlsConfig, err := NewTLSConfig(clientCert, privateKey, o.ca)
		if err != nil {
			return nil, err
		}
		client = &http.Client{
			Timeout:   o.timeout,
			Transport: &http.Transport{TLSClientConfig: tlsConfig},
		}
		defer client.CloseIdleConnections()
	}

	target := DiscoveryURL(endpoint, thingName, o.port)
	requestID := uuid.NewString()

	logging.LogDiscoveryRequest(requestID, target, thingName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		logging.Warn("Discovery request failed",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logging.LogDiscoveryResponse(requestID, resp.StatusCode, time.Since(start), 0)
		return nil, &HTTPStatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var raw Response
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	logging.LogDiscoveryResponse(requestID, resp.StatusCode, time.Since(start), len(raw.GGGroups))

	return NewDiscoveryInfo(&raw), nil
}
