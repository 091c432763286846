package greengrass

import (
	"crypto/tls"
	"crypto/x509"
	_ "embed"

	"go.uber.org/zap"

	"github.com/muurk/ggdiscover/internal/logging"
)

// DefaultRootCAPEM is the Amazon Root CA 1 certificate, which signs the
// ATS discovery endpoints.
//
//go:embed certs/AmazonRootCA1.pem
var DefaultRootCAPEM []byte

// NewTLSConfig creates a client TLS configuration for mutual authentication.
// clientCert and privateKey are PEM encoded. When caPEM is empty the bundled
// Amazon root is trusted. Errors from crypto/tls are returned unmodified.
func NewTLSConfig(clientCert, privateKey, caPEM []byte) (*tls.Config, error) {
	cert, err := tls.X509KeyPair(clientCert, privateKey)
	if err != nil {
		return nil, err
	}

	source := "custom"
	if len(caPEM) == 0 {
		caPEM = DefaultRootCAPEM
		source = "bundled"
	}

	pool, err := NewCertPool(caPEM)
	if err != nil {
		return nil, err
	}

	logging.Debug("Discovery TLS configuration created",
		zap.String("ca_source", source),
		zap.Int("client_chain_len", len(cert.Certificate)),
	)

	return buildClientTLSConfig(cert, pool, ""), nil
}

// NewCertPool builds a pool from PEM data, failing with ErrInvalidCA when no
// certificate could be parsed.
func NewCertPool(caPEM []byte) (*x509.CertPool, error) {
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, ErrInvalidCA
	}
	return pool, nil
}

// buildClientTLSConfig requires server authentication against pool
func buildClientTLSConfig(cert tls.Certificate, pool *x509.CertPool, serverName string) *tls.Config {
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      pool,
		ServerName:   serverName,
		MinVersion:   tls.VersionTLS12,

		VerifyConnection: func(cs tls.ConnectionState) error {
			logging.LogTLSHandshake(cs.ServerName, cs.Version, cs.CipherSuite, len(cs.PeerCertificates))
			return nil
		},
	}
}
