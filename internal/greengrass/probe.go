package greengrass

import (
	"context"
	"crypto/tls"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/ggdiscover/internal/logging"
)

// ProbeResult describes a successful TLS connection to a Core
type ProbeResult struct {
	Address     string
	TLSVersion  uint16
	CipherSuite uint16
	PeerSubject string
	Elapsed     time.Duration
}

// ProbeCore opens a mutually authenticated TLS connection to the Core named
// by info, trusting only the group CA from the same response. The connection
// is closed as soon as the handshake completes.
func ProbeCore(ctx context.Context, info *DiscoveryInfo, clientCert, privateKey []byte) (*ProbeResult, error) {
	host, port, err := info.Connectivity()
	if err != nil {
		return nil, err
	}
	caPEM, err := info.CAPEM()
	if err != nil {
		return nil, err
	}

	cert, err := tls.X509KeyPair(clientCert, privateKey)
	if err != nil {
		return nil, err
	}
	pool, err := NewCertPool(caPEM)
	if err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: DefaultTimeout},
		Config:    buildClientTLSConfig(cert, pool, host),
	}

	start := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		logging.Warn("Core probe failed", zap.String("address", addr), zap.Error(err))
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	state := conn.(*tls.Conn).ConnectionState()
	result := &ProbeResult{
		Address:     addr,
		TLSVersion:  state.Version,
		CipherSuite: state.CipherSuite,
		Elapsed:     time.Since(start),
	}
	if len(state.PeerCertificates) > 0 {
		result.PeerSubject = state.PeerCertificates[0].Subject.String()
	}

	logging.Info("Core probe succeeded",
		zap.String("address", addr),
		zap.Duration("elapsed", result.Elapsed),
	)

	return result, nil
}

// TLSVersionName returns a human-readable TLS version
func (r *ProbeResult) TLSVersionName() string {
	return tls.VersionName(r.TLSVersion)
}

// CipherSuiteName returns the IANA cipher suite name
func (r *ProbeResult) CipherSuiteName() string {
	return tls.CipherSuiteName(r.CipherSuite)
}
