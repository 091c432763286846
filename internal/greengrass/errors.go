package greengrass

import (
	"errors"
	"fmt"
)

var (
	// ErrAmbiguousDiscovery is returned when a discovery response does not hold
	// exactly one candidate for the requested value.
	ErrAmbiguousDiscovery = errors.New("greengrass: ambiguous discovery info")

	// ErrInvalidCA is returned when CA material holds no PEM certificate
	ErrInvalidCA = errors.New("greengrass: no certificate found in CA PEM")
)

// DiscoveryInfoError reports which accessor failed and the candidate counts
// observed in the response.
type DiscoveryInfoError struct {
	Accessor     string // "CA", "CAPEM" or "Connectivity"
	Groups       int
	Cores        int
	CAs          int
	Connectivity int
}

// Error implements the error interface
func (e *DiscoveryInfoError) Error() string {
	return fmt.Sprintf("%s: %s needs exactly one candidate (groups=%d cores=%d cas=%d connectivity=%d)",
		ErrAmbiguousDiscovery, e.Accessor, e.Groups, e.Cores, e.CAs, e.Connectivity)
}

// Unwrap makes errors.Is(err, ErrAmbiguousDiscovery) hold
func (e *DiscoveryInfoError) Unwrap() error {
	return ErrAmbiguousDiscovery
}

// HTTPStatusError is returned by Discover when the endpoint answers with a
// non-2xx status. The body of such a response is not a discovery document.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("greengrass: discovery returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("greengrass: discovery returned HTTP %d: %s", e.StatusCode, e.Body)
}

// IsAmbiguous checks if an error is a discovery ambiguity error
func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguousDiscovery)
}

// IsHTTPStatus checks if an error is a non-2xx discovery response
func IsHTTPStatus(err error) bool {
	var statusErr *HTTPStatusError
	return errors.As(err, &statusErr)
}

// GetTroubleshootingHint returns user-facing advice for a discovery error
func GetTroubleshootingHint(err error) []string {
	var statusErr *HTTPStatusError
	switch {
	case err == nil:
		return nil
	case IsAmbiguous(err):
		return []string{
			"The thing belongs to several groups, or the group has several Cores, CAs or addresses.",
			"Use --format json to inspect the full response and pick an entry manually.",
		}
	case errors.As(err, &statusErr):
		switch statusErr.StatusCode {
		case 401, 403:
			return []string{
				"The client certificate was rejected.",
				"Check that the certificate is active and attached to the thing.",
				"Check that the thing's policy allows greengrass:Discover.",
			}
		case 404:
			return []string{
				"The thing is unknown or not associated with a Greengrass group.",
				"Check the thing name and the group's device list.",
			}
		case 429:
			return []string{"Discovery is being throttled. Wait and try again."}
		}
		return []string{"The discovery service returned an unexpected status."}
	case errors.Is(err, ErrInvalidCA):
		return []string{"The --ca file does not contain a PEM certificate."}
	default:
		return []string{
			"Check the endpoint (aws iot describe-endpoint --endpoint-type iot:Data-ATS).",
			"Check that port 8443 is reachable from this host.",
			"Check that the certificate and key files match.",
		}
	}
}
