// Package greengrass retrieves AWS IoT Greengrass Core connectivity and trust
// material through the Greengrass discovery API.
//
// A device calls Discover with its IoT thing name and the certificate and key
// registered for that thing. The request is a single mutually authenticated
// HTTPS GET:
//
//	GET https://{endpoint}:8443/greengrass/discover/thing/{thingName}
//
// The JSON response is wrapped in a DiscoveryInfo, which offers two accessors:
//
//   - CA: the group CA certificate, used to verify the Core's server certificate
//   - Connectivity: the Core host address and port
//
// Each accessor succeeds only when the response is unambiguous: exactly one
// group with exactly one CA, or exactly one group, one Core and one
// connectivity entry. Any other shape yields ErrAmbiguousDiscovery. No entry
// is ever chosen on the caller's behalf; Raw exposes the full response when a
// caller needs to pick one.
//
// # Usage Example
//
//	info, err := greengrass.Discover(ctx, endpoint, "my-thing", certPEM, keyPEM)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	host, port, err := info.Connectivity()
//	if errors.Is(err, greengrass.ErrAmbiguousDiscovery) {
//	    // inspect info.Raw()
//	}
//
//	ca, err := info.CA() // PEM with a trailing NUL byte
//
// # Error Handling
//
// Discover does not retry and does not wrap errors from crypto/tls, net/http
// or encoding/json. The one error it creates itself is *HTTPStatusError, for
// a non-2xx response.
package greengrass
