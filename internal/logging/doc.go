// Package logging provides structured logging for ggdiscover.
//
// This package wraps a global zap logger with convenience functions and a few
// discovery-specific helpers. Logging is silent by default so the CLI output
// stays clean; set GGDISCOVER_LOG_LEVEL (or pass --log-level) to "debug",
// "info", "warn" or "error" to enable it. Logs go to stderr.
//
// # Structured Logging
//
//	logging.Info("Discovery request",
//	    zap.String("request_id", id),
//	    zap.String("thing_name", "sensor-01"),
//	)
//
// # Specialized Logging
//
//	logging.LogDiscoveryRequest(requestID, url, thingName)
//	logging.LogDiscoveryResponse(requestID, statusCode, elapsed, groups)
//	logging.LogTLSHandshake(serverName, version, cipherSuite, peerCerts)
//
// # Configuration
//
//	if err := logging.Initialize(level); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
package logging
