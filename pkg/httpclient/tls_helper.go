package httpclient

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	cerr "github.com/cockroachdb/errors"
)

// SecureTLSConfig creates a TLS configuration that validates certificates,
// optionally against a private CA.
func SecureTLSConfig(minVersion uint16, caCertPath string) (*tls.Config, error) {
	if minVersion == 0 {
		minVersion = tls.VersionTLS12
	}
	tlsConfig := &tls.Config{
		MinVersion: minVersion,
	}

	// If custom CA cert provided, load it
	if caCertPath != "" {
		caCert, err := os.ReadFile(caCertPath)
		if err != nil {
			return nil, cerr.Wrapf(err, "failed to read CA certificate from %s", caCertPath)
		}

		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, cerr.Newf("failed to parse CA certificate from %s", caCertPath)
		}

		tlsConfig.RootCAs = caCertPool
	}

	return tlsConfig, nil
}
