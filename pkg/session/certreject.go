package session

import "strings"

// certificateRejectionAlerts are the TLS alert descriptions a television
// sends back when it no longer trusts this client's identity. crypto/tls
// surfaces these as plain error text from the remote party rather than a
// typed error, so detection is substring-based — the same approach the
// teacher's pkg/transport uses to classify dial failures.
var certificateRejectionAlerts = []string{
	"bad certificate",
	"unknown certificate authority",
	"certificate required",
	"unknown certificate",
}

func isCertificateRejected(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, alert := range certificateRejectionAlerts {
		if strings.Contains(msg, alert) {
			return true
		}
	}
	return false
}
