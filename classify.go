package relay

import (
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// IsNetworkError reports whether err is a transport-level failure: DNS resolution, refused or
// reset connections, unreachable networks and dial or read timeouts.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	for _, errno := range []syscall.Errno{
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.ENETUNREACH,
		syscall.EHOSTUNREACH,
		syscall.ETIMEDOUT,
	} {
		if errors.Is(err, errno) {
			return true
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// url.Error wraps everything http.Client.Do returns; only the causes above count, but some
	// resolvers surface as plain strings inside it.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		msg := strings.ToLower(urlErr.Err.Error())
		for _, marker := range []string{"no such host", "connection refused", "network is unreachable", "i/o timeout"} {
			if strings.Contains(msg, marker) {
				return true
			}
		}
	}

	return false
}
