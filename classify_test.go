package relay

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsNetworkError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"dns", &net.DNSError{Err: "no such host", Name: "x"}, true},
		{"op error", &net.OpError{Op: "dial", Err: errors.New("boom")}, true},
		{"refused errno", fmt.Errorf("post: %w", os.NewSyscallError("connect", syscall.ECONNREFUSED)), true},
		{"reset errno", syscall.ECONNRESET, true},
		{"timeout", timeoutErr{}, true},
		{"url no such host", &url.Error{Op: "Post", URL: "http://x", Err: errors.New("lookup x: no such host")}, true},
		{"url other", &url.Error{Op: "Post", URL: "http://x", Err: errors.New("stopped after 10 redirects")}, false},
		{"plain", errors.New("status 500"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNetworkError(tt.err); got != tt.want {
				t.Errorf("IsNetworkError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
