package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/zhubert/rsync-tui/internal/errors"
)

const (
	DefaultUser = "root"
	DefaultPort = 22
)

// Target is the remote (host, user, port) triple every remote command runs against.
type Target struct {
	Host string
	User string
	Port int
}

// ParseTarget builds a Target from the HOST argument. A "user@host" form
// overrides user.
func ParseTarget(arg, user string, port int) (Target, error) {
	t := Target{Host: strings.TrimSpace(arg), User: user, Port: port}
	if u, h, ok := strings.Cut(t.Host, "@"); ok {
		t.User, t.Host = u, h
	}
	if t.User == "" {
		t.User = DefaultUser
	}
	return t, t.Validate()
}

// Validate rejects an empty host or an out-of-range port.
func (t Target) Validate() error {
	if t.Host == "" {
		return errors.ConfigurationError("remote host is required")
	}
	if strings.ContainsAny(t.Host, " \t/:") {
		return errors.ConfigurationError(fmt.Sprintf("invalid host %q", t.Host))
	}
	if t.Port < 1 || t.Port > 65535 {
		return errors.ConfigurationError(fmt.Sprintf("port must be between 1 and 65535, got %d", t.Port))
	}
	return nil
}

// SSHDestination returns "user@host" as used by ssh and rsync.
func (t Target) SSHDestination() string {
	return t.User + "@" + t.Host
}

// Address returns "host:port" for direct dialing.
func (t Target) Address() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

func (t Target) String() string {
	if t.Port == DefaultPort {
		return t.SSHDestination()
	}
	return fmt.Sprintf("%s:%d", t.SSHDestination(), t.Port)
}
