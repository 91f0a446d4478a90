// Package errors provides structured error types for rsync-tui.
// Each error records the operation that failed and a Kind used by the
// app layer to decide whether a failure is fatal or scoped to one action.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindUnreachable
	KindParse
	KindListing
	KindTransfer
	KindSpawn
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "configuration error"
	case KindUnreachable:
		return "remote unreachable"
	case KindParse:
		return "listing parse error"
	case KindListing:
		return "listing failed"
	case KindTransfer:
		return "transfer failed"
	case KindSpawn:
		return "process spawn error"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown error"
	}
}

// Fatal reports whether errors of this kind should end the process.
func (k Kind) Fatal() bool {
	return k == KindConfig
}

// Error carries the failing operation, its Kind, and optional context in
// front of an underlying cause.
type Error struct {
	Op      Op
	Kind    Kind
	Err     error
	Context string
}

func (e *Error) Error() string {
	prefix := ""
	if e.Op != "" {
		prefix = string(e.Op) + ": "
	}
	if e.Context != "" {
		prefix += e.Context + ": "
	}
	return prefix + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// E builds an *Error from its arguments, matched by type: an Op, a Kind, a
// string of context and an underlying error. With no error the context
// becomes the error text.
func E(args ...any) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err, e.Context = errors.New(e.Context), ""
	}
	return e
}

// GetKind returns the Kind of the outermost *Error in err's chain, or
// KindUnknown.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool { return GetKind(err) == kind }

// Message returns err's text without the Op prefixes. Used for flash
// messages where space is tight.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Context != "" {
		return e.Context + ": " + Message(e.Err)
	}
	return Message(e.Err)
}

// Startup errors

func ConfigurationError(reason string) error {
	return E(Op("config.Validate"), KindConfig, reason)
}

func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func RsyncMissing(host string) error {
	return E(Op("remote.CheckRsync"), KindConfig, fmt.Sprintf("rsync is not installed on %s (use --install-rsync)", host))
}

// Listing errors

func RemoteUnreachable(host string, err error) error {
	return E(Op("remote.List"), KindUnreachable, fmt.Sprintf("cannot reach %s", host), err)
}

func ListingParseError(line string) error {
	return E(Op("remote.parseLs"), KindParse, fmt.Sprintf("unparseable entry %q", line))
}

func ListingFailed(path string, err error) error {
	return E(Op("remote.List"), KindListing, fmt.Sprintf("cannot list %s", path), err)
}

// Transfer errors

func TransferFailed(source, reason string) error {
	return E(Op("transfer.Run"), KindTransfer, fmt.Sprintf("%s: %s", source, reason))
}

func ProcessSpawnError(name string, err error) error {
	return E(Op("transfer.Start"), KindSpawn, fmt.Sprintf("failed to start %s", name), err)
}

func TransferCancelled(source string) error {
	return E(Op("transfer.Cancel"), KindCancelled, fmt.Sprintf("%s cancelled", source))
}
