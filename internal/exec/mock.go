package exec

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// MockResponse is the scripted result of a mocked command.
type MockResponse struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int   // non-zero yields an ExitError
	Err      error // returned as-is, takes precedence over ExitCode
}

// ExitError mimics *os/exec.ExitError for mocked commands.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }

func (e *ExitError) ExitCode() int { return e.Code }

// MockCall records one invocation seen by MockExecutor.
type MockCall struct {
	Dir  string
	Name string
	Args []string
}

type mockRule struct {
	match func(name string, args []string) bool
	resp  MockResponse
}

// MockExecutor answers commands from scripted rules, checked in the order
// they were added. Unmatched commands go to the fallback executor, or
// fail when there is none.
type MockExecutor struct {
	mu       sync.Mutex
	rules    []mockRule
	calls    []MockCall
	fallback CommandExecutor
}

// NewMockExecutor creates a mock. fallback may be nil.
func NewMockExecutor(fallback CommandExecutor) *MockExecutor {
	return &MockExecutor{fallback: fallback}
}

// AddExactMatch answers name with exactly args.
func (m *MockExecutor) AddExactMatch(name string, args []string, resp MockResponse) {
	m.AddMatchFunc(func(n string, a []string) bool {
		return n == name && slices.Equal(a, args)
	}, resp)
}

// AddPrefixMatch answers name when its arguments start with prefix.
func (m *MockExecutor) AddPrefixMatch(name string, prefix []string, resp MockResponse) {
	m.AddMatchFunc(func(n string, a []string) bool {
		return n == name && len(a) >= len(prefix) && slices.Equal(a[:len(prefix)], prefix)
	}, resp)
}

// AddContainsMatch answers name when any argument contains substr. Useful
// for ssh, where the remote command is a single trailing argument.
func (m *MockExecutor) AddContainsMatch(name, substr string, resp MockResponse) {
	m.AddMatchFunc(func(n string, a []string) bool {
		if n != name {
			return false
		}
		for _, arg := range a {
			if strings.Contains(arg, substr) {
				return true
			}
		}
		return false
	}, resp)
}

// AddMatchFunc answers any command accepted by match.
func (m *MockExecutor) AddMatchFunc(match func(name string, args []string) bool, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, mockRule{match: match, resp: resp})
}

// Calls returns a copy of every invocation so far.
func (m *MockExecutor) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

func (m *MockExecutor) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Dir: dir, Name: name, Args: slices.Clone(args)})
	var (
		resp  MockResponse
		found bool
	)
	for _, r := range m.rules {
		if r.match(name, args) {
			resp, found = r.resp, true
			break
		}
	}
	fallback := m.fallback
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if !found {
		if fallback != nil {
			return fallback.Run(ctx, dir, name, args...)
		}
		return nil, nil, fmt.Errorf("mock: no response for %s %s", name, strings.Join(args, " "))
	}
	switch {
	case resp.Err != nil:
		return resp.Stdout, resp.Stderr, resp.Err
	case resp.ExitCode != 0:
		return resp.Stdout, resp.Stderr, &ExitError{Code: resp.ExitCode}
	}
	return resp.Stdout, resp.Stderr, nil
}

func (m *MockExecutor) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	stdout, _, err := m.Run(ctx, dir, name, args...)
	return stdout, err
}
