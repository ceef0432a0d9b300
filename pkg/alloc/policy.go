package alloc

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// Location identifies the call site that requested an allocation.
type Location struct {
	File string
	Line int
	Func string
}

func (l Location) String() string {
	if l.File == "" {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d (%s)", l.File, l.Line, l.Func)
}

// Policy decides what happens when an allocation request cannot be satisfied.
// If HandleFailure returns, the failing operation reports ErrAllocation to its caller.
type Policy interface {
	HandleFailure(msg string, loc Location, args ...any)
}

// PolicyFunc adapts an ordinary function to the Policy interface.
type PolicyFunc func(msg string, loc Location, args ...any)

// HandleFailure calls f(msg, loc, args...).
func (f PolicyFunc) HandleFailure(msg string, loc Location, args ...any) {
	f(msg, loc, args...)
}

// Fatal reports the failure and terminates the process.
type Fatal struct {
	Logger *slog.Logger
	// Exit defaults to os.Exit.
	Exit func(code int)
}

// HandleFailure logs at error level and exits with status 1.
func (p Fatal) HandleFailure(msg string, loc Location, args ...any) {
	logger(p.Logger).Error(msg, append([]any{"location", loc.String()}, args...)...)
	exit := p.Exit
	if exit == nil {
		exit = os.Exit
	}
	exit(1)
}

// Warn reports the failure and lets the operation fail with ErrAllocation.
type Warn struct {
	Logger *slog.Logger
}

// HandleFailure logs at warn level.
func (p Warn) HandleFailure(msg string, loc Location, args ...any) {
	logger(p.Logger).Warn(msg, append([]any{"location", loc.String()}, args...)...)
}

// Quiet lets the operation fail with ErrAllocation without reporting anything.
type Quiet struct{}

// HandleFailure does nothing.
func (Quiet) HandleFailure(string, Location, ...any) {}

// Policy names accepted by PolicyByName.
const (
	PolicyFatal = "fatal"
	PolicyWarn  = "warn"
	PolicyQuiet = "quiet"
)

// PolicyByName resolves a configured policy name.
func PolicyByName(name string, l *slog.Logger) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyFatal:
		return Fatal{Logger: l}, nil
	case PolicyWarn:
		return Warn{Logger: l}, nil
	case PolicyQuiet:
		return Quiet{}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownPolicy, "%q", name)
	}
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
