// Package alloc owns memory requests for buffers and routes allocation
// failures to a pluggable Policy.
//
// Go does not surface out-of-memory as a recoverable error, so an Allocator
// treats any request above its MaxCapacity (or a non-positive request) as an
// allocation failure. The Policy is chosen once, when the Allocator is
// built, and every buffer created from it inherits the behaviour.
package alloc

import (
	"log/slog"
	"math/bits"
	"runtime"

	"github.com/cockroachdb/errors"
)

// DefaultMaxCapacity bounds a single buffer at 1 GiB.
const DefaultMaxCapacity = 1 << 30

var (
	ErrAllocation    = errors.New("allocation failed")
	ErrUnknownPolicy = errors.New("unknown allocation failure policy")
)

// Allocator hands out zeroed byte storage.
type Allocator struct {
	policy      Policy
	maxCapacity int
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithPolicy sets the failure policy.
func WithPolicy(p Policy) Option {
	return func(a *Allocator) {
		if p != nil {
			a.policy = p
		}
	}
}

// WithMaxCapacity sets the largest single allocation.
func WithMaxCapacity(n int) Option {
	return func(a *Allocator) {
		if n > 0 {
			a.maxCapacity = n
		}
	}
}

// New creates an Allocator. Without options it uses the Fatal policy and
// DefaultMaxCapacity.
func New(opts ...Option) *Allocator {
	a := &Allocator{
		policy:      Fatal{Logger: slog.Default()},
		maxCapacity: DefaultMaxCapacity,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var defaultAllocator = New()

// Default returns the process-wide allocator.
func Default() *Allocator {
	return defaultAllocator
}

// MaxCapacity returns the largest allocation this allocator accepts.
func (a *Allocator) MaxCapacity() int {
	return a.orDefault().maxCapacity
}

// Policy returns the failure policy.
func (a *Allocator) Policy() Policy {
	return a.orDefault().policy
}

// Make returns n zeroed bytes.
func (a *Allocator) Make(n int) ([]byte, error) {
	return a.orDefault().make(n, 2)
}

// Grow returns old unchanged when it already holds min bytes. Otherwise it
// allocates RoundUpPow2(min) bytes and copies old into the front.
func (a *Allocator) Grow(old []byte, min int) ([]byte, error) {
	if min <= len(old) && old != nil {
		return old, nil
	}
	buf, err := a.orDefault().make(RoundUpPow2(min), 2)
	if err != nil {
		return nil, err
	}
	copy(buf, old)
	return buf, nil
}

func (a *Allocator) make(n int, skip int) ([]byte, error) {
	if n <= 0 || n > a.maxCapacity {
		a.policy.HandleFailure("allocation request cannot be satisfied", caller(skip),
			"requested", n, "max_capacity", a.maxCapacity)
		return nil, errors.Wrapf(ErrAllocation, "requested %d bytes (max %d)", n, a.maxCapacity)
	}
	return make([]byte, n), nil
}

func (a *Allocator) orDefault() *Allocator {
	if a == nil {
		return defaultAllocator
	}
	return a
}

// RoundUpPow2 returns the smallest power of two >= n. Exact powers of two
// are returned unchanged; n <= 1 yields 1.
func RoundUpPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

func caller(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Location{}
	}
	loc := Location{File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		loc.Func = fn.Name()
	}
	return loc
}
