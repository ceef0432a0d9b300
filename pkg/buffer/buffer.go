// Package buffer implements the growable byte buffer used for every text
// field of a sequence record.
//
// A Buffer tracks its length separately from its capacity and always keeps a
// zero byte at data[length], so capacity is at least length+1 once filled.
// The zero value is the absent state: no storage, capacity 0, length 0.
// Absent is legal and distinct from an allocated buffer of length 0.
package buffer

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/kdmurray91/libqes/pkg/alloc"
)

var (
	ErrNilBuffer     = errors.New("nil buffer")
	ErrNilSource     = errors.New("nil source")
	ErrInvalidBuffer = errors.New("buffer is not valid")
	ErrInvalidLength = errors.New("invalid length")
)

// Buffer is an owned, growable byte sequence.
type Buffer struct {
	data   []byte
	length int
	alloc  *alloc.Allocator
}

// New allocates a buffer with the given capacity from the default allocator.
func New(capacity int) (*Buffer, error) {
	return NewWith(alloc.Default(), capacity)
}

// NewWith allocates a buffer with the given capacity from a.
func NewWith(a *alloc.Allocator, capacity int) (*Buffer, error) {
	b := &Buffer{}
	if err := b.Init(a, capacity); err != nil {
		return nil, err
	}
	return b, nil
}

// Absent returns an absent buffer that will draw storage from a once it is
// filled.
func Absent(a *alloc.Allocator) Buffer {
	return Buffer{alloc: a}
}

// Init allocates zeroed storage for an embedded buffer, replacing whatever
// it held. On failure b is left unchanged.
func (b *Buffer) Init(a *alloc.Allocator, capacity int) error {
	if b == nil {
		return ErrNilBuffer
	}
	data, err := a.Make(capacity)
	if err != nil {
		return err
	}
	b.data = data
	b.length = 0
	b.alloc = a
	return nil
}

// IsValid reports whether b has allocated storage. It is safe on nil.
func (b *Buffer) IsValid() bool {
	return b != nil && b.data != nil && len(b.data) > 0
}

// IsValid reports whether b has allocated storage.
func IsValid(b *Buffer) bool {
	return b.IsValid()
}

// IsAbsent reports whether b has never been allocated or has been released.
func (b *Buffer) IsAbsent() bool {
	return b == nil || b.data == nil
}

// Len returns the number of bytes in use.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return b.length
}

// Cap returns the allocated capacity.
func (b *Buffer) Cap() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Bytes returns the bytes in use. The slice aliases the buffer and is only
// good until the next mutation.
func (b *Buffer) Bytes() []byte {
	if b.IsAbsent() {
		return nil
	}
	return b.data[:b.length]
}

// String returns a copy of the bytes in use.
func (b *Buffer) String() string {
	return string(b.Bytes())
}

// Allocator returns the allocator that owns b's storage.
func (b *Buffer) Allocator() *alloc.Allocator {
	if b == nil || b.alloc == nil {
		return alloc.Default()
	}
	return b.alloc
}

// Fill replaces the contents of b with the first n bytes of src and writes a
// zero terminator after them. An n of 0 means src is zero-terminated: the
// length is the index of the first zero byte, or len(src) if there is none.
//
// Fill allocates an absent buffer and grows a short one to the next power of
// two >= n+1. On error b is unchanged.
func (b *Buffer) Fill(src []byte, n int) error {
	if b == nil {
		return ErrNilBuffer
	}
	if src == nil {
		return ErrNilSource
	}
	if n == 0 {
		n = CStrLen(src)
	}
	if n < 0 || n > len(src) {
		return errors.Wrapf(ErrInvalidLength, "%d (source has %d bytes)", n, len(src))
	}

	data, err := b.Allocator().Grow(b.data, n+1)
	if err != nil {
		return err
	}
	copy(data, src[:n])
	data[n] = 0
	b.data = data
	b.length = n
	return nil
}

// Reserve ensures b can hold n bytes, growing to the next power of two and
// keeping the current contents. An absent buffer is allocated.
func (b *Buffer) Reserve(n int) error {
	if b == nil {
		return ErrNilBuffer
	}
	data, err := b.Allocator().Grow(b.data, n)
	if err != nil {
		return err
	}
	b.data = data
	return nil
}

// Nullify empties a valid buffer without releasing its storage.
func (b *Buffer) Nullify() error {
	if !b.IsValid() {
		return ErrInvalidBuffer
	}
	b.length = 0
	b.data[0] = 0
	return nil
}

// Release frees b's storage and returns it to the absent state. It is safe
// to call on nil or on an already absent buffer.
func (b *Buffer) Release() {
	if b == nil {
		return
	}
	b.data = nil
	b.length = 0
}

// Copy makes dst a deep copy of src, including src's full capacity. An
// invalid dst is first initialised with src's capacity.
func Copy(dst, src *Buffer) error {
	if dst == nil {
		return ErrNilBuffer
	}
	if !src.IsValid() {
		return ErrInvalidBuffer
	}
	if dst == src {
		return nil
	}

	data := dst.data
	if !dst.IsValid() || len(data) < len(src.data) {
		a := dst.alloc
		if a == nil {
			a = src.Allocator()
		}
		fresh, err := a.Make(len(src.data))
		if err != nil {
			return err
		}
		data = fresh
		dst.alloc = a
	}
	copy(data, src.data)
	dst.data = data
	dst.length = src.length
	return nil
}

// CStrLen returns the index of the first zero byte in p, or len(p).
func CStrLen(p []byte) int {
	if i := bytes.IndexByte(p, 0); i >= 0 {
		return i
	}
	return len(p)
}
