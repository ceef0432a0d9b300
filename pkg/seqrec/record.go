package seqrec

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/kdmurray91/libqes/pkg/alloc"
	"github.com/kdmurray91/libqes/pkg/buffer"
)

// DefaultCapacity is the initial capacity of every allocated field.
const DefaultCapacity = 128

var (
	ErrNilRecord      = errors.New("nil record")
	ErrNilSource      = buffer.ErrNilSource
	ErrInvalidLength  = buffer.ErrInvalidLength
	ErrSelfCopy       = errors.New("source and destination are the same record")
	ErrUnknownVariant = errors.New("unknown record variant")
)

// Variant selects which optional fields a new Record allocates.
type Variant int

const (
	Full Variant = iota
	NoQuality
	NoCommentOrQuality
)

func (v Variant) String() string {
	switch v {
	case Full:
		return "full"
	case NoQuality:
		return "no-quality"
	case NoCommentOrQuality:
		return "no-comment-or-quality"
	default:
		return "unknown"
	}
}

func (v Variant) hasComment() bool { return v == Full || v == NoQuality }
func (v Variant) hasQuality() bool { return v == Full }

// Record is a sequence entry. Comment and Quality may be absent.
type Record struct {
	Name     buffer.Buffer
	Comment  buffer.Buffer
	Sequence buffer.Buffer
	Quality  buffer.Buffer
}

// Factory builds Records from a single allocator.
type Factory struct {
	alloc    *alloc.Allocator
	capacity int
	logger   *slog.Logger
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithAllocator sets the allocator, and with it the allocation failure policy.
func WithAllocator(a *alloc.Allocator) FactoryOption {
	return func(f *Factory) {
		if a != nil {
			f.alloc = a
		}
	}
}

// WithCapacity sets the initial capacity of allocated fields.
func WithCapacity(n int) FactoryOption {
	return func(f *Factory) {
		if n > 0 {
			f.capacity = n
		}
	}
}

// WithLogger sets the logger used for construction diagnostics.
func WithLogger(l *slog.Logger) FactoryOption {
	return func(f *Factory) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFactory creates a Factory using the default allocator and capacity
// unless overridden.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{
		alloc:    alloc.Default(),
		capacity: DefaultCapacity,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var defaultFactory = NewFactory()

// DefaultFactory returns the factory behind the package-level constructors.
func DefaultFactory() *Factory {
	return defaultFactory
}

// Allocator returns the factory's allocator.
func (f *Factory) Allocator() *alloc.Allocator {
	return f.alloc
}

// Capacity returns the initial field capacity.
func (f *Factory) Capacity() int {
	return f.capacity
}

// New builds a Record of the given variant. If any field cannot be
// allocated, the fields allocated so far are released.
func (f *Factory) New(v Variant) (r *Record, err error) {
	if v < Full || v > NoCommentOrQuality {
		return nil, errors.Wrapf(ErrUnknownVariant, "%d", int(v))
	}

	r = &Record{
		Comment: buffer.Absent(f.alloc),
		Quality: buffer.Absent(f.alloc),
	}
	defer func() {
		if err != nil {
			f.logger.Debug("record construction failed", "variant", v.String(), "error", err)
			r.Release()
			r = nil
		}
	}()

	if err = r.Name.Init(f.alloc, f.capacity); err != nil {
		return
	}
	if v.hasComment() {
		if err = r.Comment.Init(f.alloc, f.capacity); err != nil {
			return
		}
	}
	if err = r.Sequence.Init(f.alloc, f.capacity); err != nil {
		return
	}
	if v.hasQuality() {
		if err = r.Quality.Init(f.alloc, f.capacity); err != nil {
			return
		}
	}
	return r, nil
}

// NewFull builds a Record with all four fields allocated.
func (f *Factory) NewFull() (*Record, error) { return f.New(Full) }

// NewNoQuality builds a Record whose quality field is absent.
func (f *Factory) NewNoQuality() (*Record, error) { return f.New(NoQuality) }

// NewNoCommentOrQuality builds a Record whose comment and quality are absent.
func (f *Factory) NewNoCommentOrQuality() (*Record, error) { return f.New(NoCommentOrQuality) }

// New builds a Record of the given variant with the default factory.
func New(v Variant) (*Record, error) { return defaultFactory.New(v) }

// NewFull builds a Full Record with the default factory.
func NewFull() (*Record, error) { return defaultFactory.New(Full) }

// NewNoQuality builds a NoQuality Record with the default factory.
func NewNoQuality() (*Record, error) { return defaultFactory.New(NoQuality) }

// NewNoCommentOrQuality builds a NoCommentOrQuality Record with the default
// factory.
func NewNoCommentOrQuality() (*Record, error) { return defaultFactory.New(NoCommentOrQuality) }

// IsOK reports whether all four fields are valid.
func (r *Record) IsOK() bool {
	return r != nil && r.Name.IsValid() && r.Comment.IsValid() &&
		r.Sequence.IsValid() && r.Quality.IsValid()
}

// IsOKNoComment ignores the comment field.
func (r *Record) IsOKNoComment() bool {
	return r != nil && r.Name.IsValid() && r.Sequence.IsValid() && r.Quality.IsValid()
}

// IsOKNoQuality ignores the quality field.
func (r *Record) IsOKNoQuality() bool {
	return r != nil && r.Name.IsValid() && r.Comment.IsValid() && r.Sequence.IsValid()
}

// IsOKNoCommentOrQuality checks only name and sequence.
func (r *Record) IsOKNoCommentOrQuality() bool {
	return r != nil && r.Name.IsValid() && r.Sequence.IsValid()
}

// Matches applies the validity predicate that corresponds to v.
func (r *Record) Matches(v Variant) bool {
	switch v {
	case Full:
		return r.IsOK()
	case NoQuality:
		return r.IsOKNoQuality()
	case NoCommentOrQuality:
		return r.IsOKNoCommentOrQuality()
	default:
		return false
	}
}

// Shape returns the variant whose allocation pattern r currently has. The
// second result is false when r is nil, a required field is invalid, or the
// optional fields form a combination no constructor produces (quality
// without comment).
func (r *Record) Shape() (Variant, bool) {
	if !r.IsOKNoCommentOrQuality() {
		return 0, false
	}
	comment, quality := r.Comment.IsValid(), r.Quality.IsValid()
	switch {
	case comment && quality:
		return Full, true
	case comment:
		return NoQuality, true
	case !quality:
		return NoCommentOrQuality, true
	default:
		return 0, false
	}
}

// FillName copies the first n bytes of src into the name field.
func (r *Record) FillName(src []byte, n int) error {
	return r.fill(fieldName, src, n)
}

// FillComment copies the first n bytes of src into the comment field,
// allocating it if absent.
func (r *Record) FillComment(src []byte, n int) error {
	return r.fill(fieldComment, src, n)
}

// FillSequence copies the first n bytes of src into the sequence field.
func (r *Record) FillSequence(src []byte, n int) error {
	return r.fill(fieldSequence, src, n)
}

// FillQuality copies the first n bytes of src into the quality field,
// allocating it if absent.
func (r *Record) FillQuality(src []byte, n int) error {
	return r.fill(fieldQuality, src, n)
}

// Fill sets all four fields from whole slices. A nil comment or quality
// leaves that field absent; an empty one leaves it valid and empty. Every
// field is reserved before any is written, so a failure leaves r unchanged.
func (r *Record) Fill(name, comment, seq, qual []byte) error {
	if r == nil {
		return ErrNilRecord
	}
	if name == nil {
		return errors.Wrapf(ErrNilSource, "fill %s", fieldName)
	}
	if seq == nil {
		return errors.Wrapf(ErrNilSource, "fill %s", fieldSequence)
	}

	srcs := [...][]byte{name, comment, seq, qual}
	for f := fieldName; f <= fieldQuality; f++ {
		if srcs[f] == nil {
			continue
		}
		if err := r.field(f).Reserve(len(srcs[f]) + 1); err != nil {
			return errors.Wrapf(err, "fill %s", f)
		}
	}

	for f := fieldName; f <= fieldQuality; f++ {
		src, b := srcs[f], r.field(f)
		switch {
		case src == nil:
			b.Release()
		case len(src) == 0:
			if err := b.Nullify(); err != nil {
				return errors.Wrapf(err, "fill %s", f)
			}
		default:
			if err := r.fill(f, src, len(src)); err != nil {
				return err
			}
		}
	}
	return nil
}

type field int

const (
	fieldName field = iota
	fieldComment
	fieldSequence
	fieldQuality
)

func (f field) String() string {
	return [...]string{"name", "comment", "sequence", "quality"}[f]
}

func (r *Record) field(f field) *buffer.Buffer {
	switch f {
	case fieldName:
		return &r.Name
	case fieldComment:
		return &r.Comment
	case fieldSequence:
		return &r.Sequence
	default:
		return &r.Quality
	}
}

// Field fillers take an explicit positive length; unlike FillHeader they
// never infer it from a terminator.
func (r *Record) fill(f field, src []byte, n int) error {
	if r == nil {
		return ErrNilRecord
	}
	if src == nil {
		return errors.Wrapf(ErrNilSource, "fill %s", f)
	}
	if n <= 0 || n > len(src) {
		return errors.Wrapf(ErrInvalidLength, "fill %s: %d (source has %d bytes)", f, n, len(src))
	}
	if err := r.field(f).Fill(src, n); err != nil {
		return errors.Wrapf(err, "fill %s", f)
	}
	return nil
}

// Copy deep-copies every field of src into dst. An absent optional field in
// src leaves the same field absent in dst. Copying a record onto itself is
// rejected.
func Copy(dst, src *Record) error {
	if dst == nil || src == nil {
		return ErrNilRecord
	}
	if dst == src {
		return ErrSelfCopy
	}
	for f := fieldName; f <= fieldQuality; f++ {
		s, d := src.field(f), dst.field(f)
		if s.IsAbsent() {
			continue
		}
		if err := d.Reserve(s.Cap()); err != nil {
			return errors.Wrapf(err, "copy %s", f)
		}
	}

	for f := fieldName; f <= fieldQuality; f++ {
		s, d := src.field(f), dst.field(f)
		if s.IsAbsent() {
			d.Release()
			continue
		}
		if err := buffer.Copy(d, s); err != nil {
			return errors.Wrapf(err, "copy %s", f)
		}
	}
	return nil
}

// Clone returns a deep copy of r.
func (r *Record) Clone() (*Record, error) {
	if r == nil {
		return nil, ErrNilRecord
	}
	c := &Record{
		Name:     buffer.Absent(r.Name.Allocator()),
		Comment:  buffer.Absent(r.Comment.Allocator()),
		Sequence: buffer.Absent(r.Sequence.Allocator()),
		Quality:  buffer.Absent(r.Quality.Allocator()),
	}
	if err := Copy(c, r); err != nil {
		c.Release()
		return nil, err
	}
	return c, nil
}

// Release frees all four fields. Every predicate reports false afterwards.
// It is safe to call repeatedly and on nil.
func (r *Record) Release() {
	if r == nil {
		return
	}
	r.Name.Release()
	r.Comment.Release()
	r.Sequence.Release()
	r.Quality.Release()
}

// Destroy releases *rp and clears the caller's reference. A nil rp or *rp
// is a no-op.
func Destroy(rp **Record) {
	if rp == nil {
		return
	}
	(*rp).Release()
	*rp = nil
}
