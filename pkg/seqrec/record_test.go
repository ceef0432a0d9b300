package seqrec

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/kdmurray91/libqes/pkg/alloc"
	"github.com/kdmurray91/libqes/pkg/buffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	testCases := []struct {
		name        string
		create      func() (*Record, error)
		wantComment bool
		wantQuality bool
	}{
		{"full", NewFull, true, true},
		{"no quality", NewNoQuality, true, false},
		{"no comment or quality", NewNoCommentOrQuality, false, false},
		{"generic full", func() (*Record, error) { return New(Full) }, true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := tc.create()
			require.NoError(t, err)
			defer Destroy(&r)

			for _, b := range []*buffer.Buffer{&r.Name, &r.Sequence} {
				assert.True(t, b.IsValid())
				assert.Equal(t, 0, b.Len())
				assert.Equal(t, DefaultCapacity, b.Cap())
			}

			assert.Equal(t, tc.wantComment, r.Comment.IsValid())
			assert.Equal(t, !tc.wantComment, r.Comment.IsAbsent())
			assert.Equal(t, tc.wantQuality, r.Quality.IsValid())
			assert.Equal(t, !tc.wantQuality, r.Quality.IsAbsent())
			assert.Equal(t, 0, r.Comment.Len())
			assert.Equal(t, 0, r.Quality.Len())
		})
	}
}

func TestFactory(t *testing.T) {
	t.Run("custom capacity", func(t *testing.T) {
		f := NewFactory(WithCapacity(16))
		r, err := f.NewFull()
		require.NoError(t, err)
		assert.Equal(t, 16, r.Name.Cap())
		assert.Equal(t, 16, r.Quality.Cap())
		assert.Equal(t, 16, f.Capacity())
	})

	t.Run("unknown variant", func(t *testing.T) {
		r, err := New(Variant(42))
		assert.Nil(t, r)
		assert.True(t, errors.Is(err, ErrUnknownVariant))
	})

	t.Run("allocation failure is reported through the policy", func(t *testing.T) {
		var calls int
		a := alloc.New(
			alloc.WithMaxCapacity(64),
			alloc.WithPolicy(alloc.PolicyFunc(func(string, alloc.Location, ...any) { calls++ })),
		)
		f := NewFactory(WithAllocator(a), WithCapacity(128))

		r, err := f.NewNoQuality()
		assert.Nil(t, r)
		assert.True(t, errors.Is(err, alloc.ErrAllocation))
		assert.Equal(t, 1, calls)
		assert.Same(t, a, f.Allocator())
	})
}

func TestPredicates(t *testing.T) {
	type predicate struct {
		name         string
		check        func(*Record) bool
		needsComment bool
		needsQuality bool
	}
	predicates := []predicate{
		{"IsOK", (*Record).IsOK, true, true},
		{"IsOKNoComment", (*Record).IsOKNoComment, false, true},
		{"IsOKNoQuality", (*Record).IsOKNoQuality, true, false},
		{"IsOKNoCommentOrQuality", (*Record).IsOKNoCommentOrQuality, false, false},
	}

	fields := []struct {
		name     string
		get      func(*Record) *buffer.Buffer
		required func(predicate) bool
	}{
		{"name", func(r *Record) *buffer.Buffer { return &r.Name }, func(predicate) bool { return true }},
		{"comment", func(r *Record) *buffer.Buffer { return &r.Comment }, func(p predicate) bool { return p.needsComment }},
		{"sequence", func(r *Record) *buffer.Buffer { return &r.Sequence }, func(predicate) bool { return true }},
		{"quality", func(r *Record) *buffer.Buffer { return &r.Quality }, func(p predicate) bool { return p.needsQuality }},
	}

	for _, p := range predicates {
		t.Run(p.name, func(t *testing.T) {
			var nilRecord *Record
			assert.False(t, p.check(nilRecord), "nil record")

			r, err := NewFull()
			require.NoError(t, err)
			assert.True(t, p.check(r), "full record")

			for _, f := range fields {
				r, err := NewFull()
				require.NoError(t, err)
				f.get(r).Release()
				assert.Equal(t, !f.required(p), p.check(r), "%s released", f.name)
			}
		})
	}
}

func TestPredicatesPerVariant(t *testing.T) {
	testCases := []struct {
		variant                                   Variant
		ok, noComment, noQuality, noCommentOrQual bool
	}{
		{Full, true, true, true, true},
		{NoQuality, false, false, true, true},
		{NoCommentOrQuality, false, false, false, true},
	}

	for _, tc := range testCases {
		t.Run(tc.variant.String(), func(t *testing.T) {
			r, err := New(tc.variant)
			require.NoError(t, err)

			assert.Equal(t, tc.ok, r.IsOK())
			assert.Equal(t, tc.noComment, r.IsOKNoComment())
			assert.Equal(t, tc.noQuality, r.IsOKNoQuality())
			assert.Equal(t, tc.noCommentOrQual, r.IsOKNoCommentOrQuality())
			assert.True(t, r.Matches(tc.variant))

			shape, ok := r.Shape()
			assert.True(t, ok)
			assert.Equal(t, tc.variant, shape)
		})
	}
}

func TestShape_QualityWithoutComment(t *testing.T) {
	r, err := NewFull()
	require.NoError(t, err)
	r.Comment.Release()

	_, ok := r.Shape()
	assert.False(t, ok)
	assert.True(t, r.IsOKNoComment())
	assert.False(t, r.Matches(Variant(-1)))
}

func TestFillers(t *testing.T) {
	fillers := []struct {
		name string
		fill func(*Record, []byte, int) error
		get  func(*Record) *buffer.Buffer
	}{
		{"name", (*Record).FillName, func(r *Record) *buffer.Buffer { return &r.Name }},
		{"comment", (*Record).FillComment, func(r *Record) *buffer.Buffer { return &r.Comment }},
		{"sequence", (*Record).FillSequence, func(r *Record) *buffer.Buffer { return &r.Sequence }},
		{"quality", (*Record).FillQuality, func(r *Record) *buffer.Buffer { return &r.Quality }},
	}

	for _, f := range fillers {
		t.Run(f.name, func(t *testing.T) {
			r, err := NewFull()
			require.NoError(t, err)

			require.NoError(t, f.fill(r, []byte("ACGT"), 4))
			b := f.get(r)
			assert.Equal(t, "ACGT", b.String())
			assert.Equal(t, 4, b.Len())
			assert.GreaterOrEqual(t, b.Cap(), 4)

			fresh, err := NewFull()
			require.NoError(t, err)
			var nilRecord *Record
			assert.ErrorIs(t, f.fill(nilRecord, []byte("ACGT"), 4), ErrNilRecord)
			assert.True(t, errors.Is(f.fill(fresh, nil, 4), ErrNilSource))
			assert.True(t, errors.Is(f.fill(fresh, []byte("ACGT"), 0), ErrInvalidLength))
			assert.True(t, errors.Is(f.fill(fresh, []byte("ACGT"), 5), ErrInvalidLength))

			// Failed fills leave the field a valid, empty buffer.
			fb := f.get(fresh)
			assert.True(t, fb.IsValid())
			assert.Equal(t, 0, fb.Len())
		})
	}
}

func TestFillers_AllocateAbsentFields(t *testing.T) {
	r, err := NewNoCommentOrQuality()
	require.NoError(t, err)

	require.NoError(t, r.FillComment([]byte("lane=3"), 6))
	require.NoError(t, r.FillQuality([]byte("IIII"), 4))
	assert.True(t, r.IsOK())
	assert.Equal(t, "lane=3", r.Comment.String())
	assert.Equal(t, 8, r.Comment.Cap())
}

func TestFill(t *testing.T) {
	testCases := []struct {
		name                string
		fname, comment, seq []byte
		qual                []byte
		want                string
		wantShape           Variant
		commentAbsent       bool
		qualityAbsent       bool
	}{
		{
			name: "all fields", fname: []byte("TEST"), comment: []byte("Comment 1"),
			seq: []byte("AGCT"), qual: []byte("IIII"),
			want: "@TEST Comment 1\nAGCT\n+\nIIII\n", wantShape: Full,
		},
		{
			name: "nil comment and quality", fname: []byte("contig"), seq: []byte("GATTACA"),
			want: ">contig\nGATTACA\n", wantShape: NoCommentOrQuality,
			commentAbsent: true, qualityAbsent: true,
		},
		{
			name: "empty comment stays valid", fname: []byte("read1"), comment: []byte{},
			seq: []byte("ACGT"), want: ">read1\nACGT\n", wantShape: NoQuality,
			qualityAbsent: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newFilledRecord(t)

			require.NoError(t, r.Fill(tc.fname, tc.comment, tc.seq, tc.qual))
			assert.Equal(t, tc.want, r.String())
			assert.Equal(t, tc.commentAbsent, r.Comment.IsAbsent())
			assert.Equal(t, tc.qualityAbsent, r.Quality.IsAbsent())

			shape, ok := r.Shape()
			require.True(t, ok)
			assert.Equal(t, tc.wantShape, shape)
		})
	}
}

func TestFill_Errors(t *testing.T) {
	var nilRecord *Record
	assert.ErrorIs(t, nilRecord.Fill([]byte("TEST"), nil, []byte("AGCT"), nil), ErrNilRecord)

	r := newFilledRecord(t)
	before := r.String()
	assert.ErrorIs(t, r.Fill(nil, []byte("c"), []byte("AGCT"), []byte("IIII")), ErrNilSource)
	assert.ErrorIs(t, r.Fill([]byte("TEST"), []byte("c"), nil, []byte("IIII")), ErrNilSource)
	assert.Equal(t, before, r.String())

	t.Run("allocation failure leaves the record unchanged", func(t *testing.T) {
		a := alloc.New(alloc.WithMaxCapacity(128), alloc.WithPolicy(alloc.Quiet{}))
		r, err := NewFactory(WithAllocator(a), WithCapacity(128)).NewFull()
		require.NoError(t, err)
		require.NoError(t, r.Fill([]byte("read1"), []byte("lane=3"), []byte("ACGT"), []byte("IIII")))
		before := r.String()

		long := make([]byte, 200)
		for i := range long {
			long[i] = 'I'
		}
		err = r.Fill([]byte("TEST"), []byte("Comment 1"), []byte("AGCT"), long)
		assert.ErrorIs(t, err, alloc.ErrAllocation)
		assert.Equal(t, before, r.String())
		assert.True(t, r.IsOK())
	})
}

func TestCopy(t *testing.T) {
	src := newFilledRecord(t)

	t.Run("deep copy", func(t *testing.T) {
		dst, err := NewNoCommentOrQuality()
		require.NoError(t, err)
		require.NoError(t, Copy(dst, src))
		assert.True(t, dst.IsOK())

		require.NoError(t, src.FillSequence([]byte("TTTTTTTT"), 8))
		require.NoError(t, src.FillName([]byte("other"), 5))

		assert.Equal(t, "read1", dst.Name.String())
		assert.Equal(t, "lane=3", dst.Comment.String())
		assert.Equal(t, "ACGT", dst.Sequence.String())
		assert.Equal(t, "IIII", dst.Quality.String())
	})

	t.Run("absent fields are copied as absent", func(t *testing.T) {
		fasta, err := NewNoCommentOrQuality()
		require.NoError(t, err)
		require.NoError(t, fasta.FillName([]byte("contig"), 6))
		require.NoError(t, fasta.FillSequence([]byte("GATTACA"), 7))

		dst := newFilledRecord(t)
		require.NoError(t, Copy(dst, fasta))
		assert.True(t, dst.Comment.IsAbsent())
		assert.True(t, dst.Quality.IsAbsent())
		assert.Equal(t, "GATTACA", dst.Sequence.String())
		assert.True(t, dst.Matches(NoCommentOrQuality))
	})

	t.Run("self copy is rejected", func(t *testing.T) {
		assert.ErrorIs(t, Copy(src, src), ErrSelfCopy)
	})

	t.Run("nil arguments", func(t *testing.T) {
		assert.ErrorIs(t, Copy(nil, src), ErrNilRecord)
		assert.ErrorIs(t, Copy(src, nil), ErrNilRecord)
	})

	t.Run("allocation failure leaves dst unchanged", func(t *testing.T) {
		a := alloc.New(alloc.WithMaxCapacity(128), alloc.WithPolicy(alloc.Quiet{}))
		dst, err := NewFactory(WithAllocator(a), WithCapacity(128)).NewFull()
		require.NoError(t, err)
		require.NoError(t, dst.Fill([]byte("keep"), []byte("me"), []byte("AC"), []byte("II")))
		before := dst.String()

		big := newFilledRecord(t)
		long := make([]byte, 200)
		for i := range long {
			long[i] = 'I'
		}
		require.NoError(t, big.FillQuality(long, len(long)))

		err = Copy(dst, big)
		assert.ErrorIs(t, err, alloc.ErrAllocation)
		assert.Equal(t, before, dst.String())
	})

	t.Run("clone keeps the source allocator", func(t *testing.T) {
		a := alloc.New(alloc.WithMaxCapacity(256))
		r, err := NewFactory(WithAllocator(a)).NewFull()
		require.NoError(t, err)
		require.NoError(t, r.Fill([]byte("a"), []byte("b"), []byte("C"), []byte("I")))

		c, err := r.Clone()
		require.NoError(t, err)
		assert.Same(t, a, c.Name.Allocator())
		assert.Same(t, a, c.Quality.Allocator())
	})

	t.Run("clone", func(t *testing.T) {
		c, err := src.Clone()
		require.NoError(t, err)
		assert.NotSame(t, src, c)
		assert.Equal(t, src.String(), c.String())

		var nilRecord *Record
		_, err = nilRecord.Clone()
		assert.ErrorIs(t, err, ErrNilRecord)
	})
}

func TestDestroy(t *testing.T) {
	r := newFilledRecord(t)
	alias := r

	Destroy(&r)
	assert.Nil(t, r)
	assert.False(t, alias.IsOK())
	assert.False(t, alias.IsOKNoCommentOrQuality())
	assert.True(t, alias.Name.IsAbsent())

	// Twice, and on nil references.
	Destroy(&r)
	Destroy(nil)
	alias.Release()
	var nilRecord *Record
	nilRecord.Release()
}

func TestVariantString(t *testing.T) {
	assert.Equal(t, "full", Full.String())
	assert.Equal(t, "no-quality", NoQuality.String())
	assert.Equal(t, "no-comment-or-quality", NoCommentOrQuality.String())
	assert.Equal(t, "unknown", Variant(9).String())
}

func newFilledRecord(t *testing.T) *Record {
	t.Helper()
	r, err := NewFull()
	require.NoError(t, err)
	require.NoError(t, r.FillHeader([]byte("@read1 lane=3\n"), 0))
	require.NoError(t, r.FillSequence([]byte("ACGT"), 4))
	require.NoError(t, r.FillQuality([]byte("IIII"), 4))
	return r
}
