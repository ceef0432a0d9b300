package codec

import (
	"encoding/binary"
	"hash/crc32"
	"math"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/kdmurray91/libqes/pkg/seqrec"
)

// HeaderSize is the fixed size of a frame header in bytes.
const HeaderSize = 29

// Flag bits.
const (
	FlagComment uint8 = 1 << iota
	FlagQuality
)

var (
	ErrShortFrame    = errors.New("data too short for frame")
	ErrChecksum      = errors.New("CRC32 mismatch")
	ErrInvalidRecord = errors.New("record is missing a name or sequence")
	ErrFieldTooLarge = errors.New("field too large")
)

// Frame is a decoded record frame. Its field slices alias the decoded data.
type Frame struct {
	CRC32        uint32
	Flags        uint8
	NameSize     uint32
	CommentSize  uint32
	SequenceSize uint32
	QualitySize  uint32
	Timestamp    uint64
	Name         []byte
	Comment      []byte
	Sequence     []byte
	Quality      []byte
}

// RecordCodec encodes and decodes frames.
type RecordCodec struct {
	now func() time.Time
}

// NewRecordCodec creates a new codec stamping frames with the current time.
func NewRecordCodec() *RecordCodec {
	return &RecordCodec{now: time.Now}
}

// NewFrame builds an unencoded frame from r. The fields alias r's buffers.
func (c *RecordCodec) NewFrame(r *seqrec.Record) (*Frame, error) {
	if !r.IsOKNoCommentOrQuality() {
		return nil, ErrInvalidRecord
	}

	f := &Frame{
		Timestamp: uint64(c.now().UnixNano()),
		Name:      r.Name.Bytes(),
		Sequence:  r.Sequence.Bytes(),
	}
	if !r.Comment.IsAbsent() {
		f.Flags |= FlagComment
		f.Comment = r.Comment.Bytes()
	}
	if !r.Quality.IsAbsent() {
		f.Flags |= FlagQuality
		f.Quality = r.Quality.Bytes()
	}

	for _, field := range []struct {
		name string
		data []byte
		size *uint32
	}{
		{"name", f.Name, &f.NameSize},
		{"comment", f.Comment, &f.CommentSize},
		{"sequence", f.Sequence, &f.SequenceSize},
		{"quality", f.Quality, &f.QualitySize},
	} {
		if uint64(len(field.data)) > math.MaxUint32 {
			return nil, errors.Wrapf(ErrFieldTooLarge, "%s: %d bytes", field.name, len(field.data))
		}
		*field.size = uint32(len(field.data))
	}
	return f, nil
}

// Encode serializes r into a frame.
func (c *RecordCodec) Encode(r *seqrec.Record) ([]byte, error) {
	f, err := c.NewFrame(r)
	if err != nil {
		return nil, err
	}
	f.CRC32 = f.calculateCRC32()

	buf := make([]byte, f.Size())
	binary.LittleEndian.PutUint32(buf[0:], f.CRC32)
	f.putHeader(buf[4:HeaderSize])

	off := HeaderSize
	off += copy(buf[off:], f.Name)
	off += copy(buf[off:], f.Comment)
	off += copy(buf[off:], f.Sequence)
	copy(buf[off:], f.Quality)

	return buf, nil
}

// Decode parses a frame. The returned frame aliases data.
func (c *RecordCodec) Decode(data []byte) (*Frame, error) {
	if len(data) < HeaderSize {
		return nil, errors.Wrapf(ErrShortFrame, "%d < %d header bytes", len(data), HeaderSize)
	}

	f := &Frame{
		CRC32:        binary.LittleEndian.Uint32(data[0:4]),
		Flags:        data[4],
		NameSize:     binary.LittleEndian.Uint32(data[5:9]),
		CommentSize:  binary.LittleEndian.Uint32(data[9:13]),
		SequenceSize: binary.LittleEndian.Uint32(data[13:17]),
		QualitySize:  binary.LittleEndian.Uint32(data[17:21]),
		Timestamp:    binary.LittleEndian.Uint64(data[21:29]),
	}

	total := uint64(HeaderSize) + uint64(f.NameSize) + uint64(f.CommentSize) +
		uint64(f.SequenceSize) + uint64(f.QualitySize)
	if uint64(len(data)) < total {
		return nil, errors.Wrapf(ErrShortFrame, "%d < %d bytes for declared field sizes", len(data), total)
	}

	off := uint64(HeaderSize)
	next := func(n uint32) []byte {
		b := data[off : off+uint64(n)]
		off += uint64(n)
		return b
	}
	f.Name = next(f.NameSize)
	f.Comment = next(f.CommentSize)
	f.Sequence = next(f.SequenceSize)
	f.Quality = next(f.QualitySize)

	return f, nil
}

// Validate checks the integrity of a frame using CRC32.
func (f *Frame) Validate() error {
	if sum := f.calculateCRC32(); f.CRC32 != sum {
		return errors.Wrapf(ErrChecksum, "%d != %d", f.CRC32, sum)
	}
	return nil
}

// Size returns the total size of the frame when encoded.
func (f *Frame) Size() int {
	return HeaderSize + len(f.Name) + len(f.Comment) + len(f.Sequence) + len(f.Quality)
}

// HasComment reports whether the encoded record had a comment field.
func (f *Frame) HasComment() bool { return f.Flags&FlagComment != 0 }

// HasQuality reports whether the encoded record had a quality field.
func (f *Frame) HasQuality() bool { return f.Flags&FlagQuality != 0 }

// Record copies the frame into a new Record built by fac. Optional fields
// that were absent when encoded stay absent.
func (f *Frame) Record(fac *seqrec.Factory) (*seqrec.Record, error) {
	if fac == nil {
		fac = seqrec.DefaultFactory()
	}

	v := seqrec.NoCommentOrQuality
	switch {
	case f.HasComment() && f.HasQuality():
		v = seqrec.Full
	case f.HasComment():
		v = seqrec.NoQuality
	}

	r, err := fac.New(v)
	if err != nil {
		return nil, err
	}

	fill := []struct {
		name    string
		present bool
		fill    func([]byte, int) error
		data    []byte
	}{
		{"name", true, r.Name.Fill, f.Name},
		{"comment", f.HasComment(), r.Comment.Fill, f.Comment},
		{"sequence", true, r.Sequence.Fill, f.Sequence},
		{"quality", f.HasQuality(), r.Quality.Fill, f.Quality},
	}
	for _, field := range fill {
		if !field.present {
			continue
		}
		// Buffer.Fill reads a zero length as "up to the terminator", which
		// for an empty slice is zero bytes.
		if err := field.fill(field.data, len(field.data)); err != nil {
			r.Release()
			return nil, errors.Wrapf(err, "restore %s", field.name)
		}
	}
	return r, nil
}

func (f *Frame) putHeader(buf []byte) {
	buf[0] = f.Flags
	binary.LittleEndian.PutUint32(buf[1:], uint32(len(f.Name)))
	binary.LittleEndian.PutUint32(buf[5:], uint32(len(f.Comment)))
	binary.LittleEndian.PutUint32(buf[9:], uint32(len(f.Sequence)))
	binary.LittleEndian.PutUint32(buf[13:], uint32(len(f.Quality)))
	binary.LittleEndian.PutUint64(buf[17:], f.Timestamp)
}

// calculateCRC32 computes the checksum over everything after the CRC field.
func (f *Frame) calculateCRC32() uint32 {
	var header [HeaderSize - 4]byte
	f.putHeader(header[:])

	crc := crc32.NewIEEE()
	_, _ = crc.Write(header[:])
	_, _ = crc.Write(f.Name)
	_, _ = crc.Write(f.Comment)
	_, _ = crc.Write(f.Sequence)
	_, _ = crc.Write(f.Quality)
	return crc.Sum32()
}
