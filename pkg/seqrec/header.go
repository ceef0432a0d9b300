package seqrec

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/kdmurray91/libqes/pkg/buffer"
)

// SplitHeader tokenizes one header line. A single leading '>' or '@' is
// dropped, then one trailing '\n', one trailing '\r' and any spaces or tabs
// left before the line end. The name runs up to the first space and the
// comment is everything after it, interior spacing kept verbatim. With no
// space the comment is empty. The returned slices alias line.
func SplitHeader(line []byte) (name, comment []byte) {
	if len(line) > 0 && (line[0] == '>' || line[0] == '@') {
		line = line[1:]
	}
	line = bytes.TrimSuffix(line, []byte{'\n'})
	line = bytes.TrimSuffix(line, []byte{'\r'})
	line = bytes.TrimRight(line, " \t")

	if i := bytes.IndexByte(line, ' '); i >= 0 {
		return line[:i], line[i+1:]
	}
	return line, line[len(line):]
}

// FillHeader parses a raw header line into the name and comment fields. An n
// of 0 means line is zero-terminated. Malformed or empty headers are not an
// error: they yield an empty name and comment. The comment field always ends
// up allocated, even when it was absent before.
func (r *Record) FillHeader(line []byte, n int) error {
	if r == nil {
		return ErrNilRecord
	}
	if line == nil {
		return errors.Wrap(ErrNilSource, "fill header")
	}
	if n == 0 {
		n = buffer.CStrLen(line)
	}
	if n < 0 || n > len(line) {
		return errors.Wrapf(ErrInvalidLength, "fill header: %d (source has %d bytes)", n, len(line))
	}

	name, comment := SplitHeader(line[:n])

	// Reserve both fields up front so an allocation failure on the comment
	// cannot leave the name already overwritten.
	if err := r.Name.Reserve(len(name) + 1); err != nil {
		return errors.Wrap(err, "fill header name")
	}
	if err := r.Comment.Reserve(len(comment) + 1); err != nil {
		return errors.Wrap(err, "fill header comment")
	}
	if err := r.Name.Fill(name, len(name)); err != nil {
		return errors.Wrap(err, "fill header name")
	}
	if err := r.Comment.Fill(comment, len(comment)); err != nil {
		return errors.Wrap(err, "fill header comment")
	}
	return nil
}
