package seqrec

import (
	"io"
)

// AppendFASTA appends r as a two-line FASTA entry.
func (r *Record) AppendFASTA(dst []byte) []byte {
	dst = r.appendHeader(dst, '>')
	dst = append(dst, r.Sequence.Bytes()...)
	return append(dst, '\n')
}

// AppendFASTQ appends r as a four-line FASTQ entry.
func (r *Record) AppendFASTQ(dst []byte) []byte {
	dst = r.appendHeader(dst, '@')
	dst = append(dst, r.Sequence.Bytes()...)
	dst = append(dst, "\n+\n"...)
	dst = append(dst, r.Quality.Bytes()...)
	return append(dst, '\n')
}

// Append writes FASTQ when r has quality scores and FASTA otherwise.
func (r *Record) Append(dst []byte) []byte {
	if r.Quality.Len() > 0 {
		return r.AppendFASTQ(dst)
	}
	return r.AppendFASTA(dst)
}

// WriteTo writes r to w in the format chosen by Append.
func (r *Record) WriteTo(w io.Writer) (int64, error) {
	if r == nil {
		return 0, ErrNilRecord
	}
	n, err := w.Write(r.Append(nil))
	return int64(n), err
}

func (r *Record) String() string {
	if r == nil {
		return "<nil>"
	}
	return string(r.Append(nil))
}

func (r *Record) appendHeader(dst []byte, marker byte) []byte {
	dst = append(dst, marker)
	dst = append(dst, r.Name.Bytes()...)
	if r.Comment.Len() > 0 {
		dst = append(dst, ' ')
		dst = append(dst, r.Comment.Bytes()...)
	}
	return append(dst, '\n')
}
