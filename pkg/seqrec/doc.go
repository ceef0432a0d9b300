// Package seqrec provides the in-memory sequence record used for FASTA and
// FASTQ entries.
//
// A Record owns four buffers: name, comment, sequence and quality. Comment
// and quality are optional. An optional field that was never allocated is
// absent, which is different from an allocated field holding zero bytes.
//
// # Variants
//
// Records are constructed in one of three shapes:
//
//	Variant              name   comment  sequence  quality
//	Full                 valid  valid    valid     valid
//	NoQuality            valid  valid    valid     absent
//	NoCommentOrQuality   valid  absent   valid     absent
//
// The validity predicates (IsOK, IsOKNoComment, IsOKNoQuality,
// IsOKNoCommentOrQuality) check only the fields they care about, so code
// producing FASTA records can assert IsOKNoQuality whether or not a comment
// is present.
//
// # Usage
//
//	r, err := seqrec.NewFull()
//	if err != nil {
//	    return err
//	}
//	defer seqrec.Destroy(&r)
//
//	if err := r.FillHeader([]byte("@read1 lane=3\r\n"), 0); err != nil {
//	    return err
//	}
//	_ = r.FillSequence(seq, len(seq))
//	_ = r.FillQuality(qual, len(qual))
//
// # Allocation failures
//
// Storage comes from the Factory's alloc.Allocator. Its Policy decides
// whether an unsatisfiable request terminates the process (the default) or
// surfaces as alloc.ErrAllocation.
//
// # Thread Safety
//
// Records are not safe for concurrent mutation. A Factory is immutable and
// may be shared.
package seqrec
