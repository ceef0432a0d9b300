// Package codec provides binary serialization for sequence records.
//
// The codec turns a seqrec.Record into a self-describing frame with integrity
// checking. It is the on-disk format used by the storage package.
//
// # Frame Format
//
// Frames are serialized with the following structure:
//
//	[CRC32(4)][Flags(1)][NameSize(4)][CommentSize(4)][SeqSize(4)][QualSize(4)][Timestamp(8)][Name][Comment][Seq][Qual]
//
// Fields:
//   - CRC32: 32-bit CRC checksum for integrity validation (little-endian)
//   - Flags: bit 0 set when the comment field is present, bit 1 when quality is present
//   - NameSize, CommentSize, SeqSize, QualSize: 32-bit unsigned field lengths (little-endian)
//   - Timestamp: 64-bit Unix timestamp in nanoseconds (little-endian)
//   - Name, Comment, Seq, Qual: field bytes, back to back
//
// The total frame size is: 29 bytes (header) + the four field lengths.
//
// An absent optional field is encoded with its flag cleared and a size of
// zero. A present but empty field keeps its flag set, so decoding restores
// the exact record shape.
//
// # CRC32 Calculation
//
// The CRC32 (IEEE) covers every byte after the CRC field: flags, sizes,
// timestamp and field data.
//
// # Usage
//
//	c := codec.NewRecordCodec()
//
//	encoded, err := c.Encode(record)
//	if err != nil {
//	    return err
//	}
//
//	frame, err := c.Decode(encoded)
//	if err != nil {
//	    return err
//	}
//	if err := frame.Validate(); err != nil {
//	    return err // frame is corrupted
//	}
//
//	restored, err := frame.Record(seqrec.DefaultFactory())
//
// # Thread Safety
//
// RecordCodec instances are safe for concurrent use. Decoded frames alias
// the input slice; Frame.Record copies the data into owned buffers.
package codec
