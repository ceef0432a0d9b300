package cmd

import (
	"github.com/cockroachdb/errors"
	"github.com/kdmurray91/libqes/pkg/seqrec"
	"github.com/kdmurray91/libqes/pkg/storage"
	"github.com/spf13/cobra"
)

// putCmd represents the put command
var putCmd = &cobra.Command{
	Use:   "put <header> <sequence> [quality]",
	Short: "Store a sequence record",
	Long: `Store a sequence record and print its id.

Without a quality string the record is stored as FASTA.

Example:
  qes put "@read1 lane=3" ACGT IIII
  qes put ">chr1" GATTACA`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := buildRecord(container.GetFactory(), args)
		if err != nil {
			return err
		}
		defer r.Release()

		return withStore(cmd, func(s *storage.Store) error {
			id, err := s.Create(r)
			if err != nil {
				return err
			}
			cmd.Printf("%s\n", id)
			return nil
		})
	},
}

func buildRecord(f *seqrec.Factory, args []string) (*seqrec.Record, error) {
	if args[1] == "" {
		return nil, errors.New("sequence must not be empty")
	}
	v := seqrec.NoQuality
	var qual []byte
	if len(args) == 3 {
		v = seqrec.Full
		qual = []byte(args[2])
	}

	r, err := f.New(v)
	if err != nil {
		return nil, err
	}
	name, comment := seqrec.SplitHeader([]byte(args[0]))
	if err := r.Fill(name, comment, []byte(args[1]), qual); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

func init() {
	rootCmd.AddCommand(putCmd)
}
