package cmd

import (
	"github.com/kdmurray91/libqes/pkg/seqrec"
	"github.com/kdmurray91/libqes/pkg/storage"
	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored records",
	Long: `List stored records in id order, one per line: id, name and sequence length.

Example:
  qes list`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *storage.Store) error {
			return s.List(func(id ksuid.KSUID, r *seqrec.Record) error {
				defer r.Release()
				cmd.Printf("%s\t%s\t%d\n", id, r.Name.String(), r.Sequence.Len())
				return nil
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
