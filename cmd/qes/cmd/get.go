package cmd

import (
	"github.com/kdmurray91/libqes/pkg/storage"
	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print a stored record",
	Long: `Print a stored record as FASTQ, or as FASTA when it has no quality.

Example:
  qes get 2TiaGsFzQ7VbQ6zrqq5TjvN0P2D`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := storage.ParseID(args[0])
		if err != nil {
			return err
		}

		return withStore(cmd, func(s *storage.Store) error {
			r, err := s.Read(id)
			if err != nil {
				return err
			}
			defer r.Release()

			_, err = r.WriteTo(cmd.OutOrStdout())
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
