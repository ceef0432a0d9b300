package cmd

import (
	"github.com/kdmurray91/libqes/pkg/storage"
	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored record",
	Long: `Delete a stored record.

Example:
  qes delete 2TiaGsFzQ7VbQ6zrqq5TjvN0P2D`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := storage.ParseID(args[0])
		if err != nil {
			return err
		}

		return withStore(cmd, func(s *storage.Store) error {
			if err := s.Delete(id); err != nil {
				return err
			}
			cmd.Printf("Successfully deleted record '%s'\n", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
