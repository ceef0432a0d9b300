package cmd

import (
	"github.com/spf13/cobra"
)

// headerCmd represents the header command
var headerCmd = &cobra.Command{
	Use:   "header <line>",
	Short: "Split a header line into name and comment",
	Long: `Split a FASTA/FASTQ header line into its name and comment.

A single leading '>' or '@' is dropped, as is a trailing line ending. The
name ends at the first space; everything after it is the comment.

Example:
  qes header "@HWI_TEST COMM"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := container.GetFactory().NewNoCommentOrQuality()
		if err != nil {
			return err
		}
		defer r.Release()

		if err := r.FillHeader([]byte(args[0]), len(args[0])); err != nil {
			return err
		}

		cmd.Printf("name\t%s\n", r.Name.String())
		cmd.Printf("comment\t%s\n", r.Comment.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(headerCmd)
}
