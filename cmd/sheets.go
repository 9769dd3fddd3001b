package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/report-consolidator/internal/spreadsheet"
	"github.com/ginjaninja78/report-consolidator/pkg/utils"
)

// sheetsDir is the directory scanned when no workbook is given.
var sheetsDir string

// sheetsCmd lists the sheets of a workbook, or the workbooks of a directory
// when called without arguments.
var sheetsCmd = &cobra.Command{
	Use:   "sheets [workbook]",
	Short: "List the sheets of a workbook, or the workbooks in a directory",
	Long: `With a workbook argument, sheets prints every sheet with the index accepted
by 'convert --sheet'. Without arguments it lists the .xls and .xlsx files of
the directory given by --dir.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			books, err := utils.NewFileManager(sheetsDir).ListWorkbooks()
			if err != nil {
				return err
			}
			if len(books) == 0 {
				fmt.Fprintf(out, "No Excel files found in '%s'.\n", sheetsDir)
				return nil
			}
			fmt.Fprintln(out, "Available Excel files:")
			for i, book := range books {
				fmt.Fprintf(out, "%d. %s\n", i+1, book)
			}
			return nil
		}

		names, err := spreadsheet.ListSheets(args[0])
		if err != nil {
			return fmt.Errorf("failed to list sheets: %w", err)
		}
		fmt.Fprintln(out, "Available sheets:")
		for i, name := range names {
			fmt.Fprintf(out, "%d. %s\n", i, name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sheetsCmd)

	sheetsCmd.Flags().StringVar(&sheetsDir, "dir", ".", "Directory to scan for workbooks")
}
