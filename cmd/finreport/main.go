// Package main provides the CLI entry point for finreport.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "finreport",
		Short: "Extract company records from finance worksheets",
		Long: `finreport reads a finance workbook where each company is a column
(names in row 2, attributes in configurable rows) and returns one record per
company as JSON or as a generated xlsx report.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd(), newExtractCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
