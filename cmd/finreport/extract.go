package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ukaji3/finreport-go/internal/logging"
	"github.com/ukaji3/finreport-go/pkg/finreport"
	"github.com/ukaji3/finreport-go/pkg/finreport/models"
	"github.com/ukaji3/finreport-go/pkg/finreport/output"
)

type extractFlags struct {
	sheet       string
	mappings    []string
	format      string
	outputPath  string
	pretty      bool
	firstColumn int
	headerRow   int
	workers     int
	logLevel    string
}

func newExtractCmd() *cobra.Command {
	var fl extractFlags

	cmd := &cobra.Command{
		Use:   "extract [input.xlsx]",
		Short: "Extract records from a workbook once, without caching",
		Example: `  finreport extract report.xlsx --sheet Summary --map revenue=12 --map ebitda=18
  finreport extract report.xlsx --sheet Summary --map revenue=12 --format xlsx -o out.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args[0], fl)
		},
	}

	cmd.Flags().StringVar(&fl.sheet, "sheet", "", "Worksheet name (required)")
	cmd.Flags().StringArrayVarP(&fl.mappings, "map", "m", nil, "Field mapping as name=row (repeatable)")
	cmd.Flags().StringVar(&fl.format, "format", "json", "Output format: json or xlsx")
	cmd.Flags().StringVarP(&fl.outputPath, "output", "o", "", "Output file path (default: stdout, json only)")
	cmd.Flags().BoolVar(&fl.pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().IntVar(&fl.firstColumn, "first-column", finreport.DefaultFirstColumn, "First company column (1-based)")
	cmd.Flags().IntVar(&fl.headerRow, "header-row", finreport.DefaultHeaderRow, "Row holding company names (1-based)")
	cmd.Flags().IntVar(&fl.workers, "workers", 0, "Maximum concurrent column reads (0: one per column)")
	cmd.Flags().StringVar(&fl.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	_ = cmd.MarkFlagRequired("sheet")

	return cmd
}

func runExtract(cmd *cobra.Command, inputPath string, fl extractFlags) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	mappings, err := parseMappings(fl.mappings)
	if err != nil {
		return err
	}
	req := &models.Request{WorksheetName: fl.sheet, FieldMappings: mappings}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	format := strings.ToLower(fl.format)
	if format != "json" && format != "xlsx" {
		return fmt.Errorf("invalid format: %s (must be json or xlsx)", fl.format)
	}
	if format == "xlsx" && fl.outputPath == "" {
		return fmt.Errorf("--output is required for xlsx format")
	}

	opts := finreport.Options{
		FirstColumn: fl.firstColumn,
		HeaderRow:   fl.headerRow,
		MaxWorkers:  fl.workers,
		Logger:      logging.New(cmd.ErrOrStderr(), fl.logLevel, "text"),
	}

	rs, err := finreport.ExtractFile(cmd.Context(), inputPath, req.WorksheetName, req.FieldMappings, opts)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	var data []byte
	if format == "xlsx" {
		data, err = output.ToXLSX(rs)
	} else {
		data, err = output.ToJSON(rs, fl.pretty)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if fl.outputPath != "" {
		if err := os.WriteFile(fl.outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// parseMappings parses name=row flag values in order.
func parseMappings(values []string) ([]models.FieldMapping, error) {
	mappings := make([]models.FieldMapping, 0, len(values))
	for _, v := range values {
		name, row, ok := strings.Cut(v, "=")
		if !ok {
			return nil, fmt.Errorf("invalid mapping %q (want name=row)", v)
		}
		n, err := strconv.Atoi(strings.TrimSpace(row))
		if err != nil {
			return nil, fmt.Errorf("invalid row in mapping %q: %w", v, err)
		}
		mappings = append(mappings, models.FieldMapping{FieldName: strings.TrimSpace(name), RowNumber: n})
	}
	return mappings, nil
}
