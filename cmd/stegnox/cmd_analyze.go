package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"stegnox/pkg/engine"
	"stegnox/pkg/filehandler"
	"stegnox/pkg/models"
	"stegnox/pkg/report"
)

var analyzeFlags struct {
	methods []string
	output  string
	verbose bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file|dir>...",
	Short: "Run extraction and steganalysis methods on images",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringSliceVarP(&analyzeFlags.methods, "methods", "m", nil, "Methods to run, comma separated (default all)")
	f.StringVarP(&analyzeFlags.output, "output", "o", "", "Write the reports to this file (.json, .yaml or .csv)")
	f.BoolVarP(&analyzeFlags.verbose, "verbose", "v", false, "Show method metadata and file hashes")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	methods, err := engine.ParseMethods(analyzeFlags.methods)
	if err != nil {
		return err
	}
	if analyzeFlags.output != "" {
		if _, err := report.ParseFormat(filepath.Ext(analyzeFlags.output)); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	var reports []*models.AnalysisReport
	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("cannot access %s: %w", path, err)
		}

		if info.IsDir() {
			printInfo("Analyzing directory: %s", path)
			dirReports, err := eng.AnalyzeDirectory(ctx, path, methods...)
			if err != nil {
				return fmt.Errorf("analyze directory: %w", err)
			}
			if len(dirReports) == 0 {
				printWarning("No supported images found in %s", path)
			}
			for _, r := range dirReports {
				displayReport(r, analyzeFlags.verbose)
			}
			reports = append(reports, dirReports...)
			continue
		}

		printInfo("Analyzing file: %s", path)
		if !filehandler.IsImageFile(path) {
			printWarning("%s has no image extension, detecting the format from its content", path)
		}
		r := eng.AnalyzeFile(ctx, path, methods...)
		r.Filename = path
		displayReport(r, analyzeFlags.verbose)
		reports = append(reports, r)
	}

	if len(reports) > 1 {
		printSummary(reports)
	}

	if analyzeFlags.output != "" {
		if err := report.WriteFile(analyzeFlags.output, reports...); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		printSuccess("Report written to %s", analyzeFlags.output)
	}
	return nil
}
