package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"stegnox/pkg/models"
)

var (
	// Color printers
	infoColor    = color.New(color.FgBlue).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
	warningColor = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
	alertColor   = color.New(color.FgRed, color.Bold).SprintFunc()
)

// out receives every status line; tests swap it for a buffer
var out io.Writer = color.Output

func printInfo(format string, args ...interface{}) {
	fmt.Fprintf(out, "%s %s\n", infoColor("[*]"), fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...interface{}) {
	fmt.Fprintf(out, "%s %s\n", successColor("[+]"), fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...interface{}) {
	fmt.Fprintf(out, "%s %s\n", warningColor("[!]"), fmt.Sprintf(format, args...))
}

func printError(format string, args ...interface{}) {
	fmt.Fprintf(out, "%s %s\n", errorColor("[-]"), fmt.Sprintf(format, args...))
}

func printAlert(format string, args ...interface{}) {
	fmt.Fprintf(out, "%s %s\n", alertColor("[!!!]"), fmt.Sprintf(format, args...))
}

func displayReport(report *models.AnalysisReport, verbose bool) {
	fmt.Fprintln(out, "\n--- Analysis Results ---")

	fmt.Fprintf(out, "File: %s\n", report.Filename)
	if report.Error != "" {
		printError("Could not analyze file: %s", report.Error)
		fmt.Fprintln(out, "-------------------------")
		return
	}
	fmt.Fprintf(out, "Format: %s (%dx%d)\n", report.FileType, report.Width, report.Height)
	if verbose && report.SHA256 != "" {
		fmt.Fprintf(out, "SHA-256: %s\n", report.SHA256)
	}

	for _, name := range report.MethodNames() {
		displayResult(report.Results[name], verbose)
	}

	if suspicious := report.SuspiciousMethods(); len(suspicious) > 0 {
		method, score := report.MaxConfidence()
		printAlert("Steganography suspected by %s (highest: %s %.2f%%)", strings.Join(suspicious, ", "), method, score)
	} else {
		printSuccess("No detector flagged this image")
	}

	printInfo("Analysis completed in %v", report.AnalysisDuration)
	fmt.Fprintln(out, "-------------------------")
}

func displayResult(res *models.AnalysisResult, verbose bool) {
	switch {
	case !res.Success:
		printError("%s: %s", res.Method, res.Error)
	case res.IsDetector():
		line := fmt.Sprintf("%s: %.2f%% (%s)", res.Method, res.Confidence, res.Assessment)
		if res.Assessment == models.AssessmentSuspicious {
			printWarning("%s", line)
		} else {
			printInfo("%s", line)
		}
	case res.Status == models.StatusDecoded:
		printSuccess("%s: %q", res.Method, res.Message)
	default:
		printInfo("%s: %s", res.Method, res.Message)
	}

	if verbose && len(res.Metadata) > 0 {
		keys := make([]string, 0, len(res.Metadata))
		for k := range res.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "   %s: %v\n", k, res.Metadata[k])
		}
	}
}

func printSummary(reports []*models.AnalysisReport) {
	var clean, suspicious, failed int

	for _, report := range reports {
		switch {
		case report.Error != "":
			failed++
		case len(report.SuspiciousMethods()) > 0:
			suspicious++
		default:
			clean++
		}
	}

	fmt.Fprintln(out, "\n=== Analysis Summary ===")
	fmt.Fprintf(out, "Total files analyzed: %d\n", len(reports))
	fmt.Fprintf(out, "%s Clean files: %d\n", successColor("[+]"), clean)

	if failed > 0 {
		fmt.Fprintf(out, "%s Unreadable files: %d\n", errorColor("[-]"), failed)
	}

	if suspicious > 0 {
		fmt.Fprintf(out, "%s Suspicious files: %d\n", alertColor("[!!!]"), suspicious)

		fmt.Fprintln(out, "\nFiles with detector hits:")
		for _, report := range reports {
			if methods := report.SuspiciousMethods(); len(methods) > 0 {
				_, score := report.MaxConfidence()
				fmt.Fprintf(out, "- %s (Score: %.2f, %s)\n", report.Filename, score, strings.Join(methods, ", "))
			}
		}
	}
}
