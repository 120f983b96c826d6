// Package report writes analysis reports as JSON, YAML or CSV.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"stegnox/pkg/models"
)

// Format is an export encoding
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	CSV  Format = "csv"
)

// ParseFormat accepts json, yaml/yml and csv, case-insensitively
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "csv":
		return CSV, nil
	}
	return "", fmt.Errorf("unsupported report format %q", s)
}

// CSVHeader lists the columns written by WriteCSV, one row per method result
var CSVHeader = []string{
	"filename", "sha256", "format", "width", "height",
	"method", "success", "status", "confidence", "assessment", "message", "error",
}

// Write encodes reports in the given format. A single report is written as an
// object, several as a list.
func Write(w io.Writer, format Format, reports ...*models.AnalysisReport) error {
	switch format {
	case JSON:
		return WriteJSON(w, reports...)
	case YAML:
		return WriteYAML(w, reports...)
	case CSV:
		return WriteCSV(w, reports...)
	}
	return fmt.Errorf("unsupported report format %q", format)
}

func payload(reports []*models.AnalysisReport) interface{} {
	if len(reports) == 1 {
		return reports[0]
	}
	return reports
}

// WriteJSON writes indented JSON
func WriteJSON(w io.Writer, reports ...*models.AnalysisReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload(reports)); err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}
	return nil
}

// WriteYAML writes a YAML document
func WriteYAML(w io.Writer, reports ...*models.AnalysisReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(payload(reports)); err != nil {
		return fmt.Errorf("encode yaml report: %w", err)
	}
	return enc.Close()
}

// WriteCSV writes one row per method result, methods in sorted order
func WriteCSV(w io.Writer, reports ...*models.AnalysisReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range reports {
		for _, name := range r.MethodNames() {
			res := r.Results[name]
			row := []string{
				r.Filename,
				r.SHA256,
				r.FileType,
				strconv.Itoa(r.Width),
				strconv.Itoa(r.Height),
				res.Method,
				strconv.FormatBool(res.Success),
				string(res.Status),
				"",
				string(res.Assessment),
				res.Message,
				res.Error,
			}
			if res.IsDetector() {
				row[8] = strconv.FormatFloat(res.Confidence, 'f', 2, 64)
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes reports to path in the format implied by its extension
func WriteFile(path string, reports ...*models.AnalysisReport) error {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := Write(f, format, reports...); err != nil {
		return err
	}
	return f.Close()
}
