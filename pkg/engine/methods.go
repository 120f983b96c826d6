package engine

import (
	"fmt"
	"strings"
)

// Method identifies one extraction or detection method
type Method string

const (
	LSBExtraction      Method = "lsb_extraction"
	ParityExtraction   Method = "parity_bit_extraction"
	MetadataExtraction Method = "metadata_extraction"
	DCTAnalysis        Method = "dct_analysis"
	BitPlaneAnalysis   Method = "bit_plane_analysis"
	HistogramAnalysis  Method = "histogram_analysis"
)

var allMethods = []Method{
	LSBExtraction,
	ParityExtraction,
	MetadataExtraction,
	DCTAnalysis,
	BitPlaneAnalysis,
	HistogramAnalysis,
}

// AllMethods returns every analysis method in report order
func AllMethods() []Method {
	out := make([]Method, len(allMethods))
	copy(out, allMethods)
	return out
}

// IsDetector reports whether m produces a confidence score
func (m Method) IsDetector() bool {
	switch m {
	case DCTAnalysis, BitPlaneAnalysis, HistogramAnalysis:
		return true
	}
	return false
}

// EmbedMethod identifies one embedding carrier
type EmbedMethod string

const (
	EmbedLSB      EmbedMethod = "lsb"
	EmbedParity   EmbedMethod = "parity"
	EmbedMetadata EmbedMethod = "metadata"
)

var allEmbedMethods = []EmbedMethod{EmbedLSB, EmbedParity, EmbedMetadata}

// AllEmbedMethods returns every embedding carrier
func AllEmbedMethods() []EmbedMethod {
	out := make([]EmbedMethod, len(allEmbedMethods))
	copy(out, allEmbedMethods)
	return out
}

// UnknownMethodError is returned for identifiers outside the closed method sets
type UnknownMethodError struct {
	Name string
	Kind string // "analysis" or "embedding"
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("unknown %s method %q", e.Kind, e.Name)
}

// ParseMethod maps a method identifier to a Method
func ParseMethod(name string) (Method, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, m := range allMethods {
		if string(m) == name {
			return m, nil
		}
	}
	return "", &UnknownMethodError{Name: name, Kind: "analysis"}
}

// ParseMethods parses a list of identifiers. An empty list or the single
// identifier "all" selects every method. Duplicates are dropped.
func ParseMethods(names []string) ([]Method, error) {
	if len(names) == 0 || (len(names) == 1 && strings.EqualFold(strings.TrimSpace(names[0]), "all")) {
		return AllMethods(), nil
	}

	seen := make(map[Method]bool, len(names))
	methods := make([]Method, 0, len(names))
	for _, name := range names {
		m, err := ParseMethod(name)
		if err != nil {
			return nil, err
		}
		if !seen[m] {
			seen[m] = true
			methods = append(methods, m)
		}
	}
	return methods, nil
}

// ParseEmbedMethod maps an embedding identifier to an EmbedMethod
func ParseEmbedMethod(name string) (EmbedMethod, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, m := range allEmbedMethods {
		if string(m) == name {
			return m, nil
		}
	}
	return "", &UnknownMethodError{Name: name, Kind: "embedding"}
}
