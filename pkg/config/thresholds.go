package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Thresholds contains the tunable settings of the detectors and the parity reader
type Thresholds struct {
	// DCT block analysis
	DCTBlockSize         int     `yaml:"dct_block_size"`         // side of the square blocks
	DCTOddRatio          float64 `yaml:"dct_odd_ratio"`          // fraction of odd coefficients above which a block is suspicious
	DCTSuspiciousPercent float64 `yaml:"dct_suspicious_percent"` // confidence above which the verdict is Suspicious

	// Bit-plane analysis
	BitPlaneEntropy           float64 `yaml:"bit_plane_entropy"`            // LSB plane entropy above which a plane is suspicious
	BitPlaneSuspiciousPercent float64 `yaml:"bit_plane_suspicious_percent"` // confidence above which the verdict is Suspicious

	// Histogram pair analysis
	HistogramPairTolerance     float64 `yaml:"histogram_pair_tolerance"`     // relative difference under which a pair is suspicious
	HistogramSuspiciousPercent float64 `yaml:"histogram_suspicious_percent"` // confidence above which the verdict is Suspicious

	// Parity extraction
	ParityWindowBits int `yaml:"parity_window_bits"` // number of pixels read by the parity extractor
}

// DefaultThresholds returns the default detection configuration
func DefaultThresholds() Thresholds {
	return Thresholds{
		DCTBlockSize:         8,
		DCTOddRatio:          0.7,
		DCTSuspiciousPercent: 30,

		BitPlaneEntropy:           0.95,
		BitPlaneSuspiciousPercent: 20,

		HistogramPairTolerance:     0.05,
		HistogramSuspiciousPercent: 40,

		ParityWindowBits: 1000,
	}
}

// Validate rejects settings no detector can work with
func (t Thresholds) Validate() error {
	var errs []error
	if t.DCTBlockSize < 2 {
		errs = append(errs, fmt.Errorf("dct_block_size must be at least 2, got %d", t.DCTBlockSize))
	}
	if t.DCTOddRatio < 0 || t.DCTOddRatio > 1 {
		errs = append(errs, fmt.Errorf("dct_odd_ratio must be within [0,1], got %g", t.DCTOddRatio))
	}
	if t.BitPlaneEntropy < 0 || t.BitPlaneEntropy > 1 {
		errs = append(errs, fmt.Errorf("bit_plane_entropy must be within [0,1], got %g", t.BitPlaneEntropy))
	}
	if t.HistogramPairTolerance < 0 || t.HistogramPairTolerance > 1 {
		errs = append(errs, fmt.Errorf("histogram_pair_tolerance must be within [0,1], got %g", t.HistogramPairTolerance))
	}
	for name, v := range map[string]float64{
		"dct_suspicious_percent":       t.DCTSuspiciousPercent,
		"bit_plane_suspicious_percent": t.BitPlaneSuspiciousPercent,
		"histogram_suspicious_percent": t.HistogramSuspiciousPercent,
	} {
		if v < 0 || v > 100 {
			errs = append(errs, fmt.Errorf("%s must be within [0,100], got %g", name, v))
		}
	}
	if t.ParityWindowBits < 8 {
		errs = append(errs, fmt.Errorf("parity_window_bits must be at least 8, got %d", t.ParityWindowBits))
	}
	return errors.Join(errs...)
}

// LoadThresholds reads YAML overrides from path on top of the defaults.
// Keys missing from the file keep their default value.
func LoadThresholds(path string) (Thresholds, error) {
	t := DefaultThresholds()

	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read thresholds: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" && ext != ".yaml" && ext != ".yml" {
		return t, fmt.Errorf("read thresholds: unsupported extension %q", ext)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse thresholds yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("invalid thresholds: %w", err)
	}
	return t, nil
}
