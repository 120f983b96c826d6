package histogram

import (
	"errors"
	"fmt"
	"math"

	"stegnox/pkg/analyzer"
	"stegnox/pkg/config"
	"stegnox/pkg/raster"
)

// pairsPerChannel is the number of (2k, 2k+1) bins in a 256-bin histogram
const pairsPerChannel = 128

// ChannelStats summarises the pair test on one channel
type ChannelStats struct {
	TotalPairs      int     `json:"total_pairs" yaml:"total_pairs"`
	SuspiciousPairs int     `json:"suspicious_pairs" yaml:"suspicious_pairs"`
	SuspicionRatio  float64 `json:"suspicion_ratio" yaml:"suspicion_ratio"`
	// ChiSquare compares the even and odd value totals against an even split.
	// Values near zero mean the LSBs are balanced. Reported only.
	ChiSquare float64 `json:"chi_square" yaml:"chi_square"`
}

// Statistics holds the per channel results
type Statistics struct {
	Red   ChannelStats `json:"red_channel" yaml:"red_channel"`
	Green ChannelStats `json:"green_channel" yaml:"green_channel"`
	Blue  ChannelStats `json:"blue_channel" yaml:"blue_channel"`
}

// HistogramAnalyzer looks for the equalised (2k, 2k+1) bin pairs that LSB
// replacement leaves in the intensity histograms
type HistogramAnalyzer struct {
	analyzer.BaseAnalyzer
	tolerance float64
	verdict   float64
}

// NewHistogramAnalyzer creates a histogram analyzer using the given thresholds
func NewHistogramAnalyzer(t config.Thresholds) *HistogramAnalyzer {
	return &HistogramAnalyzer{
		BaseAnalyzer: analyzer.NewBaseAnalyzer(
			"Histogram Pair Analyzer",
			"Counts adjacent even/odd histogram bins whose counts are nearly equal",
			analyzer.AllFormats,
		),
		tolerance: t.HistogramPairTolerance,
		verdict:   t.HistogramSuspiciousPercent,
	}
}

// AnalyzePairs runs the pair test on one histogram. Two empty bins are not a
// suspicious pair.
func (a *HistogramAnalyzer) AnalyzePairs(hist [256]int) ChannelStats {
	stats := ChannelStats{TotalPairs: pairsPerChannel}
	var evenTotal, oddTotal float64
	for k := 0; k < 256; k += 2 {
		even, odd := float64(hist[k]), float64(hist[k+1])
		if math.Abs(even-odd) < a.tolerance*(even+odd) {
			stats.SuspiciousPairs++
		}
		evenTotal += even
		oddTotal += odd
	}
	stats.SuspicionRatio = float64(stats.SuspiciousPairs) / float64(stats.TotalPairs)
	stats.ChiSquare = chiSquare(evenTotal, oddTotal)
	return stats
}

// chiSquare is the two-category statistic for an expected 50/50 split
func chiSquare(even, odd float64) float64 {
	total := even + odd
	if total == 0 {
		return 0
	}
	expected := total / 2
	return math.Pow(even-expected, 2)/expected + math.Pow(odd-expected, 2)/expected
}

// AnalyzeImage implements the ImageAnalyzer interface
func (a *HistogramAnalyzer) AnalyzeImage(img *raster.Image) (*analyzer.Detection, error) {
	if img == nil {
		return nil, errors.New("nil image provided")
	}
	if img.PixelCount() == 0 {
		return nil, fmt.Errorf("%w: empty image", analyzer.ErrNothingProcessed)
	}

	stats := Statistics{
		Red:   a.AnalyzePairs(img.Histogram(raster.Red)),
		Green: a.AnalyzePairs(img.Histogram(raster.Green)),
		Blue:  a.AnalyzePairs(img.Histogram(raster.Blue)),
	}

	avg := (stats.Red.SuspicionRatio + stats.Green.SuspicionRatio + stats.Blue.SuspicionRatio) / 3
	confidence := avg * 100
	return &analyzer.Detection{
		Confidence: confidence,
		Assessment: analyzer.Assess(confidence, a.verdict),
		Statistics: stats,
		Message:    fmt.Sprintf("Histogram analysis complete. Confidence that steganography is present: %.2f%%", confidence),
	}, nil
}
