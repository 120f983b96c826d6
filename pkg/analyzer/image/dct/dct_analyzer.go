// Package dct scores images by the parity of the DCT coefficients of their
// luminance blocks.
package dct

import (
	"errors"
	"fmt"
	"math"

	"stegnox/pkg/analyzer"
	"stegnox/pkg/config"
	"stegnox/pkg/raster"
)

// coefficients closer to zero than this are counted as zero
const zeroEpsilon = 1e-9

// ErrInvalidBlockSize is returned when the configured block edge is below one pixel
var ErrInvalidBlockSize = errors.New("dct block size must be at least 1")

// Statistics are the block and coefficient counters of one run
type Statistics struct {
	ZeroCount        int `json:"zero_count" yaml:"zero_count"`
	NonzeroCount     int `json:"nonzero_count" yaml:"nonzero_count"`
	SuspiciousBlocks int `json:"suspicious_blocks" yaml:"suspicious_blocks"`
	TotalBlocks      int `json:"total_blocks" yaml:"total_blocks"`
	SkippedBlocks    int `json:"skipped_blocks" yaml:"skipped_blocks"`
}

// DCTAnalyzer splits the luminance into square blocks, transforms each one and
// flags blocks where most coefficients have an odd magnitude
type DCTAnalyzer struct {
	analyzer.BaseAnalyzer
	blockSize int
	oddRatio  float64
	verdict   float64
	basis     []float64 // blockSize x blockSize, row k holds the k-th cosine
}

// NewDCTAnalyzer creates a DCT analyzer using the given thresholds
func NewDCTAnalyzer(t config.Thresholds) *DCTAnalyzer {
	return &DCTAnalyzer{
		BaseAnalyzer: analyzer.NewBaseAnalyzer(
			"DCT Block Analyzer",
			"Counts odd-valued orthonormal DCT coefficients in non-overlapping luminance blocks",
			analyzer.AllFormats,
		),
		blockSize: t.DCTBlockSize,
		oddRatio:  t.DCTOddRatio,
		verdict:   t.DCTSuspiciousPercent,
		basis:     cosineBasis(t.DCTBlockSize),
	}
}

// cosineBasis precomputes the orthonormal DCT-II matrix
func cosineBasis(n int) []float64 {
	if n < 1 {
		return nil
	}
	basis := make([]float64, n*n)
	for k := 0; k < n; k++ {
		scale := math.Sqrt(2 / float64(n))
		if k == 0 {
			scale = math.Sqrt(1 / float64(n))
		}
		for i := 0; i < n; i++ {
			basis[k*n+i] = scale * math.Cos(math.Pi*float64(2*i+1)*float64(k)/float64(2*n))
		}
	}
	return basis
}

// Transform applies the 2-D orthonormal DCT-II to a row-major block
func (a *DCTAnalyzer) Transform(block []float64) []float64 {
	n := a.blockSize
	tmp := make([]float64, n*n)
	out := make([]float64, n*n)

	// rows
	for y := 0; y < n; y++ {
		for k := 0; k < n; k++ {
			var sum float64
			for x := 0; x < n; x++ {
				sum += a.basis[k*n+x] * block[y*n+x]
			}
			tmp[y*n+k] = sum
		}
	}
	// columns
	for x := 0; x < n; x++ {
		for k := 0; k < n; k++ {
			var sum float64
			for y := 0; y < n; y++ {
				sum += a.basis[k*n+y] * tmp[y*n+x]
			}
			out[k*n+x] = sum
		}
	}
	return out
}

// AnalyzeImage implements the ImageAnalyzer interface
func (a *DCTAnalyzer) AnalyzeImage(img *raster.Image) (*analyzer.Detection, error) {
	if img == nil {
		return nil, errors.New("nil image provided")
	}

	n := a.blockSize
	if n < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidBlockSize, n)
	}
	w, h := img.Width(), img.Height()
	lum := img.Luminance()
	limit := a.oddRatio * float64(n*n)

	var stats Statistics
	block := make([]float64, n*n)
	// partial blocks at the right and bottom edges are ignored
	for by := 0; by+n <= h; by += n {
		for bx := 0; bx+n <= w; bx += n {
			for y := 0; y < n; y++ {
				copy(block[y*n:(y+1)*n], lum[(by+y)*w+bx:(by+y)*w+bx+n])
			}

			coeffs := a.Transform(block)
			zeros, odd, finite := 0, 0, true
			for _, c := range coeffs {
				if math.IsNaN(c) || math.IsInf(c, 0) {
					finite = false
					break
				}
				if math.Abs(c) < zeroEpsilon {
					zeros++
				}
				if math.Mod(math.Abs(c), 2) > 0.5 {
					odd++
				}
			}
			if !finite {
				stats.SkippedBlocks++
				continue
			}

			stats.ZeroCount += zeros
			stats.NonzeroCount += n*n - zeros
			stats.TotalBlocks++
			if float64(odd) > limit {
				stats.SuspiciousBlocks++
			}
		}
	}

	if stats.TotalBlocks == 0 {
		return nil, fmt.Errorf("%w: no complete %dx%d block in a %dx%d image", analyzer.ErrNothingProcessed, n, n, w, h)
	}

	confidence := 100 * float64(stats.SuspiciousBlocks) / float64(stats.TotalBlocks)
	return &analyzer.Detection{
		Confidence: confidence,
		Assessment: analyzer.Assess(confidence, a.verdict),
		Statistics: stats,
		Message:    fmt.Sprintf("DCT analysis complete. Confidence that steganography is present: %.2f%%", confidence),
	}, nil
}
