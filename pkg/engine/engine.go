// Package engine wires embedders, extractors and detectors behind one
// stateless entry point and runs analysis methods in parallel.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"stegnox/pkg/analyzer"
	"stegnox/pkg/analyzer/image/bitplane"
	"stegnox/pkg/analyzer/image/dct"
	"stegnox/pkg/analyzer/image/histogram"
	"stegnox/pkg/bitstream"
	"stegnox/pkg/config"
	"stegnox/pkg/embedder"
	lsbembed "stegnox/pkg/embedder/image/lsb"
	metaembed "stegnox/pkg/embedder/image/metadata"
	parityembed "stegnox/pkg/embedder/image/parity"
	"stegnox/pkg/extractor"
	lsbextract "stegnox/pkg/extractor/image/lsb"
	metaextract "stegnox/pkg/extractor/image/metadata"
	parityextract "stegnox/pkg/extractor/image/parity"
	"stegnox/pkg/filehandler"
	"stegnox/pkg/logging"
	"stegnox/pkg/models"
	"stegnox/pkg/raster"
)

// Messages reported by extraction methods that ran but recovered no text
const (
	MsgNoValidData  = "No valid data found"
	MsgUndecodable  = "Binary data found but not decodable as text"
	MsgNoComment    = "No comment found in image metadata"
	MsgMethodPanics = "method panicked"
)

// Engine holds the method tables built at construction. All fields are
// read-only afterwards, so one Engine can serve any number of goroutines.
type Engine struct {
	extractors  map[Method]extractor.ImageExtractor
	analyzers   map[Method]analyzer.ImageAnalyzer
	embedders   map[EmbedMethod]embedder.ImageEmbedder
	workers     int
	maxFileSize int64
	outputDir   string
	log         *slog.Logger
}

// Option customises an Engine at construction
type Option func(*Engine)

// WithWorkers bounds how many methods run at once for one image
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithMaxFileSize rejects inputs larger than n bytes
func WithMaxFileSize(n int64) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxFileSize = n
		}
	}
}

// WithOutputDir sets where EmbedFile writes when no output path is given
func WithOutputDir(dir string) Option {
	return func(e *Engine) { e.outputDir = dir }
}

// WithLogger replaces the component logger
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithAnalyzer replaces the implementation behind a detection method
func WithAnalyzer(m Method, a analyzer.ImageAnalyzer) Option {
	return func(e *Engine) {
		if m.IsDetector() {
			e.analyzers[m] = a
		}
	}
}

// WithExtractor replaces the implementation behind an extraction method
func WithExtractor(m Method, x extractor.ImageExtractor) Option {
	return func(e *Engine) {
		if _, ok := e.extractors[m]; ok {
			e.extractors[m] = x
		}
	}
}

// New builds an engine from the thresholds, then applies opts
func New(t config.Thresholds, opts ...Option) *Engine {
	e := &Engine{
		extractors: map[Method]extractor.ImageExtractor{
			LSBExtraction:      lsbextract.NewLSBExtractor(),
			ParityExtraction:   parityextract.NewParityExtractor(t.ParityWindowBits),
			MetadataExtraction: metaextract.NewMetadataExtractor(),
		},
		analyzers: map[Method]analyzer.ImageAnalyzer{
			DCTAnalysis:       dct.NewDCTAnalyzer(t),
			BitPlaneAnalysis:  bitplane.NewBitPlaneAnalyzer(t),
			HistogramAnalysis: histogram.NewHistogramAnalyzer(t),
		},
		embedders: map[EmbedMethod]embedder.ImageEmbedder{
			EmbedLSB:      lsbembed.NewLSBEmbedder(),
			EmbedParity:   parityembed.NewParityEmbedder(),
			EmbedMetadata: metaembed.NewMetadataEmbedder(),
		},
		workers:     runtime.NumCPU(),
		maxFileSize: filehandler.DefaultMaxFileSize,
		outputDir:   ".",
		log:         logging.New("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	// detectors reject the values they cannot work with when they run
	if err := t.Validate(); err != nil {
		e.log.Warn("thresholds out of range", "error", err)
	}
	return e
}

// FromConfig builds an engine from a loaded configuration
func FromConfig(cfg *config.Config, opts ...Option) *Engine {
	base := []Option{
		WithWorkers(cfg.Workers),
		WithMaxFileSize(cfg.MaxFileSize),
		WithOutputDir(cfg.OutputDir),
	}
	return New(cfg.Thresholds, append(base, opts...)...)
}

// Run executes the requested methods on img, every method when none are
// given. Each method runs in its own task; a failing or panicking method is
// recorded in its result and never stops the others.
func (e *Engine) Run(ctx context.Context, img *raster.Image, methods ...Method) *models.AnalysisReport {
	if len(methods) == 0 {
		methods = AllMethods()
	}
	start := time.Now()

	report := models.NewAnalysisReport("")
	if img != nil {
		report.FileType = img.Format
		report.Width = img.Width()
		report.Height = img.Height()
	}

	results := make([]*models.AnalysisResult, len(methods))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, m := range methods {
		i, m := i, m
		g.Go(func() error {
			results[i] = e.RunMethod(gctx, img, m)
			return nil
		})
	}
	_ = g.Wait() // failures are captured per result

	for _, res := range results {
		report.Results[res.Method] = res
	}
	report.AnalysisDuration = time.Since(start)
	return report
}

// RunMethod executes a single method and converts every outcome, including a
// panic, into a result record
func (e *Engine) RunMethod(ctx context.Context, img *raster.Image, m Method) (res *models.AnalysisResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = failedResult(m, fmt.Errorf("%s: %v", MsgMethodPanics, r))
		}
		res.Duration = time.Since(start)
		if res.Success {
			e.log.Debug("method finished", "method", m, "duration", res.Duration)
		} else {
			e.log.Warn("method failed", "method", m, "error", res.Error, "duration", res.Duration)
		}
	}()

	if err := ctx.Err(); err != nil {
		return failedResult(m, err)
	}
	if img == nil {
		return failedResult(m, errors.New("nil image provided"))
	}

	if x, ok := e.extractors[m]; ok {
		if !supports(x.CanExtract, img.Format) {
			return failedResult(m, unsupportedFormat(x.Name(), img.Format))
		}
		return extractionResult(m, x, img)
	}
	if a, ok := e.analyzers[m]; ok {
		if !supports(a.CanAnalyze, img.Format) {
			return failedResult(m, unsupportedFormat(a.Name(), img.Format))
		}
		return detectionResult(m, a, img)
	}
	return failedResult(m, &UnknownMethodError{Name: string(m), Kind: "analysis"})
}

// supports reports whether a method accepts the source container. Images built
// in memory have no container and are accepted by every method.
func supports(can func(string) bool, format string) bool {
	return format == "" || can(format)
}

func unsupportedFormat(name, format string) error {
	return fmt.Errorf("%w: %s does not handle %s", filehandler.ErrUnsupportedFormat, name, format)
}

func failedResult(m Method, err error) *models.AnalysisResult {
	res := &models.AnalysisResult{
		Method:  string(m),
		Success: false,
		Error:   err.Error(),
	}
	if m.IsDetector() {
		res.Assessment = models.AssessmentFailed
	}
	return res
}

func extractionResult(m Method, x extractor.ImageExtractor, img *raster.Image) *models.AnalysisResult {
	res := &models.AnalysisResult{Method: string(m), Success: true}

	got, err := x.ExtractFromImage(img)
	switch {
	case errors.Is(err, bitstream.ErrNoValidData):
		res.Status = models.StatusNoData
		res.Message = MsgNoValidData
		return res
	case errors.Is(err, bitstream.ErrUndecodableBinary):
		res.Status = models.StatusUndecodable
		res.Message = MsgUndecodable
		return res
	case err != nil:
		return failedResult(m, err)
	}

	res.Metadata = got.Metadata
	res.Message = got.Text
	res.Status = models.StatusDecoded
	if got.Empty {
		res.Status = models.StatusNoData
		if m == MetadataExtraction {
			res.Message = MsgNoComment
		}
	}
	return res
}

func detectionResult(m Method, a analyzer.ImageAnalyzer, img *raster.Image) *models.AnalysisResult {
	det, err := a.AnalyzeImage(img)
	if err != nil {
		res := failedResult(m, err)
		res.Message = fmt.Sprintf("%s failed: %v", a.Name(), err)
		return res
	}
	return &models.AnalysisResult{
		Method:     string(m),
		Success:    true,
		Message:    det.Message,
		Confidence: det.Confidence,
		Assessment: det.Assessment,
		Statistics: det.Statistics,
	}
}

// AnalyzeBytes decodes data and runs the requested methods on it. A decode
// failure is reported against every requested method.
func (e *Engine) AnalyzeBytes(ctx context.Context, data []byte, filename string, methods ...Method) *models.AnalysisReport {
	start := time.Now()
	if len(methods) == 0 {
		methods = AllMethods()
	}

	img, err := decodeScreened(data)
	if err != nil {
		report := failedReport(filename, methods, err)
		report.SHA256 = filehandler.SHA256(data)
		report.AnalysisDuration = time.Since(start)
		return report
	}

	report := e.Run(ctx, img, methods...)
	report.Filename = filename
	report.SHA256 = filehandler.SHA256(data)
	report.AnalysisTime = start
	report.AnalysisDuration = time.Since(start)
	return report
}

// decodeScreened checks the container header before decoding the full image
func decodeScreened(data []byte) (*raster.Image, error) {
	if _, err := filehandler.DetectBytesFormat(data); err != nil {
		return nil, err
	}
	return filehandler.DecodeImage(data)
}

// AnalyzeFile screens path by format and size, then analyses it
func (e *Engine) AnalyzeFile(ctx context.Context, path string, methods ...Method) *models.AnalysisReport {
	if len(methods) == 0 {
		methods = AllMethods()
	}

	if _, err := filehandler.DetectFileFormat(path); err != nil {
		e.log.Warn("unsupported input", "path", path, "error", err)
		return failedReport(filepath.Base(path), methods, err)
	}
	data, err := filehandler.ReadFileBytes(path, e.maxFileSize)
	if err != nil {
		e.log.Warn("cannot read input", "path", path, "error", err)
		return failedReport(filepath.Base(path), methods, err)
	}
	return e.AnalyzeBytes(ctx, data, filepath.Base(path), methods...)
}

// LoadImage decodes the image at path under the configured size limit
func (e *Engine) LoadImage(path string) (*raster.Image, error) {
	return filehandler.LoadImage(path, e.maxFileSize)
}

// AnalyzeDirectory analyses every supported image below dir
func (e *Engine) AnalyzeDirectory(ctx context.Context, dir string, methods ...Method) ([]*models.AnalysisReport, error) {
	files, err := filehandler.FilesInDirectory(dir, filehandler.ImageExtensions())
	if err != nil {
		return nil, err
	}

	reports := make([]*models.AnalysisReport, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		report := e.AnalyzeFile(ctx, path, methods...)
		report.Filename = path
		reports = append(reports, report)
	}
	return reports, nil
}

func failedReport(filename string, methods []Method, err error) *models.AnalysisReport {
	report := models.NewAnalysisReport(filename)
	report.Error = err.Error()
	for _, m := range methods {
		report.Results[string(m)] = failedResult(m, err)
	}
	return report
}

// Extract runs one extraction method and returns its typed result
func (e *Engine) Extract(img *raster.Image, m Method) (*extractor.Extraction, error) {
	x, ok := e.extractors[m]
	if !ok {
		return nil, fmt.Errorf("%s is not an extraction method", m)
	}
	return x.ExtractFromImage(img)
}

// Detect runs one detector and returns its typed result
func (e *Engine) Detect(img *raster.Image, m Method) (*analyzer.Detection, error) {
	a, ok := e.analyzers[m]
	if !ok {
		return nil, fmt.Errorf("%s is not a detection method", m)
	}
	return a.AnalyzeImage(img)
}
