package engine

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"stegnox/pkg/analyzer"
	"stegnox/pkg/bitstream"
	"stegnox/pkg/config"
	"stegnox/pkg/embedder"
	"stegnox/pkg/extractor"
	"stegnox/pkg/filehandler"
	"stegnox/pkg/models"
	"stegnox/pkg/raster"
)

type panicAnalyzer struct {
	analyzer.BaseAnalyzer
}

func (p *panicAnalyzer) AnalyzeImage(*raster.Image) (*analyzer.Detection, error) {
	panic("boom")
}

type failingAnalyzer struct {
	analyzer.BaseAnalyzer
}

func (f *failingAnalyzer) AnalyzeImage(*raster.Image) (*analyzer.Detection, error) {
	return nil, errors.New("transform exploded")
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	return New(config.DefaultThresholds(), append([]Option{WithOutputDir(t.TempDir())}, opts...)...)
}

func white(w, h int) *raster.Image {
	img := raster.Filled(w, h, 255, 255, 255)
	img.Format = "png"
	return img
}

func saveImage(t *testing.T, img *raster.Image, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, filehandler.SaveImage(img, path))
	return path
}

func TestParseMethods(t *testing.T) {
	m, err := ParseMethod(" DCT_analysis ")
	require.NoError(t, err)
	require.Equal(t, DCTAnalysis, m)

	all, err := ParseMethods([]string{"all"})
	require.NoError(t, err)
	require.Equal(t, AllMethods(), all)

	got, err := ParseMethods([]string{"histogram_analysis", "lsb_extraction", "histogram_analysis"})
	require.NoError(t, err)
	if diff := cmp.Diff([]Method{HistogramAnalysis, LSBExtraction}, got); diff != "" {
		t.Errorf("methods mismatch (-want +got):\n%s", diff)
	}

	_, err = ParseMethods([]string{"lsb_extraction", "fft_analysis"})
	var unknown *UnknownMethodError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "fft_analysis", unknown.Name)

	_, err = ParseEmbedMethod("jsteg")
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "embedding", unknown.Kind)
}

func TestRunAllMethods(t *testing.T) {
	report := newEngine(t).Run(context.Background(), white(100, 100))

	want := []string{
		"bit_plane_analysis", "dct_analysis", "histogram_analysis",
		"lsb_extraction", "metadata_extraction", "parity_bit_extraction",
	}
	if diff := cmp.Diff(want, report.MethodNames()); diff != "" {
		t.Errorf("method names mismatch (-want +got):\n%s", diff)
	}
	require.Empty(t, report.Failed())
	require.Equal(t, 100, report.Width)
	require.Equal(t, "png", report.FileType)

	dctRes := report.Results["dct_analysis"]
	require.True(t, dctRes.IsDetector())
	require.Equal(t, models.AssessmentLikelyClean, dctRes.Assessment)
}

func TestCleanImageHasNoLSBData(t *testing.T) {
	res := newEngine(t).RunMethod(context.Background(), white(100, 100), LSBExtraction)
	require.True(t, res.Success)
	require.Equal(t, MsgNoValidData, res.Message)
	require.Equal(t, models.StatusNoData, res.Status)
}

func TestUndecodableStatus(t *testing.T) {
	img := raster.New(20, 20)
	bits := bitstream.FromBytes([]byte{0xff, 0xfe, '#', '#', '#', '#'})
	cur := img.Samples().Limit(len(bits))
	for pos, ok := cur.Next(); ok; pos, ok = cur.Next() {
		img.Set(pos.X, pos.Y, pos.Channel, int(bits[pos.Index]))
	}

	res := newEngine(t).RunMethod(context.Background(), img, LSBExtraction)
	require.True(t, res.Success)
	require.Equal(t, models.StatusUndecodable, res.Status)
	require.Equal(t, MsgUndecodable, res.Message)
}

func TestFailureIsolation(t *testing.T) {
	e := newEngine(t,
		WithAnalyzer(DCTAnalysis, &panicAnalyzer{analyzer.NewBaseAnalyzer("panic", "", analyzer.AllFormats)}),
		WithAnalyzer(HistogramAnalysis, &failingAnalyzer{analyzer.NewBaseAnalyzer("failing", "", analyzer.AllFormats)}),
	)

	report := e.Run(context.Background(), white(64, 64))
	require.Len(t, report.Results, 6)
	require.Equal(t, []string{"dct_analysis", "histogram_analysis"}, report.Failed())

	dctRes := report.Results["dct_analysis"]
	require.Equal(t, models.AssessmentFailed, dctRes.Assessment)
	require.Contains(t, dctRes.Error, "boom")

	hist := report.Results["histogram_analysis"]
	require.Equal(t, models.AssessmentFailed, hist.Assessment)
	require.Contains(t, hist.Error, "transform exploded")

	require.True(t, report.Results["bit_plane_analysis"].Success)
	require.True(t, report.Results["lsb_extraction"].Success)
}

func TestDetectorFailsOnTinyImage(t *testing.T) {
	res := newEngine(t).RunMethod(context.Background(), white(4, 4), DCTAnalysis)
	require.False(t, res.Success)
	require.Equal(t, models.AssessmentFailed, res.Assessment)
	require.Contains(t, res.Error, analyzer.ErrNothingProcessed.Error())
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := newEngine(t).Run(ctx, white(10, 10))
	require.Len(t, report.Failed(), 6)
	for _, res := range report.Results {
		require.Equal(t, context.Canceled.Error(), res.Error)
	}
}

func TestDetectorsAreIdempotent(t *testing.T) {
	e := newEngine(t, WithWorkers(2))
	src := white(64, 64)
	emb, err := e.Embed(src, EmbedLSB, "idempotent")
	require.NoError(t, err)

	first := e.Run(context.Background(), emb.Image, DCTAnalysis, BitPlaneAnalysis, HistogramAnalysis)
	second := e.Run(context.Background(), emb.Image, DCTAnalysis, BitPlaneAnalysis, HistogramAnalysis)
	for _, name := range first.MethodNames() {
		require.Equal(t, first.Results[name].Confidence, second.Results[name].Confidence, name)
	}
}

func TestEngineIsSafeForConcurrentUse(t *testing.T) {
	e := newEngine(t)
	img := white(32, 32)

	reports := make([]*models.AnalysisReport, 8)
	var wg sync.WaitGroup
	for i := range reports {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			reports[i] = e.Run(context.Background(), img)
		}()
	}
	wg.Wait()

	for _, report := range reports {
		require.Empty(t, report.Failed())
		require.Equal(t, reports[0].Results["dct_analysis"].Confidence, report.Results["dct_analysis"].Confidence)
	}
}

func TestEmbedFileLSBRoundTrip(t *testing.T) {
	e := newEngine(t)
	input := saveImage(t, white(100, 100), "white.png")
	before, err := os.ReadFile(input)
	require.NoError(t, err)

	output := filepath.Join(t.TempDir(), "stego.png")
	res := e.EmbedFile(input, output, EmbedLSB, "hello")
	require.True(t, res.Success, res.Error)
	require.Equal(t, 72, res.BitsUsed)
	require.Equal(t, 30000, res.Capacity)
	require.Equal(t, output, res.Output)

	after, err := os.ReadFile(input)
	require.NoError(t, err)
	require.True(t, bytes.Equal(before, after), "input file must not change")

	report := e.AnalyzeFile(context.Background(), output, LSBExtraction)
	require.Equal(t, "hello", report.Results["lsb_extraction"].Message)
	require.Equal(t, models.StatusDecoded, report.Results["lsb_extraction"].Status)
	require.Len(t, report.SHA256, 64)
	require.Equal(t, "stego.png", report.Filename)
}

func TestEmbedFileCapacityError(t *testing.T) {
	e := newEngine(t)
	input := saveImage(t, white(100, 100), "white.png")

	res := e.EmbedFile(input, filepath.Join(t.TempDir(), "out.png"), EmbedLSB, strings.Repeat("x", 9001))
	require.False(t, res.Success)
	require.Contains(t, res.Error, embedder.ErrPayloadTooLarge.Error())
}

func TestEmbedFileRejectsLossyOutput(t *testing.T) {
	e := newEngine(t)
	input := saveImage(t, white(20, 20), "white.png")

	res := e.EmbedFile(input, filepath.Join(t.TempDir(), "out.jpg"), EmbedParity, "hi")
	require.False(t, res.Success)
	require.Contains(t, res.Error, ErrLossyOutput.Error())
}

func TestEmbedFileDerivesOutputPath(t *testing.T) {
	outDir := t.TempDir()
	e := New(config.DefaultThresholds(), WithOutputDir(outDir))

	src := white(30, 30)
	input := saveImage(t, src, "photo.jpg")

	res := e.EmbedFile(input, "", EmbedParity, "hi")
	require.True(t, res.Success, res.Error)
	require.Equal(t, filepath.Join(outDir, "photo_stego.png"), res.Output)

	report := e.AnalyzeFile(context.Background(), res.Output, ParityExtraction)
	require.True(t, strings.HasPrefix(report.Results["parity_bit_extraction"].Message, "hi####"))
}

func TestMetadataRoundTrip(t *testing.T) {
	e := newEngine(t)
	for _, name := range []string{"carrier.png", "carrier.jpg"} {
		input := saveImage(t, white(16, 16), name)
		output := filepath.Join(t.TempDir(), "out"+filepath.Ext(name))

		res := e.EmbedFile(input, output, EmbedMetadata, "meta payload ✓")
		require.True(t, res.Success, res.Error)
		require.Equal(t, filehandler.CommentKey, res.MetadataKey)
		require.Equal(t, embedder.Unbounded, res.Capacity)

		report := e.AnalyzeFile(context.Background(), output, MetadataExtraction)
		got := report.Results["metadata_extraction"]
		require.Equal(t, "meta payload ✓", got.Message, name)
		require.Equal(t, "meta payload ✓", got.Metadata["comment"], name)
	}
}

func TestMetadataRejectsBMP(t *testing.T) {
	e := newEngine(t)
	input := saveImage(t, white(8, 8), "carrier.bmp")

	res := e.EmbedFile(input, "", EmbedMetadata, "x")
	require.False(t, res.Success)
	require.Contains(t, res.Error, filehandler.ErrMetadataUnsupported.Error())
}

func TestAnalyzeBytesUndecodableInput(t *testing.T) {
	report := newEngine(t).AnalyzeBytes(context.Background(), []byte("not an image"), "junk.png")
	require.NotEmpty(t, report.Error)
	require.Len(t, report.Failed(), 6)
	require.Equal(t, models.AssessmentFailed, report.Results["bit_plane_analysis"].Assessment)
}

func TestAnalyzeFileTooLarge(t *testing.T) {
	input := saveImage(t, white(50, 50), "big.png")
	e := newEngine(t, WithMaxFileSize(16))

	report := e.AnalyzeFile(context.Background(), input, LSBExtraction)
	require.Contains(t, report.Error, filehandler.ErrFileTooLarge.Error())
	require.False(t, report.Results["lsb_extraction"].Success)
}

func TestAnalyzeDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, filehandler.SaveImage(white(16, 16), filepath.Join(dir, "a.png")))
	require.NoError(t, filehandler.SaveImage(white(16, 16), filepath.Join(dir, "b.bmp")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	reports, err := newEngine(t).AnalyzeDirectory(context.Background(), dir, HistogramAnalysis)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	require.Equal(t, filepath.Join(dir, "a.png"), reports[0].Filename)
	require.Equal(t, "bmp", reports[1].FileType)
}

func TestExtractAndDetectTyped(t *testing.T) {
	e := newEngine(t)
	emb, err := e.Embed(white(20, 20), EmbedLSB, "typed")
	require.NoError(t, err)

	x, err := e.Extract(emb.Image, LSBExtraction)
	require.NoError(t, err)
	require.Equal(t, "typed", x.Text)

	_, err = e.Extract(emb.Image, DCTAnalysis)
	require.Error(t, err)

	det, err := e.Detect(emb.Image, HistogramAnalysis)
	require.NoError(t, err)
	require.GreaterOrEqual(t, det.Confidence, 0.0)

	_, err = e.Detect(emb.Image, ParityExtraction)
	require.Error(t, err)

	_, err = e.Embed(emb.Image, EmbedMethod("bogus"), "x")
	var unknown *UnknownMethodError
	require.True(t, errors.As(err, &unknown))
}

func TestCapacity(t *testing.T) {
	caps := newEngine(t).Capacity(white(100, 100))
	require.Equal(t, map[EmbedMethod]int{
		EmbedLSB:      30000,
		EmbedParity:   10000,
		EmbedMetadata: embedder.Unbounded,
	}, caps)
}

type pngOnlyExtractor struct {
	extractor.BaseExtractor
}

func (p *pngOnlyExtractor) ExtractFromImage(*raster.Image) (*extractor.Extraction, error) {
	return &extractor.Extraction{Text: "read"}, nil
}

func TestRunMethodChecksSourceFormat(t *testing.T) {
	e := newEngine(t,
		WithExtractor(LSBExtraction, &pngOnlyExtractor{extractor.NewBaseExtractor("png only", []string{"png"})}),
		WithAnalyzer(HistogramAnalysis, &failingAnalyzer{analyzer.NewBaseAnalyzer("jpeg only", "", []string{"jpeg"})}),
	)

	img := white(16, 16)
	img.Format = "bmp"
	res := e.RunMethod(context.Background(), img, LSBExtraction)
	require.False(t, res.Success)
	require.Contains(t, res.Error, filehandler.ErrUnsupportedFormat.Error())

	res = e.RunMethod(context.Background(), img, HistogramAnalysis)
	require.False(t, res.Success)
	require.Equal(t, models.AssessmentFailed, res.Assessment)
	require.Contains(t, res.Error, "jpeg only does not handle bmp")

	img.Format = "png"
	res = e.RunMethod(context.Background(), img, LSBExtraction)
	require.True(t, res.Success)
	require.Equal(t, "read", res.Message)

	// no source container
	img.Format = ""
	require.True(t, e.RunMethod(context.Background(), img, LSBExtraction).Success)
}

func TestZeroThresholdsDoNotHang(t *testing.T) {
	e := New(config.Thresholds{}, WithOutputDir(t.TempDir()))

	done := make(chan *models.AnalysisReport, 1)
	go func() { done <- e.Run(context.Background(), white(64, 64)) }()

	select {
	case report := <-done:
		require.Len(t, report.Results, 6)
		dctRes := report.Results["dct_analysis"]
		require.False(t, dctRes.Success)
		require.Equal(t, models.AssessmentFailed, dctRes.Assessment)
	case <-time.After(5 * time.Second):
		t.Fatal("run with zero thresholds did not return")
	}
}

func TestAnalyzeFileRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes")
	require.NoError(t, os.WriteFile(path, []byte("plain text, no image header"), 0644))

	report := newEngine(t).AnalyzeFile(context.Background(), path, LSBExtraction)
	require.Contains(t, report.Error, filehandler.ErrUnsupportedFormat.Error())
	require.False(t, report.Results["lsb_extraction"].Success)
}
