package engine

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"stegnox/pkg/embedder"
	"stegnox/pkg/filehandler"
	"stegnox/pkg/models"
	"stegnox/pkg/raster"
)

// ErrLossyOutput means the output format would destroy a pixel payload
var ErrLossyOutput = errors.New("output format is lossy")

// Embed hides payload in a copy of img with the given carrier
func (e *Engine) Embed(img *raster.Image, m EmbedMethod, payload string) (*embedder.Embedding, error) {
	emb, ok := e.embedders[m]
	if !ok {
		return nil, &UnknownMethodError{Name: string(m), Kind: "embedding"}
	}
	return emb.Embed(img, payload)
}

// Capacity returns the payload capacity in bits of img for every carrier
func (e *Engine) Capacity(img *raster.Image) map[EmbedMethod]int {
	out := make(map[EmbedMethod]int, len(e.embedders))
	for m, emb := range e.embedders {
		out[m] = emb.Capacity(img)
	}
	return out
}

// OutputPath picks where EmbedFile writes when the caller gives no path. Pixel
// carriers keep the source container when it is lossless and fall back to PNG.
func (e *Engine) OutputPath(input string, m EmbedMethod, sourceFormat string) string {
	format := sourceFormat
	if m != EmbedMetadata && !filehandler.IsLossless(format) {
		format = "png"
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(e.outputDir, base+"_stego"+filehandler.ExtensionForFormat(format))
}

// EmbedFile loads input, embeds payload and writes the carrier to output. An
// empty output derives a path in the configured output directory. The input
// file is only read.
func (e *Engine) EmbedFile(input, output string, m EmbedMethod, payload string) *models.EmbedResult {
	res := &models.EmbedResult{Method: string(m)}
	fail := func(err error) *models.EmbedResult {
		e.log.Warn("embedding failed", "method", m, "input", input, "error", err)
		res.Success = false
		res.Error = err.Error()
		return res
	}

	if _, ok := e.embedders[m]; !ok {
		return fail(&UnknownMethodError{Name: string(m), Kind: "embedding"})
	}

	img, err := e.LoadImage(input)
	if err != nil {
		return fail(err)
	}

	if output == "" {
		output = e.OutputPath(input, m, img.Format)
	}
	format, err := filehandler.FormatForPath(output)
	if err != nil {
		return fail(err)
	}
	switch {
	case m == EmbedMetadata && !filehandler.CanCarryMetadata(format):
		return fail(fmt.Errorf("%w: %s", filehandler.ErrMetadataUnsupported, format))
	case m != EmbedMetadata && !filehandler.IsLossless(format):
		return fail(fmt.Errorf("%w: %s", ErrLossyOutput, format))
	}

	emb, err := e.Embed(img, m, payload)
	if err != nil {
		return fail(err)
	}
	if err := filehandler.SaveImage(emb.Image, output); err != nil {
		return fail(err)
	}

	res.Success = true
	res.BitsUsed = emb.BitsUsed
	res.Capacity = emb.Capacity
	res.MetadataKey = emb.Key
	res.Output = output
	switch m {
	case EmbedParity:
		res.Message = fmt.Sprintf("Message successfully hidden in %s using parity encoding", output)
	case EmbedMetadata:
		res.Message = fmt.Sprintf("Message successfully hidden in metadata of %s", output)
	default:
		res.Message = fmt.Sprintf("Message successfully hidden in %s", output)
	}
	e.log.Info("payload embedded", "method", m, "output", output, "bits", emb.BitsUsed)
	return res
}
