package metadata

import (
	"errors"

	"stegnox/pkg/extractor"
	"stegnox/pkg/filehandler"
	"stegnox/pkg/raster"
)

// MetadataExtractor reports the container facts and text entries of an image
type MetadataExtractor struct {
	extractor.BaseExtractor
}

// NewMetadataExtractor creates a new metadata extractor
func NewMetadataExtractor() *MetadataExtractor {
	formats := []string{"png", "bmp", "tiff", "jpeg", "gif", "webp"}
	base := extractor.NewBaseExtractor("Metadata Extractor", formats)

	return &MetadataExtractor{
		BaseExtractor: base,
	}
}

// ExtractFromImage implements the ImageExtractor interface. Text is the
// comment if one exists.
func (e *MetadataExtractor) ExtractFromImage(img *raster.Image) (*extractor.Extraction, error) {
	if img == nil {
		return nil, errors.New("nil image provided")
	}

	meta := make(map[string]interface{}, len(img.Metadata)+4)
	for k, v := range img.Metadata {
		meta[k] = v
	}
	// container facts win over text chunks of the same name
	meta["format"] = img.Format
	meta["mode"] = img.Mode
	meta["size"] = []int{img.Width(), img.Height()}
	if len(img.EXIF) > 0 {
		exif := make(map[string]string, len(img.EXIF))
		for k, v := range img.EXIF {
			exif[k] = v
		}
		meta["exif"] = exif
	}

	comment, ok := img.Metadata[filehandler.CommentKey]
	return &extractor.Extraction{
		Text:     comment,
		Empty:    !ok,
		Metadata: meta,
	}, nil
}
