package filehandler

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"stegnox/pkg/raster"
)

// JPEGQuality is used whenever an image is re-serialised as JPEG
const JPEGQuality = 95

// DecodeImage decodes an in-memory image together with its text metadata
func DecodeImage(data []byte) (*raster.Image, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img := raster.FromImage(src)
	img.Format = format

	switch format {
	case "png":
		for k, v := range readPNGText(data) {
			img.Metadata[k] = v
		}
	case "jpeg":
		if comment, ok := readJPEGComment(data); ok {
			img.Metadata[CommentKey] = comment
		}
		img.EXIF = readEXIF(data)
	}

	return img, nil
}

// LoadImage reads and decodes the image at path, rejecting files over maxSize
func LoadImage(path string, maxSize int64) (*raster.Image, error) {
	data, err := ReadFileBytes(path, maxSize)
	if err != nil {
		return nil, err
	}
	return DecodeImage(data)
}

// EncodeImage serialises img in the given format. PNG keeps every metadata
// entry as a text chunk, JPEG keeps the comment. Other formats drop metadata.
func EncodeImage(img *raster.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	src := img.ToImage()

	switch format {
	case "png":
		if err := png.Encode(&buf, src); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
		return insertPNGText(buf.Bytes(), img.Metadata)
	case "jpeg":
		if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
		comment, ok := img.Metadata[CommentKey]
		if !ok {
			return buf.Bytes(), nil
		}
		return insertJPEGComment(buf.Bytes(), comment)
	case "bmp":
		if err := bmp.Encode(&buf, src); err != nil {
			return nil, fmt.Errorf("failed to encode bmp: %w", err)
		}
		return buf.Bytes(), nil
	case "tiff":
		if err := tiff.Encode(&buf, src, &tiff.Options{Compression: tiff.Deflate}); err != nil {
			return nil, fmt.Errorf("failed to encode tiff: %w", err)
		}
		return buf.Bytes(), nil
	}

	return nil, fmt.Errorf("%w: cannot write %q", ErrUnsupportedFormat, format)
}

// SaveImage encodes img in the format implied by path and writes it
func SaveImage(img *raster.Image, path string) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	data, err := EncodeImage(img, format)
	if err != nil {
		return err
	}
	return SaveFile(data, path)
}
