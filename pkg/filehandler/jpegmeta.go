package filehandler

import (
	"bytes"
	"fmt"

	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// segment length field counts itself
const maxSegmentData = 0xFFFF - 2

// jpegSegments parses the marker segments of a JPEG stream
func jpegSegments(data []byte) ([]*jpegstructure.Segment, error) {
	mc, err := jpegstructure.NewJpegMediaParser().ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed jpeg stream: %v", ErrUnsupportedFormat, err)
	}
	sl, ok := mc.(*jpegstructure.SegmentList)
	if !ok {
		return nil, fmt.Errorf("%w: malformed jpeg stream", ErrUnsupportedFormat)
	}
	segments := sl.Segments()
	if len(segments) == 0 || segments[0].MarkerId != jpegstructure.MARKER_SOI {
		return nil, fmt.Errorf("%w: jpeg stream does not start with SOI", ErrUnsupportedFormat)
	}
	return segments, nil
}

// readJPEGComment concatenates every COM segment
func readJPEGComment(data []byte) (string, bool) {
	segments, err := jpegSegments(data)
	if err != nil {
		return "", false
	}

	var comment []byte
	found := false
	for _, s := range segments {
		if s.MarkerId == jpegstructure.MARKER_COM {
			comment = append(comment, s.Data...)
			found = true
		}
	}
	return string(comment), found
}

// insertJPEGComment places the comment right after SOI, split across as many
// COM segments as its length requires
func insertJPEGComment(data []byte, comment string) ([]byte, error) {
	segments, err := jpegSegments(data)
	if err != nil {
		return nil, err
	}

	out := []*jpegstructure.Segment{segments[0]}
	payload := []byte(comment)
	for {
		chunk := payload
		if len(chunk) > maxSegmentData {
			chunk = chunk[:maxSegmentData]
		}
		out = append(out, &jpegstructure.Segment{
			MarkerId:   jpegstructure.MARKER_COM,
			MarkerName: "COM",
			Data:       chunk,
		})

		payload = payload[len(chunk):]
		if len(payload) == 0 {
			break
		}
	}
	out = append(out, segments[1:]...)

	var buf bytes.Buffer
	if err := jpegstructure.NewSegmentList(out).Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write jpeg segments: %w", err)
	}
	return buf.Bytes(), nil
}

type exifCollector map[string]string

func (c exifCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	c[string(name)] = tag.String()
	return nil
}

// readEXIF returns the EXIF tags of a JPEG, or nil if it has none
func readEXIF(data []byte) map[string]string {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	tags := make(exifCollector)
	if err := x.Walk(tags); err != nil || len(tags) == 0 {
		return nil
	}
	return tags
}
