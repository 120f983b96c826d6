package metadata

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	metaembed "stegnox/pkg/embedder/image/metadata"
	"stegnox/pkg/filehandler"
	"stegnox/pkg/raster"
)

func TestMetadataRoundTripThroughPNG(t *testing.T) {
	src := raster.Filled(8, 6, 1, 2, 3)
	src.Format = "png"

	res, err := metaembed.NewMetadataEmbedder().Embed(src, "the comment")
	require.NoError(t, err)

	data, err := filehandler.EncodeImage(res.Image, "png")
	require.NoError(t, err)
	decoded, err := filehandler.DecodeImage(data)
	require.NoError(t, err)

	got, err := NewMetadataExtractor().ExtractFromImage(decoded)
	require.NoError(t, err)
	require.Equal(t, "the comment", got.Text)

	want := map[string]interface{}{
		"format":  "png",
		"mode":    "RGB",
		"size":    []int{8, 6},
		"comment": "the comment",
	}
	if diff := cmp.Diff(want, got.Metadata); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestMetadataWithoutComment(t *testing.T) {
	img := raster.New(3, 3)
	img.Format = "bmp"
	img.EXIF = map[string]string{"Make": `"Acme"`}

	got, err := NewMetadataExtractor().ExtractFromImage(img)
	require.NoError(t, err)
	require.Empty(t, got.Text)
	require.True(t, got.Empty)
	require.NotContains(t, got.Metadata, "comment")
	require.Equal(t, map[string]string{"Make": `"Acme"`}, got.Metadata["exif"])
}
