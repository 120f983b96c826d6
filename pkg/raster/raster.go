// Package raster holds decoded images as plain RGB channel data.
//
// Embedding, extraction and detection work on *Image rather than image.Image so
// every algorithm reduces to arithmetic on channel values in [0,255].
package raster

import (
	"image"
	"image/color"
	"math"
)

// Channel selects one colour channel of a pixel
type Channel int

const (
	Red Channel = iota
	Green
	Blue
)

// ChannelsPerPixel is the number of colour channels stored per pixel
const ChannelsPerPixel = 3

// AllChannels lists the channels in traversal order
var AllChannels = []Channel{Red, Green, Blue}

// String returns the lowercase channel name
func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	}
	return "unknown"
}

// Image is a width x height grid of RGB pixels plus container metadata
type Image struct {
	width  int
	height int
	pix    []uint8 // R,G,B interleaved, row-major

	// Format is the container the image was decoded from ("png", "jpeg", ...)
	Format string
	// Mode is the colour model of the source ("RGB", "RGBA", "L", "P", ...)
	Mode string
	// Metadata holds container text entries such as a "comment"
	Metadata map[string]string
	// EXIF holds camera tags read from the container, if any
	EXIF map[string]string
}

// New creates a black image of the given size
func New(width, height int) *Image {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Image{
		width:    width,
		height:   height,
		pix:      make([]uint8, width*height*ChannelsPerPixel),
		Mode:     "RGB",
		Metadata: make(map[string]string),
	}
}

// Filled creates an image where every pixel has the same colour
func Filled(width, height int, r, g, b uint8) *Image {
	img := New(width, height)
	for i := 0; i < len(img.pix); i += ChannelsPerPixel {
		img.pix[i] = r
		img.pix[i+1] = g
		img.pix[i+2] = b
	}
	return img
}

// FromImage converts a decoded image to RGB, dropping alpha
func FromImage(src image.Image) *Image {
	bounds := src.Bounds()
	img := New(bounds.Dx(), bounds.Dy())
	img.Mode = ModeOf(src)

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			img.pix[i] = c.R
			img.pix[i+1] = c.G
			img.pix[i+2] = c.B
			i += ChannelsPerPixel
		}
	}
	return img
}

// ModeOf names the colour model of a decoded image
func ModeOf(src image.Image) string {
	switch src.(type) {
	case *image.Gray, *image.Gray16:
		return "L"
	case *image.Paletted:
		return "P"
	case *image.CMYK:
		return "CMYK"
	case *image.YCbCr:
		return "YCbCr"
	}
	if o, ok := src.(interface{ Opaque() bool }); ok && !o.Opaque() {
		return "RGBA"
	}
	return "RGB"
}

// Width returns the image width in pixels
func (m *Image) Width() int { return m.width }

// Height returns the image height in pixels
func (m *Image) Height() int { return m.height }

// PixelCount returns width * height
func (m *Image) PixelCount() int { return m.width * m.height }

// SampleCount returns the number of channel values, width * height * 3
func (m *Image) SampleCount() int { return len(m.pix) }

func (m *Image) offset(x, y int, c Channel) int {
	return (y*m.width+x)*ChannelsPerPixel + int(c)
}

// Get returns the value of channel c at (x, y)
func (m *Image) Get(x, y int, c Channel) int {
	return int(m.pix[m.offset(x, y, c)])
}

// Set writes channel c at (x, y), clamping v to [0,255]
func (m *Image) Set(x, y int, c Channel, v int) {
	m.pix[m.offset(x, y, c)] = clamp(v)
}

// RGB returns the three channel values at (x, y)
func (m *Image) RGB(x, y int) (r, g, b int) {
	o := m.offset(x, y, Red)
	return int(m.pix[o]), int(m.pix[o+1]), int(m.pix[o+2])
}

func clamp(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Clone returns a deep copy of the pixels and metadata
func (m *Image) Clone() *Image {
	out := &Image{
		width:    m.width,
		height:   m.height,
		pix:      make([]uint8, len(m.pix)),
		Format:   m.Format,
		Mode:     m.Mode,
		Metadata: make(map[string]string, len(m.Metadata)),
	}
	copy(out.pix, m.pix)
	for k, v := range m.Metadata {
		out.Metadata[k] = v
	}
	if m.EXIF != nil {
		out.EXIF = make(map[string]string, len(m.EXIF))
		for k, v := range m.EXIF {
			out.EXIF[k] = v
		}
	}
	return out
}

// Equal reports whether two images hold identical pixels
func (m *Image) Equal(o *Image) bool {
	if m.width != o.width || m.height != o.height || len(m.pix) != len(o.pix) {
		return false
	}
	for i := range m.pix {
		if m.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

// ToImage returns an opaque NRGBA copy suitable for the standard encoders
func (m *Image) ToImage() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, m.width, m.height))
	for i, j := 0, 0; i < len(m.pix); i, j = i+ChannelsPerPixel, j+4 {
		out.Pix[j] = m.pix[i]
		out.Pix[j+1] = m.pix[i+1]
		out.Pix[j+2] = m.pix[i+2]
		out.Pix[j+3] = 0xff
	}
	return out
}

// Luminance returns the 8-bit grey conversion of the image, row-major.
// Weights follow ITU-R BT.601 and values are rounded like an 8-bit grey image.
func (m *Image) Luminance() []float64 {
	out := make([]float64, m.PixelCount())
	for p := range out {
		o := p * ChannelsPerPixel
		y := 0.299*float64(m.pix[o]) + 0.587*float64(m.pix[o+1]) + 0.114*float64(m.pix[o+2])
		out[p] = math.Round(y)
	}
	return out
}

// Histogram counts how often each intensity occurs in channel c
func (m *Image) Histogram(c Channel) [256]int {
	var hist [256]int
	for i := int(c); i < len(m.pix); i += ChannelsPerPixel {
		hist[m.pix[i]]++
	}
	return hist
}

// BitPlaneOnes counts the pixels whose channel c has the given bit set
func (m *Image) BitPlaneOnes(c Channel, bit uint) int {
	ones := 0
	for i := int(c); i < len(m.pix); i += ChannelsPerPixel {
		ones += int(m.pix[i]>>bit) & 1
	}
	return ones
}

// BitPlane returns the given bit of channel c as a grey image, set bits white
func (m *Image) BitPlane(c Channel, bit uint) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, m.width, m.height))
	for p := 0; p < m.PixelCount(); p++ {
		if (m.pix[p*ChannelsPerPixel+int(c)]>>bit)&1 == 1 {
			out.Pix[p] = 0xff
		}
	}
	return out
}
