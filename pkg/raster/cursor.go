package raster

// Position addresses one channel of one pixel
type Position struct {
	X, Y    int
	Channel Channel
	Index   int // ordinal of the position within the traversal
}

// Cursor walks an image row-major with an explicit index and stop condition.
// A sample cursor visits R, G, B of each pixel in turn; a pixel cursor visits
// each pixel once and reports Channel as Red.
type Cursor struct {
	width  int
	stride int
	index  int
	limit  int
}

// Samples returns a cursor over every (x, y, channel) triple
func (m *Image) Samples() *Cursor {
	return &Cursor{width: m.width, stride: ChannelsPerPixel, limit: m.SampleCount()}
}

// Pixels returns a cursor over every pixel
func (m *Image) Pixels() *Cursor {
	return &Cursor{width: m.width, stride: 1, limit: m.PixelCount()}
}

// Limit caps the traversal to at most n positions
func (c *Cursor) Limit(n int) *Cursor {
	if n >= 0 && n < c.limit {
		c.limit = n
	}
	return c
}

// Len returns the total number of positions the cursor will visit
func (c *Cursor) Len() int { return c.limit }

// Next returns the next position, or false once the traversal is exhausted
func (c *Cursor) Next() (Position, bool) {
	if c.index >= c.limit {
		return Position{}, false
	}
	i := c.index
	c.index++

	pixel := i / c.stride
	return Position{
		X:       pixel % c.width,
		Y:       pixel / c.width,
		Channel: Channel(i % c.stride),
		Index:   i,
	}, true
}
