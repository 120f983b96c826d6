package filehandler

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"sort"
	"unicode/utf8"

	pngstructure "github.com/dsoprea/go-png-image-structure/v2"
)

// CommentKey is the metadata key that carries an embedded text payload
const CommentKey = "comment"

// PNG keywords are 1-79 Latin-1 bytes
const maxPNGKeyword = 79

// pngChunks parses the chunk list of a PNG stream
func pngChunks(data []byte) ([]*pngstructure.Chunk, error) {
	mc, err := pngstructure.NewPngMediaParser().ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed png stream: %v", ErrUnsupportedFormat, err)
	}
	cs, ok := mc.(*pngstructure.ChunkSlice)
	if !ok || len(cs.Chunks()) == 0 {
		return nil, fmt.Errorf("%w: malformed png stream", ErrUnsupportedFormat)
	}
	return cs.Chunks(), nil
}

// readPNGText collects tEXt, zTXt and iTXt entries. Unparseable chunks are skipped.
func readPNGText(data []byte) map[string]string {
	text := make(map[string]string)
	chunks, err := pngChunks(data)
	if err != nil {
		return text
	}

	for _, c := range chunks {
		switch c.Type {
		case "tEXt":
			key, value, ok := bytes.Cut(c.Data, []byte{0})
			if ok {
				text[latin1(key)] = latin1(value)
			}
		case "zTXt":
			key, rest, ok := bytes.Cut(c.Data, []byte{0})
			if !ok || len(rest) < 1 || rest[0] != 0 {
				continue
			}
			if value, err := inflate(rest[1:]); err == nil {
				text[latin1(key)] = latin1(value)
			}
		case "iTXt":
			if key, value, ok := parseITXt(c.Data); ok {
				text[key] = value
			}
		}
	}
	return text
}

// iTXt: keyword\0 flag method language\0 translated\0 text
func parseITXt(data []byte) (string, string, bool) {
	key, rest, ok := bytes.Cut(data, []byte{0})
	if !ok || len(rest) < 2 {
		return "", "", false
	}
	compressed := rest[0] == 1
	rest = rest[2:]
	if _, rest, ok = bytes.Cut(rest, []byte{0}); !ok {
		return "", "", false
	}
	if _, rest, ok = bytes.Cut(rest, []byte{0}); !ok {
		return "", "", false
	}
	if compressed {
		value, err := inflate(rest)
		if err != nil {
			return "", "", false
		}
		rest = value
	}
	return latin1(key), string(rest), true
}

func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func latin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

var errNotLatin1 = errors.New("not representable in Latin-1")

// toLatin1 is the inverse of latin1
func toLatin1(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return nil, errNotLatin1
		}
		out = append(out, byte(r))
	}
	return out, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// pngKeyword encodes a metadata key as a PNG keyword
func pngKeyword(key string) ([]byte, error) {
	kw, err := toLatin1(key)
	if err != nil || len(kw) == 0 || len(kw) > maxPNGKeyword || bytes.IndexByte(kw, 0) >= 0 {
		return nil, fmt.Errorf("invalid png text keyword %q", key)
	}
	return kw, nil
}

func newPNGChunk(typ string, data []byte) *pngstructure.Chunk {
	c := &pngstructure.Chunk{
		Type:   typ,
		Length: uint32(len(data)),
		Data:   data,
	}
	c.UpdateCrc32()
	return c
}

// insertPNGText places one text chunk per entry right after IHDR. ASCII values
// go into tEXt, anything else into an uncompressed UTF-8 iTXt chunk.
func insertPNGText(data []byte, text map[string]string) ([]byte, error) {
	if len(text) == 0 {
		return data, nil
	}
	chunks, err := pngChunks(data)
	if err != nil {
		return nil, err
	}
	if chunks[0].Type != "IHDR" {
		return nil, fmt.Errorf("%w: png stream does not start with IHDR", ErrUnsupportedFormat)
	}

	keys := make([]string, 0, len(text))
	for k := range text {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	inserted := make([]*pngstructure.Chunk, 0, len(keys))
	for _, k := range keys {
		kw, err := pngKeyword(k)
		if err != nil {
			return nil, err
		}
		v := text[k]
		if isASCII(v) {
			inserted = append(inserted, newPNGChunk("tEXt", append(append(kw, 0), v...)))
			continue
		}
		// no compression, empty language and translated keyword
		payload := append(kw, 0, 0, 0, 0, 0)
		inserted = append(inserted, newPNGChunk("iTXt", append(payload, v...)))
	}

	var out bytes.Buffer
	out.Write(pngstructure.PngSignature[:])
	out.Write(chunks[0].Bytes())
	for _, c := range inserted {
		out.Write(c.Bytes())
	}
	for _, c := range chunks[1:] {
		out.Write(c.Bytes())
	}
	return out.Bytes(), nil
}
