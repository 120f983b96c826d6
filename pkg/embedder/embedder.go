package embedder

import (
	"errors"
	"fmt"

	"stegnox/pkg/raster"
)

/*
Embedder.go contains the interface and base implementation for payload embedders.
ImageEmbedder: interface every carrier method implements; it never mutates its input.
BaseEmbedder: struct provides the name, description and supported formats.
Embedding: struct is the new carrier image plus the number of bits written and the capacity.
CapacityError: error returned when the payload does not fit; it matches ErrPayloadTooLarge.
*/

// Unbounded is reported as capacity by carriers with no bit limit
const Unbounded = -1

// ErrPayloadTooLarge is matched by every capacity failure
var ErrPayloadTooLarge = errors.New("payload too large for carrier")

// CapacityError reports how many bits were needed and how many fit
type CapacityError struct {
	Required int
	Capacity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: needs %d bits, capacity is %d bits", ErrPayloadTooLarge, e.Required, e.Capacity)
}

// Is lets errors.Is(err, ErrPayloadTooLarge) match
func (e *CapacityError) Is(target error) bool {
	return target == ErrPayloadTooLarge
}

// CheckCapacity returns a *CapacityError when required exceeds capacity
func CheckCapacity(required, capacity int) error {
	if capacity != Unbounded && required > capacity {
		return &CapacityError{Required: required, Capacity: capacity}
	}
	return nil
}

// Embedding is the result of a successful embed
type Embedding struct {
	Image    *raster.Image
	BitsUsed int
	Capacity int
	Key      string // metadata key written, metadata carrier only
}

// ImageEmbedder is the interface that all embedders must implement
type ImageEmbedder interface {
	// Name returns the name of the embedder
	Name() string

	// Description returns what the embedder changes in the carrier
	Description() string

	// CanEmbed checks whether the embedder can write a carrier of the given format
	CanEmbed(format string) bool

	// Capacity returns how many payload bits img can hold, or Unbounded
	Capacity(img *raster.Image) int

	// Embed hides payload in a copy of img
	Embed(img *raster.Image, payload string) (*Embedding, error)
}

// BaseEmbedder provides common functionality for embedders
type BaseEmbedder struct {
	name        string
	description string
	formats     []string
}

// NewBaseEmbedder creates a new BaseEmbedder
func NewBaseEmbedder(name, description string, formats []string) BaseEmbedder {
	return BaseEmbedder{
		name:        name,
		description: description,
		formats:     formats,
	}
}

// Name returns the embedder name
func (b *BaseEmbedder) Name() string {
	return b.name
}

// Description returns the embedder description
func (b *BaseEmbedder) Description() string {
	return b.description
}

// SupportedFormats returns the supported formats
func (b *BaseEmbedder) SupportedFormats() []string {
	return b.formats
}

// CanEmbed checks if the embedder supports the given format
func (b *BaseEmbedder) CanEmbed(format string) bool {
	for _, f := range b.formats {
		if f == format {
			return true
		}
	}
	return false
}
