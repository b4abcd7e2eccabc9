package guitex

import "errors"

// Package errors.
var (
	// ErrImageSizeMismatch is returned when an image's pixel count does not
	// match its declared size.
	ErrImageSizeMismatch = errors.New("guitex: image pixel count does not match its size")

	// ErrPatchOutOfBounds is returned when a partial update does not fit
	// inside the texture it targets.
	ErrPatchOutOfBounds = errors.New("guitex: partial update exceeds texture bounds")

	// ErrTextureTooLarge is returned when a texture dimension exceeds the
	// configured device limits.
	ErrTextureTooLarge = errors.New("guitex: texture exceeds device limits")

	// ErrNilTexture is returned when a nil native texture is registered.
	ErrNilTexture = errors.New("guitex: nil texture")

	// ErrUnknownTexture is returned when an operation requires an existing
	// texture and none is registered under the id.
	ErrUnknownTexture = errors.New("guitex: unknown texture")
)
