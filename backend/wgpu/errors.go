package wgpu

import "errors"

// Backend errors.
var (
	// ErrForeignTexture is returned when a texture is not a *Texture of
	// this package.
	ErrForeignTexture = errors.New("wgpu: texture was not created or wrapped by this package")

	// ErrAlreadyMapped is returned by MapDiscard on a texture that is
	// already mapped.
	ErrAlreadyMapped = errors.New("wgpu: texture already mapped")

	// ErrNotMapped is returned by Unmap on a texture that is not mapped.
	ErrNotMapped = errors.New("wgpu: texture not mapped")

	// ErrDestroyed is returned when a destroyed texture is used.
	ErrDestroyed = errors.New("wgpu: texture destroyed")

	// ErrNoHALAccess is returned by FromProvider when the provider does not
	// expose its HAL device and queue.
	ErrNoHALAccess = errors.New("wgpu: provider does not expose HAL device")

	// ErrNoAdapter is returned when a HAL backend reports no adapters.
	ErrNoAdapter = errors.New("wgpu: no adapter available")
)
