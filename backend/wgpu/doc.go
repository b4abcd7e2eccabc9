// Package wgpu implements guitex.Device on the gogpu/wgpu hardware
// abstraction layer.
//
// The same code drives every HAL backend wgpu provides (Vulkan, Metal,
// DX12, GLES and the pure-Go software rasterizer). Textures are created
// with gputypes.TextureFormatRGBA8Unorm and written through
// hal.Queue.WriteTexture.
//
// # Opening a device
//
// Standalone, on the software backend:
//
//	dev, cleanup, err := wgpu.OpenSoftware()
//	if err != nil {
//	    return err
//	}
//	defer cleanup()
//	pool := guitex.NewTexturePool(dev, guitex.WithLimits(dev.Limits()))
//
// Sharing the device of a host application that exposes its HAL objects
// through gpucontext.DeviceProvider:
//
//	dev, err := wgpu.FromProvider(app)
//
// # Native textures
//
// Textures created by the host with its own hal.Device are wrapped with
// Wrap before registration:
//
//	id, err := pool.RegisterNativeTexture(wgpu.Wrap(videoFrame, 1920, 1080))
//
// The pool never destroys a wrapped texture.
//
// # Discard mapping
//
// HAL textures cannot be mapped directly. MapDiscard hands out a zeroed
// staging slice owned by the texture and Unmap uploads all of it with a
// single WriteTexture call, so a mapping is always written in full.
//
// # Logging
//
// Importing this package routes HAL log output to the logger configured
// with guitex.SetLogger.
package wgpu
