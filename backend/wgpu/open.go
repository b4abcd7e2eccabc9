package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/software"

	"github.com/gogpu/guitex"
)

// Open creates an instance of backend, opens its first adapter and
// returns a Device on it together with a function releasing everything
// Open created. The device uses the adapter's limits.
func Open(backend hal.Backend) (*Device, func(), error) {
	instance, err := backend.CreateInstance(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("wgpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, nil, ErrNoAdapter
	}
	exposed := adapters[0]

	limits := exposed.Capabilities.Limits
	if limits.MaxTextureDimension2D == 0 {
		limits = gputypes.DefaultLimits()
	}
	opened, err := exposed.Adapter.Open(0, limits)
	if err != nil {
		instance.Destroy()
		return nil, nil, fmt.Errorf("wgpu: open adapter %q: %w", exposed.Info.Name, err)
	}

	dev := NewDevice(opened.Device, opened.Queue)
	dev.limits = limits

	guitex.Logger().Info("wgpu: device opened",
		"adapter", exposed.Info.Name,
		"type", exposed.Info.DeviceType,
		"maxTexture2D", limits.MaxTextureDimension2D)

	cleanup := func() {
		opened.Device.Destroy()
		instance.Destroy()
	}
	return dev, cleanup, nil
}

// OpenSoftware opens a Device on the pure-Go software backend. It needs
// no GPU and no display, and software textures can be read back with
// Readback.
func OpenSoftware() (*Device, func(), error) {
	return Open(software.API{})
}

// Readback returns the current content of tex as stored on the device.
// It returns false unless tex lives on the software backend.
func Readback(tex *Texture) ([]guitex.Color32, bool) {
	if tex == nil {
		return nil, false
	}
	st, ok := tex.raw.(*software.Texture)
	if !ok {
		return nil, false
	}
	data := st.GetData()
	n := tex.width * tex.height
	if len(data) < n*4 {
		return nil, false
	}
	px := make([]guitex.Color32, n)
	copy(pixelBytes(px), data)
	return px, true
}
