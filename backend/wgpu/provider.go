package wgpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/guitex"
)

// FromProvider creates a Device sharing the HAL device and queue of a host
// application.
//
// The provider must either implement HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue, or return them directly from Device
// and Queue. Otherwise ErrNoHALAccess is returned.
func FromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}

	var device hal.Device
	var queue hal.Queue
	if hp, ok := provider.(halProvider); ok {
		device, _ = hp.HalDevice().(hal.Device)
		queue, _ = hp.HalQueue().(hal.Queue)
	} else {
		device, _ = provider.Device().(hal.Device)
		queue, _ = provider.Queue().(hal.Queue)
	}
	if device == nil || queue == nil {
		return nil, ErrNoHALAccess
	}

	info := provider.AdapterInfo()
	guitex.Logger().Info("wgpu: using shared device",
		"adapter", info.Name, "type", info.Type.String())
	return NewDevice(device, queue), nil
}
