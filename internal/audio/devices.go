package audio

import (
	"fmt"
	"sort"

	"github.com/gordonklaus/portaudio"
)

// Device describes a PortAudio device in a Go-friendly way.
type Device struct {
	Name            string
	MaxInput        int
	MaxOutput       int
	DefaultSampleHz float64
	HostAPI         string
	IsDefaultInput  bool
	IsDefaultOutput bool
}

// Role summarises what the device can do.
func (d Device) Role() string {
	switch {
	case d.MaxInput > 0 && d.MaxOutput > 0:
		return "in/out"
	case d.MaxInput > 0:
		return "in"
	case d.MaxOutput > 0:
		return "out"
	default:
		return "-"
	}
}

// Usable reports whether the device can back a live source.
func (d Device) Usable() bool { return d.MaxInput > 0 }

// ListDevices returns all available devices across host APIs sorted by host and name.
func ListDevices() ([]Device, error) {
	if err := Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	hosts, err := portaudio.HostApis()
	if err != nil {
		return nil, fmt.Errorf("host apis: %w", err)
	}

	defaultInput, _ := defaultInputIndexes()

	devices := make([]Device, 0, len(hosts)*4)
	for _, host := range hosts {
		for _, d := range host.Devices {
			devices = append(devices, Device{
				Name:            d.Name,
				MaxInput:        d.MaxInputChannels,
				MaxOutput:       d.MaxOutputChannels,
				DefaultSampleHz: d.DefaultSampleRate,
				HostAPI:         host.Name,
				IsDefaultInput:  d.Index == defaultInput,
				IsDefaultOutput: host.DefaultOutputDevice != nil && d.Index == host.DefaultOutputDevice.Index,
			})
		}
	}
	sortDevices(devices)
	return devices, nil
}

func sortDevices(devices []Device) {
	sort.Slice(devices, func(i, j int) bool {
		if devices[i].HostAPI == devices[j].HostAPI {
			return devices[i].Name < devices[j].Name
		}
		return devices[i].HostAPI < devices[j].HostAPI
	})
}
