package gameanalytics

import (
	"net"
	"runtime"
	"strings"

	"github.com/denisbrodbeck/machineid"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"

	"github.com/gameanalytics/ga-go-sdk/api"
	"github.com/gameanalytics/ga-go-sdk/util"
)

// EnvironmentSource supplies the descriptor values reported in environment
// records. Values are read on every call.
type EnvironmentSource interface {
	WrapperVersion() string
	OperatingSystem() string
	ProcessorType() string
	GraphicsDeviceName() string
	GraphicsDeviceVersion() string
}

// DeviceIDSource returns an identifier the OS keeps stable for this device.
type DeviceIDSource interface {
	DeviceID() (string, error)
}

// InterfaceSource lists the local network interfaces.
type InterfaceSource func() ([]net.Interface, error)

// probes are swapped out in tests
var (
	platformInformation = host.PlatformInformation
	cpuInfo             = cpu.Info
	protectedMachineID  = machineid.ProtectedID
)

type hostEnvironment struct {
	platform       api.Platform
	wrapperVersion string
	gfxName        string
	gfxVersion     string
}

func newHostEnvironment(platform api.Platform, options *Options) *hostEnvironment {
	return &hostEnvironment{
		platform:       platform,
		wrapperVersion: options.WrapperVersion,
		gfxName:        options.GraphicsDeviceName,
		gfxVersion:     options.GraphicsDeviceVersion,
	}
}

func (h *hostEnvironment) WrapperVersion() string {
	return h.wrapperVersion
}

// OperatingSystem reports "<platform> <distribution> <version>", e.g.
// "Linux ubuntu 22.04". Probe failures fall back to the platform name.
func (h *hostEnvironment) OperatingSystem() string {
	platform, _, version, err := platformInformation()
	if err != nil {
		util.Debugf("Failed to read platform information: %s", err)
		return h.platform.Name
	}
	parts := []string{h.platform.Name}
	for _, p := range []string{platform, version} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func (h *hostEnvironment) ProcessorType() string {
	infos, err := cpuInfo()
	if err != nil || len(infos) == 0 || strings.TrimSpace(infos[0].ModelName) == "" {
		if err != nil {
			util.Debugf("Failed to read cpu information: %s", err)
		}
		return runtime.GOARCH
	}
	return strings.TrimSpace(infos[0].ModelName)
}

func (h *hostEnvironment) GraphicsDeviceName() string {
	return h.gfxName
}

func (h *hostEnvironment) GraphicsDeviceVersion() string {
	return h.gfxVersion
}

// MachineIDSource derives a stable id from the OS machine id, hashed with the
// application id so it cannot be correlated across applications.
type MachineIDSource struct {
	AppID string
}

func (m MachineIDSource) DeviceID() (string, error) {
	return protectedMachineID(m.AppID)
}
