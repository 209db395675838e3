package gameanalytics

import (
	"errors"
	"runtime"
	"testing"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/stretchr/testify/require"

	"github.com/gameanalytics/ga-go-sdk/api"
)

func stubProbes(t *testing.T) {
	t.Helper()
	origPlatform, origCPU, origMachineID := platformInformation, cpuInfo, protectedMachineID
	t.Cleanup(func() {
		platformInformation, cpuInfo, protectedMachineID = origPlatform, origCPU, origMachineID
	})
}

func TestHostEnvironment(t *testing.T) {
	stubProbes(t)
	platformInformation = func() (string, string, string, error) {
		return "ubuntu", "debian", "22.04", nil
	}
	cpuInfo = func() ([]cpu.InfoStat, error) {
		return []cpu.InfoStat{{ModelName: " AMD Ryzen 7 5800X 8-Core Processor "}}, nil
	}

	env := newHostEnvironment(api.PlatformLinux, &Options{
		WrapperVersion:        "unity 7.8.0",
		GraphicsDeviceName:    "Radeon RX 6800",
		GraphicsDeviceVersion: "Vulkan 1.3",
	})
	require.Equal(t, "unity 7.8.0", env.WrapperVersion())
	require.Equal(t, "Linux ubuntu 22.04", env.OperatingSystem())
	require.Equal(t, "AMD Ryzen 7 5800X 8-Core Processor", env.ProcessorType())
	require.Equal(t, "Radeon RX 6800", env.GraphicsDeviceName())
	require.Equal(t, "Vulkan 1.3", env.GraphicsDeviceVersion())
}

func TestHostEnvironment_ProbeFailures(t *testing.T) {
	stubProbes(t)
	platformInformation = func() (string, string, string, error) {
		return "", "", "", errors.New("not implemented yet")
	}
	cpuInfo = func() ([]cpu.InfoStat, error) {
		return nil, errors.New("not implemented yet")
	}

	env := newHostEnvironment(api.PlatformWindows, &Options{})
	require.Equal(t, api.PlatformName_Windows, env.OperatingSystem())
	require.Equal(t, runtime.GOARCH, env.ProcessorType())
	require.Equal(t, "", env.GraphicsDeviceName())
}

func TestHostEnvironment_EmptyCPUList(t *testing.T) {
	stubProbes(t)
	cpuInfo = func() ([]cpu.InfoStat, error) { return []cpu.InfoStat{}, nil }
	require.Equal(t, runtime.GOARCH, newHostEnvironment(api.PlatformLinux, &Options{}).ProcessorType())
}

func TestMachineIDSource(t *testing.T) {
	stubProbes(t)
	var gotAppID string
	protectedMachineID = func(appID string) (string, error) {
		gotAppID = appID
		return "3f1a9c0e", nil
	}

	id, err := MachineIDSource{AppID: "my-game"}.DeviceID()
	require.NoError(t, err)
	require.Equal(t, "3f1a9c0e", id)
	require.Equal(t, "my-game", gotAppID)
}
