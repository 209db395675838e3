package api

import "strings"

const (
	PlatformName_IOS     = "iOS"
	PlatformName_Android = "Android"
	PlatformName_Windows = "Windows"
	PlatformName_MacOS   = "macOS"
	PlatformName_Linux   = "Linux"
)

// Platform describes what the host platform allows the SDK to do. It is
// resolved once at startup and passed to the identity and record builders.
type Platform struct {
	Name string `json:"name"`
	// HasStableDeviceID is true when the OS hands out a device identifier that
	// survives reinstalls, in which case it is used as the user id directly.
	HasStableDeviceID bool `json:"hasStableDeviceId"`
	// RestrictedTelemetry platforms forbid sending hardware/software
	// fingerprinting details to third parties. Only the platform name is
	// reported on them.
	RestrictedTelemetry bool `json:"restrictedTelemetry"`
	Known               bool `json:"known"`
}

var (
	PlatformIOS     = Platform{Name: PlatformName_IOS, HasStableDeviceID: true, RestrictedTelemetry: true, Known: true}
	PlatformAndroid = Platform{Name: PlatformName_Android, HasStableDeviceID: true, Known: true}
	PlatformWindows = Platform{Name: PlatformName_Windows, Known: true}
	PlatformMacOS   = Platform{Name: PlatformName_MacOS, Known: true}
	PlatformLinux   = Platform{Name: PlatformName_Linux, Known: true}
)

// DetectPlatform maps a GOOS value onto a Platform. Unrecognised values
// yield an unknown platform named after the GOOS value.
func DetectPlatform(goos string) Platform {
	switch strings.ToLower(goos) {
	case "ios":
		return PlatformIOS
	case "android":
		return PlatformAndroid
	case "windows":
		return PlatformWindows
	case "darwin":
		return PlatformMacOS
	case "linux":
		return PlatformLinux
	default:
		return Platform{Name: goos}
	}
}
