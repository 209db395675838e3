package gameanalytics

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/gameanalytics/ga-go-sdk/api"
	"github.com/gameanalytics/ga-go-sdk/util"
)

// Client assembles the identity and environment data the submission layer
// needs at session start. In most cases there should be only one, shared,
// Client per process.
type Client struct {
	options  *Options
	platform api.Platform
	settings SettingsStore
	identity *IdentityProvider
	records  *RecordBuilder

	sessionMu  sync.Mutex
	sessionNum int
}

// NewClient validates options and wires the collaborators. settings may be
// nil, in which case a file store is opened at options.SettingsPath, or an
// in-memory store is used when no path is set.
func NewClient(options *Options, settings SettingsStore) (*Client, error) {
	if options == nil {
		options = &Options{}
	}
	options.CheckDefaults()
	if err := options.Validate(); err != nil {
		return nil, err
	}
	if options.Logger != nil {
		util.SetLogger(options.Logger)
	}

	platform := api.DetectPlatform(runtime.GOOS)
	if options.OverridePlatform != nil {
		platform = *options.OverridePlatform
	}
	if !platform.Known {
		util.Warnf("Unrecognised platform %q, environment records will be empty", platform.Name)
	}

	if settings == nil {
		if options.SettingsPath != "" {
			fileSettings, err := NewFileSettings(context.Background(), options.SettingsPath)
			if err != nil {
				return nil, fmt.Errorf("failed to open settings: %w", err)
			}
			settings = fileSettings
		} else {
			settings = NewMemorySettings()
		}
	}

	deviceID := options.DeviceIDSource
	if deviceID == nil && options.UseMachineID {
		deviceID = MachineIDSource{AppID: options.MachineIDAppID}
		platform.HasStableDeviceID = true
	}
	if deviceID == nil && platform.HasStableDeviceID {
		util.Warnf("%s has a stable device id but no DeviceIDSource was given, user id falls back to the hardware address", platform.Name)
	}

	env := options.EnvironmentSource
	if env == nil {
		env = newHostEnvironment(platform, options)
	}

	return &Client{
		options:  options,
		platform: platform,
		settings: settings,
		identity: NewIdentityProvider(platform, settings, options.SettingsKey, deviceID),
		records:  NewRecordBuilder(platform, env),
	}, nil
}

// Platform is the platform resolved when the client was created.
func (c *Client) Platform() api.Platform {
	return c.platform
}

// UserID returns the user id, deriving and persisting it on first use.
func (c *Client) UserID() string {
	return c.identity.UserID()
}

// SetCustomUserID overrides the user id for the rest of the process.
func (c *Client) SetCustomUserID(id string) {
	c.identity.SetCustomUserID(id)
}

func (c *Client) SessionID() string {
	return c.identity.SessionID()
}

func (c *Client) CurrentTimestamp() int64 {
	return c.identity.CurrentTimestamp()
}

// EnvironmentRecords builds the environment records under Options.RootPrefix.
func (c *Client) EnvironmentRecords() []api.Record {
	return c.records.BuildEnvironmentRecords(c.options.RootPrefix)
}

// SessionNum returns how many sessions this installation has started,
// counting the current one. The counter is bumped once per Client.
func (c *Client) SessionNum() int {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()

	if c.sessionNum > 0 {
		return c.sessionNum
	}
	previous := 0
	if c.settings.Has(c.options.SessionNumKey) {
		raw := c.settings.GetString(c.options.SessionNumKey)
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			util.Warnf("Stored session number %q is invalid, restarting count", raw)
		} else {
			previous = n
		}
	}
	c.sessionNum = previous + 1
	c.settings.SetString(c.options.SessionNumKey, strconv.Itoa(c.sessionNum))
	if err := c.settings.Save(); err != nil {
		util.Warnf("Failed to save session number: %s", err)
	}
	return c.sessionNum
}

// SessionStart gathers the payload announcing the current session.
func (c *Client) SessionStart() api.SessionStart {
	return api.SessionStart{
		UserID:     c.UserID(),
		SessionID:  c.SessionID(),
		SessionNum: c.SessionNum(),
		ClientTS:   c.CurrentTimestamp(),
		Platform:   c.platform.Name,
		Records:    c.EnvironmentRecords(),
	}
}

// Close flushes the settings store.
func (c *Client) Close() error {
	if err := c.settings.Save(); err != nil {
		return fmt.Errorf("failed to flush settings: %w", err)
	}
	return nil
}
