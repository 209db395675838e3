package gameanalytics

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/matryer/try"

	"github.com/gameanalytics/ga-go-sdk/api"
	"github.com/gameanalytics/ga-go-sdk/util"
)

const maxAttempts = 3

var fallbackSequence atomic.Uint64

// IdentityProvider hands out the user id, the session id and client
// timestamps. Both ids are computed lazily on first access and cached for the
// life of the provider. It is safe for concurrent use.
type IdentityProvider struct {
	platform    api.Platform
	settings    SettingsStore
	settingsKey string
	deviceID    DeviceIDSource
	interfaces  InterfaceSource
	now         func() time.Time
	newUUID     func() (uuid.UUID, error)

	userMu       sync.Mutex
	userID       string
	userIDLoaded bool
	customUserID bool

	sessionMu sync.Mutex
	sessionID string
}

// NewIdentityProvider builds a provider persisting the user id in settings
// under settingsKey. deviceID may be nil on platforms without a stable
// device id.
func NewIdentityProvider(platform api.Platform, settings SettingsStore, settingsKey string, deviceID DeviceIDSource) *IdentityProvider {
	if settingsKey == "" {
		settingsKey = DefaultSettingsKey
	}
	return &IdentityProvider{
		platform:    platform,
		settings:    settings,
		settingsKey: settingsKey,
		deviceID:    deviceID,
		interfaces:  net.Interfaces,
		now:         time.Now,
		newUUID:     uuid.NewRandom,
	}
}

// UserID returns the cached user id. The first call uses, in order, a custom
// id, the persisted id, or a freshly derived one which is then persisted.
// The derived id may be empty when the device exposes nothing to derive it
// from.
func (p *IdentityProvider) UserID() string {
	p.userMu.Lock()
	defer p.userMu.Unlock()

	if p.userIDLoaded {
		return p.userID
	}

	if p.settings != nil && p.settings.Has(p.settingsKey) {
		p.userID = p.settings.GetString(p.settingsKey)
		p.userIDLoaded = true
		return p.userID
	}

	p.userID = p.deriveUserID()
	p.userIDLoaded = true
	p.persist(p.userID)
	return p.userID
}

// SetCustomUserID overrides the user id for the rest of the process. The
// value is neither validated nor persisted.
func (p *IdentityProvider) SetCustomUserID(id string) {
	p.userMu.Lock()
	defer p.userMu.Unlock()

	p.userID = id
	p.userIDLoaded = true
	p.customUserID = true
}

// HasCustomUserID reports whether SetCustomUserID has been called since the last Reset.
func (p *IdentityProvider) HasCustomUserID() bool {
	p.userMu.Lock()
	defer p.userMu.Unlock()
	return p.customUserID
}

// SessionID returns a random UUID generated on first access.
func (p *IdentityProvider) SessionID() string {
	p.sessionMu.Lock()
	defer p.sessionMu.Unlock()

	if p.sessionID != "" {
		return p.sessionID
	}
	var id uuid.UUID
	err := try.Do(func(attempt int) (bool, error) {
		var err error
		id, err = p.newUUID()
		return attempt < maxAttempts, err
	})
	if err != nil {
		util.Warnf("Failed to generate a random session id: %s", err)
		id = fallbackSessionUUID(p.now())
	}
	p.sessionID = id.String()
	return p.sessionID
}

// CurrentTimestamp is the current UTC time in whole seconds since the epoch.
func (p *IdentityProvider) CurrentTimestamp() int64 {
	return p.now().UTC().Unix()
}

// Reset drops the cached ids and any custom user id. The persisted user id is
// kept.
func (p *IdentityProvider) Reset() {
	p.userMu.Lock()
	p.userID = ""
	p.userIDLoaded = false
	p.customUserID = false
	p.userMu.Unlock()

	p.sessionMu.Lock()
	p.sessionID = ""
	p.sessionMu.Unlock()
}

func (p *IdentityProvider) deriveUserID() string {
	if p.platform.HasStableDeviceID && p.deviceID != nil {
		id, err := p.deviceID.DeviceID()
		if err == nil && id != "" {
			return id
		}
		util.Warnf("Stable device id unavailable, falling back to hardware address: %v", err)
	}
	id := hardwareAddressHash(p.interfaces)
	if id == "" {
		util.Warnf("No network interface with a hardware address found, user id will be empty")
	}
	return id
}

func (p *IdentityProvider) persist(id string) {
	if p.settings == nil {
		return
	}
	p.settings.SetString(p.settingsKey, id)
	err := try.Do(func(attempt int) (bool, error) {
		return attempt < maxAttempts, p.settings.Save()
	})
	if err != nil {
		util.Warnf("Failed to save user id, it will be derived again next run: %s", err)
	}
}

// hardwareAddressHash is the lowercase hex SHA-1 of the first non-empty
// hardware address, or "" when there is none or enumeration fails.
func hardwareAddressHash(interfaces InterfaceSource) (id string) {
	if interfaces == nil {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			util.Warnf("Recovered from panic while listing network interfaces: %v", r)
			id = ""
		}
	}()

	ifaces, err := interfaces()
	if err != nil {
		util.Debugf("Failed to list network interfaces: %s", err)
		return ""
	}
	for _, iface := range ifaces {
		if len(iface.HardwareAddr) == 0 {
			continue
		}
		sum := sha1.Sum(iface.HardwareAddr)
		return hex.EncodeToString(sum[:])
	}
	return ""
}

// fallbackSessionUUID lays out a version 4 UUID from the clock, the pid and a
// process-wide sequence for when the random source is unavailable.
func fallbackSessionUUID(now time.Time) uuid.UUID {
	var id uuid.UUID
	binary.BigEndian.PutUint64(id[:8], uint64(now.UnixNano()))
	binary.BigEndian.PutUint64(id[8:], uint64(os.Getpid())<<32|fallbackSequence.Add(1)&0xffffffff)
	id[6] = (id[6] & 0x0f) | 0x40
	id[8] = (id[8] & 0x3f) | 0x80
	return id
}
