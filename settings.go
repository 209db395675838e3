package gameanalytics

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"gopkg.in/yaml.v3"

	"github.com/gameanalytics/ga-go-sdk/util"
)

// SettingsStore is the host's persistent key-value store. Only string values
// are used.
type SettingsStore interface {
	Has(key string) bool
	GetString(key string) string
	SetString(key, value string)
	// Save flushes pending writes.
	Save() error
}

// MemorySettings is a SettingsStore that lives only as long as the process.
type MemorySettings struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemorySettings returns an empty store.
func NewMemorySettings() *MemorySettings {
	return &MemorySettings{values: make(map[string]string)}
}

func (m *MemorySettings) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.values[key]
	return ok
}

func (m *MemorySettings) GetString(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key]
}

func (m *MemorySettings) SetString(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *MemorySettings) Save() error { return nil }

// FileSettings keeps settings in a YAML document addressed by a local path or
// any URL the afs service understands. The document is read once on open and
// rewritten on Save.
type FileSettings struct {
	MemorySettings
	url string
	fs  afs.Service
	ctx context.Context
}

// NewFileSettings opens the document at url. A missing or unreadable document
// starts an empty store; it is created on the first Save.
func NewFileSettings(ctx context.Context, url string) (*FileSettings, error) {
	if url == "" {
		return nil, fmt.Errorf("settings path cannot be empty")
	}
	s := &FileSettings{
		MemorySettings: MemorySettings{values: make(map[string]string)},
		url:            url,
		fs:             afs.New(),
		ctx:            ctx,
	}
	s.load()
	return s, nil
}

func (s *FileSettings) load() {
	exists, err := s.fs.Exists(s.ctx, s.url)
	if err != nil {
		util.Warnf("Failed to check settings file %s, starting empty: %s", s.url, err)
		return
	}
	if !exists {
		return
	}
	data, err := s.fs.DownloadWithURL(s.ctx, s.url)
	if err != nil {
		util.Warnf("Failed to read settings file %s, starting empty: %s", s.url, err)
		return
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		util.Warnf("Settings file %s is corrupt, starting empty: %s", s.url, err)
		return
	}
	for k, v := range values {
		s.values[k] = v
	}
}

func (s *FileSettings) Save() error {
	s.mu.RLock()
	data, err := yaml.Marshal(s.values)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := s.fs.Upload(s.ctx, s.url, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write settings file %s: %w", s.url, err)
	}
	return nil
}
