package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Settings is the on-disk configuration. Every field has a usable default so
// the server runs with no config file at all; environment variables override
// whatever the file provides.
type Settings struct {
	ListenAddr string `json:"listenAddr"`

	Upstream struct {
		BaseURL        string `json:"baseUrl"`
		TimeoutSeconds int    `json:"timeoutSeconds"`
	} `json:"upstream"`

	Images struct {
		Origin        string `json:"origin"`
		UploadPath    string `json:"uploadPath"`
		DefaultBanner string `json:"defaultBanner"`
	} `json:"images"`

	Cache struct {
		Dir        string `json:"dir"`
		TTLMinutes int    `json:"ttlMinutes"`
	} `json:"cache"`

	RateLimit struct {
		PerSecond float64 `json:"perSecond"`
		Burst     int     `json:"burst"`
	} `json:"rateLimit"`

	Log struct {
		File       string `json:"file"` // empty = stderr only
		MaxSizeMB  int    `json:"maxSizeMb"`
		MaxBackups int    `json:"maxBackups"`
	} `json:"log"`
}

func defaults() Settings {
	var s Settings
	s.ListenAddr = ":8484"
	s.Upstream.BaseURL = "https://phimapi.com"
	s.Upstream.TimeoutSeconds = 15
	s.Cache.Dir = "cache/catalog"
	s.Cache.TTLMinutes = 30
	s.RateLimit.PerSecond = 10
	s.RateLimit.Burst = 20
	s.Log.MaxSizeMB = 20
	s.Log.MaxBackups = 3
	return s
}

// Manager loads settings once and hands out copies.
type Manager struct {
	mu       sync.RWMutex
	settings Settings
}

// NewManager reads the config at path (missing file is fine) and applies
// environment overrides.
func NewManager(path string) (*Manager, error) {
	s := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, &s); err != nil {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// defaults apply
		default:
			return nil, err
		}
	}
	applyEnv(&s)
	return &Manager{settings: s}, nil
}

func applyEnv(s *Settings) {
	if v := os.Getenv("PHIMSTREAM_ADDR"); v != "" {
		s.ListenAddr = v
	}
	if v := os.Getenv("PHIMSTREAM_UPSTREAM_URL"); v != "" {
		s.Upstream.BaseURL = v
	}
	if v := os.Getenv("PHIMSTREAM_CACHE_DIR"); v != "" {
		s.Cache.Dir = v
	}
	if v := os.Getenv("PHIMSTREAM_CACHE_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.Cache.TTLMinutes = n
		}
	}
	if v := os.Getenv("PHIMSTREAM_LOG_FILE"); v != "" {
		s.Log.File = v
	}
}

// Get returns a copy of the current settings.
func (m *Manager) Get() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// UpstreamTimeout returns the per-call upstream timeout as a duration.
func (m *Manager) UpstreamTimeout() time.Duration {
	return time.Duration(m.Get().Upstream.TimeoutSeconds) * time.Second
}

// CacheTTL returns the cache TTL as a duration.
func (m *Manager) CacheTTL() time.Duration {
	return time.Duration(m.Get().Cache.TTLMinutes) * time.Minute
}
