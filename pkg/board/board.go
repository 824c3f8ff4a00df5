// Package board provides built-in line and shutdown profiles for known UPS
// boards. A profile names the GPIO line the board signals AC loss on and
// the vendor helper that powers the board off, so a deployment only has to
// say which board it runs on.
package board

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed profiles/*.yaml
var profileFS embed.FS

// Default is the profile assumed when none is configured.
const Default = "x728"

// Profile describes one supported board.
type Profile struct {
	Name               string         `yaml:"name"`
	Description        string         `yaml:"description"`
	Chip               string         `yaml:"chip"`
	Line               int            `yaml:"line"`
	ActiveLow          bool           `yaml:"active_low"`
	DebounceSeconds    int            `yaml:"debounce_seconds"`
	WaitTimeoutSeconds int            `yaml:"wait_timeout_seconds"`
	Shutdown           ShutdownHelper `yaml:"shutdown"`
}

// ShutdownHelper names the vendor helper that powers the board off.
type ShutdownHelper struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// Debounce returns the profile's confirmation delay.
func (p *Profile) Debounce() time.Duration {
	return time.Duration(p.DebounceSeconds) * time.Second
}

// WaitTimeout returns the profile's event wait timeout.
func (p *Profile) WaitTimeout() time.Duration {
	return time.Duration(p.WaitTimeoutSeconds) * time.Second
}

var (
	cacheMu sync.RWMutex
	cache   = make(map[string]*Profile)
)

// Load loads a board profile by name (e.g. "x728").
func Load(name string) (*Profile, error) {
	cacheMu.RLock()
	if p, ok := cache[name]; ok {
		cacheMu.RUnlock()
		return p, nil
	}
	cacheMu.RUnlock()

	data, err := profileFS.ReadFile("profiles/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("board profile %q not found: %w", name, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing board profile %q: %w", name, err)
	}

	cacheMu.Lock()
	cache[name] = &p
	cacheMu.Unlock()

	return &p, nil
}

// LoadDefault loads the default board profile.
func LoadDefault() (*Profile, error) {
	return Load(Default)
}

// List returns the names of all embedded board profiles, sorted.
func List() ([]string, error) {
	entries, err := profileFS.ReadDir("profiles")
	if err != nil {
		return nil, fmt.Errorf("reading profiles directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") {
			names = append(names, strings.TrimSuffix(name, ".yaml"))
		}
	}
	sort.Strings(names)
	return names, nil
}
