package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

const (
	defaultWindowWeeks = 6
	defaultReportWidth = 78
)

// CalendarConfig describes a single calendar source: a local file path or
// an http(s) URL.
type CalendarConfig struct {
	// Location is the file path or URL of the ICS document.
	Location string `yaml:"location" json:"location"`
	// ID is an internal identifier used for de-dup and logging.
	ID string `yaml:"id" json:"id"`
}

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA display timezone (e.g. "Europe/London").
	// Empty means the system local zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// WindowWeeks is the look-ahead window length in weeks.
	WindowWeeks int `yaml:"window_weeks" json:"window_weeks"`

	// ReportWidth is the total output width in columns, including the
	// date label column.
	ReportWidth int `yaml:"report_width" json:"report_width"`

	// RefreshCron, if set, is a cron-style schedule (e.g. "0 7 * * *")
	// on which watch mode re-renders the report.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// Strict aborts the run on the first unreadable document or malformed
	// event field instead of skipping and continuing.
	Strict bool `yaml:"strict" json:"strict"`

	// CacheDir is where HTTP calendar bodies and conditional-request
	// metadata are cached. Empty means ~/.cache/icsreport.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// Calendars is the list of subscribed calendar sources. Command-line
	// arguments are appended to this list.
	Calendars []CalendarConfig `yaml:"calendars" json:"calendars"`
}

// DefaultPath returns the default config file location, ~/.icsreport.yaml.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".icsreport.yaml"), nil
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timezone:    "",
		WindowWeeks: defaultWindowWeeks,
		ReportWidth: defaultReportWidth,
		RefreshCron: "",
		Strict:      false,
		CacheDir:    "",
		Calendars:   []CalendarConfig{},
	}
}

// Normalize fills in missing/zero values with defaults so that partially
// filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.WindowWeeks <= 0 {
		c.WindowWeeks = defaultWindowWeeks
	}
	if c.ReportWidth <= 0 {
		c.ReportWidth = defaultReportWidth
	}
	if c.CacheDir == "" {
		if home, err := homedir.Dir(); err == nil {
			c.CacheDir = filepath.Join(home, ".cache", "icsreport")
		}
	}
	if c.Calendars == nil {
		c.Calendars = []CalendarConfig{}
	}
	// Give unnamed sources stable IDs derived from their position.
	for i := range c.Calendars {
		if c.Calendars[i].ID == "" {
			c.Calendars[i].ID = "cal" + strconv.Itoa(i+1)
		}
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written there (0600)
//     and returned.
//   - Otherwise the YAML is unmarshalled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			cfg.Normalize()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration to path atomically (temp file + rename)
// with 0600 permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".icsreport-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
