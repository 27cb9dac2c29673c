package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the bootstrap settings. Command line flags override these values.
type Config struct {
	// ServerDir is the working directory holding server.jar, eula.txt and the world.
	ServerDir string `yaml:"server_dir"`
	// Version is the Minecraft version id to install, e.g. "1.21.4".
	Version string `yaml:"version,omitempty"`
	// Latest selects the latest release from the version manifest.
	Latest bool `yaml:"latest,omitempty"`
	// ManifestURLs are tried in order to fetch the version manifest.
	ManifestURLs []string `yaml:"manifest_urls,omitempty"`
	// DownloadURL skips manifest resolution and downloads server.jar from this URL.
	DownloadURL string `yaml:"download_url,omitempty"`
	// JavaPath is the java executable; empty means JAVA_HOME, then PATH.
	JavaPath string `yaml:"java_path,omitempty"`
	// MinHeap is passed as -Xms.
	MinHeap string `yaml:"min_heap"`
	// MaxHeap is passed as -Xmx.
	MaxHeap string `yaml:"max_heap"`
	// NoGUI appends "nogui" to the server command line.
	NoGUI *bool `yaml:"nogui,omitempty"`
	// AgreeEULA accepts the license without prompting.
	AgreeEULA bool `yaml:"agree_eula,omitempty"`
	// Whitelist patches white-list/enforce-whitelist in server.properties when set.
	Whitelist *bool `yaml:"whitelist,omitempty"`
	// OnlineMode patches online-mode in server.properties when set.
	OnlineMode *bool `yaml:"online_mode,omitempty"`
	// Timeout bounds each HTTP request.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the settings file looked up in the working directory.
	DefaultConfigFilename = "mc-bootstrap.yaml"

	// DefaultServerDir is the server directory created when none is configured.
	DefaultServerDir = "server"

	// DefaultMinHeap is the default -Xms value.
	DefaultMinHeap = "2G"

	// DefaultMaxHeap is the default -Xmx value.
	DefaultMaxHeap = "4G"

	// DefaultTimeout is the default duration of a single HTTP request.
	DefaultTimeout = 5 * time.Minute

	// DefaultFilePermissions is the permission of saved settings files.
	DefaultFilePermissions = 0o600
)

// DefaultManifestURLs lists Mojang's version manifests, newest format first.
func DefaultManifestURLs() []string {
	return []string{
		"https://launchermeta.mojang.com/mc/game/version_manifest_v2.json",
		"https://launchermeta.mojang.com/mc/game/version_manifest.json",
	}
}

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errVersionConflict is returned when both a version and latest are requested.
	errVersionConflict = errors.New("use only one of version or latest")
	// errInvalidHeap is returned for heap sizes java would reject.
	errInvalidHeap = errors.New("invalid heap size")

	// heapPattern matches java memory sizes such as 512M, 2G or 1048576.
	heapPattern = regexp.MustCompile(`^[0-9]+[kKmMgG]?$`)
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := new(Config)
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults and checks the provided settings.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ServerDir == "" {
		cfg.ServerDir = DefaultServerDir
	}

	if cfg.MinHeap == "" {
		cfg.MinHeap = DefaultMinHeap
	}

	if cfg.MaxHeap == "" {
		cfg.MaxHeap = DefaultMaxHeap
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if len(cfg.ManifestURLs) == 0 {
		cfg.ManifestURLs = DefaultManifestURLs()
	}

	if cfg.NoGUI == nil {
		noGUI := true
		cfg.NoGUI = &noGUI
	}

	if cfg.Latest && cfg.Version != "" {
		return errVersionConflict
	}

	for _, heap := range []string{cfg.MinHeap, cfg.MaxHeap} {
		if !heapPattern.MatchString(heap) {
			return fmt.Errorf("%q: %w", heap, errInvalidHeap)
		}
	}

	if cfg.DownloadURL != "" {
		if _, err := url.ParseRequestURI(cfg.DownloadURL); err != nil {
			return fmt.Errorf("invalid download URL: %w", err)
		}
	}

	return nil
}
