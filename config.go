package main

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kamareee/assetsrv/internal/safepath"
	"gopkg.in/yaml.v3"
)

// serverConfig is read once at startup and never changed afterwards.
type serverConfig struct {
	Host            string        `toml:"host" yaml:"host"`
	Port            int           `toml:"port" yaml:"port"`
	Root            string        `toml:"root" yaml:"root"`
	IndexFile       string        `toml:"index_file" yaml:"index_file"`
	AssetsDir       string        `toml:"assets_dir" yaml:"assets_dir"`
	LogRequests     bool          `toml:"log_requests" yaml:"log_requests"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

func defaultConfig() serverConfig {
	return serverConfig{
		Host:            "127.0.0.1",
		Port:            5000,
		Root:            ".",
		IndexFile:       "index.html",
		AssetsDir:       "assets",
		LogRequests:     true,
		ShutdownTimeout: 5 * time.Second,
	}
}

func (c serverConfig) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c serverConfig) assetsRoot() string {
	return filepath.Join(c.Root, c.AssetsDir)
}

// loadConfig layers defaults, an optional config file, ASSETSRV_* environment
// variables and command-line flags, later sources winning.
func loadConfig(args []string, getenv func(string) string) (serverConfig, error) {
	cfg := defaultConfig()

	fs := flag.NewFlagSet("assetsrv", flag.ContinueOnError)
	host := fs.String("host", cfg.Host, "address to bind to")
	port := fs.Int("port", cfg.Port, "port to listen on")
	root := fs.String("root", cfg.Root, "directory holding the index file and the assets directory")
	configPath := fs.String("config", "", "path to a .toml or .yaml config file")
	if err := fs.Parse(args); err != nil {
		return serverConfig{}, err
	}
	if fs.NArg() > 0 {
		return serverConfig{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	path := *configPath
	if path == "" {
		path = getenv("ASSETSRV_CONFIG")
	}
	if path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			return serverConfig{}, err
		}
	}

	if err := applyEnv(&cfg, getenv); err != nil {
		return serverConfig{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = *host
		case "port":
			cfg.Port = *port
		case "root":
			cfg.Root = *root
		}
	})

	if err := cfg.validate(); err != nil {
		return serverConfig{}, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *serverConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config file extension %q", ext)
	}
	return nil
}

func applyEnv(cfg *serverConfig, getenv func(string) string) error {
	if v := getenv("ASSETSRV_HOST"); v != "" {
		cfg.Host = v
	}
	if v := getenv("ASSETSRV_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ASSETSRV_PORT: %w", err)
		}
		cfg.Port = port
	}
	if v := getenv("ASSETSRV_ROOT"); v != "" {
		cfg.Root = v
	}
	if v := getenv("ASSETSRV_INDEX"); v != "" {
		cfg.IndexFile = v
	}
	if v := getenv("ASSETSRV_ASSETS_DIR"); v != "" {
		cfg.AssetsDir = v
	}
	if v := getenv("ASSETSRV_LOG_REQUESTS"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ASSETSRV_LOG_REQUESTS: %w", err)
		}
		cfg.LogRequests = on
	}
	if v := getenv("ASSETSRV_SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ASSETSRV_SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	return nil
}

func (c *serverConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.IndexFile == "" {
		return errors.New("index file name is empty")
	}
	if c.AssetsDir == "" {
		return errors.New("assets directory name is empty")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout)
	}

	root, err := filepath.Abs(c.Root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	c.Root = root

	if _, err := safepath.Resolve(c.Root, c.IndexFile); err != nil {
		return fmt.Errorf("index file %q: %w", c.IndexFile, err)
	}
	if _, err := safepath.Resolve(c.Root, c.AssetsDir); err != nil {
		return fmt.Errorf("assets directory %q: %w", c.AssetsDir, err)
	}
	return nil
}
