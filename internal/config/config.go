// ============================================================================
// Configuration
// Responsibility: load and validate the YAML run configuration consumed by
// the CLI, the controller, and the workers.
// ============================================================================

// Package config holds the workload run configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ChuLiYu/disk-hammer/internal/checksum"
	"github.com/ChuLiYu/disk-hammer/internal/verify"
)

// Config is the complete run configuration, mapped from YAML.
type Config struct {
	Target struct {
		Path       string `yaml:"path"`
		SyncWrites bool   `yaml:"sync_writes"`
	} `yaml:"target"`

	Workload struct {
		Workers         int   `yaml:"workers"`
		BlockSize       int   `yaml:"block_size"`
		BlocksPerWorker int   `yaml:"blocks_per_worker"`
		Seed            int64 `yaml:"seed"`
	} `yaml:"workload"`

	Verify struct {
		Algorithm string `yaml:"algorithm"`
	} `yaml:"verify"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
		Port    int  `yaml:"port"`
	} `yaml:"metrics"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	var c Config
	c.Target.Path = "hammer-target.dat"
	c.Target.SyncWrites = false
	c.Workload.Workers = 4
	c.Workload.BlockSize = 4096
	c.Workload.BlocksPerWorker = 1024
	c.Workload.Seed = time.Now().UnixNano()
	c.Verify.Algorithm = "crc32"
	c.Metrics.Enabled = false
	c.Metrics.Port = 9090
	c.Logging.Level = "info"
	return c
}

// Load reads a YAML config from path on top of the defaults.
func Load(path string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate rejects configurations the I/O loop cannot honor. Catching a bad
// algorithm here is what lets the populate path treat an unknown tag as a
// hard programming error later.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Target.Path) == "" {
		return fmt.Errorf("config: target.path must not be empty")
	}
	if c.Workload.Workers < 1 {
		return fmt.Errorf("config: workload.workers must be >= 1, got %d", c.Workload.Workers)
	}
	if c.Workload.BlocksPerWorker < 1 {
		return fmt.Errorf("config: workload.blocks_per_worker must be >= 1, got %d", c.Workload.BlocksPerWorker)
	}
	if c.Workload.BlockSize < verify.HeaderSize {
		return fmt.Errorf("config: workload.block_size %d is smaller than the verify header (%d bytes)",
			c.Workload.BlockSize, verify.HeaderSize)
	}
	if _, ok := checksum.ByName(c.Verify.Algorithm); !ok {
		return fmt.Errorf("config: unknown verify.algorithm %q (choose one of %s)",
			c.Verify.Algorithm, strings.Join(checksum.Names(), ", "))
	}
	if c.Metrics.Enabled && (c.Metrics.Port < 1 || c.Metrics.Port > 65535) {
		return fmt.Errorf("config: metrics.port %d out of range", c.Metrics.Port)
	}
	return nil
}

// Algorithm returns the validated checksum tag.
func (c *Config) Algorithm() checksum.Type {
	tag, _ := checksum.ByName(c.Verify.Algorithm)
	return tag
}

// TargetSize returns the total number of bytes the run covers.
func (c *Config) TargetSize() int64 {
	return int64(c.Workload.Workers) * int64(c.Workload.BlocksPerWorker) * int64(c.Workload.BlockSize)
}
