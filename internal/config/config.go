package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Tuning holds the supervisor's adjustable performance parameters. Zero
// values are invalid; use Default to get the constants before
// applying overrides.
type Tuning struct {
	CacheCapacity int `yaml:"cache_capacity"`
	QueueSize     int `yaml:"queue_size"`
	NumThreads    int `yaml:"num_threads"`
}

// Default returns the fixed constants (CAPACITY=512, SBUFSIZE=16,
// NTHREADS=4) as the starting point for overrides.
func Default() Tuning {
	return Tuning{
		CacheCapacity: 512,
		QueueSize:     16,
		NumThreads:    4,
	}
}

// LoadFile reads a YAML tuning file at path and overlays its fields onto
// t. A missing or empty field in the file leaves the corresponding field
// in t unchanged, so a file only needs to mention what it overrides.
func LoadFile(t Tuning, path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("config: read %s: %w", path, err)
	}

	var overlay struct {
		CacheCapacity *int `yaml:"cache_capacity"`
		QueueSize     *int `yaml:"queue_size"`
		NumThreads    *int `yaml:"num_threads"`
	}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return t, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if overlay.CacheCapacity != nil {
		t.CacheCapacity = *overlay.CacheCapacity
	}
	if overlay.QueueSize != nil {
		t.QueueSize = *overlay.QueueSize
	}
	if overlay.NumThreads != nil {
		t.NumThreads = *overlay.NumThreads
	}
	return t, nil
}

// LoadEnv overlays PEDSORT_CACHE_CAPACITY, PEDSORT_QUEUE_SIZE, and
// PEDSORT_NUM_THREADS onto t when set, reading them through getenv.
func LoadEnv(t Tuning) (Tuning, error) {
	if v, err := getenvInt("PEDSORT_CACHE_CAPACITY"); err != nil {
		return t, err
	} else if v != 0 {
		t.CacheCapacity = v
	}
	if v, err := getenvInt("PEDSORT_QUEUE_SIZE"); err != nil {
		return t, err
	} else if v != 0 {
		t.QueueSize = v
	}
	if v, err := getenvInt("PEDSORT_NUM_THREADS"); err != nil {
		return t, err
	} else if v != 0 {
		t.NumThreads = v
	}
	return t, nil
}

// Validate checks that every field is positive. No upper bound is
// checked.
func (t Tuning) Validate() error {
	if t.CacheCapacity <= 0 {
		return fmt.Errorf("config: cache_capacity must be positive, got %d", t.CacheCapacity)
	}
	if t.QueueSize <= 0 {
		return fmt.Errorf("config: queue_size must be positive, got %d", t.QueueSize)
	}
	if t.NumThreads <= 0 {
		return fmt.Errorf("config: num_threads must be positive, got %d", t.NumThreads)
	}
	return nil
}

// getenv retrieves an environment variable with a default fallback value.
func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string) (int, error) {
	v := getenv(k, "")
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer: %w", k, v, err)
	}
	return n, nil
}
