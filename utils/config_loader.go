package utils

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned for configuration that parses but cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

// MaxSensorRateHz bounds the simulated sensor rates; the tick interval
// must stay well above zero.
const MaxSensorRateHz = 100_000

// minDecimals matches models.DefaultMinDecimals; dataset lines always carry
// at least six fractional digits.
const minDecimals = 6

// ─── Dataset configs ────────────────────────────────────────────────────

type DatasetConfig struct {
	BaseDir          string `yaml:"base_dir"`
	SessionPrefix    string `yaml:"session_prefix"`
	Overwrite        bool   `yaml:"overwrite"`
	MinDecimals      int    `yaml:"min_decimals"`
	BufferSizeKB     int    `yaml:"buffer_size_kb"`
	FlushEveryRecord bool   `yaml:"flush_every_record"`
	FlushIntervalMs  int    `yaml:"flush_interval_ms"` // only used without flush_every_record
	SaveImages       bool   `yaml:"save_images"`
}

// ─── Sensor-level configs ───────────────────────────────────────────────

type IMUConfig struct {
	Enabled       bool `yaml:"enabled"`
	UpdateRateHz  int  `yaml:"update_rate_hz"`
	ChannelBuffer int  `yaml:"channel_buffer"`
}

type CameraConfig struct {
	Enabled       bool    `yaml:"enabled"`
	FPS           int     `yaml:"fps"`
	ChannelBuffer int     `yaml:"channel_buffer"`
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	ExposureMs    float64 `yaml:"exposure_ms"`
}

type SensorsConfig struct {
	IMU    IMUConfig    `yaml:"imu"`
	Camera CameraConfig `yaml:"camera"`
}

type SimulationConfig struct {
	DurationSeconds int `yaml:"duration_seconds"`
}

// Config is the top-level structure for dataset.yaml.
type Config struct {
	Dataset    DatasetConfig    `yaml:"dataset"`
	Sensors    SensorsConfig    `yaml:"sensors"`
	Simulation SimulationConfig `yaml:"simulation"`
}

// DefaultConfig returns the settings used for any key dataset.yaml omits.
func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			BaseDir:          "dataset",
			SessionPrefix:    "run",
			MinDecimals:      6,
			BufferSizeKB:     64,
			FlushEveryRecord: true,
			FlushIntervalMs:  100,
			SaveImages:       true,
		},
		Sensors: SensorsConfig{
			IMU: IMUConfig{
				Enabled:       true,
				UpdateRateHz:  200,
				ChannelBuffer: 512,
			},
			Camera: CameraConfig{
				Enabled:       true,
				FPS:           30,
				ChannelBuffer: 120,
				Width:         64,
				Height:        48,
				ExposureMs:    8.3333,
			},
		},
	}
}

// Validate rejects settings the recorder cannot run with.
func (c *Config) Validate() error {
	d := c.Dataset
	if d.BaseDir == "" {
		return fmt.Errorf("%w: dataset.base_dir is required", ErrInvalidConfig)
	}
	if d.MinDecimals < minDecimals {
		return fmt.Errorf("%w: dataset.min_decimals must be >= %d, got %d", ErrInvalidConfig, minDecimals, d.MinDecimals)
	}
	if d.BufferSizeKB < 0 {
		return fmt.Errorf("%w: dataset.buffer_size_kb must be >= 0, got %d", ErrInvalidConfig, d.BufferSizeKB)
	}
	if !d.FlushEveryRecord && d.FlushIntervalMs <= 0 {
		return fmt.Errorf("%w: dataset.flush_interval_ms must be > 0 when flush_every_record is off", ErrInvalidConfig)
	}

	s := c.Sensors
	if s.IMU.Enabled && (s.IMU.UpdateRateHz <= 0 || s.IMU.UpdateRateHz > MaxSensorRateHz) {
		return fmt.Errorf("%w: sensors.imu.update_rate_hz must be in 1..%d, got %d",
			ErrInvalidConfig, MaxSensorRateHz, s.IMU.UpdateRateHz)
	}
	if s.Camera.Enabled {
		if s.Camera.FPS <= 0 || s.Camera.FPS > MaxSensorRateHz {
			return fmt.Errorf("%w: sensors.camera.fps must be in 1..%d, got %d",
				ErrInvalidConfig, MaxSensorRateHz, s.Camera.FPS)
		}
		if s.Camera.Width <= 0 || s.Camera.Height <= 0 {
			return fmt.Errorf("%w: sensors.camera resolution must be positive, got %dx%d",
				ErrInvalidConfig, s.Camera.Width, s.Camera.Height)
		}
	}
	if c.Simulation.DurationSeconds < 0 {
		return fmt.Errorf("%w: simulation.duration_seconds must be >= 0", ErrInvalidConfig)
	}
	return nil
}

// ─── Loader ─────────────────────────────────────────────────────────────

// LoadConfig reads dataset.yaml on top of DefaultConfig and validates the
// result. An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read dataset config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse dataset config: %w: %w", ErrInvalidConfig, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
