package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port          int           `envconfig:"PORT" default:"8080"`
	CanvasWidth   float64       `envconfig:"EDITOR_CANVAS_WIDTH" default:"500"`
	CanvasHeight  float64       `envconfig:"EDITOR_CANVAS_HEIGHT" default:"600"`
	HistoryLimit  int           `envconfig:"EDITOR_HISTORY_LIMIT" default:"50"`
	LongPress     time.Duration `envconfig:"EDITOR_LONG_PRESS" default:"500ms"`
	ResourcesPath string        `envconfig:"EDITOR_RESOURCES_PATH"`
	StorageType   string        `envconfig:"STORAGE_TYPE" default:"memory"`
	StoragePath   string        `envconfig:"STORAGE_PATH" default:"./data/store"`
	ExportDir     string        `envconfig:"EXPORT_DIR" default:"./data/exports"`
	StaticDir     string        `envconfig:"STATIC_DIR" default:"./web"`
	AssetDir      string        `envconfig:"ASSET_DIR" default:"./data/assets"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
}

// Settings are the engine tunables a browser host passes to start.
type Settings struct {
	CanvasWidth  float64 `json:"canvasWidth"`
	CanvasHeight float64 `json:"canvasHeight"`
	HistoryLimit int     `json:"historyLimit"`
	LongPressMs  int64   `json:"longPressMs"`
}

func (c *Config) Settings() Settings {
	return Settings{
		CanvasWidth:  c.CanvasWidth,
		CanvasHeight: c.CanvasHeight,
		HistoryLimit: c.HistoryLimit,
		LongPressMs:  c.LongPress.Milliseconds(),
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
