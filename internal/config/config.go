// Package config reads agent settings from the environment. Call
// godotenv.Load before Load to pick up a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Name          string
	Rate          int
	Volume        float64
	Language      string
	ListenTimeout time.Duration
	WhisperModel  string
	OpenAIKey     string
	Proxy         string
}

func Default() Config {
	return Config{
		Name:          "Susan",
		Rate:          150,
		Volume:        1.0,
		Language:      "en",
		ListenTimeout: 5 * time.Second,
		WhisperModel:  "models/ggml-base.en.bin",
	}
}

func Load() (Config, error) {
	cfg := Default()

	if v := os.Getenv("SUSAN_NAME"); v != "" {
		cfg.Name = v
	}
	if v := os.Getenv("SUSAN_LANGUAGE"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("WHISPER_MODEL"); v != "" {
		cfg.WhisperModel = v
	}
	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Proxy = os.Getenv("SUSAN_PROXY")

	if v := os.Getenv("SUSAN_RATE"); v != "" {
		rate, err := strconv.Atoi(v)
		if err != nil || rate <= 0 {
			return Config{}, fmt.Errorf("SUSAN_RATE: invalid value %q", v)
		}
		cfg.Rate = rate
	}

	if v := os.Getenv("SUSAN_VOLUME"); v != "" {
		vol, err := strconv.ParseFloat(v, 64)
		if err != nil || vol < 0 || vol > 1 {
			return Config{}, fmt.Errorf("SUSAN_VOLUME: invalid value %q (want 0..1)", v)
		}
		cfg.Volume = vol
	}

	if v := os.Getenv("SUSAN_LISTEN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("SUSAN_LISTEN_TIMEOUT: invalid value %q", v)
		}
		cfg.ListenTimeout = d
	}

	return cfg, nil
}
