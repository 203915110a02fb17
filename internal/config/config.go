// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config carries every knob the server needs. Values come from the
// environment with sensible defaults; only the OpenAI key is required.
type Config struct {
	ListenAddr string

	OpenAIKey   string
	OpenAIModel string

	FaceModelPath    string
	EmotionModelPath string

	CameraURL string

	EmotionWindowSize int
	LogLevel          string
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:        str("LISTEN_ADDR", ":5000"),
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       str("OPENAI_MODEL", ""),
		FaceModelPath:     str("FACE_MODEL_PATH", "models/yolov8n-face.onnx"),
		EmotionModelPath:  str("EMOTION_MODEL_PATH", "models/emotion-recognition.onnx"),
		CameraURL:         str("CAMERA_URL", "http://127.0.0.1:8080/stream"),
		EmotionWindowSize: integer("EMOTION_WINDOW_SIZE", 20),
		LogLevel:          str("LOG_LEVEL", "info"),
	}

	if cfg.OpenAIKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY is required")
	}
	return cfg, nil
}

// str returns the environment value for key, or fallback if unset/empty.
func str(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// integer returns the environment value parsed as int, or fallback when
// unset or unparsable.
func integer(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}
