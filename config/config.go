package config

import (
	"encoding/json"
	"os"

	"github.com/harborforge/sea_strike/db"
)

const (
	ChatRoomName = "chat"
	GameRoomName = "game"
)

type Config struct {
	Database       db.Config `json:"database"`
	WSAddr         string    `json:"ws_addr"`
	FrontendType   string    `json:"frontend_type"`
	MetricsEnabled bool      `json:"metrics_enabled"`
	ChatHistory    int       `json:"chat_history"`
}

func Read(configPath string) *Config {
	b, err := os.ReadFile(configPath)
	if err != nil {
		panic(err)
	}
	var config Config
	if err := json.Unmarshal(b, &config); err != nil {
		panic(err)
	}
	if config.WSAddr == "" {
		config.WSAddr = ":3250"
	}
	if config.ChatHistory <= 0 {
		config.ChatHistory = 100
	}
	return &config
}
