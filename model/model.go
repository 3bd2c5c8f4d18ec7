package model

import (
	"gorm.io/gorm"
)

// Game is the durable mirror of one session. A row is never deleted;
// finished games stay queryable by code.
type Game struct {
	gorm.Model
	Code          string   `gorm:"uniqueIndex;size:6" json:"code"`
	Status        string   `json:"status"`
	CurrentTurnID *uint    `json:"current_turn_id"`
	WinnerID      *uint    `json:"winner_id"`
	Players       []Player `json:"players"`
	Shots         []Shot   `json:"shots"`
}

// Player keeps the durable player id stable across reconnects. The
// transport identity is never stored.
type Player struct {
	gorm.Model
	GameID uint   `gorm:"index" json:"game_id"`
	Ships  []Ship `json:"ships"`
}

type Ship struct {
	gorm.Model
	PlayerID uint   `gorm:"index" json:"player_id"`
	ShipID   string `json:"ship_id"`
	Size     int    `json:"size"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Vertical bool   `json:"vertical"`
}

// Shot rows double as the replay log: the auto id preserves creation order.
type Shot struct {
	gorm.Model
	GameID   uint `gorm:"index" json:"game_id"`
	PlayerID uint `json:"player_id"`
	X        int  `json:"x"`
	Y        int  `json:"y"`
	Hit      bool `json:"hit"`
}

type Message struct {
	gorm.Model
	GameID   uint   `gorm:"index" json:"game_id"`
	PlayerID uint   `json:"player_id"`
	Message  string `json:"message"`
}
