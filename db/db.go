package db

import (
	"fmt"

	"github.com/harborforge/sea_strike/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
}

func (c Config) dsn() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable", c.Host, c.User, c.Password, c.DBName, c.Port)
}

type db struct {
	db *gorm.DB
}

type Client struct {
	gdb *gorm.DB

	Game    *game
	Player  *player
	Ship    *ship
	Shot    *shot
	Message *message
}

func newClient(gdb *gorm.DB) *Client {
	base := db{db: gdb}
	return &Client{
		gdb:     gdb,
		Game:    (*game)(&base),
		Player:  (*player)(&base),
		Ship:    (*ship)(&base),
		Shot:    (*shot)(&base),
		Message: (*message)(&base),
	}
}

func NewClient(cfg Config) *Client {
	gdb, err := gorm.Open(postgres.Open(cfg.dsn()), &gorm.Config{})
	if err != nil {
		panic(err)
	}
	if err := gdb.AutoMigrate(&model.Game{}, &model.Player{}, &model.Ship{}, &model.Shot{}, &model.Message{}); err != nil {
		panic(err)
	}
	return newClient(gdb)
}

// Transaction runs fn against a Client bound to a single transaction,
// so every durable write of one state transition lands together or
// not at all.
func (c *Client) Transaction(fn func(tx *Client) error) error {
	return c.gdb.Transaction(func(tx *gorm.DB) error {
		return fn(newClient(tx))
	})
}
