package db

import (
	"github.com/harborforge/sea_strike/model"
	"gorm.io/gorm"
)

type game db

func (g *game) Create(code, status string) (*model.Game, error) {
	rec := &model.Game{Code: code, Status: status}
	if err := g.db.Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// FindByCode loads the full durable record: players with their ship
// placements and the shot log in creation order.
func (g *game) FindByCode(code string) (*model.Game, error) {
	var rec model.Game
	err := g.db.
		Preload("Players", func(tx *gorm.DB) *gorm.DB { return tx.Order("players.id") }).
		Preload("Players.Ships").
		Preload("Shots", func(tx *gorm.DB) *gorm.DB { return tx.Order("shots.id") }).
		First(&rec, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (g *game) IDByCode(code string) (uint, error) {
	var rec model.Game
	if err := g.db.Select("id").First(&rec, "code = ?", code).Error; err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (g *game) UpdateStatus(id uint, status string) error {
	return g.db.Model(&model.Game{}).Where("id = ?", id).Update("status", status).Error
}

func (g *game) SetTurn(id uint, playerID *uint) error {
	return g.db.Model(&model.Game{}).Where("id = ?", id).Update("current_turn_id", playerID).Error
}

// Finish records the terminal state in one statement: status, winner
// and the cleared turn land together or not at all.
func (g *game) Finish(id uint, winnerID uint, status string) error {
	return g.db.Model(&model.Game{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":          status,
		"winner_id":       winnerID,
		"current_turn_id": nil,
	}).Error
}
