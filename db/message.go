package db

import (
	"github.com/harborforge/sea_strike/model"
	"gorm.io/gorm/clause"
)

type message db

func (m *message) Create(msg *model.Message) error {
	return m.db.Create(msg).Error
}

func (m *message) ListLatest(gameID uint, limit int) ([]model.Message, error) {
	var messages []model.Message
	err := m.db.Where("game_id = ?", gameID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Limit(limit).
		Find(&messages).Error
	return messages, err
}
