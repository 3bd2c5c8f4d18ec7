package db

import (
	"github.com/harborforge/sea_strike/model"
)

type player db

func (p *player) Create(gameID uint) (*model.Player, error) {
	rec := &model.Player{GameID: gameID}
	if err := p.db.Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}
