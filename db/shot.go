package db

import (
	"github.com/harborforge/sea_strike/model"
)

type shot db

func (s *shot) Record(gameID, playerID uint, x, y int, hit bool) error {
	return s.db.Create(&model.Shot{
		GameID:   gameID,
		PlayerID: playerID,
		X:        x,
		Y:        y,
		Hit:      hit,
	}).Error
}
