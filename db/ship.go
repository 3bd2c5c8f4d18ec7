package db

import (
	"github.com/harborforge/sea_strike/model"
	"gorm.io/gorm"
)

type ship db

// SavePlacements replaces the player's fleet atomically. Re-placing
// before the game starts overwrites the previous set.
func (s *ship) SavePlacements(playerID uint, ships []model.Ship) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("player_id = ?", playerID).Delete(&model.Ship{}).Error; err != nil {
			return err
		}
		if len(ships) == 0 {
			return nil
		}
		for i := range ships {
			ships[i].PlayerID = playerID
		}
		return tx.Create(&ships).Error
	})
}
