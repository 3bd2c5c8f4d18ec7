package game

import (
	"github.com/harborforge/sea_strike/model"
)

// RebuildSession reconstructs the in-memory session for a durable game
// record. Each recorded shot is replayed through the same ResolveShot
// used on the live path, so the rebuilt per-ship hit counts are the
// ones an uninterrupted process would hold. All players come back
// without a transport binding; ResolveJoin hands the slots out again
// as connections arrive.
func RebuildSession(rec *model.Game) *Session {
	s := NewSession(rec.Code, rec.ID)
	if st, ok := StatusTagMapReverse[rec.Status]; ok {
		s.Status = st
	}
	for i := range rec.Players {
		dp := &rec.Players[i]
		p := &SessionPlayer{ID: dp.ID}
		if len(dp.Ships) > 0 {
			fleet := make(Fleet, 0, len(dp.Ships))
			for _, ds := range dp.Ships {
				fleet = append(fleet, &Ship{
					ID:       ds.ShipID,
					Size:     ds.Size,
					X:        ds.X,
					Y:        ds.Y,
					Vertical: ds.Vertical,
				})
			}
			p.Fleet = fleet
		}
		s.Players = append(s.Players, p)
	}
	for _, ds := range rec.Shots {
		shooter := s.Player(ds.PlayerID)
		if shooter == nil {
			continue
		}
		// a write retried after a partial failure can leave the same
		// shot recorded twice; replay only what a live session would
		// have accepted
		if !ValidateShot(ds.X, ds.Y, shooter.Shots) {
			continue
		}
		if opp := s.Opponent(ds.PlayerID); opp != nil && opp.Fleet != nil {
			opp.Fleet.ResolveShot(ds.X, ds.Y)
		}
		shooter.Shots = append(shooter.Shots, Shot{X: ds.X, Y: ds.Y, Hit: ds.Hit})
	}
	if rec.CurrentTurnID != nil {
		s.CurrentTurnID = *rec.CurrentTurnID
	}
	if rec.WinnerID != nil {
		s.WinnerID = *rec.WinnerID
	}
	return s
}
