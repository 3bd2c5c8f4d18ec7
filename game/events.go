package game

// Wire payloads. Field names match what the web client already speaks.

type JoinRequest struct {
	GameCode string `json:"gameCode"`
}

type PlaceShipsRequest struct {
	GameCode string          `json:"gameCode"`
	Fleet    []ShipPlacement `json:"fleet"`
}

type ShipPlacement struct {
	ID       string `json:"id"`
	Size     int    `json:"size"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Vertical bool   `json:"isVertical"`
}

type FireShotRequest struct {
	GameCode string `json:"gameCode"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

type GameCreated struct {
	GameCode string `json:"gameCode"`
	PlayerID uint   `json:"playerId"`
}

type GameState struct {
	GameCode      string      `json:"gameCode"`
	PlayerID      uint        `json:"playerId"`
	OpponentID    uint        `json:"opponentId,omitempty"`
	Status        string      `json:"status"`
	Ships         []ShipState `json:"ships,omitempty"`
	IsPlayerTurn  bool        `json:"isPlayerTurn"`
	PlayerShots   []ShotState `json:"playerShots"`
	OpponentShots []ShotState `json:"opponentShots"`
	Winner        uint        `json:"winner,omitempty"`
}

type ShipState struct {
	ID       string `json:"id"`
	Size     int    `json:"size"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Vertical bool   `json:"isVertical"`
	Hits     int    `json:"hits"`
	Sunk     bool   `json:"sunk"`
}

type ShotState struct {
	X   int  `json:"x"`
	Y   int  `json:"y"`
	Hit bool `json:"isHit"`
}

// ShotResult goes to the shooter; the identical coordinates and
// outcome go to the opponent as opponent_shot.
type ShotResult struct {
	X   int  `json:"x"`
	Y   int  `json:"y"`
	Hit bool `json:"isHit"`
}

type ShipSunk struct {
	ShipID string `json:"shipId"`
}

type GameOver struct {
	Winner uint `json:"winner"`
}

type OpponentDisconnected struct {
	DisconnectedPlayerID uint `json:"disconnectedPlayerId"`
}

func shipStates(f Fleet) []ShipState {
	out := make([]ShipState, 0, len(f))
	for _, s := range f {
		out = append(out, ShipState{
			ID:       s.ID,
			Size:     s.Size,
			X:        s.X,
			Y:        s.Y,
			Vertical: s.Vertical,
			Hits:     s.Hits,
			Sunk:     s.Sunk(),
		})
	}
	return out
}

func shotStates(shots []Shot) []ShotState {
	out := make([]ShotState, 0, len(shots))
	for _, s := range shots {
		out = append(out, ShotState{X: s.X, Y: s.Y, Hit: s.Hit})
	}
	return out
}

func fleetFromPlacements(placements []ShipPlacement) Fleet {
	fleet := make(Fleet, 0, len(placements))
	for _, p := range placements {
		fleet = append(fleet, &Ship{
			ID:       p.ID,
			Size:     p.Size,
			X:        p.X,
			Y:        p.Y,
			Vertical: p.Vertical,
		})
	}
	return fleet
}
