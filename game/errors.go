package game

import (
	"errors"
	"fmt"

	"github.com/topfreegames/pitaya/v2"
)

// One sentinel per taxonomy class. Handlers wrap whatever they hit
// with pitayaError so only the initiating caller sees the failure.
var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameFull         = errors.New("game already has two players")
	ErrInvalidState     = errors.New("action not allowed in the current game state")
	ErrInvalidPlacement = errors.New("invalid ship placement")
	ErrInvalidShot      = errors.New("invalid shot")
	ErrOutOfTurn        = errors.New("not your turn")
	ErrNotInGame        = errors.New("caller is not part of this game")
	ErrCodeExhausted    = errors.New("could not generate a unique game code")
	ErrPersistence      = errors.New("persisting game state failed")
)

var errorCodes = []struct {
	sentinel error
	code     string
}{
	{ErrGameNotFound, "SEA-404"},
	{ErrGameFull, "SEA-403"},
	{ErrInvalidState, "SEA-409"},
	{ErrInvalidPlacement, "SEA-422"},
	{ErrInvalidShot, "SEA-422"},
	{ErrOutOfTurn, "SEA-409"},
	{ErrNotInGame, "SEA-409"},
	{ErrCodeExhausted, "SEA-409"},
	{ErrPersistence, "SEA-500"},
}

func pitayaError(err error) error {
	for _, e := range errorCodes {
		if errors.Is(err, e.sentinel) {
			return pitaya.Error(err, e.code)
		}
	}
	return pitaya.Error(err, "SEA-500")
}

func persistence(err error) error {
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}
