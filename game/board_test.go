package game

import (
	"testing"

	"github.com/bmizerany/assert"
)

func validFleet() Fleet {
	return Fleet{
		{ID: "carrier", Size: 5, X: 0, Y: 0},
		{ID: "battleship", Size: 4, X: 0, Y: 2},
		{ID: "cruiser", Size: 3, X: 0, Y: 4},
		{ID: "submarine", Size: 3, X: 0, Y: 6},
		{ID: "destroyer", Size: 2, X: 0, Y: 8},
	}
}

func TestValidateFleet(t *testing.T) {
	assert.Equal(t, true, validFleet().Validate())
	assert.Equal(t, true, Fleet{}.Validate())
}

func TestValidateFleetOutOfBounds(t *testing.T) {
	f := validFleet()
	f[0].X = 6 // carrier runs off the right edge
	assert.Equal(t, false, f.Validate())

	f = validFleet()
	f[4].Y = -1
	assert.Equal(t, false, f.Validate())

	f = validFleet()
	f[2].Vertical = true
	f[2].Y = 8
	assert.Equal(t, false, f.Validate())
}

func TestValidateFleetOverlap(t *testing.T) {
	f := validFleet()
	f[1].Y = 0 // battleship on top of the carrier
	assert.Equal(t, false, f.Validate())

	f = validFleet()
	f[3].Vertical = true
	f[3].X = 2
	f[3].Y = 3 // crosses the cruiser at (2,4)
	assert.Equal(t, false, f.Validate())
}

func TestValidateFleetEmptyShip(t *testing.T) {
	f := Fleet{{ID: "ghost", Size: 0, X: 0, Y: 0}}
	assert.Equal(t, false, f.Validate())
}

func TestFleetComplete(t *testing.T) {
	assert.Equal(t, true, validFleet().Complete())
	assert.Equal(t, false, Fleet{}.Complete())
	assert.Equal(t, false, validFleet()[:4].Complete())

	// right count, wrong size mix
	f := validFleet()
	f[4] = &Ship{ID: "destroyer", Size: 3, X: 0, Y: 8}
	assert.Equal(t, false, f.Complete())

	// duplicated carrier in place of the battleship
	f = validFleet()
	f[1] = &Ship{ID: "battleship", Size: 5, X: 5, Y: 2}
	assert.Equal(t, false, f.Complete())
}

func TestValidateShot(t *testing.T) {
	history := []Shot{{X: 3, Y: 4, Hit: true}}

	assert.Equal(t, true, ValidateShot(0, 0, history))
	assert.Equal(t, true, ValidateShot(9, 9, history))
	assert.Equal(t, true, ValidateShot(3, 5, history))

	assert.Equal(t, false, ValidateShot(3, 4, history)) // repeat
	assert.Equal(t, false, ValidateShot(-1, 0, history))
	assert.Equal(t, false, ValidateShot(0, -1, history))
	assert.Equal(t, false, ValidateShot(10, 0, history))
	assert.Equal(t, false, ValidateShot(0, 10, history))
}

func TestResolveShotMiss(t *testing.T) {
	f := validFleet()
	out := f.ResolveShot(9, 9)
	assert.Equal(t, false, out.Hit)
	assert.Equal(t, false, out.Sunk)
	assert.Equal(t, false, out.Win)
	for _, ship := range f {
		assert.Equal(t, 0, ship.Hits)
	}
}

func TestResolveShotSinkOnFinalCellOnly(t *testing.T) {
	f := validFleet()
	// destroyer at (0,8)-(1,8)
	out := f.ResolveShot(0, 8)
	assert.Equal(t, true, out.Hit)
	assert.Equal(t, "destroyer", out.ShipID)
	assert.Equal(t, false, out.Sunk)

	out = f.ResolveShot(1, 8)
	assert.Equal(t, true, out.Hit)
	assert.Equal(t, true, out.Sunk)
	assert.Equal(t, false, out.Win)
}

func TestResolveShotWinOnLastShip(t *testing.T) {
	f := validFleet()
	var last ShotOutcome
	for _, ship := range validFleet() {
		for _, c := range ship.Cells() {
			last = f.ResolveShot(c.X, c.Y)
		}
	}
	assert.Equal(t, true, last.Hit)
	assert.Equal(t, true, last.Sunk)
	assert.Equal(t, true, last.Win)
	for _, ship := range f {
		assert.Equal(t, true, ship.Sunk())
	}
}

func TestPreviewShotMatchesResolve(t *testing.T) {
	for _, ship := range validFleet() {
		for _, c := range ship.Cells() {
			f1, f2 := validFleet(), validFleet()
			// wound the target so previews see partial damage too
			f1.ResolveShot(ship.X, ship.Y)
			f2.ResolveShot(ship.X, ship.Y)

			preview := f1.PreviewShot(c.X, c.Y)
			resolved := f2.ResolveShot(c.X, c.Y)
			if c.X == ship.X && c.Y == ship.Y {
				// already hit in the warm-up; a live path never
				// resolves the same cell twice
				continue
			}
			assert.Equal(t, resolved, preview)
		}
	}
}
