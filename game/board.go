package game

// The board is a fixed 10x10 grid. Ships occupy a straight run of
// cells from their origin, rightwards or downwards.
const (
	GridSize = 10
)

type Cell struct {
	X int
	Y int
}

type Ship struct {
	ID       string
	Size     int
	X        int
	Y        int
	Vertical bool
	Hits     int
}

func (s *Ship) Cells() []Cell {
	if s.Size < 1 {
		return nil
	}
	cells := make([]Cell, 0, s.Size)
	for i := 0; i < s.Size; i++ {
		if s.Vertical {
			cells = append(cells, Cell{X: s.X, Y: s.Y + i})
		} else {
			cells = append(cells, Cell{X: s.X + i, Y: s.Y})
		}
	}
	return cells
}

func (s *Ship) Occupies(x, y int) bool {
	if s.Vertical {
		return x == s.X && y >= s.Y && y < s.Y+s.Size
	}
	return y == s.Y && x >= s.X && x < s.X+s.Size
}

func (s *Ship) Sunk() bool {
	return s.Hits >= s.Size
}

// Fleet is the complete set of one player's placed ships.
type Fleet []*Ship

// fleetSizes is the fixed complement every placed fleet must carry:
// one ship each of sizes 5, 4 and 2, and two of size 3.
var fleetSizes = []int{5, 4, 3, 3, 2}

// Complete reports whether the fleet carries exactly the fixed
// complement of ship sizes, in any order.
func (f Fleet) Complete() bool {
	if len(f) != len(fleetSizes) {
		return false
	}
	want := make(map[int]int)
	for _, size := range fleetSizes {
		want[size]++
	}
	for _, ship := range f {
		want[ship.Size]--
	}
	for _, n := range want {
		if n != 0 {
			return false
		}
	}
	return true
}

// Validate checks that every occupied cell is on the grid and that no
// two ships share a cell. An empty fleet passes.
func (f Fleet) Validate() bool {
	seen := make(map[Cell]bool)
	for _, ship := range f {
		if ship.Size < 1 {
			return false
		}
		for _, c := range ship.Cells() {
			if c.X < 0 || c.X >= GridSize || c.Y < 0 || c.Y >= GridSize {
				return false
			}
			if seen[c] {
				return false
			}
			seen[c] = true
		}
	}
	return true
}

// ValidateShot rejects out-of-bounds coordinates and repeats of the
// shooter's own history.
func ValidateShot(x, y int, history []Shot) bool {
	if x < 0 || x >= GridSize || y < 0 || y >= GridSize {
		return false
	}
	for _, s := range history {
		if s.X == x && s.Y == y {
			return false
		}
	}
	return true
}

// Shot is one resolved shot as kept in a player's history.
type Shot struct {
	X   int
	Y   int
	Hit bool
}

type ShotOutcome struct {
	Hit    bool
	ShipID string
	Sunk   bool
	Win    bool
}

// ResolveShot records a hit on any ship occupying (x, y) and reports
// the damage. ValidateShot runs first on every path, so the same cell
// is never resolved twice against the same fleet. The first occupying
// ship takes the hit; a valid fleet has no overlaps, so there is at
// most one.
func (f Fleet) ResolveShot(x, y int) ShotOutcome {
	var out ShotOutcome
	for _, ship := range f {
		if !out.Hit && ship.Occupies(x, y) {
			ship.Hits++
			out.Hit = true
			out.ShipID = ship.ID
			out.Sunk = ship.Sunk()
		}
	}
	if out.Hit {
		out.Win = true
		for _, ship := range f {
			if !ship.Sunk() {
				out.Win = false
				break
			}
		}
	}
	return out
}

// PreviewShot computes what ResolveShot would return without touching
// hit counters, so the durable write can happen before the mutation.
func (f Fleet) PreviewShot(x, y int) ShotOutcome {
	var out ShotOutcome
	for _, ship := range f {
		if !out.Hit && ship.Occupies(x, y) {
			out.Hit = true
			out.ShipID = ship.ID
			out.Sunk = ship.Hits+1 >= ship.Size
		}
	}
	if out.Hit {
		out.Win = true
		for _, ship := range f {
			sunk := ship.Sunk() || (ship.ID == out.ShipID && out.Sunk)
			if !sunk {
				out.Win = false
				break
			}
		}
	}
	return out
}
