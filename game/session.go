package game

import (
	"math/rand"
	"sync"
)

type Status uint8

const (
	StatusWaiting Status = iota
	StatusPlacing
	StatusActive
	StatusFinished

	StatusWaitingTag  = "waiting"
	StatusPlacingTag  = "placing_ships"
	StatusActiveTag   = "active"
	StatusFinishedTag = "finished"
)

var (
	StatusTagMap = map[Status]string{
		StatusWaiting:  StatusWaitingTag,
		StatusPlacing:  StatusPlacingTag,
		StatusActive:   StatusActiveTag,
		StatusFinished: StatusFinishedTag,
	}

	StatusTagMapReverse = map[string]Status{
		StatusWaitingTag:  StatusWaiting,
		StatusPlacingTag:  StatusPlacing,
		StatusActiveTag:   StatusActive,
		StatusFinishedTag: StatusFinished,
	}
)

func (s Status) Tag() string {
	return StatusTagMap[s]
}

// SessionPlayer pairs the durable player id with whatever transport
// identity is currently bound to it. UID is empty while the player is
// disconnected.
type SessionPlayer struct {
	ID    uint
	UID   string
	Fleet Fleet
	Shots []Shot
}

func (p *SessionPlayer) Ready() bool {
	return p.Fleet != nil
}

// Session is the authoritative in-memory state of one game. All
// operations on the same code hold the embedded mutex for the whole
// transition, durable write included.
type Session struct {
	sync.Mutex

	Code          string
	GameID        uint
	Status        Status
	Players       []*SessionPlayer
	CurrentTurnID uint
	WinnerID      uint

	// evicted is set, under the lock, when the session was removed
	// from the registry after a failed durable create or rebuild.
	// A caller that was already waiting on the lock must check it
	// before acting on the session.
	evicted bool
}

func NewSession(code string, gameID uint) *Session {
	return &Session{Code: code, GameID: gameID, Status: StatusWaiting}
}

// absorb copies the game state of a freshly rebuilt session into s,
// which is already installed in the registry and locked by the
// caller. The mutex and eviction flag stay s's own.
func (s *Session) absorb(src *Session) {
	s.GameID = src.GameID
	s.Status = src.Status
	s.Players = src.Players
	s.CurrentTurnID = src.CurrentTurnID
	s.WinnerID = src.WinnerID
}

func (s *Session) Player(id uint) *SessionPlayer {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Session) PlayerByUID(uid string) *SessionPlayer {
	if uid == "" {
		return nil
	}
	for _, p := range s.Players {
		if p.UID == uid {
			return p
		}
	}
	return nil
}

func (s *Session) Opponent(id uint) *SessionPlayer {
	for _, p := range s.Players {
		if p.ID != id {
			return p
		}
	}
	return nil
}

type JoinKind uint8

const (
	// JoinRejoin: the caller's transport identity is already bound.
	JoinRejoin JoinKind = iota
	// JoinRebind: an existing player without a live binding resumes
	// under the caller's new transport identity.
	JoinRebind
	// JoinNew: a genuinely new second player.
	JoinNew
)

// ResolveJoin classifies a join attempt. An exact transport match wins;
// otherwise the first durable player without a live binding is offered
// for rebinding. There is no session token, so any caller can claim an
// unbound slot; the durable id it resolves to is stable either way.
func (s *Session) ResolveJoin(uid string) (JoinKind, *SessionPlayer, error) {
	if p := s.PlayerByUID(uid); p != nil {
		return JoinRejoin, p, nil
	}
	if s.Status == StatusFinished {
		return 0, nil, ErrInvalidState
	}
	for _, p := range s.Players {
		if p.UID == "" {
			return JoinRebind, p, nil
		}
	}
	if len(s.Players) >= 2 {
		return 0, nil, ErrGameFull
	}
	return JoinNew, nil, nil
}

// AddPlayer appends a new player. The second join moves the game into
// ship placement.
func (s *Session) AddPlayer(id uint, uid string) *SessionPlayer {
	p := &SessionPlayer{ID: id, UID: uid}
	s.Players = append(s.Players, p)
	if len(s.Players) == 2 && s.Status == StatusWaiting {
		s.Status = StatusPlacing
	}
	return p
}

func (s *Session) MarkDisconnected(uid string) *SessionPlayer {
	for _, p := range s.Players {
		if p.UID != "" && p.UID == uid {
			p.UID = ""
			return p
		}
	}
	return nil
}

// StagedPlacement is a validated placement waiting for its durable
// write. If it completes both fleets, the first turn is already drawn
// here so memory and the durable record cannot disagree about it.
type StagedPlacement struct {
	PlayerID    uint
	Fleet       Fleet
	Activates   bool
	FirstTurnID uint
}

func (s *Session) StagePlacement(playerID uint, fleet Fleet) (*StagedPlacement, error) {
	if s.Status != StatusWaiting && s.Status != StatusPlacing {
		return nil, ErrInvalidState
	}
	p := s.Player(playerID)
	if p == nil {
		return nil, ErrNotInGame
	}
	if !fleet.Complete() || !fleet.Validate() {
		return nil, ErrInvalidPlacement
	}
	st := &StagedPlacement{PlayerID: playerID, Fleet: fleet}
	if len(s.Players) == 2 {
		opp := s.Opponent(playerID)
		if opp.Ready() {
			st.Activates = true
			st.FirstTurnID = s.Players[rand.Intn(2)].ID
		}
	}
	return st, nil
}

func (s *Session) CommitPlacement(st *StagedPlacement) {
	s.Player(st.PlayerID).Fleet = st.Fleet
	if st.Activates {
		s.Status = StatusActive
		s.CurrentTurnID = st.FirstTurnID
	}
}

// StagedShot is a validated shot plus a preview of its outcome, used
// to persist the shot before the fleet is mutated.
type StagedShot struct {
	PlayerID uint
	X        int
	Y        int
	Outcome  ShotOutcome
}

func (s *Session) StageShot(playerID uint, x, y int) (*StagedShot, error) {
	if s.Status != StatusActive {
		return nil, ErrInvalidState
	}
	p := s.Player(playerID)
	if p == nil {
		return nil, ErrNotInGame
	}
	if s.CurrentTurnID != playerID {
		return nil, ErrOutOfTurn
	}
	if !ValidateShot(x, y, p.Shots) {
		return nil, ErrInvalidShot
	}
	opp := s.Opponent(playerID)
	return &StagedShot{
		PlayerID: playerID,
		X:        x,
		Y:        y,
		Outcome:  opp.Fleet.PreviewShot(x, y),
	}, nil
}

// CommitShot applies a staged shot: the opponent's fleet takes the
// damage, the shot joins the shooter's history, and either the turn
// flips or the game finishes. Never switches turn on the winning blow.
func (s *Session) CommitShot(st *StagedShot) ShotOutcome {
	shooter := s.Player(st.PlayerID)
	opp := s.Opponent(st.PlayerID)
	out := opp.Fleet.ResolveShot(st.X, st.Y)
	shooter.Shots = append(shooter.Shots, Shot{X: st.X, Y: st.Y, Hit: out.Hit})
	if out.Win {
		s.Status = StatusFinished
		s.WinnerID = st.PlayerID
		s.CurrentTurnID = 0
	} else {
		s.CurrentTurnID = opp.ID
	}
	return out
}

// StateFor renders the session from one player's perspective.
func (s *Session) StateFor(p *SessionPlayer) *GameState {
	st := &GameState{
		GameCode:      s.Code,
		PlayerID:      p.ID,
		Status:        s.Status.Tag(),
		IsPlayerTurn:  s.CurrentTurnID != 0 && s.CurrentTurnID == p.ID,
		PlayerShots:   shotStates(p.Shots),
		OpponentShots: []ShotState{},
	}
	if p.Fleet != nil {
		st.Ships = shipStates(p.Fleet)
	}
	if opp := s.Opponent(p.ID); opp != nil {
		st.OpponentID = opp.ID
		st.OpponentShots = shotStates(opp.Shots)
	}
	if s.WinnerID != 0 {
		st.Winner = s.WinnerID
	}
	return st
}
