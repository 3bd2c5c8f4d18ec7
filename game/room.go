package game

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/harborforge/sea_strike/config"
	"github.com/harborforge/sea_strike/db"
	"github.com/harborforge/sea_strike/model"
	"github.com/topfreegames/pitaya/v2"
	"github.com/topfreegames/pitaya/v2/component"
	"github.com/topfreegames/pitaya/v2/constants"
	"github.com/topfreegames/pitaya/v2/session"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxCreateAttempts bounds retries when a freshly drawn code collides
// with a durable row from an earlier process.
const maxCreateAttempts = 3

// Room is the transport face of the coordinator. Requests come in as
// pitaya handler calls; everything the handlers push out goes either
// to a single bound uid or to the game's group (one group per code).
type Room struct {
	component.Base
	app pitaya.Pitaya
	cfg *config.Config
	db  *db.Client

	registry *Registry
}

func RegistRoom(app pitaya.Pitaya, db *db.Client, cfg *config.Config) *Room {
	r := &Room{
		app:      app,
		db:       db,
		cfg:      cfg,
		registry: NewRegistry(),
	}
	app.Register(r,
		component.WithName(config.GameRoomName),
		component.WithNameFunc(strings.ToLower),
	)
	return r
}

func groupName(code string) string {
	return config.GameRoomName + ":" + code
}

// The registry only knows about live sessions; a code from a previous
// process can still collide in the store.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}

// bindSession gives the connection a transport identity on first
// contact. The uid is fresh per connection; reconnecting clients come
// back with a new one and are re-bound by the join path.
func (r *Room) bindSession(ctx context.Context) (session.Session, error) {
	s := r.app.GetSessionFromCtx(ctx)
	if s.UID() != "" {
		return s, nil
	}
	if err := s.Bind(ctx, uuid.NewString()); err != nil && err != constants.ErrSessionAlreadyBound {
		return nil, err
	}
	return s, nil
}

func (r *Room) subscribe(ctx context.Context, s session.Session, code string) {
	group := groupName(code)
	if err := r.app.GroupCreate(ctx, group); err != nil && err != constants.ErrGroupAlreadyExists {
		zap.L().Error("create group failed", zap.String("code", code), zap.Error(err))
	}
	if err := r.app.GroupAddMember(ctx, group, s.UID()); err != nil && err != constants.ErrMemberAlreadyExists {
		zap.L().Error("join group failed", zap.String("code", code), zap.Error(err))
	}
	uid := s.UID()
	s.OnClose(func() {
		r.onDisconnect(code, uid)
	})
}

func (r *Room) push(route string, v interface{}, uids ...string) {
	if len(uids) == 0 {
		return
	}
	if _, err := r.app.SendPushToUsers(route, v, uids, r.cfg.FrontendType); err != nil {
		zap.L().Error("push failed", zap.String("route", route), zap.Error(err))
	}
}

// CreateGame starts a fresh session with the caller as host.
func (r *Room) CreateGame(ctx context.Context, _ []byte) (*GameCreated, error) {
	s, err := r.bindSession(ctx)
	if err != nil {
		return nil, pitayaError(err)
	}

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		code, sess, err := r.registry.CreateSession()
		if err != nil {
			return nil, pitayaError(err)
		}

		var rec *model.Game
		var hostRec *model.Player
		err = r.db.Transaction(func(tx *db.Client) error {
			var err error
			rec, err = tx.Game.Create(code, StatusWaiting.Tag())
			if err != nil {
				return err
			}
			hostRec, err = tx.Player.Create(rec.ID)
			return err
		})
		if err != nil {
			sess.evicted = true
			r.registry.Remove(code)
			sess.Unlock()
			if isDuplicateKey(err) {
				continue
			}
			return nil, pitayaError(persistence(err))
		}

		sess.GameID = rec.ID
		host := sess.AddPlayer(hostRec.ID, s.UID())
		sess.Unlock()
		r.subscribe(ctx, s, code)

		zap.L().Info("game created", zap.String("code", code), zap.Uint("player", host.ID))
		return &GameCreated{GameCode: code, PlayerID: host.ID}, nil
	}
	return nil, pitayaError(ErrCodeExhausted)
}

// JoinGame covers all three arrivals: a new second player, a rejoin on
// a still-bound transport, and a reconnect that needs rebinding or a
// full rebuild from the durable record.
func (r *Room) JoinGame(ctx context.Context, msg *JoinRequest) (*GameState, error) {
	s, err := r.bindSession(ctx)
	if err != nil {
		return nil, pitayaError(err)
	}
	code := strings.ToUpper(strings.TrimSpace(msg.GameCode))

	sess, err := r.registry.GetOrRebuild(code, func(placeholder *Session) error {
		rec, err := r.db.Game.FindByCode(code)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrGameNotFound
			}
			return persistence(err)
		}
		placeholder.absorb(RebuildSession(rec))
		zap.L().Info("session rebuilt from store", zap.String("code", code))
		return nil
	})
	if err != nil {
		return nil, pitayaError(err)
	}

	sess.Lock()
	defer sess.Unlock()
	if sess.evicted {
		return nil, pitayaError(ErrGameNotFound)
	}

	kind, p, err := sess.ResolveJoin(s.UID())
	if err != nil {
		return nil, pitayaError(err)
	}

	switch kind {
	case JoinRejoin:
		// already bound, just re-emit state
	case JoinRebind:
		p.UID = s.UID()
		zap.L().Info("player rebound", zap.String("code", code), zap.Uint("player", p.ID))
	case JoinNew:
		var rec *model.Player
		err = r.db.Transaction(func(tx *db.Client) error {
			var err error
			rec, err = tx.Player.Create(sess.GameID)
			if err != nil {
				return err
			}
			return tx.Game.UpdateStatus(sess.GameID, StatusPlacing.Tag())
		})
		if err != nil {
			return nil, pitayaError(persistence(err))
		}
		p = sess.AddPlayer(rec.ID, s.UID())
	}

	r.subscribe(ctx, s, code)

	if kind == JoinNew {
		if opp := sess.Opponent(p.ID); opp != nil && opp.UID != "" {
			r.push("game_state", sess.StateFor(opp), opp.UID)
		}
	}
	return sess.StateFor(p), nil
}

// PlaceShips stores the caller's fleet; the second valid fleet starts
// the game with a randomly drawn first turn.
func (r *Room) PlaceShips(ctx context.Context, msg *PlaceShipsRequest) (*GameState, error) {
	s, err := r.bindSession(ctx)
	if err != nil {
		return nil, pitayaError(err)
	}
	code := strings.ToUpper(strings.TrimSpace(msg.GameCode))

	sess, ok := r.registry.Get(code)
	if !ok {
		return nil, pitayaError(ErrGameNotFound)
	}

	sess.Lock()
	defer sess.Unlock()
	if sess.evicted {
		return nil, pitayaError(ErrGameNotFound)
	}

	p := sess.PlayerByUID(s.UID())
	if p == nil {
		return nil, pitayaError(ErrNotInGame)
	}

	st, err := sess.StagePlacement(p.ID, fleetFromPlacements(msg.Fleet))
	if err != nil {
		return nil, pitayaError(err)
	}

	ships := make([]model.Ship, 0, len(st.Fleet))
	for _, ship := range st.Fleet {
		ships = append(ships, model.Ship{
			ShipID:   ship.ID,
			Size:     ship.Size,
			X:        ship.X,
			Y:        ship.Y,
			Vertical: ship.Vertical,
		})
	}
	err = r.db.Transaction(func(tx *db.Client) error {
		if err := tx.Ship.SavePlacements(p.ID, ships); err != nil {
			return err
		}
		if !st.Activates {
			return nil
		}
		if err := tx.Game.UpdateStatus(sess.GameID, StatusActive.Tag()); err != nil {
			return err
		}
		turn := st.FirstTurnID
		return tx.Game.SetTurn(sess.GameID, &turn)
	})
	if err != nil {
		return nil, pitayaError(persistence(err))
	}

	sess.CommitPlacement(st)

	opp := sess.Opponent(p.ID)
	if opp != nil && opp.UID != "" {
		r.push("opponent_placed_ships", struct{}{}, opp.UID)
	}
	if st.Activates {
		// game_state is per-viewer, so the start of the game goes out
		// as one tailored push per player instead of a group broadcast
		for _, pl := range sess.Players {
			if pl.UID != "" {
				r.push("game_state", sess.StateFor(pl), pl.UID)
			}
		}
		zap.L().Info("game active", zap.String("code", code), zap.Uint("first_turn", st.FirstTurnID))
	}
	return sess.StateFor(p), nil
}

// FireShot resolves one shot for the player on turn.
func (r *Room) FireShot(ctx context.Context, msg *FireShotRequest) (*ShotResult, error) {
	s, err := r.bindSession(ctx)
	if err != nil {
		return nil, pitayaError(err)
	}
	code := strings.ToUpper(strings.TrimSpace(msg.GameCode))

	sess, ok := r.registry.Get(code)
	if !ok {
		return nil, pitayaError(ErrGameNotFound)
	}

	sess.Lock()
	defer sess.Unlock()
	if sess.evicted {
		return nil, pitayaError(ErrGameNotFound)
	}

	p := sess.PlayerByUID(s.UID())
	if p == nil {
		return nil, pitayaError(ErrNotInGame)
	}

	st, err := sess.StageShot(p.ID, msg.X, msg.Y)
	if err != nil {
		return nil, pitayaError(err)
	}

	err = r.db.Transaction(func(tx *db.Client) error {
		if err := tx.Shot.Record(sess.GameID, p.ID, st.X, st.Y, st.Outcome.Hit); err != nil {
			return err
		}
		if st.Outcome.Win {
			return tx.Game.Finish(sess.GameID, p.ID, StatusFinished.Tag())
		}
		oppID := sess.Opponent(p.ID).ID
		return tx.Game.SetTurn(sess.GameID, &oppID)
	})
	if err != nil {
		return nil, pitayaError(persistence(err))
	}

	out := sess.CommitShot(st)
	result := &ShotResult{X: st.X, Y: st.Y, Hit: out.Hit}

	if opp := sess.Opponent(p.ID); opp != nil && opp.UID != "" {
		r.push("opponent_shot", result, opp.UID)
	}
	if out.Hit && out.Sunk {
		if err := s.Push("ship_sunk", &ShipSunk{ShipID: out.ShipID}); err != nil {
			zap.L().Error("push failed", zap.String("route", "ship_sunk"), zap.Error(err))
		}
	}
	if out.Win {
		if err := r.app.GroupBroadcast(ctx, r.cfg.FrontendType, groupName(code), "game_over", &GameOver{Winner: p.ID}); err != nil {
			zap.L().Error("broadcast failed", zap.String("route", "game_over"), zap.Error(err))
		}
		zap.L().Info("game over", zap.String("code", code), zap.Uint("winner", p.ID))
	}
	return result, nil
}

// onDisconnect marks the binding stale and tells the other player.
// The player keeps their slot: a later join with a fresh transport
// identity resumes it.
func (r *Room) onDisconnect(code, uid string) {
	sess, ok := r.registry.Get(code)
	if !ok {
		return
	}

	sess.Lock()
	if sess.evicted {
		sess.Unlock()
		return
	}
	p := sess.MarkDisconnected(uid)
	var notify []string
	if p != nil {
		for _, other := range sess.Players {
			if other.UID != "" {
				notify = append(notify, other.UID)
			}
		}
	}
	sess.Unlock()
	if p == nil {
		return
	}

	ctx := context.Background()
	if err := r.app.GroupRemoveMember(ctx, groupName(code), uid); err != nil {
		zap.L().Error("leave group failed", zap.String("code", code), zap.Error(err))
	}
	r.push("opponent_disconnected", &OpponentDisconnected{DisconnectedPlayerID: p.ID}, notify...)
	zap.L().Info("player disconnected", zap.String("code", code), zap.Uint("player", p.ID))
}
