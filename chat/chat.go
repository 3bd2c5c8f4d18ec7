package chat

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
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Room is the per-game chat channel. It rides the same connection as
// the game room but keeps its own groups, keyed by game code.
type Room struct {
	component.Base
	app pitaya.Pitaya
	cfg *config.Config
	db  *db.Client
}

func RegistRoom(app pitaya.Pitaya, db *db.Client, cfg *config.Config) {
	app.Register(&Room{
		app: app,
		db:  db,
		cfg: cfg,
	},
		component.WithName(config.ChatRoomName),
		component.WithNameFunc(strings.ToLower),
	)
}

func groupName(code string) string {
	return config.ChatRoomName + ":" + code
}

type JoinRequest struct {
	GameCode string `json:"gameCode"`
}

type JoinResponse struct {
	Result string `json:"result"`
}

type ChatMessage struct {
	GameCode string `json:"gameCode"`
	PlayerID uint   `json:"playerId"`
	Message  string `json:"message"`
}

type MessageResponse struct {
	Result string `json:"result"`
}

// Join subscribes the caller to the game's chat and replays the latest
// persisted messages to them only.
func (r *Room) Join(ctx context.Context, msg *JoinRequest) (*JoinResponse, error) {
	s := r.app.GetSessionFromCtx(ctx)
	if s.UID() == "" {
		if err := s.Bind(ctx, uuid.NewString()); err != nil && err != constants.ErrSessionAlreadyBound {
			return nil, pitaya.Error(err, "CH-000", map[string]string{"failed": "bind"})
		}
	}

	code := strings.ToUpper(strings.TrimSpace(msg.GameCode))
	gameID, err := r.db.Game.IDByCode(code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pitaya.Error(err, "CH-404", map[string]string{"failed": "unknown game"})
		}
		return nil, pitaya.Error(err, "CH-500", map[string]string{"failed": "load game"})
	}

	messages, err := r.db.Message.ListLatest(gameID, r.cfg.ChatHistory)
	if err != nil {
		return nil, pitaya.Error(err, "CH-500", map[string]string{"failed": "get messages"})
	}
	s.Push("message_history", messages)

	group := groupName(code)
	if err := r.app.GroupCreate(ctx, group); err != nil && err != constants.ErrGroupAlreadyExists {
		zap.L().Error("create chat group failed", zap.String("code", code), zap.Error(err))
	}
	r.app.GroupAddMember(ctx, group, s.UID())

	uid := s.UID()
	s.OnClose(func() {
		r.app.GroupRemoveMember(context.Background(), group, uid)
	})

	return &JoinResponse{Result: "success"}, nil
}

// Message broadcasts to everyone in the game's chat and persists the
// line for later joiners.
func (r *Room) Message(ctx context.Context, msg *ChatMessage) (*MessageResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(msg.GameCode))
	if err := r.app.GroupBroadcast(ctx, r.cfg.FrontendType, groupName(code), "chat_message", msg); err != nil {
		zap.L().Error("broadcast message failed", zap.Error(err))
	}

	gameID, err := r.db.Game.IDByCode(code)
	if err != nil {
		zap.L().Error("resolve game for message failed", zap.String("code", code), zap.Error(err))
		return &MessageResponse{Result: "success"}, nil
	}
	if err := r.db.Message.Create(&model.Message{
		GameID:   gameID,
		PlayerID: msg.PlayerID,
		Message:  msg.Message,
	}); err != nil {
		zap.L().Error("save message failed", zap.Error(err))
	}
	return &MessageResponse{Result: "success"}, nil
}
