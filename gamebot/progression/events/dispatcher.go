package events

import (
	"log/slog"
	"time"
)

type Type string

const (
	TypeLevelUp             Type = "levelUp"
	TypeAchievementUnlocked Type = "achievementUnlocked"
	TypeGameResult          Type = "gameResult"
)

// Event describes an already-committed state change. Emit is only called
// after the triggering mutation has durably committed.
type Event struct {
	Type       Type
	UserID     string
	GuildID    string
	Payload    any
	OccurredAt time.Time
}

type LevelUpPayload struct {
	NewLevel int
	XP       int64
}

type AchievementPayload struct {
	AchievementID string
	Name          string
	Emoji         string
	RewardXP      int64
	RewardCoins   int64
}

type GameResultPayload struct {
	GameType string
	Won      bool
	Draw     bool
	Bet      int64
	Payout   int64
}

type Handler func(Event) error

// Dispatcher fans out events to observers synchronously, in registration
// order. It is constructed once, owned by the engine, and injected into the
// managers that emit; nothing appends to it from arbitrary call sites.
type Dispatcher struct {
	handlers []Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

func (d *Dispatcher) Subscribe(h Handler) {
	d.handlers = append(d.handlers, h)
}

// Emit delivers to every observer. Delivery is best-effort: an observer's
// error or panic is logged and discarded, and never unwinds the committed
// mutation or skips the remaining observers.
func (d *Dispatcher) Emit(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	for _, h := range d.handlers {
		d.dispatch(h, event)
	}
}

func (d *Dispatcher) dispatch(h Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Event observer panicked",
				slog.String("type", "engine"),
				slog.String("event", string(event.Type)),
				slog.Any("error", r))
		}
	}()

	if err := h(event); err != nil {
		slog.Error("Event observer failed",
			slog.String("type", "engine"),
			slog.String("event", string(event.Type)),
			slog.String("user_id", event.UserID),
			slog.Any("error", err))
	}
}
