package services

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Domain event types emitted by the meal/bank/pot services. Gamification and
// the realtime hub subscribe here; financial operations never call them
// inline, so a subscriber failure can never fail a ledger operation.
const (
	EventMealLogged      = "meal.logged"
	EventPointsEarned    = "bank.points_earned"
	EventPointsWithdrawn = "bank.points_withdrawn"
	EventPotCreated      = "pot.created"
	EventPotAllocated    = "pot.allocated"
	EventPotRedeemed     = "pot.redeemed"
	EventLevelUp         = "xp.level_up"
	EventAchievement     = "xp.achievement_unlocked"
)

type DomainEvent struct {
	Type     string `json:"type"`
	UserID   uint   `json:"user_id"`
	Date     string `json:"date,omitempty"` // YYYY-MM-DD where relevant
	Points   int    `json:"points,omitempty"`
	Calories int    `json:"calories,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

type EventHandler func(e DomainEvent) error

type eventBusDeps struct {
	db       *gorm.DB
	rt       *RealtimeHub
	ch       chan DomainEvent
	handlers []EventHandler
}

var _bus *eventBusDeps

// InitEventBus wires the dispatcher. Handlers run on a single goroutine off
// a buffered channel; a failing handler is retried once, then the event is
// dropped with an error log (at-least-once for XP/achievement side effects).
func InitEventBus(db *gorm.DB, rt *RealtimeHub, handlers ...EventHandler) {
	bus := &eventBusDeps{
		db:       db,
		rt:       rt,
		ch:       make(chan DomainEvent, 256),
		handlers: handlers,
	}
	_bus = bus
	go bus.dispatch()
}

func (b *eventBusDeps) dispatch() {
	for e := range b.ch {
		for _, h := range b.handlers {
			if err := h(e); err != nil {
				zap.L().Warn("event handler failed, retrying",
					zap.String("event", e.Type), zap.Uint("user_id", e.UserID), zap.Error(err))
				if err := h(e); err != nil {
					zap.L().Error("event handler failed twice, dropping",
						zap.String("event", e.Type), zap.Uint("user_id", e.UserID), zap.Error(err))
				}
			}
		}
		if b.rt != nil {
			b.rt.BroadcastEvent(e.UserID, e)
		}
	}
}

// EmitEvent is safe to call anywhere; it no-ops before InitEventBus and
// never blocks the caller (a full buffer drops the event with a log line).
func EmitEvent(e DomainEvent) {
	if _bus == nil {
		return
	}
	select {
	case _bus.ch <- e:
	default:
		zap.L().Error("event bus full, dropping event",
			zap.String("event", e.Type), zap.Uint("user_id", e.UserID))
	}
}
