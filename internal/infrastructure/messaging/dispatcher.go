// Package messaging delivers domain events to in-process handlers
package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/mealplan"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/domain/shared"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/outbound"
)

// Dispatcher routes events by name to registered handlers. It serves both as
// the domain EventDispatcher and as the application's EventPublisher.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	log      *zap.Logger
}

var (
	_ shared.EventDispatcher  = (*Dispatcher)(nil)
	_ outbound.EventPublisher = (*Dispatcher)(nil)
)

// NewDispatcher creates a dispatcher with no handlers
func NewDispatcher(log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]shared.EventHandler),
		log:      log.Named("events"),
	}
}

// Register adds a handler for an event name
func (d *Dispatcher) Register(eventName string, handler shared.EventHandler) {
	d.mu.Lock()
	d.handlers[eventName] = append(d.handlers[eventName], handler)
	d.mu.Unlock()
	d.log.Debug("Registered event handler", zap.String("event", eventName))
}

// Dispatch runs every handler of the event. A failing handler does not stop
// the others; their errors are joined.
func (d *Dispatcher) Dispatch(event shared.DomainEvent) error {
	d.mu.RLock()
	handlers := d.handlers[event.EventName()]
	d.mu.RUnlock()

	if len(handlers) == 0 {
		d.log.Debug("No handlers registered for event", zap.String("event", event.EventName()))
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(event); err != nil {
			d.log.Error("Failed to handle event",
				zap.String("event", event.EventName()),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", event.EventName(), err))
		}
	}
	return errors.Join(errs...)
}

// Publish dispatches events in order
func (d *Dispatcher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	var errs []error
	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.Dispatch(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RegisterAuditLog logs every meal plan event at info level
func RegisterAuditLog(d *Dispatcher, log *zap.Logger) {
	audit := log.Named("audit")

	d.Register(mealplan.PlanGeneratedEvent{}.EventName(), func(e shared.DomainEvent) error {
		ev, ok := e.(mealplan.PlanGeneratedEvent)
		if !ok {
			return fmt.Errorf("unexpected payload %T", e)
		}
		audit.Info("Meal plan generated",
			zap.String("plan_id", ev.PlanID.String()),
			zap.String("user_id", ev.UserID),
			zap.Int("days", ev.Days),
			zap.Bool("goals_not_met", ev.GoalsNotMet),
		)
		return nil
	})

	d.Register(mealplan.MealSubstitutedEvent{}.EventName(), func(e shared.DomainEvent) error {
		ev, ok := e.(mealplan.MealSubstitutedEvent)
		if !ok {
			return fmt.Errorf("unexpected payload %T", e)
		}
		audit.Info("Meal substituted",
			zap.String("plan_id", ev.PlanID.String()),
			zap.Int("day", ev.Day),
			zap.String("meal_type", string(ev.MealType)),
			zap.String("previous", ev.PreviousID),
			zap.String("replacement", ev.ReplacementID),
		)
		return nil
	})

	d.Register(mealplan.SubstitutionUndoneEvent{}.EventName(), func(e shared.DomainEvent) error {
		ev, ok := e.(mealplan.SubstitutionUndoneEvent)
		if !ok {
			return fmt.Errorf("unexpected payload %T", e)
		}
		audit.Info("Substitution undone",
			zap.String("plan_id", ev.PlanID.String()),
			zap.Int("day", ev.Day),
			zap.String("meal_type", string(ev.MealType)),
			zap.String("restored", ev.RestoredID),
		)
		return nil
	})
}
