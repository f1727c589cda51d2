package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campusworks/college-portal/internal/events"
	"github.com/campusworks/college-portal/internal/observability"
)

// AuditService records security-relevant events in the log and in metrics.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service. metrics may be nil.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventAccessDecision, a.handleAccessDecision)
	a.dispatcher.Subscribe(events.EventUserRegistered, a.handleUserCreated)
	a.dispatcher.Subscribe(events.EventUserCreated, a.handleUserCreated)
	a.dispatcher.Subscribe(events.EventUserRoleChanged, a.handleUserRoleChanged)
	a.dispatcher.Subscribe(events.EventLoginSucceeded, a.handleLoginSucceeded)
	a.dispatcher.Subscribe(events.EventLoginFailed, a.handleLoginFailed)
}

func (a *AuditService) handleAccessDecision(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AccessDecisionPayload)
	if !ok {
		a.logger.Warn("AccessDecision with unexpected payload", zap.String("event_id", event.ID))
		return nil
	}
	a.metrics.RecordDecision(payload.Action, payload.Decision)

	fields := []zap.Field{
		zap.String("subject", event.Subject),
		zap.String("action", payload.Action),
		zap.String("decision", payload.Decision),
		zap.String("role", payload.Role.String()),
		zap.String("method", payload.Method),
		zap.String("path", payload.Path),
	}
	if payload.Decision == events.DecisionDeny {
		a.logger.Warn("AccessDecision", fields...)
		return nil
	}
	a.logger.Info("AccessDecision", fields...)
	return nil
}

func (a *AuditService) handleUserCreated(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type), zap.String("subject", event.Subject), zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleUserRoleChanged(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.UserRoleChangedPayload)
	a.logger.Info("UserRoleChanged",
		zap.String("subject", event.Subject),
		zap.Int64("user_id", payload.UserID),
		zap.String("old_role", payload.OldRole.String()),
		zap.String("new_role", payload.NewRole.String()))
	return nil
}

func (a *AuditService) handleLoginSucceeded(_ context.Context, event events.Event) error {
	a.metrics.RecordLogin("success")
	a.logger.Info("LoginSucceeded", zap.String("subject", event.Subject))
	return nil
}

func (a *AuditService) handleLoginFailed(_ context.Context, event events.Event) error {
	a.metrics.RecordLogin("failure")
	payload, _ := event.Payload.(events.LoginFailedPayload)
	a.logger.Warn("LoginFailed", zap.String("subject", event.Subject), zap.String("reason", payload.Reason))
	return nil
}
