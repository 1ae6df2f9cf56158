package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/haeseoky/member-service/internal/config"
	"github.com/haeseoky/member-service/internal/events"
)

// NotificationService reacts to member events arriving through the
// dispatcher. Delivery is at-least-once, so every handler must stay safe
// under duplicates; logging and the notification stubs below trivially are.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventMemberCreated, n.handleMemberCreated)
	n.dispatcher.Subscribe(events.EventMemberUpdated, n.handleMemberUpdated)
	n.dispatcher.Subscribe(events.EventMemberStatusChanged, n.handleMemberStatusChanged)
	n.dispatcher.Subscribe(events.EventMemberDeleted, n.handleMemberDeleted)
}

func (n *NotificationService) handleMemberCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("MemberCreated", zap.Int64("member_id", event.MemberID), zap.Any("payload", event.Data))
	n.sendWelcomeEmailStub(ctx, event)
	return nil
}

func (n *NotificationService) handleMemberUpdated(ctx context.Context, event events.Event) error {
	n.logger.Info("MemberUpdated", zap.Int64("member_id", event.MemberID), zap.Any("payload", event.Data))
	return nil
}

func (n *NotificationService) handleMemberStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("MemberStatusChanged", zap.Int64("member_id", event.MemberID), zap.Any("payload", event.Data))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleMemberDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("MemberDeleted", zap.Int64("member_id", event.MemberID), zap.Any("payload", event.Data))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendWelcomeEmailStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendWelcomeEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.Int64("member_id", event.MemberID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("member_id", event.MemberID),
		zap.String("event_type", string(event.Type)))
}
