package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ecotrack/internal/config"
	"github.com/mamadbah2/ecotrack/internal/domain/models"
	"github.com/mamadbah2/ecotrack/internal/service/commands"
	"github.com/mamadbah2/ecotrack/internal/service/recorder"
	"github.com/mamadbah2/ecotrack/pkg/clients/anthropic"
	client "github.com/mamadbah2/ecotrack/pkg/clients/whatsapp"
)

const (
	sendTimeout      = 10 * time.Second
	translateTimeout = 15 * time.Second

	helpMessage = "Unknown command. Supported:\n" +
		"/city <date> <weight> <city>\n" +
		"/industry <date> weight=<kg> res= cap= iron= mag= cop= sil=\n" +
		"/report <date>"
	failureMessage = "Something went wrong, nothing was saved. Please try again."

	// seenCapacity bounds how many inbound message ids are remembered.
	seenCapacity = 4096
)

var usage = map[models.CommandType]string{
	models.CommandCity:     "Usage: /city <date> <weight> <city>, e.g. /city 2024-01-01 150 Springfield",
	models.CommandIndustry: "Usage: /industry <date> key=value..., e.g. /industry 2024-01-01 weight=75 res=4 cop=1.5",
	models.CommandReport:   "Usage: /report <date>, e.g. /report 2024-01-01",
}

// MessagingService describes the operations the HTTP layer and scheduler can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg        config.WhatsAppConfig
	client     client.Client
	dispatcher commands.Dispatcher
	ai         anthropic.Client
	logger     *zap.Logger

	mu       sync.Mutex
	seen     map[string]struct{}
	seenFIFO []string
}

// NewMetaWhatsAppService wires a new service instance. ai may be nil, in
// which case free text is answered with the command help.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, dispatcher commands.Dispatcher, ai anthropic.Client, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:        cfg,
		client:     client,
		dispatcher: dispatcher,
		ai:         ai,
		logger:     logger,
		seen:       make(map[string]struct{}),
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// VerifyWebhookToken validates the callback verification token.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}

	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}

	if verifyToken != s.cfg.VerifyToken {
		return "", errors.New("invalid verify token")
	}

	return challenge, nil
}

// HandleWebhook processes inbound webhook payloads. A message id is
// dispatched at most once, so redeliveries never record an entry twice.
// Reply failures are logged and do not fail the batch.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if !s.markSeen(msg.ID) {
					s.logger.Info("skipping redelivered message", zap.String("message_id", msg.ID))
					continue
				}
				if err := s.handleInboundMessage(ctx, msg); err != nil {
					s.logger.Error("failed to reply to inbound message", zap.Error(err), zap.String("message_id", msg.ID))
				}
			}
		}
	}

	return nil
}

// markSeen reports whether id is new and remembers it. Messages without an
// id are always treated as new.
func (s *MetaWhatsAppService) markSeen(id string) bool {
	if id == "" {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[id]; ok {
		return false
	}
	if len(s.seenFIFO) >= seenCapacity {
		delete(s.seen, s.seenFIFO[0])
		s.seenFIFO = s.seenFIFO[1:]
	}
	s.seen[id] = struct{}{}
	s.seenFIFO = append(s.seenFIFO, id)
	return true
}

// resolveCommand parses text as a slash command and falls back to the AI
// translator for free text.
func (s *MetaWhatsAppService) resolveCommand(ctx context.Context, text string) models.Command {
	cmd := models.ParseCommand(text)
	if cmd.Type != models.CommandUnknown || s.ai == nil || strings.HasPrefix(strings.TrimSpace(text), "/") {
		return cmd
	}

	tctx, cancel := context.WithTimeout(ctx, translateTimeout)
	defer cancel()

	translated, err := s.ai.TranslateToCommand(tctx, text)
	if err != nil {
		s.logger.Warn("free text translation failed", zap.Error(err))
		return cmd
	}
	if translated == "" {
		return cmd
	}

	s.logger.Debug("translated free text", zap.String("command", translated))
	return models.ParseCommand(translated)
}

func (s *MetaWhatsAppService) execute(ctx context.Context, cmd models.Command, sender string) string {
	if cmd.Type == models.CommandUnknown {
		return helpMessage
	}

	reply, err := s.dispatcher.HandleCommand(ctx, cmd, sender)
	switch {
	case err == nil:
		return reply
	case recorder.IsValidation(err):
		return err.Error()
	case errors.Is(err, commands.ErrInvalidArguments):
		return usage[cmd.Type]
	case errors.Is(err, commands.ErrUnsupportedCommand):
		return helpMessage
	default:
		s.logger.Error("command failed", zap.Error(err), zap.String("command", string(cmd.Type)))
		return failureMessage
	}
}

func (s *MetaWhatsAppService) reply(ctx context.Context, to, body string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:   to,
		Body: body,
	})
	return err
}

// SendOutbound pushes a message that did not originate from a webhook, such
// as the daily digest.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         req.To,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	return err
}

func extractMessageText(msg models.InboundMessage) string {
	if msg.Text != nil {
		return strings.TrimSpace(msg.Text.Body)
	}

	if msg.Interactive != nil && msg.Interactive.ButtonReply != nil {
		return strings.TrimSpace(msg.Interactive.ButtonReply.ID)
	}

	return ""
}
