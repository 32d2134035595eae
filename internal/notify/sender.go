package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SherClockHolmes/webpush-go"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSender delivers notifications as Telegram messages to a
// single chat.
type TelegramSender struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramSender authenticates the bot and binds it to chatID.
func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramSender{bot: bot, chatID: chatID}, nil
}

// Send delivers the payload as a plain message.
func (s *TelegramSender) Send(ctx context.Context, payload Payload) error {
	text := payload.Title
	if payload.Body != "" {
		text += "\n" + payload.Body
	}
	msg := tgbotapi.NewMessage(s.chatID, text)
	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// WebPushConfig holds the VAPID keys and the device subscription to
// deliver to.
type WebPushConfig struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string // contact mailto for the push service
	Endpoint        string
	P256DH          string
	Auth            string
	TTLSeconds      int
}

// WebPushSender delivers notifications over the Web Push protocol.
type WebPushSender struct {
	cfg WebPushConfig
	sub *webpush.Subscription
}

// NewWebPushSender validates the config and builds the subscription.
func NewWebPushSender(cfg WebPushConfig) (*WebPushSender, error) {
	if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
		return nil, errors.New("webpush: VAPID key pair is required")
	}
	if cfg.Endpoint == "" {
		return nil, errors.New("webpush: subscription endpoint is required")
	}
	if cfg.TTLSeconds <= 0 {
		cfg.TTLSeconds = 60
	}
	return &WebPushSender{
		cfg: cfg,
		sub: &webpush.Subscription{
			Endpoint: cfg.Endpoint,
			Keys: webpush.Keys{
				P256dh: cfg.P256DH,
				Auth:   cfg.Auth,
			},
		},
	}, nil
}

// Send pushes the JSON-encoded payload to the subscribed device.
func (s *WebPushSender) Send(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := webpush.SendNotificationWithContext(ctx, body, s.sub, &webpush.Options{
		Subscriber:      s.cfg.Subscriber,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             s.cfg.TTLSeconds,
	})
	if err != nil {
		return fmt.Errorf("webpush send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webpush send: http %d", resp.StatusCode)
	}
	return nil
}
