// Package telegram runs the bot: it consumes slot machine dice rolls
// from enabled chats, gates them through the rate limiter and replies
// with a horoscope or a pushback message.
package telegram

import (
	"context"
	"strconv"
	"time"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/sternbild/horoskop/internal/dementia"
	hdomain "github.com/sternbild/horoskop/internal/horoscope/domain"
	"github.com/sternbild/horoskop/internal/observability/logger"
	"github.com/sternbild/horoskop/internal/observability/metrics"
	"github.com/sternbild/horoskop/internal/ratelimit"
	rldomain "github.com/sternbild/horoskop/internal/ratelimit/domain"
)

const (
	slotMachineEmoji = "🎰"

	textLimit    = 4096
	captionLimit = 1024

	usageLockTTL = 30 * time.Second

	// Pause between consecutive horoscope messages so the chat does not
	// receive them as a single burst.
	multiMessageDelay = 2 * time.Second
)

// botAPI is the slice of the Telegram client the bot relies on. Tests
// substitute a stub.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type usageLimiter interface {
	GetOffendingUsage(ctx context.Context, conversationID, userID string, at time.Time) (*rldomain.Usage, error)
	AddUsage(ctx context.Context, conversationID, userID string, at time.Time, referenceID, responseID *string) error
}

type Config struct {
	PollTimeout   int
	EnabledChats  []int64
	HoroscopeMode string
}

type Bot struct {
	api       botAPI
	limiter   usageLimiter
	horoscope hdomain.Provider
	responder dementia.Responder
	locker    *ratelimit.Locker
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	log       *zap.Logger

	pollTimeout   int
	horoscopeMode string
	enabledChats  map[int64]struct{}
}

func New(
	api botAPI,
	cfg Config,
	limiter usageLimiter,
	horoscope hdomain.Provider,
	responder dementia.Responder,
	locker *ratelimit.Locker,
	m *metrics.Metrics,
	log *zap.Logger,
) *Bot {
	enabled := make(map[int64]struct{}, len(cfg.EnabledChats))
	for _, id := range cfg.EnabledChats {
		enabled[id] = struct{}{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{
		api:           api,
		limiter:       limiter,
		horoscope:     horoscope,
		responder:     responder,
		locker:        locker,
		metrics:       m,
		tracer:        otel.Tracer("horoskop/telegram"),
		log:           log,
		pollTimeout:   cfg.PollTimeout,
		horoscopeMode: cfg.HoroscopeMode,
		enabledChats:  enabled,
	}
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout
	u.AllowedUpdates = []string{"message"}

	b.log.Info("running bot")
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.log.Info("exit signal received")
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.Dice == nil {
		return
	}
	if message.Dice.Emoji != slotMachineEmoji {
		b.log.Warn("skipping non-slot-machine message")
		return
	}
	if message.From == nil {
		b.log.Error("no user in message")
		return
	}
	if _, ok := b.enabledChats[message.Chat.ID]; !ok {
		b.log.Debug("not enabled in chat", zap.Int64("chat_id", message.Chat.ID))
		return
	}

	ctx, span := b.tracer.Start(ctx, "handle_message",
		trace.WithAttributes(
			attribute.Int("telegram.update_id", update.UpdateID),
			attribute.Int("telegram.message_id", message.MessageID),
			attribute.Int64("telegram.chat_id", message.Chat.ID),
			attribute.Int64("telegram.user_id", message.From.ID),
			attribute.String("telegram.message_timestamp", time.Unix(int64(message.Date), 0).UTC().Format(time.RFC3339)),
		),
	)
	defer span.End()

	b.handleDice(ctx, message)
}

func isLemons(dice int) bool {
	return dice == hdomain.TripleLemonValue
}

func (b *Bot) handleDice(ctx context.Context, message *tgbotapi.Message) {
	conversationID := strconv.FormatInt(message.Chat.ID, 10)
	userID := strconv.FormatInt(message.From.ID, 10)
	messageTime := time.Unix(int64(message.Date), 0).UTC()
	diceValue := message.Dice.Value

	log := logger.WithChat(b.log, message.Chat.ID, message.From.ID).
		With(zap.Int("dice", diceValue))

	if b.locker != nil {
		key := ratelimit.UsageLockKey(conversationID, userID)
		token, acquired, err := b.locker.TryLock(ctx, key, usageLockTTL)
		if err != nil {
			log.Warn("could not acquire usage lock, proceeding without", zap.Error(err))
		} else if !acquired {
			log.Warn("usage lock held elsewhere, dropping roll")
			return
		} else {
			defer func() {
				if err := b.locker.Release(ctx, key, token); err != nil {
					log.Warn("could not release usage lock", zap.Error(err))
				}
			}()
		}
	}

	offending, err := b.limiter.GetOffendingUsage(ctx, conversationID, userID, messageTime)
	if err != nil {
		// A limiter that cannot read history must not silently allow.
		log.Error("could not check rate limit", zap.Error(err))
		return
	}

	if offending != nil {
		b.metrics.RecordRateLimitDenied(ctx, conversationID)
		if isLemons(diceValue) {
			// The client animation already shows the lemons, stay quiet.
			return
		}

		// The dice time is the reference, not the wall clock: a backlogged
		// update handled late must not flip the ten minute rule.
		response := b.responder.CreateResponse(message.MessageID, messageTime, *offending)
		replyTo := message.MessageID
		if response.ReplyMessageID != nil {
			replyTo = *response.ReplyMessageID
		}
		if _, err := b.send(message.Chat.ID, hdomain.Result{Message: response.Text}, &replyTo); err != nil {
			log.Error("could not send pushback reply", zap.Error(err))
		}
		return
	}

	b.metrics.RecordRateLimitAllowed(ctx, conversationID)

	var results []hdomain.Result
	if !isLemons(diceValue) {
		provideCtx, provideSpan := b.tracer.Start(ctx, "provide_horoscope")
		results, err = b.horoscope.ProvideHoroscope(provideCtx, hdomain.Request{
			Dice:           diceValue,
			ConversationID: message.Chat.ID,
			UserID:         message.From.ID,
			MessageID:      message.MessageID,
			MessageTime:    messageTime,
		})
		provideSpan.End()
		if err != nil {
			log.Error("could not generate horoscope", zap.Error(err))
			return
		}
	}

	var responseID *string
	if len(results) == 0 {
		log.Debug("not sending horoscope, provider returned nothing")
	} else {
		replyTo := message.MessageID
		sent, err := b.send(message.Chat.ID, results[0], &replyTo)
		if err != nil {
			log.Error("could not send horoscope", zap.Error(err))
			return
		}
		for _, result := range results[1:] {
			select {
			case <-ctx.Done():
				return
			case <-time.After(multiMessageDelay):
			}
			sent, err = b.send(message.Chat.ID, result, nil)
			if err != nil {
				log.Error("could not send follow-up horoscope", zap.Error(err))
				return
			}
		}
		id := strconv.Itoa(sent.MessageID)
		responseID = &id
		b.metrics.RecordHoroscopeGenerated(ctx, b.horoscopeMode)
	}

	referenceID := strconv.Itoa(message.MessageID)
	if err := b.limiter.AddUsage(ctx, conversationID, userID, messageTime, &referenceID, responseID); err != nil {
		log.Error("could not record usage", zap.Error(err))
	}
}

// send delivers a horoscope result. Long texts are split across several
// messages; an attached image goes out as a photo with the first chunk as
// its caption. The returned message is the one carrying the result.
func (b *Bot) send(chatID int64, result hdomain.Result, replyToMessageID *int) (tgbotapi.Message, error) {
	text := result.FormattedMessage()
	b.log.Info("sending message", zap.Int("text_length", len(text)))

	firstLimit := textLimit
	if result.Image != nil {
		firstLimit = captionLimit
	}
	parts := splitText(text, firstLimit)

	parseMode := ""
	if result.Spoiler {
		parseMode = tgbotapi.ModeHTML
	}

	var first tgbotapi.Message
	var err error
	if result.Image == nil {
		msg := tgbotapi.NewMessage(chatID, parts[0])
		msg.ParseMode = parseMode
		if replyToMessageID != nil {
			msg.ReplyToMessageID = *replyToMessageID
		}
		first, err = b.api.Send(msg)
	} else {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "horoscope.png", Bytes: result.Image})
		photo.Caption = parts[0]
		photo.ParseMode = parseMode
		if replyToMessageID != nil {
			photo.ReplyToMessageID = *replyToMessageID
		}
		first, err = b.api.Send(photo)
	}
	if err != nil {
		return tgbotapi.Message{}, err
	}

	for _, part := range parts[1:] {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = parseMode
		if _, err := b.api.Send(msg); err != nil {
			return tgbotapi.Message{}, err
		}
	}

	return first, nil
}

// splitText chunks text for delivery. The first chunk honors firstLimit
// (the caption limit when an image rides along), all later chunks the
// plain message limit. Chunk boundaries back up to the nearest whitespace
// so words stay intact.
func splitText(text string, firstLimit int) []string {
	var chunks []string
	remaining := []rune(text)
	limit := firstLimit

	for len(remaining) > 0 {
		if len(remaining) <= limit {
			chunks = append(chunks, string(remaining))
			break
		}

		end := limit
		for end > 0 && !unicode.IsSpace(remaining[end-1]) {
			end--
		}
		if end == 0 {
			// No whitespace in the whole window, hard split.
			end = limit
		}
		chunks = append(chunks, string(remaining[:end]))
		remaining = remaining[end:]
		limit = textLimit
	}

	return chunks
}
