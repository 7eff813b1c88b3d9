package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sternbild/horoskop/internal/config"
	"github.com/sternbild/horoskop/internal/dementia"
	hdomain "github.com/sternbild/horoskop/internal/horoscope/domain"
	"github.com/sternbild/horoskop/internal/observability/metrics"
	"github.com/sternbild/horoskop/internal/ratelimit"
	"github.com/sternbild/horoskop/internal/ratelimit/service"
)

var Module = fx.Module("telegram",
	fx.Provide(
		NewAPI,
		NewResponder,
		NewBot,
	),
	fx.Invoke(Register),
)

func NewAPI(cfg config.Config, log *zap.Logger) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	log.Info("authorized on telegram", zap.String("username", api.Self.UserName))
	return api, nil
}

// NewResponder picks the pushback wording matching the limit window.
func NewResponder(cfg config.Config) dementia.Responder {
	if cfg.RateLimit.Window == config.PolicyWindowWeekly {
		return dementia.NewWeekResponder()
	}
	return dementia.NewDayResponder()
}

type BotParams struct {
	fx.In

	API       *tgbotapi.BotAPI
	Config    config.Config
	Limiter   *service.Limiter
	Horoscope hdomain.Provider
	Responder dementia.Responder
	Locker    *ratelimit.Locker `optional:"true"`
	Metrics   *metrics.Metrics
	Log       *zap.Logger
}

func NewBot(p BotParams) *Bot {
	return New(
		p.API,
		Config{
			PollTimeout:   p.Config.Telegram.PollTimeout,
			EnabledChats:  p.Config.Telegram.EnabledChats,
			HoroscopeMode: p.Config.Horoscope.Mode,
		},
		p.Limiter,
		p.Horoscope,
		p.Responder,
		p.Locker,
		p.Metrics,
		p.Log.Named("telegram"),
	)
}

func Register(lc fx.Lifecycle, bot *Bot, log *zap.Logger) {
	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				if err := bot.Run(runCtx); err != nil {
					log.Error("bot stopped with error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		},
	})
}
