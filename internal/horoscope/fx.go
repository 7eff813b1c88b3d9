// Package horoscope selects the horoscope provider from process
// configuration.
package horoscope

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sternbild/horoskop/internal/config"
	"github.com/sternbild/horoskop/internal/horoscope/domain"
	"github.com/sternbild/horoskop/internal/horoscope/openai"
	"github.com/sternbild/horoskop/internal/horoscope/static"
)

var Module = fx.Module("horoscope",
	fx.Provide(NewProvider),
)

func NewProvider(cfg config.Config, log *zap.Logger) (domain.Provider, error) {
	switch cfg.Horoscope.Mode {
	case config.HoroscopeModeStatic:
		return static.New(), nil
	case config.HoroscopeModeOpenAIWeekly:
		oa := cfg.Horoscope.OpenAI
		return openai.New(openai.Config{
			Token:                oa.Token,
			Model:                oa.ModelName,
			ImageModel:           oa.ImageModelName,
			ImageQuality:         oa.ImageQuality,
			ImageModerationLevel: oa.ImageModerationLevel,
			DebugMode:            oa.DebugMode,
		}, log.Named("horoscope")), nil
	default:
		return nil, fmt.Errorf("unknown horoscope mode %q", cfg.Horoscope.Mode)
	}
}
