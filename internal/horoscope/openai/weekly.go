// Package openai implements the weekly horoscope variant backed by the
// OpenAI API. Each reel combination steers the prompt: the first slot
// picks the overall tone, the second and third refine the middle and the
// end of the week.
package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/sternbild/horoskop/internal/horoscope/domain"
)

const basePrompt = "Sag mir den Verlauf meiner Woche voraus. Es ist egal, ob die" +
	" Vorhersage realistisch oder akkurat ist, Hauptsache sie ist" +
	" unterhaltsam und liest sich nicht wie ein übliches Horoskop." +
	" Vermeide die Wörter" +
	" \"Herausforderung\" und \"Chance\". Sei nicht vage, sondern erwähne" +
	" mindestens ein konkretes Ereignis.\n\n" +
	"Die Antwort sollte kurz und prägnant sein."

const yearlyPrompt = "Sag mir den Verlauf meines Jahres voraus. Es ist egal, ob die" +
	" Vorhersage realistisch oder akkurat ist, Hauptsache sie ist" +
	" unterhaltsam und liest sich nicht wie ein übliches Horoskop." +
	" Vermeide die Wörter" +
	" \"Herausforderung\" und \"Chance\". Sei nicht vage, sondern erwähne" +
	" mindestens ein konkretes Ereignis.\n\n" +
	"Die Antwort sollte kurz und prägnant sein."

const imageImprovementPrompt = "Beschreibe in wenigen Worten ein Bild, das deine Vorhersage illustriert."

var toneByFirstSlot = map[domain.Slot]string{
	domain.SlotBar:   "Die Vorhersage sollte zum Alkoholgenuss auffordern.",
	domain.SlotGrape: "Die Vorhersage sollte chaotisch wirken.",
	domain.SlotLemon: "Du solltest einen eher negativen Wochenverlauf vorhersagen.",
	domain.SlotSeven: "Du solltest einen eher positiven Wochenverlauf vorhersagen.",
}

var refinementBySecondSlot = map[domain.Slot]string{
	domain.SlotGrape: "Die Ereignisse sollten im Verlauf der Woche chaotischer werden.",
	domain.SlotLemon: "In der Mitte der Woche sollten negative Ereignisse auftauchen.",
	domain.SlotSeven: "In der Mitte der Woche sollten positive Ereignisse auftauchen.",
	domain.SlotBar:   "In der Mitte der Woche sollte Alkohol ins Spiel kommen.",
}

var refinementByThirdSlot = map[domain.Slot]string{
	domain.SlotGrape: "Die Woche sollte im absoluten Chaos enden.",
	domain.SlotLemon: "Die Woche sollte sehr unvorteilhaft enden.",
	domain.SlotSeven: "Die Woche sollte sehr vorteilhaft enden.",
	domain.SlotBar:   "Die Woche sollte im Alkoholexzess enden.",
}

func buildPrompt(slots domain.Combination) string {
	refinement := fmt.Sprintf("%s %s", refinementBySecondSlot[slots[1]], refinementByThirdSlot[slots[2]])
	return strings.Join([]string{
		basePrompt + "\n\n" + toneByFirstSlot[slots[0]],
		refinement,
		"Horoskop:",
	}, "\n\n")
}

// completionClient is the slice of the OpenAI client the provider needs.
// Tests substitute a stub.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
	CreateImage(ctx context.Context, req goopenai.ImageRequest) (goopenai.ImageResponse, error)
}

type Config struct {
	Token                string
	Model                string
	ImageModel           string
	ImageQuality         string
	ImageModerationLevel string
	DebugMode            bool
}

type Provider struct {
	client completionClient
	cfg    Config
	log    *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{
		client: goopenai.NewClient(cfg.Token),
		cfg:    cfg,
		log:    log,
	}
}

func (p *Provider) ProvideHoroscope(ctx context.Context, req domain.Request) ([]domain.Result, error) {
	slots, err := domain.SlotsForDice(req.Dice)
	if err != nil {
		return nil, err
	}

	if p.cfg.DebugMode {
		return []domain.Result{{Message: "debug mode is turned on"}}, nil
	}

	// On New Year's Day the weekly horoscope gives way to a yearly one.
	if req.MessageTime.Month() == 1 && req.MessageTime.Day() == 1 {
		result, err := p.createCompletion(ctx, req.UserID, yearlyPrompt, completionOptions{
			temperature:      1.1,
			maxTokens:        200,
			frequencyPenalty: 0,
			presencePenalty:  0,
		})
		if err != nil {
			return nil, err
		}
		return []domain.Result{result}, nil
	}

	result, err := p.createCompletion(ctx, req.UserID, buildPrompt(slots), completionOptions{
		temperature:      1.1,
		maxTokens:        300,
		frequencyPenalty: 0.35,
		presencePenalty:  0.75,
	})
	if err != nil {
		return nil, err
	}
	return []domain.Result{result}, nil
}

type completionOptions struct {
	temperature      float32
	maxTokens        int
	frequencyPenalty float32
	presencePenalty  float32
}

func (p *Provider) createCompletion(ctx context.Context, userID int64, prompt string, opts completionOptions) (domain.Result, error) {
	p.log.Info("requesting chat completion")

	messages := []goopenai.ChatCompletionMessage{
		{Role: goopenai.ChatMessageRoleUser, Content: prompt},
	}
	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:            p.cfg.Model,
		MaxTokens:        opts.maxTokens,
		FrequencyPenalty: opts.frequencyPenalty,
		PresencePenalty:  opts.presencePenalty,
		Temperature:      opts.temperature,
		User:             strconv.FormatInt(userID, 10),
		Messages:         messages,
	})
	if err != nil {
		return domain.Result{}, fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.Result{}, errors.New("chat completion returned no choices")
	}

	message := resp.Choices[0].Message
	image := p.createImage(ctx, append(messages, message))
	return domain.Result{Message: message.Content, Image: image}, nil
}

// improveImagePrompt asks the model to condense the conversation into a
// short image description. Failures fall back to the last message.
func (p *Provider) improveImagePrompt(ctx context.Context, messages []goopenai.ChatCompletionMessage) string {
	p.log.Info("improving image prompt")

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: p.cfg.Model,
		Messages: append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleUser,
			Content: imageImprovementPrompt,
		}),
		MaxTokens:   128,
		Temperature: 1.4,
	})
	if err != nil {
		p.log.Error("could not improve image generation prompt", zap.Error(err))
		return ""
	}
	if len(resp.Choices) == 0 {
		return ""
	}
	return resp.Choices[0].Message.Content
}

// createImage renders an illustration for the horoscope. Image errors are
// logged and swallowed so a failed image never blocks the text.
func (p *Provider) createImage(ctx context.Context, messages []goopenai.ChatCompletionMessage) []byte {
	prompt := p.improveImagePrompt(ctx, messages)
	if prompt == "" {
		prompt = messages[len(messages)-1].Content
	}
	if prompt == "" {
		p.log.Error("can't generate image because prompt is missing")
		return nil
	}

	p.log.Info("requesting image", zap.String("prompt", prompt))
	resp, err := p.client.CreateImage(ctx, goopenai.ImageRequest{
		Model:          p.cfg.ImageModel,
		Quality:        p.cfg.ImageQuality,
		Moderation:     p.cfg.ImageModerationLevel,
		Prompt:         prompt,
		Size:           goopenai.CreateImageSize1024x1024,
		ResponseFormat: goopenai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		// The content filter rejects some prompts outright, everything
		// else is an actual API failure. Neither should kill the reply.
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 400 {
			p.log.Debug("image prompt rejected", zap.Error(err))
			return nil
		}
		p.log.Error("an error occurred during image generation", zap.Error(err))
		return nil
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		p.log.Error("did not receive image in response")
		return nil
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		p.log.Error("could not decode image payload", zap.Error(err))
		return nil
	}
	return data
}
