package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sternbild/horoskop/internal/horoscope/domain"
)

type stubClient struct {
	completionRequests []goopenai.ChatCompletionRequest
	completionReplies  []string
	completionErr      error

	imageRequests []goopenai.ImageRequest
	imagePayload  []byte
	imageErr      error
}

func (s *stubClient) CreateChatCompletion(_ context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error) {
	s.completionRequests = append(s.completionRequests, req)
	if s.completionErr != nil {
		return goopenai.ChatCompletionResponse{}, s.completionErr
	}
	reply := "prediction"
	if len(s.completionReplies) > 0 {
		reply = s.completionReplies[0]
		s.completionReplies = s.completionReplies[1:]
	}
	return goopenai.ChatCompletionResponse{
		Choices: []goopenai.ChatCompletionChoice{
			{Message: goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleAssistant, Content: reply}},
		},
	}, nil
}

func (s *stubClient) CreateImage(_ context.Context, req goopenai.ImageRequest) (goopenai.ImageResponse, error) {
	s.imageRequests = append(s.imageRequests, req)
	if s.imageErr != nil {
		return goopenai.ImageResponse{}, s.imageErr
	}
	return goopenai.ImageResponse{
		Data: []goopenai.ImageResponseDataInner{
			{B64JSON: base64.StdEncoding.EncodeToString(s.imagePayload)},
		},
	}, nil
}

func newProvider(client *stubClient, cfg Config) *Provider {
	return &Provider{client: client, cfg: cfg, log: zap.NewNop()}
}

func TestProvideHoroscope_BuildsPromptFromSlots(t *testing.T) {
	client := &stubClient{imagePayload: []byte("png")}
	p := newProvider(client, Config{Model: "gpt-4o", ImageModel: "gpt-image-1"})

	// dice value 1 decodes to triple bar
	results, err := p.ProvideHoroscope(context.Background(), domain.Request{
		Dice:        1,
		UserID:      42,
		MessageTime: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "prediction", results[0].Message)
	assert.Equal(t, []byte("png"), results[0].Image)

	require.NotEmpty(t, client.completionRequests)
	prompt := client.completionRequests[0].Messages[0].Content
	assert.Contains(t, prompt, "Die Vorhersage sollte zum Alkoholgenuss auffordern.")
	assert.Contains(t, prompt, "In der Mitte der Woche sollte Alkohol ins Spiel kommen.")
	assert.Contains(t, prompt, "Die Woche sollte im Alkoholexzess enden.")
	assert.True(t, strings.HasSuffix(prompt, "Horoskop:"))
	assert.Equal(t, "42", client.completionRequests[0].User)
	assert.Equal(t, 300, client.completionRequests[0].MaxTokens)
}

func TestProvideHoroscope_NewYearsDayPredictsTheYear(t *testing.T) {
	client := &stubClient{completionReplies: []string{"year ahead", "an image"}}
	p := newProvider(client, Config{Model: "gpt-4o"})

	results, err := p.ProvideHoroscope(context.Background(), domain.Request{
		Dice:        4,
		UserID:      42,
		MessageTime: time.Date(2025, 1, 1, 0, 30, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "year ahead", results[0].Message)

	prompt := client.completionRequests[0].Messages[0].Content
	assert.Contains(t, prompt, "Verlauf meines Jahres")
	assert.Equal(t, 200, client.completionRequests[0].MaxTokens)
}

func TestProvideHoroscope_DebugModeShortCircuits(t *testing.T) {
	client := &stubClient{}
	p := newProvider(client, Config{DebugMode: true})

	results, err := p.ProvideHoroscope(context.Background(), domain.Request{Dice: 1})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "debug mode is turned on", results[0].Message)
	assert.Empty(t, client.completionRequests)
}

func TestProvideHoroscope_ImageFailureKeepsText(t *testing.T) {
	client := &stubClient{imageErr: errors.New("boom")}
	p := newProvider(client, Config{Model: "gpt-4o"})

	results, err := p.ProvideHoroscope(context.Background(), domain.Request{
		Dice:        2,
		MessageTime: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "prediction", results[0].Message)
	assert.Nil(t, results[0].Image)
}

func TestProvideHoroscope_CompletionErrorSurfaces(t *testing.T) {
	client := &stubClient{completionErr: errors.New("rate limited")}
	p := newProvider(client, Config{Model: "gpt-4o"})

	_, err := p.ProvideHoroscope(context.Background(), domain.Request{
		Dice:        2,
		MessageTime: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	})

	assert.Error(t, err)
}
