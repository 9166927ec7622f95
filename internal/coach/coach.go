package coach

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sirupsen/logrus"

	"github.com/fincoach/fincoach/internal/config"
)

const systemPrompt = "You are a personal finance coach for a demo banking app. " +
	"Give short, practical money advice. Never present yourself as a licensed advisor."

const demoReply = "Got it. To enable real coaching replies, set ANTHROPIC_API_KEY in your environment."

// Coach answers free-form money questions. Without an API key it returns
// a canned demo reply so the endpoint stays usable in demos.
type Coach struct {
	enabled bool
	client  anthropic.Client
	model   string
	log     *logrus.Logger
}

// New initializes the coach
func New(cfg *config.Config, log *logrus.Logger) *Coach {
	c := &Coach{
		enabled: cfg.AnthropicAPIKey != "",
		model:   cfg.CoachModel,
		log:     log,
	}
	if c.enabled {
		c.client = anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey))
	}
	return c
}

// Reply produces a coaching answer for the message
func (c *Coach) Reply(ctx context.Context, message string) (string, error) {
	if !c.enabled {
		return demoReply, nil
	}

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(message)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("coach request failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	reply := strings.TrimSpace(sb.String())
	if reply == "" {
		reply = "No reply from the model."
	}
	return reply, nil
}
