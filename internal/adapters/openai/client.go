/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	"github.com/rs/zerolog"
	"github.com/sprintdeck/sprintdeck/internal/config"
	"github.com/sprintdeck/sprintdeck/internal/domain"
	"github.com/sprintdeck/sprintdeck/internal/metrics"
)

type Client struct {
	key     string
	model   string
	timeout time.Duration
	cli     openai.Client
	log     zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
	model := cfg.OpenAIModel
	if strings.TrimSpace(model) == "" { model = "gpt-4.1-mini" }
	cli := openai.NewClient(option.WithAPIKey(cfg.OpenAIKey))
	return &Client{key: cfg.OpenAIKey, model: model, timeout: cfg.OpenAITimeout, cli: cli, log: log}
}

// Enabled reports whether a key is configured; callers skip the draft
// endpoint entirely when it is not.
func (c *Client) Enabled() bool { return strings.TrimSpace(c.key) != "" }

// DraftSummary asks the model for executive-summary prose from the derived
// sprint metrics and whatever the planner has already filled in.
func (c *Client) DraftSummary(ctx context.Context, m metrics.Metrics, sum domain.ExecutiveSummary) (string, error) {
	if !c.Enabled() { return "", errors.New("openai: missing key") }
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	c.log.Info().Str("model", c.model).Msg("openai DraftSummary call")
	payload := map[string]any{
		"totalCapacity":   m.TotalCapacity,
		"totalWork":       m.TotalWork,
		"totalTimeSpent":  m.TotalTimeSpent,
		"loadPercentage":  m.LoadPercentage,
		"sprintProgress":  m.SprintProgress,
		"overloadedCount": m.OverloadedCount,
		"atRiskCount":     len(m.AtRiskStories),
		"lowPriority":     m.LowPriorityCount,
		"summaryFields":   sum,
	}
	userContent := ""
	if b, err := json.Marshal(payload); err == nil { userContent = string(b) }
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a senior agile coach. Given sprint capacity metrics and any planner-entered fields, draft a concise executive summary: goal restatement, confidence, key risks, and a delivery forecast. Plain text, no markdown."),
			openai.UserMessage(userContent),
		},
	}
	resp, err := c.cli.Chat.Completions.New(ctx, params)
	if err != nil { return "", err }
	if len(resp.Choices) == 0 { return "", errors.New("openai: no choices") }
	return resp.Choices[0].Message.Content, nil
}
