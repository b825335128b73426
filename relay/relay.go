// Package relay forwards chat turns to Anthropic's streaming completion API.
// It is a pure pass-through: no retry, no transcript state, no decision logic.
package relay

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	log "github.com/sirupsen/logrus"
)

const defaultMaxTokens = 1024

// Message is one chat turn from the client.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Relay streams completions for forwarded chat turns.
type Relay struct {
	client anthropic.Client
	model  anthropic.Model
	log    *log.Logger
}

// New creates a Relay using the given API key and model name.
func New(apiKey, model string, logger *log.Logger) *Relay {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Relay{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(model),
		log:    logger,
	}
}

// Stream forwards the conversation and calls onDelta for every text fragment
// the service produces. A system turn, if present, is lifted into the system
// parameter; remaining turns must alternate starting and ending with user.
func (r *Relay) Stream(ctx context.Context, messages []Message, onDelta func(string) error) error {
	system, params, err := buildParams(messages)
	if err != nil {
		return err
	}
	req := anthropic.MessageNewParams{
		Model:     r.model,
		MaxTokens: defaultMaxTokens,
		Messages:  params,
	}
	if system != "" {
		req.System = []anthropic.TextBlockParam{{Text: system}}
	}

	stream := r.client.Messages.NewStreaming(ctx, req)
	for stream.Next() {
		event := stream.Current()
		switch ev := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			if delta, ok := ev.Delta.AsAny().(anthropic.TextDelta); ok {
				if err := onDelta(delta.Text); err != nil {
					return err
				}
			}
		}
	}
	if err := stream.Err(); err != nil {
		r.log.WithError(err).Warn("completion stream failed")
		return fmt.Errorf("completion stream: %w", err)
	}
	return nil
}

func buildParams(messages []Message) (string, []anthropic.MessageParam, error) {
	if len(messages) == 0 {
		return "", nil, fmt.Errorf("empty conversation")
	}
	system := ""
	params := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
		case "user":
			params = append(params, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case "assistant":
			params = append(params, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			return "", nil, fmt.Errorf("unsupported role %q", m.Role)
		}
	}
	if len(params) == 0 {
		return "", nil, fmt.Errorf("conversation has no user turns")
	}
	if params[len(params)-1].Role != anthropic.MessageParamRoleUser {
		return "", nil, fmt.Errorf("conversation must end with a user turn")
	}
	return system, params, nil
}
