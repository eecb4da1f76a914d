package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/AzielCF/az-reply/config"
	domainAutoReply "github.com/AzielCF/az-reply/domains/autoreply"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sirupsen/logrus"
)

const defaultModel = "gpt-4o-mini"

// Generator is the OpenAI-backed smart reply provider.
type Generator struct {
	apiKey       string
	model        string
	systemPrompt string
}

func NewGenerator() *Generator {
	model := strings.TrimSpace(config.AIModel)
	if model == "" {
		model = defaultModel
	}
	return &Generator{
		apiKey:       config.AIAPIKey,
		model:        model,
		systemPrompt: config.AISystemPrompt,
	}
}

func (g *Generator) Generate(ctx context.Context, input domainAutoReply.SmartReplyInput) (domainAutoReply.SmartReplyOutput, error) {
	if g.apiKey == "" {
		return domainAutoReply.SmartReplyOutput{}, fmt.Errorf("openai provider has no API key")
	}

	client := openai.NewClient(
		option.WithAPIKey(g.apiKey),
	)

	var messages []openai.ChatCompletionMessageParamUnion
	if g.systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(g.systemPrompt))
	}
	messages = append(messages, openai.UserMessage("Generate a suitable reply to the following message:\n"+input.Message))

	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(g.model),
		Messages: messages,
	})
	if err != nil {
		return domainAutoReply.SmartReplyOutput{}, err
	}
	if len(completion.Choices) == 0 {
		return domainAutoReply.SmartReplyOutput{}, fmt.Errorf("no response from openai")
	}

	reply := strings.TrimSpace(completion.Choices[0].Message.Content)
	logrus.Debugf("[OPENAI] Generated reply (%d chars)", len(reply))
	return domainAutoReply.SmartReplyOutput{Reply: reply}, nil
}
