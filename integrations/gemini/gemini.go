package gemini

import (
	"context"
	"strings"

	"github.com/AzielCF/az-reply/config"
	domainAutoReply "github.com/AzielCF/az-reply/domains/autoreply"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Generator is the Gemini-backed smart reply provider.
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
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return domainAutoReply.SmartReplyOutput{}, err
	}

	var genConfig *genai.GenerateContentConfig
	if systemText := strings.TrimSpace(g.systemPrompt); systemText != "" {
		genConfig = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemText, genai.RoleUser),
		}
	}

	contents := []*genai.Content{
		{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				{Text: "Generate a suitable reply to the following message:\n" + input.Message},
			},
		},
	}

	result, err := client.Models.GenerateContent(ctx, g.model, contents, genConfig)
	if err != nil {
		return domainAutoReply.SmartReplyOutput{}, err
	}
	if result == nil {
		return domainAutoReply.SmartReplyOutput{}, nil
	}

	reply := strings.TrimSpace(result.Text())
	logrus.Debugf("[GEMINI] Generated reply (%d chars)", len(reply))
	return domainAutoReply.SmartReplyOutput{Reply: reply}, nil
}
