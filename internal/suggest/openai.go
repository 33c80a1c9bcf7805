package suggest

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"lifequest/internal/engine"
)

const systemPrompt = `You are a quest designer for a gamified life management app.
Given a user goal, propose small concrete real-life tasks ("quests").
Respond with a JSON array only. Each element:
{"title": string, "description": string, "attributes": ["str"|"int"|"vit"|"cha"],
 "priority": "low"|"medium"|"high", "estimated_minutes": number}`

// OpenAIGenerator asks an OpenAI chat model for quest suggestions.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (g *OpenAIGenerator) Suggest(ctx context.Context, goal string, count int) ([]engine.QuestDescriptor, error) {
	if count <= 0 {
		count = 3
	}
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Goal: %s\nPropose %d quests.", goal, count)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("suggestion request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("suggestion request: empty response")
	}

	descriptors, err := ParseDescriptors(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if len(descriptors) > count {
		descriptors = descriptors[:count]
	}
	return descriptors, nil
}

// stripFences removes a markdown code fence if the model wrapped its JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
