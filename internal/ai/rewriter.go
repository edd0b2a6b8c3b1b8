package ai

import (
	"context"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"
)

// Rewriter интерфейс обогащения промпта перед отправкой воркеру.
// Все реализации должны быть взаимозаменяемыми.
type Rewriter interface {
	Rewrite(ctx context.Context, prompt string) (string, error)
}

// Инструкция для модели: развернуть короткую реплику из чата в описание сцены.
const rewriteInstructions = "Rewrite the user's short request as a single detailed English image generation prompt: subject, setting, lighting, style. Answer with the prompt only, no commentary."

// PromptRewriter разворачивает короткий промпт из чата в развёрнутое описание
// сцены через OpenAI Responses API.
type PromptRewriter struct {
	client *openai.Client
	model  string
}

func NewPromptRewriter(client *openai.Client, model string) *PromptRewriter {
	if model == "" {
		model = string(openai.ChatModelGPT4o)
	}
	return &PromptRewriter{client: client, model: model}
}

func (c *PromptRewriter) Rewrite(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: openai.ChatModel(c.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(
					responses.ResponseInputMessageContentListParam{
						{
							OfInputText: &responses.ResponseInputTextParam{
								Text: rewriteInstructions + "\n\n" + prompt,
							},
						},
					},
					responses.EasyInputMessageRoleUser,
				),
			},
		},
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(resp.OutputText()), nil
}
