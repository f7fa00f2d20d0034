package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"

	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
	llmx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/llm"
	promptx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/prompt"
)

// llmPlanner asks the chat model for a fenced-JSON action plan over the full
// conversation history.
type llmPlanner struct {
	client      *openaisdk.Client
	model       string
	temperature float64
	maxTokens   int
	prompts     promptx.Set
}

var _ contractx.Planner = (*llmPlanner)(nil)

func (p *llmPlanner) Plan(ctx context.Context, req contractx.PlanRequest) (contractx.Plan, error) {
	if strings.TrimSpace(req.Query) == "" {
		return contractx.Plan{}, fmt.Errorf("%w: query is required", contractx.ErrValidation)
	}

	instruction := fmt.Sprintf("%s\n\nAvailable actions: %s", p.prompts.Plan, joinActions())
	msgs := toMessages(req.History)
	msgs = append(msgs, openaisdk.SystemMessage(instruction))

	content, err := complete(ctx, p.client, p.model, p.temperature, p.maxTokens, msgs)
	if err != nil {
		return contractx.Plan{}, fmt.Errorf("%w: planner invoke: %v", contractx.ErrInternal, err)
	}

	raw, err := llmx.ExtractFencedJSON(content)
	if err != nil {
		return contractx.Plan{}, fmt.Errorf("%w: %v", contractx.ErrPlanParse, err)
	}

	var plan contractx.Plan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return contractx.Plan{}, fmt.Errorf("%w: decode plan: %v", contractx.ErrPlanParse, err)
	}
	if len(plan.Actions) == 0 {
		return contractx.Plan{}, fmt.Errorf("%w: plan contains no actions", contractx.ErrPlanParse)
	}
	return plan, nil
}

// llmNarrator asks the chat model to fold the action-result batch into the
// documented answer shape. It returns the raw model output; the caller
// parses it and tolerates it not matching.
type llmNarrator struct {
	client      *openaisdk.Client
	model       string
	temperature float64
	maxTokens   int
	prompts     promptx.Set
}

var _ contractx.Narrator = (*llmNarrator)(nil)

func (n *llmNarrator) Narrate(ctx context.Context, req contractx.NarrateRequest) (string, error) {
	results, err := json.MarshalIndent(req.Results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: encode action results: %v", contractx.ErrInternal, err)
	}

	instruction := fmt.Sprintf("Here are the results of the actions you planned:\n%s\n\n%s", results, n.prompts.Narrate)
	msgs := toMessages(req.History)
	msgs = append(msgs, openaisdk.SystemMessage(instruction))

	content, err := complete(ctx, n.client, n.model, n.temperature, n.maxTokens, msgs)
	if err != nil {
		return "", fmt.Errorf("%w: narrator invoke: %v", contractx.ErrInternal, err)
	}
	return content, nil
}

func complete(
	ctx context.Context,
	client *openaisdk.Client,
	model string,
	temperature float64,
	maxTokens int,
	msgs []openaisdk.ChatCompletionMessageParamUnion,
) (string, error) {
	params := openaisdk.ChatCompletionNewParams{
		Model:       openaisdk.ChatModel(model),
		Messages:    msgs,
		Temperature: openaisdk.Float(temperature),
	}
	if maxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(int64(maxTokens))
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("completion returned empty content")
	}
	return content, nil
}

func toMessages(history []contractx.Turn) []openaisdk.ChatCompletionMessageParamUnion {
	msgs := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(history)+1)
	for _, turn := range history {
		switch turn.Role {
		case contractx.RoleSystem:
			msgs = append(msgs, openaisdk.SystemMessage(turn.Content))
		case contractx.RoleAssistant:
			msgs = append(msgs, openaisdk.AssistantMessage(turn.Content))
		default:
			msgs = append(msgs, openaisdk.UserMessage(turn.Content))
		}
	}
	return msgs
}

func joinActions() string {
	actions := contractx.Actions()
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}
