// Package assistant provides the planner and narrator behind the
// conversational agent. With model credentials it talks to a chat model
// through the OpenRouter-compatible client; without them it degrades to
// deterministic keyword rules.
package assistant

import (
	openaisdk "github.com/openai/openai-go"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
	llmx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/llm"
	promptx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/prompt"
)

// Registry hands out the planner and narrator roles.
type Registry struct {
	planner  contractx.Planner
	narrator contractx.Narrator
}

var _ contractx.Registry = (*Registry)(nil)

// NewRegistry builds LLM-backed roles, or keyword fallbacks when client is
// nil (no API key configured).
func NewRegistry(client *openaisdk.Client, cfg llmx.Config) *Registry {
	if client == nil {
		log.Warn().Msg("no model credentials set, using keyword fallback planner and narrator")
		return &Registry{planner: fallbackPlanner{}, narrator: fallbackNarrator{}}
	}

	prompts := promptx.LoadSet()
	return &Registry{
		planner: &llmPlanner{
			client:      client,
			model:       cfg.ModelFor(llmx.RolePlanner),
			temperature: cfg.TemperatureFor(llmx.RolePlanner),
			maxTokens:   cfg.MaxCompletionToken,
			prompts:     prompts,
		},
		narrator: &llmNarrator{
			client:      client,
			model:       cfg.ModelFor(llmx.RoleNarrator),
			temperature: cfg.TemperatureFor(llmx.RoleNarrator),
			maxTokens:   cfg.MaxCompletionToken,
			prompts:     prompts,
		},
	}
}

func (r *Registry) Planner() contractx.Planner   { return r.planner }
func (r *Registry) Narrator() contractx.Narrator { return r.narrator }
