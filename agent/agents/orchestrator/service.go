// Package orchestrator drives the plan, execute, narrate cycle for a user
// query, in blocking and streaming flavors.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
	nodex "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/nodes"
	promptx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/prompt"
	statex "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/state"
)

type Orchestrator struct {
	store  statex.Store
	models contractx.Registry
	exec   contractx.Executor

	prompts promptx.Set

	graphRunner compose.Runnable[nodex.GraphInput, contractx.QueryResult]

	mu           sync.Mutex
	capabilities string
}

func New(store statex.Store, models contractx.Registry, exec contractx.Executor) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if models == nil {
		return nil, errors.New("model registry is required")
	}
	if exec == nil {
		return nil, errors.New("action executor is required")
	}

	o := &Orchestrator{
		store:   store,
		models:  models,
		exec:    exec,
		prompts: promptx.LoadSet(),
	}

	graphRunner, err := o.compileHandleQueryGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// Init discovers the store's actions, categories and example queries so the
// planner knows its vocabulary. It is retried lazily on the first query if
// the initial call fails.
func (o *Orchestrator) Init(ctx context.Context) error {
	raw, err := o.exec.Execute(ctx, contractx.ActionGetAvailableOptions, nil)
	if err != nil {
		return fmt.Errorf("discover capabilities: %w", err)
	}

	var opts contractx.AvailableOptions
	if err := json.Unmarshal(raw, &opts); err != nil {
		return fmt.Errorf("decode capabilities: %w", err)
	}

	o.mu.Lock()
	o.capabilities = capabilitySummary(opts)
	o.mu.Unlock()

	log.Info().
		Int("actions", len(opts.AvailableActions)).
		Int("categories", len(opts.ProductCategories)).
		Msg("capabilities discovered")
	return nil
}

// HandleQuery runs the full pipeline and returns the final result.
func (o *Orchestrator) HandleQuery(ctx context.Context, sessionID, query string) (contractx.QueryResult, error) {
	o.ensureReady(ctx)
	return o.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Query:     query,
	})
}

// HandleQueryStream runs the same pipeline, publishing events as phases
// finish. Exactly one terminal event is emitted: complete on success, error
// otherwise. Nothing follows the terminal event.
func (o *Orchestrator) HandleQueryStream(ctx context.Context, sessionID, query string, emit nodex.EmitFunc) error {
	o.ensureReady(ctx)

	result, err := o.runStream(ctx, sessionID, query, emit)
	if err != nil {
		emitErr := emit(contractx.Event{
			Name: contractx.EventError,
			Data: map[string]string{
				"message": err.Error(),
				"code":    contractx.CodeOf(err),
			},
		})
		if emitErr != nil {
			log.Warn().Err(emitErr).Str("session_id", sessionID).Msg("could not deliver terminal error event")
		}
		return err
	}

	return emit(contractx.Event{Name: contractx.EventComplete, Data: result})
}

func (o *Orchestrator) runStream(ctx context.Context, sessionID, query string, emit nodex.EmitFunc) (contractx.QueryResult, error) {
	var zero contractx.QueryResult

	state, err := nodex.ValidateRequest(nodex.GraphInput{SessionID: sessionID, Query: query})
	if err != nil {
		return zero, err
	}
	if state, err = nodex.AppendUserTurn(state, o.store, o.systemTurns()); err != nil {
		return zero, err
	}
	if state, err = nodex.PlanActions(ctx, state, o.models.Planner()); err != nil {
		return zero, err
	}

	if err := emit(contractx.Event{
		Name: contractx.EventThoughts,
		Data: map[string]string{"thoughts": state.Plan.Thoughts},
	}); err != nil {
		return zero, err
	}

	if state, err = nodex.ExecutePlan(ctx, state, o.exec, emit); err != nil {
		return zero, err
	}
	if state, err = nodex.NarrateResults(ctx, state, o.models.Narrator()); err != nil {
		return zero, err
	}
	if state, err = nodex.ParseAnswer(state); err != nil {
		return zero, err
	}
	if state, err = nodex.AugmentCart(ctx, state, o.exec); err != nil {
		return zero, err
	}
	if state, err = nodex.AppendAssistantTurn(state, o.store); err != nil {
		return zero, err
	}
	return nodex.FinalizeAnswer(state)
}

func (o *Orchestrator) ensureReady(ctx context.Context) {
	o.mu.Lock()
	ready := o.capabilities != ""
	o.mu.Unlock()
	if ready {
		return
	}
	if err := o.Init(ctx); err != nil {
		log.Warn().Err(err).Msg("capability discovery failed, continuing with persona only")
	}
}

func (o *Orchestrator) systemTurns() []contractx.Turn {
	turns := []contractx.Turn{{Role: contractx.RoleSystem, Content: o.prompts.System}}

	o.mu.Lock()
	capabilities := o.capabilities
	o.mu.Unlock()
	if capabilities != "" {
		turns = append(turns, contractx.Turn{Role: contractx.RoleSystem, Content: capabilities})
	}
	return turns
}

func capabilitySummary(opts contractx.AvailableOptions) string {
	names := make([]string, len(opts.AvailableActions))
	for i, a := range opts.AvailableActions {
		names[i] = string(a)
	}

	var b strings.Builder
	b.WriteString("Store capabilities:\n")
	fmt.Fprintf(&b, "Available actions: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(&b, "Product categories: %s\n", strings.Join(opts.ProductCategories, ", "))
	if len(opts.QueryExamples) > 0 {
		b.WriteString("Example queries users might ask:\n")
		for _, q := range opts.QueryExamples {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
