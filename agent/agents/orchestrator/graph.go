package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
	nodex "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/nodes"
)

func (o *Orchestrator) compileHandleQueryGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, contractx.QueryResult], error) {
	graph := compose.NewGraph[nodex.GraphInput, contractx.QueryResult]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("append_user_turn",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.AppendUserTurn(in, o.store, o.systemTurns())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node append_user_turn: %w", err)
	}

	if err := graph.AddLambdaNode("plan_actions",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.PlanActions(ctx, in, o.models.Planner())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node plan_actions: %w", err)
	}

	if err := graph.AddLambdaNode("execute_plan",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ExecutePlan(ctx, in, o.exec, nil)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node execute_plan: %w", err)
	}

	if err := graph.AddLambdaNode("narrate_results",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.NarrateResults(ctx, in, o.models.Narrator())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node narrate_results: %w", err)
	}

	if err := graph.AddLambdaNode("parse_answer",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ParseAnswer(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node parse_answer: %w", err)
	}

	if err := graph.AddLambdaNode("augment_cart",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.AugmentCart(ctx, in, o.exec)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node augment_cart: %w", err)
	}

	if err := graph.AddLambdaNode("append_assistant_turn",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.AppendAssistantTurn(in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node append_assistant_turn: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_answer",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (contractx.QueryResult, error) {
			return nodex.FinalizeAnswer(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_answer: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "append_user_turn"},
		{"append_user_turn", "plan_actions"},
		{"plan_actions", "execute_plan"},
		{"execute_plan", "narrate_results"},
		{"narrate_results", "parse_answer"},
		{"parse_answer", "augment_cart"},
		{"augment_cart", "append_assistant_turn"},
		{"append_assistant_turn", "finalize_answer"},
		{"finalize_answer", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.handle_query"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
