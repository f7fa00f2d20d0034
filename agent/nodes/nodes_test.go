package orchestratornode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
	statex "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/state"
)

func TestValidateRequestDefaultsSession(t *testing.T) {
	t.Parallel()

	state, err := ValidateRequest(GraphInput{Query: "  hats  "})
	if err != nil {
		t.Fatalf("ValidateRequest() error = %v", err)
	}
	if state.SessionID != DefaultSessionID {
		t.Fatalf("sessionID = %q, want %q", state.SessionID, DefaultSessionID)
	}
	if state.Query != "hats" {
		t.Fatalf("query = %q, want trimmed", state.Query)
	}

	if _, err := ValidateRequest(GraphInput{SessionID: "s1"}); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("empty query error = %v, want ErrValidation", err)
	}
}

func TestAppendUserTurnSeedsFreshSession(t *testing.T) {
	t.Parallel()

	store := statex.NewMemoryStore()
	seed := []contractx.Turn{{Role: contractx.RoleSystem, Content: "persona"}}

	state := &GraphState{SessionID: "s1", Query: "first"}
	if _, err := AppendUserTurn(state, store, seed); err != nil {
		t.Fatalf("AppendUserTurn() error = %v", err)
	}
	if len(state.History) != 2 || state.History[0].Content != "persona" {
		t.Fatalf("fresh session not seeded: %+v", state.History)
	}

	// second query must not re-seed
	state2 := &GraphState{SessionID: "s1", Query: "second"}
	if _, err := AppendUserTurn(state2, store, seed); err != nil {
		t.Fatalf("AppendUserTurn() error = %v", err)
	}
	if len(state2.History) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(state2.History))
	}
}

func TestParseAnswerLenient(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		raw      string
		wantText string
	}{
		{
			name:     "clean json",
			raw:      `{"reasoning": "r", "items": [], "text": "All set."}`,
			wantText: "All set.",
		},
		{
			name:     "json with surrounding prose",
			raw:      "Sure! Here you go: {\"reasoning\": \"r\", \"items\": [], \"text\": \"Found it.\"} Hope that helps.",
			wantText: "Found it.",
		},
		{
			name:     "plain text narration",
			raw:      "I could not find any hats.",
			wantText: "I could not find any hats.",
		},
		{
			name:     "json without text field",
			raw:      `{"reasoning": "r", "items": []}`,
			wantText: `{"reasoning": "r", "items": []}`,
		},
		{
			name:     "empty narration",
			raw:      "",
			wantText: defaultAnswerText,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			state := &GraphState{SessionID: "s1", RawNarration: tc.raw}
			if _, err := ParseAnswer(state); err != nil {
				t.Fatalf("ParseAnswer() error = %v", err)
			}
			if state.Answer.Text != tc.wantText {
				t.Fatalf("text = %q, want %q", state.Answer.Text, tc.wantText)
			}
		})
	}
}

type stubExecutor struct {
	products map[int]contractx.Product
	failIDs  map[int]bool
}

func (s *stubExecutor) Execute(ctx context.Context, action contractx.Action, payload json.RawMessage) (json.RawMessage, error) {
	if action != contractx.ActionGetProduct {
		return nil, fmt.Errorf("%w: %q", contractx.ErrUnsupportedAction, action)
	}
	var p contractx.GetProductPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, err
	}
	if s.failIDs[p.ID] {
		return nil, fmt.Errorf("%w: product id=%d", contractx.ErrNotFound, p.ID)
	}
	product, ok := s.products[p.ID]
	if !ok {
		return nil, fmt.Errorf("%w: product id=%d", contractx.ErrNotFound, p.ID)
	}
	return json.Marshal(product)
}

func cartResultState(action contractx.Action, lines []contractx.CartLine, text string) *GraphState {
	return &GraphState{
		SessionID: "s1",
		Results: []contractx.ActionResult{{
			Action: action,
			Result: map[string]any{
				"id":       7,
				"userId":   1,
				"products": lines,
			},
		}},
		Answer: contractx.StructuredAnswer{Text: text},
	}
}

func TestAugmentCartEnrichesInCartOrder(t *testing.T) {
	t.Parallel()

	exec := &stubExecutor{products: map[int]contractx.Product{
		1: {ID: 1, Title: "Hat", Price: 10},
		2: {ID: 2, Title: "Scarf", Price: 15},
	}}
	state := cartResultState(contractx.ActionGetCart, []contractx.CartLine{
		{ProductID: 2, Quantity: 3},
		{ProductID: 1, Quantity: 1},
	}, "Your cart.")

	if _, err := AugmentCart(context.Background(), state, exec); err != nil {
		t.Fatalf("AugmentCart() error = %v", err)
	}

	if len(state.Answer.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(state.Answer.Items))
	}
	if state.Answer.Items[0].Title != "Scarf" || state.Answer.Items[1].Title != "Hat" {
		t.Fatalf("items out of cart order: %+v", state.Answer.Items)
	}
	if state.Answer.Items[0].Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", state.Answer.Items[0].Quantity)
	}
	if !strings.Contains(state.Answer.Text, "- Scarf: Quantity 3") {
		t.Fatalf("quantity summary missing: %q", state.Answer.Text)
	}
}

func TestAugmentCartSkipsFailedLookups(t *testing.T) {
	t.Parallel()

	exec := &stubExecutor{
		products: map[int]contractx.Product{1: {ID: 1, Title: "Hat"}},
		failIDs:  map[int]bool{9: true},
	}
	state := cartResultState(contractx.ActionGetCart, []contractx.CartLine{
		{ProductID: 1, Quantity: 1},
		{ProductID: 9, Quantity: 2},
	}, "Your cart.")

	if _, err := AugmentCart(context.Background(), state, exec); err != nil {
		t.Fatalf("AugmentCart() error = %v", err)
	}

	if len(state.Answer.Items) != 1 || state.Answer.Items[0].Title != "Hat" {
		t.Fatalf("expected only the resolvable item: %+v", state.Answer.Items)
	}
	// the unresolvable line still shows in the summary by id
	if !strings.Contains(state.Answer.Text, "- Product #9: Quantity 2") {
		t.Fatalf("summary missing fallback label: %q", state.Answer.Text)
	}
}

func TestAugmentCartSkipsWhenNarrationMentionsQuantity(t *testing.T) {
	t.Parallel()

	exec := &stubExecutor{products: map[int]contractx.Product{1: {ID: 1, Title: "Hat"}}}
	state := cartResultState(contractx.ActionAddToCart, []contractx.CartLine{{ProductID: 1, Quantity: 2}},
		"Added. You now have a quantity of 2.")

	if _, err := AugmentCart(context.Background(), state, exec); err != nil {
		t.Fatalf("AugmentCart() error = %v", err)
	}
	if strings.Contains(state.Answer.Text, "Current quantities") {
		t.Fatalf("summary appended despite narration covering quantities: %q", state.Answer.Text)
	}
}

func TestAugmentCartIgnoresNonCartResults(t *testing.T) {
	t.Parallel()

	state := &GraphState{
		SessionID: "s1",
		Results: []contractx.ActionResult{{
			Action: contractx.ActionGetProducts,
			Result: []any{},
		}},
		Answer: contractx.StructuredAnswer{Text: "Catalog."},
	}

	if _, err := AugmentCart(context.Background(), state, &stubExecutor{}); err != nil {
		t.Fatalf("AugmentCart() error = %v", err)
	}
	if state.Answer.Text != "Catalog." || len(state.Answer.Items) != 0 {
		t.Fatalf("non-cart result must be untouched: %+v", state.Answer)
	}
}

func TestExecutePlanRecordsFailuresAndContinues(t *testing.T) {
	t.Parallel()

	exec := &stubExecutor{products: map[int]contractx.Product{1: {ID: 1, Title: "Hat"}}}
	state := &GraphState{
		SessionID: "s1",
		Plan: contractx.Plan{Actions: []contractx.PlannedAction{
			{Action: contractx.ActionGetProduct, Payload: json.RawMessage(`{"id": 99}`)},
			{Action: contractx.ActionGetProduct, Payload: json.RawMessage(`{"id": 1}`)},
		}},
	}

	if _, err := ExecutePlan(context.Background(), state, exec, nil); err != nil {
		t.Fatalf("ExecutePlan() error = %v", err)
	}
	if len(state.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(state.Results))
	}
	if state.Results[0].Error == "" || state.Results[1].Error != "" {
		t.Fatalf("unexpected result mix: %+v", state.Results)
	}
}

func TestExecutePlanStopsWhenEmitFails(t *testing.T) {
	t.Parallel()

	exec := &stubExecutor{products: map[int]contractx.Product{1: {ID: 1}}}
	state := &GraphState{
		SessionID: "s1",
		Plan: contractx.Plan{Actions: []contractx.PlannedAction{
			{Action: contractx.ActionGetProduct, Payload: json.RawMessage(`{"id": 1}`)},
			{Action: contractx.ActionGetProduct, Payload: json.RawMessage(`{"id": 1}`)},
		}},
	}

	emitErr := errors.New("client went away")
	_, err := ExecutePlan(context.Background(), state, exec, func(contractx.Event) error {
		return emitErr
	})
	if !errors.Is(err, emitErr) {
		t.Fatalf("ExecutePlan() error = %v, want emit failure", err)
	}
}
