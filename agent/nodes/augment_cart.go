package orchestratornode

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
)

// enrichWorkers bounds concurrent product lookups during cart enrichment.
const enrichWorkers = 4

// AugmentCart enriches the answer with the cart's product details when the
// plan touched the cart. Lines resolve to full products concurrently, in
// cart order; a line whose lookup fails is skipped. For cart reads and adds
// a quantity summary is appended unless the narration already mentions
// quantities.
func AugmentCart(ctx context.Context, in *GraphState, exec contractx.Executor) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrInternal)
	}

	action, cart, ok := cartResult(in.Results)
	if !ok || len(cart.Products) == 0 {
		return in, nil
	}

	items := enrichLines(ctx, exec, in.SessionID, cart.Products)
	if len(items) > 0 {
		in.Answer.Items = items
	}

	if action == contractx.ActionGetCart || action == contractx.ActionAddToCart {
		lower := strings.ToLower(in.Answer.Text)
		if !strings.Contains(lower, "quantity") && !strings.Contains(lower, "qty") {
			in.Answer.Text = in.Answer.Text + "\n\n" + quantitySummary(cart.Products, items)
		}
	}

	return in, nil
}

// cartResult returns the first successful cart-scoped result, decoded.
func cartResult(results []contractx.ActionResult) (contractx.Action, contractx.Cart, bool) {
	for _, res := range results {
		if res.Error != "" || !res.Action.CartScoped() {
			continue
		}
		raw, err := json.Marshal(res.Result)
		if err != nil {
			continue
		}
		var cart contractx.Cart
		if err := json.Unmarshal(raw, &cart); err != nil {
			continue
		}
		return res.Action, cart, true
	}
	return "", contractx.Cart{}, false
}

func enrichLines(ctx context.Context, exec contractx.Executor, sessionID string, lines []contractx.CartLine) []contractx.AnswerItem {
	found := make([]*contractx.AnswerItem, len(lines))

	var wg sync.WaitGroup
	sem := make(chan struct{}, enrichWorkers)
	for i, line := range lines {
		wg.Add(1)
		go func(i int, line contractx.CartLine) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			payload, err := json.Marshal(contractx.GetProductPayload{ID: line.ProductID})
			if err != nil {
				return
			}
			raw, err := exec.Execute(ctx, contractx.ActionGetProduct, payload)
			if err != nil {
				log.Warn().
					Err(err).
					Str("session_id", sessionID).
					Int("product_id", line.ProductID).
					Msg("cart enrichment lookup failed")
				return
			}
			var product contractx.Product
			if err := json.Unmarshal(raw, &product); err != nil {
				return
			}
			found[i] = &contractx.AnswerItem{Product: product, Quantity: line.Quantity}
		}(i, line)
	}
	wg.Wait()

	items := make([]contractx.AnswerItem, 0, len(lines))
	for _, item := range found {
		if item != nil {
			items = append(items, *item)
		}
	}
	return items
}

func quantitySummary(lines []contractx.CartLine, items []contractx.AnswerItem) string {
	titles := make(map[int]string, len(items))
	for _, item := range items {
		titles[item.ID] = item.Title
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, "Current quantities in your cart:")
	for _, line := range lines {
		name := titles[line.ProductID]
		if name == "" {
			name = fmt.Sprintf("Product #%d", line.ProductID)
		}
		out = append(out, fmt.Sprintf("- %s: Quantity %d", name, line.Quantity))
	}
	return strings.Join(out, "\n")
}
