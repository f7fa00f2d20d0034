package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
)

// fallbackPlanner maps queries onto actions with keyword rules so the agent
// keeps answering when no model credentials are configured.
type fallbackPlanner struct{}

var _ contractx.Planner = (*fallbackPlanner)(nil)

var (
	showAllPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)show\s+all`),
		regexp.MustCompile(`(?i)all\s+products`),
		regexp.MustCompile(`(?i)list\s+all`),
		regexp.MustCompile(`(?i)get\s+all`),
		regexp.MustCompile(`(?i)display\s+all`),
		regexp.MustCompile(`(?i)view\s+all`),
	}
	maxPriceRe = regexp.MustCompile(`(?i)(?:under|less than)\s+\$?(\d+)`)
	minPriceRe = regexp.MustCompile(`(?i)(?:over|more than)\s+\$?(\d+)`)
)

func (fallbackPlanner) Plan(_ context.Context, req contractx.PlanRequest) (contractx.Plan, error) {
	query := strings.ToLower(strings.TrimSpace(req.Query))
	if query == "" {
		return contractx.Plan{}, fmt.Errorf("%w: query is required", contractx.ErrValidation)
	}

	empty := json.RawMessage(`{}`)
	plan := contractx.Plan{Thoughts: "No model credentials are set, so I matched the query against keyword rules."}

	switch {
	case strings.Contains(query, "cart") || strings.Contains(query, "basket"):
		plan.Actions = append(plan.Actions, contractx.PlannedAction{Action: contractx.ActionGetCart, Payload: empty})
	case strings.Contains(query, "stats") || strings.Contains(query, "statistics") || strings.Contains(query, "overview"):
		plan.Actions = append(plan.Actions, contractx.PlannedAction{Action: contractx.ActionGetStoreStats, Payload: empty})
	case strings.Contains(query, "categor") || strings.Contains(query, "what can you do") || strings.Contains(query, "help"):
		plan.Actions = append(plan.Actions, contractx.PlannedAction{Action: contractx.ActionGetAvailableOptions, Payload: empty})
	default:
		plan.Actions = append(plan.Actions, contractx.PlannedAction{Action: contractx.ActionGetProducts, Payload: empty})
	}
	return plan, nil
}

// fallbackNarrator renders action results without a model. Product listings
// are filtered with the same keyword and price rules the planner uses.
type fallbackNarrator struct{}

var _ contractx.Narrator = (*fallbackNarrator)(nil)

func (fallbackNarrator) Narrate(_ context.Context, req contractx.NarrateRequest) (string, error) {
	answer := contractx.StructuredAnswer{
		Reasoning: "Rendered from action results with keyword matching because no model credentials are set.",
	}

	for _, res := range req.Results {
		if res.Error != "" {
			continue
		}
		switch res.Action {
		case contractx.ActionGetProducts:
			products := decodeAs[[]contractx.Product](res.Result)
			matched := filterProducts(products, req.Query)
			for _, p := range matched {
				answer.Items = append(answer.Items, contractx.AnswerItem{Product: p})
			}
			answer.Text = productSummary(len(matched), len(products))
		case contractx.ActionGetProduct:
			p := decodeAs[contractx.Product](res.Result)
			answer.Items = append(answer.Items, contractx.AnswerItem{Product: p})
			answer.Text = fmt.Sprintf("%s costs $%.2f.", p.Title, p.Price)
		case contractx.ActionGetCart, contractx.ActionAddToCart, contractx.ActionRemoveFromCart, contractx.ActionUpdateCart, contractx.ActionCreateCart:
			cart := decodeAs[contractx.Cart](res.Result)
			answer.Text = cartSummary(cart)
		case contractx.ActionGetStoreStats:
			stats := decodeAs[contractx.StoreStats](res.Result)
			answer.Text = statsSummary(stats)
		case contractx.ActionGetAvailableOptions:
			opts := decodeAs[contractx.AvailableOptions](res.Result)
			answer.Text = fmt.Sprintf(
				"I can help with %d kinds of requests across categories like %s. Try one of: %s",
				len(opts.AvailableActions),
				strings.Join(opts.ProductCategories, ", "),
				strings.Join(firstN(opts.QueryExamples, 3), " / "),
			)
		case contractx.ActionDeleteCart:
			del := decodeAs[contractx.DeleteCartResult](res.Result)
			answer.Text = del.Message
		case contractx.ActionLogin:
			answer.Text = "You are logged in."
		}
	}

	if answer.Text == "" {
		answer.Text = "I could not find anything matching that request."
	}

	out, err := json.Marshal(answer)
	if err != nil {
		return "", fmt.Errorf("%w: encode fallback answer: %v", contractx.ErrInternal, err)
	}
	return string(out), nil
}

func decodeAs[T any](result any) T {
	var v T
	raw, err := json.Marshal(result)
	if err != nil {
		return v
	}
	_ = json.Unmarshal(raw, &v)
	return v
}

func filterProducts(products []contractx.Product, query string) []contractx.Product {
	lower := strings.ToLower(strings.TrimSpace(query))

	for _, pat := range showAllPatterns {
		if pat.MatchString(lower) {
			return products
		}
	}

	maxPrice := math.Inf(1)
	if m := maxPriceRe.FindStringSubmatch(lower); m != nil {
		maxPrice, _ = strconv.ParseFloat(m[1], 64)
	}
	minPrice := 0.0
	if m := minPriceRe.FindStringSubmatch(lower); m != nil {
		minPrice, _ = strconv.ParseFloat(m[1], 64)
	}

	var mentioned []string
	for _, p := range products {
		cat := strings.ToLower(p.Category)
		if strings.Contains(lower, cat) && !contains(mentioned, cat) {
			mentioned = append(mentioned, cat)
		}
	}

	var matched []contractx.Product
	for _, p := range products {
		if p.Price < minPrice || p.Price > maxPrice {
			continue
		}
		cat := strings.ToLower(p.Category)
		if len(mentioned) > 0 && !contains(mentioned, cat) {
			continue
		}
		if len(mentioned) > 0 || minPrice > 0 || !math.IsInf(maxPrice, 1) {
			matched = append(matched, p)
			continue
		}
		if strings.Contains(strings.ToLower(p.Title), lower) ||
			strings.Contains(strings.ToLower(p.Description), lower) ||
			strings.Contains(cat, lower) {
			matched = append(matched, p)
		}
	}
	return matched
}

func productSummary(matched, total int) string {
	if matched == 0 {
		return fmt.Sprintf("None of the %d products matched your request.", total)
	}
	if matched == total {
		return fmt.Sprintf("Here are all %d products in the store.", total)
	}
	return fmt.Sprintf("I found %d matching products.", matched)
}

func cartSummary(cart contractx.Cart) string {
	if len(cart.Products) == 0 {
		return "Your cart is empty."
	}
	lines := make([]string, 0, len(cart.Products)+1)
	lines = append(lines, fmt.Sprintf("Your cart has %d line items:", len(cart.Products)))
	for _, line := range cart.Products {
		lines = append(lines, fmt.Sprintf("- Product #%d: Quantity %d", line.ProductID, line.Quantity))
	}
	return strings.Join(lines, "\n")
}

func statsSummary(stats contractx.StoreStats) string {
	lines := make([]string, 0, len(stats.Categories)+1)
	lines = append(lines, fmt.Sprintf("The store carries %d products across %d categories:", stats.TotalProducts, len(stats.Categories)))
	for _, c := range stats.Categories {
		lines = append(lines, fmt.Sprintf("- %s: %d products, average price $%.2f", c.Name, c.ProductCount, c.AveragePrice))
	}
	return strings.Join(lines, "\n")
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func firstN(xs []string, n int) []string {
	if len(xs) <= n {
		return xs
	}
	return xs[:n]
}
