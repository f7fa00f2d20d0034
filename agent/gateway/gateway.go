package gateway

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	cartx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/cart"
	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
	protocolx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/protocol"
)

// queryExamples illustrates the natural-language queries the assistant can
// ground the language model with.
var queryExamples = []string{
	"Show me all products",
	"Find men's clothing under $50",
	"Show me jewelry with good ratings",
	"I'm looking for women's clothing",
	"What are your bestselling electronics?",
	"Show me items with a price less than $20",
	"Find products in the jewelery category",
	"Show me highly rated men's clothing",
}

// Gateway routes validated request envelopes to the concrete action
// handlers. It never lets a handler failure escape: every failure becomes an
// error envelope carrying the originating failure's classified code.
type Gateway struct {
	api   contractx.Catalog
	carts *cartx.Store
}

func New(api contractx.Catalog, carts *cartx.Store) *Gateway {
	return &Gateway{api: api, carts: carts}
}

// Handle dispatches one request envelope. Routing is total over the closed
// action enum; the default branch exists for forward-compatible wire input.
func (g *Gateway) Handle(ctx context.Context, req protocolx.Envelope) protocolx.Envelope {
	payload, err := protocolx.DecodeRequestPayload(req.Action, req.Payload)
	if err != nil {
		return g.errorEnvelope(req, err)
	}

	var result any
	switch req.Action {
	case contractx.ActionLogin:
		result, err = g.handleLogin(ctx, payload.(*contractx.LoginPayload))
	case contractx.ActionGetProducts:
		result, err = g.handleGetProducts(ctx)
	case contractx.ActionGetProduct:
		result, err = g.api.Product(ctx, payload.(*contractx.GetProductPayload).ID)
	case contractx.ActionAddToCart:
		result, err = g.carts.AddToCart(ctx, *payload.(*contractx.AddToCartPayload))
	case contractx.ActionRemoveFromCart:
		result, err = g.carts.RemoveFromCart(ctx, *payload.(*contractx.RemoveFromCartPayload))
	case contractx.ActionGetCart:
		result = g.carts.Cart(ctx)
	case contractx.ActionCreateCart:
		result, err = g.carts.CreateCart(ctx, *payload.(*contractx.CreateCartPayload))
	case contractx.ActionUpdateCart:
		result, err = g.carts.UpdateCart(ctx, *payload.(*contractx.UpdateCartPayload))
	case contractx.ActionDeleteCart:
		result, err = g.carts.DeleteCart(ctx, *payload.(*contractx.DeleteCartPayload))
	case contractx.ActionGetStoreStats:
		result, err = g.handleStoreStats(ctx)
	case contractx.ActionGetAvailableOptions:
		result, err = g.handleAvailableOptions(ctx)
	default:
		return protocolx.NewError(
			fmt.Sprintf("Unsupported action: %s", req.Action),
			contractx.CodeUnsupportedAction,
			req.RequestID,
			req.Action,
		)
	}
	if err != nil {
		return g.errorEnvelope(req, err)
	}

	resp, err := protocolx.NewResponse(req.Action, result, req.RequestID)
	if err != nil {
		return g.errorEnvelope(req, fmt.Errorf("%w: encode response: %v", contractx.ErrInternal, err))
	}
	return resp
}

func (g *Gateway) errorEnvelope(req protocolx.Envelope, err error) protocolx.Envelope {
	log.Error().Err(err).Str("action", string(req.Action)).Str("requestId", req.RequestID).Msg("action failed")
	return protocolx.NewError(err.Error(), contractx.CodeOf(err), req.RequestID, req.Action)
}

// handleLogin authenticates, loads the profile, and initializes the user's
// cart as a side effect of successful authentication.
func (g *Gateway) handleLogin(ctx context.Context, payload *contractx.LoginPayload) (contractx.LoginResponse, error) {
	token, err := g.api.Login(ctx, payload.Username, payload.Password)
	if err != nil {
		return contractx.LoginResponse{}, fmt.Errorf("authenticate user: %w", err)
	}

	user, err := g.api.Profile(ctx, token)
	if err != nil {
		return contractx.LoginResponse{}, fmt.Errorf("retrieve user profile: %w", err)
	}

	g.carts.Initialize(ctx, user.ID)

	return contractx.LoginResponse{Token: token, User: user}, nil
}

func (g *Gateway) handleGetProducts(ctx context.Context) ([]contractx.Product, error) {
	products, err := g.api.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieve products: %w", err)
	}
	return products, nil
}

// handleStoreStats aggregates the full catalog. The grouping key is the
// product's category string verbatim; category order follows first
// appearance in the catalog.
func (g *Gateway) handleStoreStats(ctx context.Context) (contractx.StoreStats, error) {
	products, err := g.api.Products(ctx)
	if err != nil {
		return contractx.StoreStats{}, fmt.Errorf("retrieve products for store statistics: %w", err)
	}

	var totalCost float64
	byCategory := make(map[string][]contractx.Product)
	var order []string
	for _, p := range products {
		totalCost += p.Price
		if _, ok := byCategory[p.Category]; !ok {
			order = append(order, p.Category)
		}
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}

	stats := contractx.StoreStats{
		TotalProducts: len(products),
		TotalCost:     totalCost,
	}
	if len(products) > 0 {
		stats.AveragePrice = totalCost / float64(len(products))
	}

	for _, name := range order {
		group := byCategory[name]
		var groupTotal float64
		for _, p := range group {
			groupTotal += p.Price
		}
		stats.Categories = append(stats.Categories, contractx.CategoryStats{
			Name:         name,
			ProductCount: len(group),
			TotalCost:    groupTotal,
			AveragePrice: groupTotal / float64(len(group)),
		})
	}
	return stats, nil
}

func (g *Gateway) handleAvailableOptions(ctx context.Context) (contractx.AvailableOptions, error) {
	categories, err := g.api.Categories(ctx)
	if err != nil {
		return contractx.AvailableOptions{}, fmt.Errorf("retrieve product categories: %w", err)
	}
	return contractx.AvailableOptions{
		AvailableActions:  contractx.Actions(),
		ProductCategories: categories,
		QueryExamples:     append([]string(nil), queryExamples...),
	}, nil
}
