package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	cartx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/cart"
	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
	protocolx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/protocol"
)

type fakeCatalog struct {
	products    []contractx.Product
	productsErr error
	categories  []string

	loginToken string
	loginErr   error
	user       contractx.User

	userCart    contractx.Cart
	userCartErr error

	initializedUsers []int
}

func (f *fakeCatalog) Products(ctx context.Context) ([]contractx.Product, error) {
	if f.productsErr != nil {
		return nil, f.productsErr
	}
	return f.products, nil
}

func (f *fakeCatalog) Product(ctx context.Context, id int) (contractx.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return contractx.Product{}, fmt.Errorf("%w: product id=%d", contractx.ErrNotFound, id)
}

func (f *fakeCatalog) Categories(ctx context.Context) ([]string, error) {
	return f.categories, nil
}

func (f *fakeCatalog) Login(ctx context.Context, username, password string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.loginToken, nil
}

func (f *fakeCatalog) Profile(ctx context.Context, token string) (contractx.User, error) {
	return f.user, nil
}

func (f *fakeCatalog) UserCart(ctx context.Context, userID int) (contractx.Cart, error) {
	f.initializedUsers = append(f.initializedUsers, userID)
	if f.userCartErr != nil {
		return contractx.Cart{}, f.userCartErr
	}
	return f.userCart, nil
}

func (f *fakeCatalog) CreateCart(ctx context.Context, cart contractx.Cart) (contractx.Cart, error) {
	return cart, nil
}

func (f *fakeCatalog) UpdateCart(ctx context.Context, cartID int, products []contractx.CartLine) (contractx.Cart, error) {
	return contractx.Cart{ID: cartID, Products: products}, nil
}

func (f *fakeCatalog) DeleteCart(ctx context.Context, cartID int) (contractx.DeleteCartResult, error) {
	return contractx.DeleteCartResult{Success: true}, nil
}

func newTestGateway(api *fakeCatalog) *Gateway {
	return New(api, cartx.NewStore(api))
}

func request(t *testing.T, action contractx.Action, payload any) protocolx.Envelope {
	t.Helper()
	env, err := protocolx.NewRequest(action, payload, "req-test")
	if err != nil {
		t.Fatalf("NewRequest(%s) error = %v", action, err)
	}
	return env
}

func TestHandleEchoesRequestID(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(&fakeCatalog{products: []contractx.Product{{ID: 1, Title: "Hat", Price: 10}}})

	resp := gw.Handle(context.Background(), request(t, contractx.ActionGetProducts, nil))
	if resp.RequestID != "req-test" {
		t.Fatalf("requestId = %q, want req-test", resp.RequestID)
	}
	if resp.Type != protocolx.MessageResponse {
		t.Fatalf("type = %q, want response", resp.Type)
	}
}

func TestHandleUnsupportedAction(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(&fakeCatalog{})

	resp := gw.Handle(context.Background(), protocolx.Envelope{
		Type:      protocolx.MessageRequest,
		Action:    contractx.Action("teleport"),
		Payload:   json.RawMessage(`{}`),
		RequestID: "req-test",
		Timestamp: 1,
	})
	if resp.Type != protocolx.MessageError {
		t.Fatalf("type = %q, want error", resp.Type)
	}
	if resp.Error == nil || resp.Error.Code != contractx.CodeUnsupportedAction {
		t.Fatalf("unexpected error detail: %+v", resp.Error)
	}
}

func TestHandleLoginInitializesCart(t *testing.T) {
	t.Parallel()

	api := &fakeCatalog{
		loginToken: "jwt-token",
		user:       contractx.User{ID: 1, Username: "demo"},
		userCart:   contractx.Cart{ID: 5, UserID: 1, Products: []contractx.CartLine{}},
	}
	gw := newTestGateway(api)

	resp := gw.Handle(context.Background(), request(t, contractx.ActionLogin, contractx.LoginPayload{
		Username: "demo",
		Password: "secret",
	}))
	if resp.Type != protocolx.MessageResponse {
		t.Fatalf("login failed: %+v", resp.Error)
	}

	var out contractx.LoginResponse
	if err := json.Unmarshal(resp.Payload, &out); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if out.Token != "jwt-token" || out.User.ID != 1 {
		t.Fatalf("unexpected login response: %+v", out)
	}
	if len(api.initializedUsers) != 1 || api.initializedUsers[0] != 1 {
		t.Fatalf("expected cart initialization for user 1, got %v", api.initializedUsers)
	}
}

func TestHandleLoginBadCredentials(t *testing.T) {
	t.Parallel()

	api := &fakeCatalog{loginErr: fmt.Errorf("%w: bad credentials", contractx.ErrUnauthorized)}
	gw := newTestGateway(api)

	resp := gw.Handle(context.Background(), request(t, contractx.ActionLogin, contractx.LoginPayload{
		Username: "demo",
		Password: "wrong",
	}))
	if resp.Type != protocolx.MessageError {
		t.Fatal("expected an error envelope")
	}
	if resp.Error.Code != contractx.CodeUnauthorized {
		t.Fatalf("code = %q, want %q", resp.Error.Code, contractx.CodeUnauthorized)
	}
	if len(api.initializedUsers) != 0 {
		t.Fatal("cart must not initialize on failed login")
	}
}

func TestHandleGetProductNotFound(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(&fakeCatalog{})

	resp := gw.Handle(context.Background(), request(t, contractx.ActionGetProduct, contractx.GetProductPayload{ID: 99}))
	if resp.Type != protocolx.MessageError {
		t.Fatal("expected an error envelope")
	}
	if resp.Error.Code != contractx.CodeNotFound {
		t.Fatalf("code = %q, want %q", resp.Error.Code, contractx.CodeNotFound)
	}
}

func TestHandleStoreStats(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(&fakeCatalog{products: []contractx.Product{
		{ID: 1, Category: "a", Price: 10},
		{ID: 2, Category: "a", Price: 20},
		{ID: 3, Category: "b", Price: 30},
	}})

	resp := gw.Handle(context.Background(), request(t, contractx.ActionGetStoreStats, nil))
	if resp.Type != protocolx.MessageResponse {
		t.Fatalf("stats failed: %+v", resp.Error)
	}

	var stats contractx.StoreStats
	if err := json.Unmarshal(resp.Payload, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}

	if stats.TotalProducts != 3 {
		t.Fatalf("totalProducts = %d, want 3", stats.TotalProducts)
	}
	if math.Abs(stats.TotalCost-60) > 1e-9 || math.Abs(stats.AveragePrice-20) > 1e-9 {
		t.Fatalf("totals = %v / %v, want 60 / 20", stats.TotalCost, stats.AveragePrice)
	}
	if len(stats.Categories) != 2 {
		t.Fatalf("categories = %d, want 2", len(stats.Categories))
	}
	if stats.Categories[0].Name != "a" || stats.Categories[1].Name != "b" {
		t.Fatalf("category order not by first appearance: %+v", stats.Categories)
	}
	if stats.Categories[0].ProductCount != 2 || math.Abs(stats.Categories[0].AveragePrice-15) > 1e-9 {
		t.Fatalf("unexpected category a stats: %+v", stats.Categories[0])
	}
	if stats.Categories[1].ProductCount != 1 || math.Abs(stats.Categories[1].AveragePrice-30) > 1e-9 {
		t.Fatalf("unexpected category b stats: %+v", stats.Categories[1])
	}
}

func TestHandleAvailableOptions(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(&fakeCatalog{categories: []string{"a", "b"}})

	resp := gw.Handle(context.Background(), request(t, contractx.ActionGetAvailableOptions, nil))
	if resp.Type != protocolx.MessageResponse {
		t.Fatalf("options failed: %+v", resp.Error)
	}

	var opts contractx.AvailableOptions
	if err := json.Unmarshal(resp.Payload, &opts); err != nil {
		t.Fatalf("decode options: %v", err)
	}
	if len(opts.AvailableActions) != len(contractx.Actions()) {
		t.Fatalf("actions = %d, want %d", len(opts.AvailableActions), len(contractx.Actions()))
	}
	if len(opts.ProductCategories) != 2 {
		t.Fatalf("categories = %v", opts.ProductCategories)
	}
	if len(opts.QueryExamples) != len(queryExamples) {
		t.Fatalf("examples = %d, want %d", len(opts.QueryExamples), len(queryExamples))
	}
}

func TestExecutorRoundTrip(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(&fakeCatalog{products: []contractx.Product{{ID: 2, Title: "Hat", Price: 12}}})
	exec := NewExecutor(gw)

	payload, _ := json.Marshal(contractx.GetProductPayload{ID: 2})
	raw, err := exec.Execute(context.Background(), contractx.ActionGetProduct, payload)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var product contractx.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		t.Fatalf("decode product: %v", err)
	}
	if product.Title != "Hat" {
		t.Fatalf("unexpected product: %+v", product)
	}
}

func TestExecutorSurfacesTypedErrors(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(&fakeCatalog{})
	exec := NewExecutor(gw)

	payload, _ := json.Marshal(contractx.GetProductPayload{ID: 404})
	_, err := exec.Execute(context.Background(), contractx.ActionGetProduct, payload)
	if !errors.Is(err, contractx.ErrNotFound) {
		t.Fatalf("Execute() error = %v, want ErrNotFound", err)
	}
}
