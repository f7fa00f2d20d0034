package contract

import (
	"context"
	"encoding/json"
)

// ProductAPI is the read side of the upstream store catalog. Reads are
// assumed reliable.
type ProductAPI interface {
	Products(ctx context.Context) ([]Product, error)
	Product(ctx context.Context, id int) (Product, error)
	Categories(ctx context.Context) ([]string, error)
}

type AuthAPI interface {
	Login(ctx context.Context, username, password string) (string, error)
	Profile(ctx context.Context, token string) (User, error)
}

// CartAPI is the upstream cart surface. Mutations are not guaranteed
// durable; callers treat them as advisory.
type CartAPI interface {
	UserCart(ctx context.Context, userID int) (Cart, error)
	CreateCart(ctx context.Context, cart Cart) (Cart, error)
	UpdateCart(ctx context.Context, cartID int, products []CartLine) (Cart, error)
	DeleteCart(ctx context.Context, cartID int) (DeleteCartResult, error)
}

type Catalog interface {
	ProductAPI
	AuthAPI
	CartAPI
}

// Executor invokes a single typed action and returns its response payload.
type Executor interface {
	Execute(ctx context.Context, action Action, payload json.RawMessage) (json.RawMessage, error)
}

type PlanRequest struct {
	History []Turn `json:"history"`
	Query   string `json:"query"`
}

// Planner turns a user query plus conversation history into an action plan.
type Planner interface {
	Plan(ctx context.Context, req PlanRequest) (Plan, error)
}

type NarrateRequest struct {
	History []Turn         `json:"history"`
	Query   string         `json:"query"`
	Results []ActionResult `json:"results"`
}

// Narrator folds action results into free-form narration text. The caller
// parses it into a StructuredAnswer and tolerates it not matching the
// documented shape.
type Narrator interface {
	Narrate(ctx context.Context, req NarrateRequest) (string, error)
}

type Registry interface {
	Planner() Planner
	Narrator() Narrator
}
