package contract

import "encoding/json"

/* ------------------------------ Store domain ----------------------------- */

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

type Geolocation struct {
	Lat  string `json:"lat"`
	Long string `json:"long"`
}

type Address struct {
	City        string      `json:"city"`
	Street      string      `json:"street"`
	Number      int         `json:"number"`
	Zipcode     string      `json:"zipcode"`
	Geolocation Geolocation `json:"geolocation"`
}

type Name struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

type User struct {
	ID       int     `json:"id"`
	Email    string  `json:"email"`
	Username string  `json:"username"`
	Password string  `json:"password"`
	Name     Name    `json:"name"`
	Address  Address `json:"address"`
	Phone    string  `json:"phone"`
}

// CartLine is a single cart entry. A cart holds at most one line per product;
// duplicate adds merge by summing quantity.
type CartLine struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type Cart struct {
	ID       int        `json:"id,omitempty"`
	UserID   int        `json:"userId"`
	Date     string     `json:"date"`
	Products []CartLine `json:"products"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type DeleteCartResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type CategoryStats struct {
	Name         string  `json:"name"`
	ProductCount int     `json:"productCount"`
	TotalCost    float64 `json:"totalCost"`
	AveragePrice float64 `json:"averagePrice"`
}

type StoreStats struct {
	TotalProducts int             `json:"totalProducts"`
	TotalCost     float64         `json:"totalCost"`
	AveragePrice  float64         `json:"averagePrice"`
	Categories    []CategoryStats `json:"categories"`
}

// AvailableOptions grounds the language model's available vocabulary.
type AvailableOptions struct {
	AvailableActions  []Action `json:"availableActions"`
	ProductCategories []string `json:"productCategories"`
	QueryExamples     []string `json:"queryExamples"`
}

/* --------------------------- Conversation domain -------------------------- */

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a session's append-only conversation history.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// PlannedAction is one step of a language-model action plan.
type PlannedAction struct {
	Action  Action          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Plan is the model's proposed ordered action sequence plus rationale.
type Plan struct {
	Thoughts string          `json:"thoughts"`
	Actions  []PlannedAction `json:"actions"`
}

// ActionResult is tagged: exactly one of Result/Error is set. Results keep
// the plan's action order.
type ActionResult struct {
	Action Action `json:"action"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// AnswerItem is a product relevant to the answer, optionally carrying the
// cart quantity when it came from cart augmentation.
type AnswerItem struct {
	Product
	Quantity int `json:"quantity,omitempty"`
}

// StructuredAnswer is the narrated result of a query. Text is always
// non-empty; it falls back to the raw narration when parsing fails.
type StructuredAnswer struct {
	Reasoning string       `json:"reasoning"`
	Items     []AnswerItem `json:"items"`
	Text      string       `json:"text"`
}

// QueryResult is the blocking query endpoint's response and the payload of
// the streaming complete event.
type QueryResult struct {
	Query              string           `json:"query"`
	Plan               Plan             `json:"plan"`
	Actions            []ActionResult   `json:"actions"`
	Response           string           `json:"response"`
	StructuredResponse StructuredAnswer `json:"structuredResponse"`
}

/* ------------------------------- Streaming -------------------------------- */

type EventName string

const (
	EventThoughts EventName = "thoughts"
	EventAction   EventName = "action"
	EventError    EventName = "error"
	EventComplete EventName = "complete"
)

// Event is one named streaming event. No event follows EventComplete.
type Event struct {
	Name EventName
	Data any
}
