package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
)

const maxResponseSizeBytes = 2 << 20

type Config struct {
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"https://fakestoreapi.com"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// Option customizes Client.
type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// Client talks to the Fake Store API. Product and category reads are
// reliable; cart mutations are accepted but not durably persisted upstream.
type Client struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

var _ contractx.Catalog = (*Client)(nil)

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("catalog base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid catalog base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func (c *Client) Products(ctx context.Context) ([]contractx.Product, error) {
	var products []contractx.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, "", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Product(ctx context.Context, id int) (contractx.Product, error) {
	var product contractx.Product
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, "", &product)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.status == http.StatusNotFound {
			return contractx.Product{}, fmt.Errorf("%w: product id=%d", contractx.ErrNotFound, id)
		}
		return contractx.Product{}, err
	}
	// The upstream answers 200 with an empty body for unknown ids.
	if product.ID == 0 {
		return contractx.Product{}, fmt.Errorf("%w: product id=%d", contractx.ErrNotFound, id)
	}
	return product, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.do(ctx, http.MethodGet, "/products/categories", nil, "", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/login", body, "", &out)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.status == http.StatusUnauthorized {
			return "", fmt.Errorf("%w: login rejected", contractx.ErrUnauthorized)
		}
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("%w: login returned no token", contractx.ErrUnauthorized)
	}
	return out.Token, nil
}

// Profile returns the demo identity's profile; the upstream has no
// token-to-user endpoint beyond the fixed demo user.
func (c *Client) Profile(ctx context.Context, token string) (contractx.User, error) {
	var user contractx.User
	if err := c.do(ctx, http.MethodGet, "/users/1", nil, token, &user); err != nil {
		return contractx.User{}, err
	}
	return user, nil
}

// UserCart returns the most recent upstream cart for the user, or a fresh
// empty cart when the user has none.
func (c *Client) UserCart(ctx context.Context, userID int) (contractx.Cart, error) {
	var carts []contractx.Cart
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/carts/user/%d", userID), nil, "", &carts); err != nil {
		return contractx.Cart{}, err
	}
	if len(carts) == 0 {
		return contractx.Cart{
			UserID:   userID,
			Date:     c.now().UTC().Format(time.RFC3339),
			Products: []contractx.CartLine{},
		}, nil
	}
	return carts[0], nil
}

func (c *Client) CreateCart(ctx context.Context, cart contractx.Cart) (contractx.Cart, error) {
	var created contractx.Cart
	if err := c.do(ctx, http.MethodPost, "/carts", cart, "", &created); err != nil {
		return contractx.Cart{}, err
	}
	return created, nil
}

func (c *Client) UpdateCart(ctx context.Context, cartID int, products []contractx.CartLine) (contractx.Cart, error) {
	body := map[string]any{"products": products}
	var updated contractx.Cart
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/carts/%d", cartID), body, "", &updated); err != nil {
		return contractx.Cart{}, err
	}
	return updated, nil
}

// DeleteCart reports success when the upstream echoes the deleted cart back.
func (c *Client) DeleteCart(ctx context.Context, cartID int) (contractx.DeleteCartResult, error) {
	var deleted json.RawMessage
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/carts/%d", cartID), nil, "", &deleted); err != nil {
		return contractx.DeleteCartResult{}, err
	}
	trimmed := bytes.TrimSpace(deleted)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return contractx.DeleteCartResult{Success: false, Message: "Failed to delete cart"}, nil
	}
	return contractx.DeleteCartResult{Success: true, Message: "Cart deleted successfully"}, nil
}

type statusError struct {
	status int
	method string
	path   string
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s %s status=%d body=%s", e.method, e.path, e.status, e.body)
}

func (e *statusError) Unwrap() error { return contractx.ErrUpstream }

func (c *Client) do(ctx context.Context, method, path string, body any, token string, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: execute %s %s: %v", contractx.ErrUpstream, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return fmt.Errorf("%w: read %s %s response: %v", contractx.ErrUpstream, method, path, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &statusError{status: resp.StatusCode, method: method, path: path, body: string(raw)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s %s response: %v", contractx.ErrUpstream, method, path, err)
	}
	return nil
}
