package contract

import "fmt"

// Request payloads for the non-void actions. Validate enforces the required
// fields the schema cannot express through decoding alone.

type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (p *LoginPayload) Validate() error {
	if p.Username == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	if p.Password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	return nil
}

type GetProductPayload struct {
	ID int `json:"id"`
}

func (p *GetProductPayload) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("%w: product id must be positive", ErrValidation)
	}
	return nil
}

type AddToCartPayload struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

func (p *AddToCartPayload) Validate() error {
	if p.ProductID <= 0 {
		return fmt.Errorf("%w: productId must be positive", ErrValidation)
	}
	if p.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	return nil
}

type RemoveFromCartPayload struct {
	ProductID int `json:"productId"`
}

func (p *RemoveFromCartPayload) Validate() error {
	if p.ProductID <= 0 {
		return fmt.Errorf("%w: productId must be positive", ErrValidation)
	}
	return nil
}

type CreateCartPayload struct {
	UserID   int        `json:"userId"`
	Products []CartLine `json:"products"`
}

func (p *CreateCartPayload) Validate() error {
	if p.UserID <= 0 {
		return fmt.Errorf("%w: userId must be positive", ErrValidation)
	}
	return validateLines(p.Products)
}

type UpdateCartPayload struct {
	CartID   int        `json:"cartId"`
	Products []CartLine `json:"products"`
}

func (p *UpdateCartPayload) Validate() error {
	if p.CartID <= 0 {
		return fmt.Errorf("%w: cartId must be positive", ErrValidation)
	}
	return validateLines(p.Products)
}

type DeleteCartPayload struct {
	CartID int `json:"cartId"`
}

func (p *DeleteCartPayload) Validate() error {
	if p.CartID <= 0 {
		return fmt.Errorf("%w: cartId must be positive", ErrValidation)
	}
	return nil
}

func validateLines(lines []CartLine) error {
	for i, line := range lines {
		if line.ProductID <= 0 {
			return fmt.Errorf("%w: products[%d].productId must be positive", ErrValidation, i)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("%w: products[%d].quantity must be positive", ErrValidation, i)
		}
	}
	return nil
}
