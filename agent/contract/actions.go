package contract

// Action is one of the closed set of named operations the gateway dispatches.
type Action string

const (
	ActionLogin               Action = "login"
	ActionGetProducts         Action = "getProducts"
	ActionGetProduct          Action = "getProduct"
	ActionAddToCart           Action = "addToCart"
	ActionRemoveFromCart      Action = "removeFromCart"
	ActionGetCart             Action = "getCart"
	ActionCreateCart          Action = "createCart"
	ActionUpdateCart          Action = "updateCart"
	ActionDeleteCart          Action = "deleteCart"
	ActionGetStoreStats       Action = "getStoreStats"
	ActionGetAvailableOptions Action = "getAvailableOptions"
)

// Actions returns the closed action set in wire order.
func Actions() []Action {
	return []Action{
		ActionLogin,
		ActionGetProducts,
		ActionGetProduct,
		ActionAddToCart,
		ActionRemoveFromCart,
		ActionGetCart,
		ActionCreateCart,
		ActionUpdateCart,
		ActionDeleteCart,
		ActionGetStoreStats,
		ActionGetAvailableOptions,
	}
}

func (a Action) Valid() bool {
	switch a {
	case ActionLogin, ActionGetProducts, ActionGetProduct,
		ActionAddToCart, ActionRemoveFromCart, ActionGetCart,
		ActionCreateCart, ActionUpdateCart, ActionDeleteCart,
		ActionGetStoreStats, ActionGetAvailableOptions:
		return true
	}
	return false
}

// Void reports whether the action takes no request payload. Void actions are
// still invoked with an empty JSON object on the wire, never a missing payload.
func (a Action) Void() bool {
	switch a {
	case ActionGetProducts, ActionGetCart, ActionGetStoreStats, ActionGetAvailableOptions:
		return true
	}
	return false
}

// CartScoped reports whether the action's result carries the user's cart,
// which makes it eligible for product-detail augmentation after narration.
func (a Action) CartScoped() bool {
	switch a {
	case ActionGetCart, ActionAddToCart, ActionUpdateCart:
		return true
	}
	return false
}
