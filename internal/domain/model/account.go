package model

import (
	"slices"
	"time"
)

const (
	RoleBuyer = "buyer"
	RoleAdmin = "admin"
)

// ValidRole reports whether role is one an account can be registered with.
func ValidRole(role string) bool {
	return role == RoleBuyer || role == RoleAdmin
}

type Account struct {
	UserID    string    `json:"userID"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	PINHash   string    `json:"-"` // Never exposed
	Cart      []string  `json:"cart"`
	CreatedAt time.Time `json:"createdAt"`
}

// AddToCart appends productID unless it is already present.
// It reports whether the cart changed.
func (a *Account) AddToCart(productID string) bool {
	if slices.Contains(a.Cart, productID) {
		return false
	}
	a.Cart = append(a.Cart, productID)
	return true
}

// RemoveFromCart drops every occurrence of productID, keeping the order of
// the remaining entries. It reports whether the cart changed.
func (a *Account) RemoveFromCart(productID string) bool {
	return a.RemoveFromCartFunc(func(id string) bool { return id == productID })
}

// RemoveFromCartFunc drops every entry match accepts.
func (a *Account) RemoveFromCartFunc(match func(id string) bool) bool {
	before := len(a.Cart)
	a.Cart = slices.DeleteFunc(a.Cart, match)
	return len(a.Cart) != before
}
