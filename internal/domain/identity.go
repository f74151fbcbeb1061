package domain

import "fmt"

// Role distinguishes the two sides of a shop conversation.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleShopkeeper Role = "shopkeeper"
)

// Identity is the stable business identity behind a transport
// connection: a customer, or a shopkeeper seated at a shop. A
// connection carries exactly one identity for its lifetime.
type Identity struct {
	Role   Role
	UserID int64
	ShopID int64 // shopkeepers only
}

// Customer builds a customer identity.
func Customer(userID int64) Identity {
	return Identity{Role: RoleCustomer, UserID: userID}
}

// Shopkeeper builds a shopkeeper identity seated at the given shop.
func Shopkeeper(userID, shopID int64) Identity {
	return Identity{Role: RoleShopkeeper, UserID: userID, ShopID: shopID}
}

// Valid reports whether the identity is complete: a user id is always
// required, and a shopkeeper must also name a shop.
func (id Identity) Valid() bool {
	if id.UserID == 0 {
		return false
	}
	switch id.Role {
	case RoleCustomer:
		return true
	case RoleShopkeeper:
		return id.ShopID != 0
	}
	return false
}

// Room returns the delivery room this identity joins at registration.
func (id Identity) Room() string {
	if id.Role == RoleShopkeeper {
		return ShopRoom(id.ShopID)
	}
	return CustomerRoom(id.UserID)
}

// ShopRoom names the room a shop's staff connection joins.
func ShopRoom(shopID int64) string {
	return fmt.Sprintf("shop_%d", shopID)
}

// CustomerRoom names the room a customer connection joins.
func CustomerRoom(customerID int64) string {
	return fmt.Sprintf("user_%d", customerID)
}
