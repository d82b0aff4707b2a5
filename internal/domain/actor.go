package domain

type Role string

const (
	RoleBuyer       Role = "BUYER"
	RoleShopOwner   Role = "SHOP_OWNER"
	RoleSystemAdmin Role = "SYSTEM_ADMIN"
)

// Actor identifies who is performing an operation for authorization
// checks. SYSTEM_ADMIN bypasses ownership checks.
type Actor struct {
	UserID string
	Role   Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleSystemAdmin
}

// User is the identity projection consumed from the identity
// collaborator. WalletAddress is empty when no wallet is registered.
type User struct {
	ID            string
	Role          Role
	WalletAddress string
}

type CartItem struct {
	ProductID string
	VariantID string
	Quantity  int
}

// CartSnapshot is the cart as handed over by the cart collaborator at
// order-placement time.
type CartSnapshot struct {
	ID     string
	UserID string
	Items  []CartItem
}
