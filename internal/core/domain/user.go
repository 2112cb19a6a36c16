package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// CartLine is a product reference embedded in the owning user's cart.
type CartLine struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// User is the persisted credential record. PasswordHash and the reset
// fields never leave the service layer; callers see UserView.
type User struct {
	ID                   string
	Name                 string
	Email                string
	PasswordHash         string
	Role                 string
	ResetPasswordToken   string
	ResetPasswordExpires time.Time
	Cart                 []CartLine
	CreatedAt            time.Time
}

// FindCartLine returns the cart line with the given id, or nil.
func (u *User) FindCartLine(lineID string) *CartLine {
	for i := range u.Cart {
		if u.Cart[i].ID == lineID {
			return &u.Cart[i]
		}
	}
	return nil
}

// FindCartLineByProduct returns the first cart line referencing productID, or nil.
func (u *User) FindCartLineByProduct(productID string) *CartLine {
	for i := range u.Cart {
		if u.Cart[i].ProductID == productID {
			return &u.Cart[i]
		}
	}
	return nil
}

// UserView is the public projection of a User.
type UserView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Cart      []CartLine `json:"cart"`
	CreatedAt time.Time  `json:"createdAt"`
}

// View strips credentials and reset state.
func (u *User) View() UserView {
	cart := u.Cart
	if cart == nil {
		cart = []CartLine{}
	}
	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Cart:      cart,
		CreatedAt: u.CreatedAt,
	}
}
