package domain

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role,omitempty"`
}

// Identity is the authenticated state of a storefront session.
type Identity struct {
	Token string `json:"token,omitempty"`
	User  *User  `json:"user,omitempty"`
}

func (i Identity) IsAuthenticated() bool {
	return i.Token != ""
}
