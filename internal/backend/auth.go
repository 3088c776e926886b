package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"github.com/spf13/cast"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  *apiUser `json:"user"`
}

type apiUser struct {
	ID      any    `json:"id"`
	MongoID any    `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
}

// Login exchanges credentials for a token and the user profile.
func (c *Client) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	resp, err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return domain.Identity{}, err
	}

	var out loginResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return domain.Identity{}, fmt.Errorf("decode login response: %w", err)
	}
	if out.Token == "" {
		return domain.Identity{}, &APIError{StatusCode: resp.StatusCode(), Message: "Login response did not include a token."}
	}

	identity := domain.Identity{Token: out.Token}
	if out.User != nil {
		identity.User = out.User.toDomain()
	}
	return identity, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/register", registerRequest{Name: name, Email: email, Password: password})
	return err
}

func (u *apiUser) toDomain() *domain.User {
	id := cast.ToString(u.ID)
	if mid := cast.ToString(u.MongoID); mid != "" {
		id = mid
	}
	user := &domain.User{ID: id, Name: u.Name, Email: u.Email, Role: domain.RoleUser}
	if u.Role == string(domain.RoleAdmin) {
		user.Role = domain.RoleAdmin
	}
	return user
}
