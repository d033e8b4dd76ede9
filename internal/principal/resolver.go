package principal

import (
	"context"
	"errors"

	"game-auth/internal/auth"
)

// RoleUser is the single role every account holds.
const RoleUser = "USER"

var ErrPrincipalNotFound = errors.New("principal not found")

// Principal is the authenticated identity attached to a request after its
// bearer token has been verified.
type Principal struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Resolver loads the account behind a verified token subject. A token can
// outlive its account, so resolution may fail even for a valid token.
type Resolver struct {
	store auth.UserStore
}

func NewResolver(store auth.UserStore) *Resolver {
	return &Resolver{store: store}
}

func (r *Resolver) Resolve(ctx context.Context, username string) (Principal, error) {
	user, err := r.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return Principal{}, ErrPrincipalNotFound
		}
		return Principal{}, err
	}

	return Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     RoleUser,
	}, nil
}
