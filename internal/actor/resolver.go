package actor

import (
	"context"
	"errors"
	"fmt"

	"proclog/internal/domain"
	"proclog/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrUnauthenticated = errors.New("unauthenticated")

// Resolver turns a bearer token into an Actor. The subject claim is the
// actor id; the role comes from the profiles table so a role change takes
// effect without reissuing tokens. A subject with no profile row is a
// practitioner until a profile says otherwise.
type Resolver struct {
	signingKey []byte
	issuer     string
	audience   string
	store      *store.Store
}

func NewResolver(signingKey []byte, issuer, audience string, st *store.Store) *Resolver {
	return &Resolver{signingKey: signingKey, issuer: issuer, audience: audience, store: st}
}

// Resolve validates the token and returns the current actor. Every failure
// collapses to ErrUnauthenticated; callers must not distinguish.
func (r *Resolver) Resolve(ctx context.Context, bearer string) (*Actor, error) {
	if bearer == "" {
		return nil, ErrUnauthenticated
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if r.issuer != "" {
		opts = append(opts, jwt.WithIssuer(r.issuer))
	}
	if r.audience != "" {
		opts = append(opts, jwt.WithAudience(r.audience))
	}

	token, err := jwt.Parse(bearer, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %T", token.Method)
		}
		return r.signingKey, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrUnauthenticated
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	role := domain.RolePractitioner
	profile, err := r.store.Profiles().GetByID(ctx, id)
	switch {
	case err == nil:
		role = domain.ParseRole(string(profile.Role))
	case errors.Is(err, store.ErrRecordNotFound):
		// keep least privilege
	default:
		// identity state unknown; refuse rather than guess
		return nil, ErrUnauthenticated
	}

	return &Actor{ID: id, Role: role}, nil
}
