package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pulperia-be/internal/docstore"

	"github.com/golang-jwt/jwt/v5"
)

const (
	sessionsCollection = "sessions"
	usersCollection    = "users"

	// MinCredentialLen is the cheapest possible shape check on an inbound
	// credential, applied before the oracle is consulted.
	MinCredentialLen = 5
)

// Oracle maps an opaque credential string to a user identity.
type Oracle interface {
	Resolve(ctx context.Context, credential string) (*User, error)
}

// ValidCredential reports whether a credential passes the minimal shape
// check. It says nothing about whether the credential authenticates.
func ValidCredential(credential string) bool {
	return len(credential) >= MinCredentialLen
}

type oracle struct {
	store  docstore.Store
	secret []byte
}

// NewOracle builds an Oracle that accepts either a signed bearer token or a
// session token stored in the sessions collection.
func NewOracle(store docstore.Store, secret []byte) Oracle {
	return &oracle{store: store, secret: secret}
}

func (o *oracle) Resolve(ctx context.Context, credential string) (*User, error) {
	if !ValidCredential(credential) {
		return nil, ErrUnauthenticated
	}

	if user, ok := o.resolveJWT(credential); ok {
		return user, nil
	}
	return o.resolveSession(ctx, credential)
}

func (o *oracle) resolveJWT(credential string) (*User, bool) {
	if len(o.secret) == 0 {
		return nil, false
	}

	token, err := jwt.Parse(credential, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return o.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, false
	}

	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)
	userType, _ := claims["user_type"].(string)
	return &User{UserID: userID, Name: name, Email: email, UserType: userType}, true
}

func (o *oracle) resolveSession(ctx context.Context, credential string) (*User, error) {
	var sess session
	err := o.store.FindOne(ctx, sessionsCollection, docstore.M{"session_token": credential}, &sess)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	if time.Now().After(sess.ExpiresAt) {
		return nil, ErrUnauthenticated
	}

	var user User
	err = o.store.FindOne(ctx, usersCollection, docstore.M{"user_id": sess.UserID}, &user)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}
