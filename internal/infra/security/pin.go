package security

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"guesthouse/internal/app/middleware"
)

var (
	ErrPINRequired = errors.New("security: access pin required")
	ErrPINInvalid  = errors.New("security: access pin invalid")
)

type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(pin string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(pin), h.cost())
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (h BcryptHasher) Compare(hash, pin string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin))
}

func (h BcryptHasher) cost() int {
	if h.Cost >= bcrypt.MinCost {
		return h.Cost
	}
	return bcrypt.DefaultCost
}

type pinKey struct{}
type trustedKey struct{}

// WithPIN attaches the PIN the caller presented.
func WithPIN(ctx context.Context, pin string) context.Context {
	return context.WithValue(ctx, pinKey{}, pin)
}

func PINFromContext(ctx context.Context) string {
	pin, _ := ctx.Value(pinKey{}).(string)
	return pin
}

// WithTrusted marks ctx as coming from inside the process (scheduled jobs).
func WithTrusted(ctx context.Context) context.Context {
	return context.WithValue(ctx, trustedKey{}, true)
}

func isTrusted(ctx context.Context) bool {
	ok, _ := ctx.Value(trustedKey{}).(bool)
	return ok
}

// PINAuthorizer gates every bus message behind one shared PIN. An empty
// hash disables the check.
type PINAuthorizer struct {
	Hash   string
	Hasher BcryptHasher
}

func (a PINAuthorizer) Enabled() bool { return strings.TrimSpace(a.Hash) != "" }

func (a PINAuthorizer) Authorize(ctx context.Context, _ any) error {
	if !a.Enabled() || isTrusted(ctx) {
		return nil
	}
	return a.Check(PINFromContext(ctx))
}

// Check verifies a PIN directly, e.g. from the login form.
func (a PINAuthorizer) Check(pin string) error {
	if !a.Enabled() {
		return nil
	}
	if pin == "" {
		return ErrPINRequired
	}
	if err := a.Hasher.Compare(a.Hash, pin); err != nil {
		return ErrPINInvalid
	}
	return nil
}

var _ middleware.Authorizer = PINAuthorizer{}
