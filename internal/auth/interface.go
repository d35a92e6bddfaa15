package auth

import "context"

// Authenticator is the operator sign-in flow.
type Authenticator interface {
	// BeginLogin creates a one-time code challenge for the operator and
	// returns the code for delivery. Any previous challenge for the same
	// email is replaced.
	BeginLogin(ctx context.Context, email string) (string, error)
	// CompleteLogin exchanges a valid code for a session token.
	CompleteLogin(ctx context.Context, email, code string) (string, error)
	// Verify validates a session token and returns the operator email.
	Verify(ctx context.Context, token string) (string, error)
	// Revoke ends the session behind the token.
	Revoke(ctx context.Context, token string) error
}
