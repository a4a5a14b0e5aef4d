package cli

import (
	"context"
	"errors"
	"fmt"
)

// getSecret is an indirection used to facilitate testing.
var getSecret = GetSecret

// Login prompts for a bearer token and makes it the session token.
func (a *App) Login(ctx context.Context) error {
	token, err := getSecret(a.reader, "Enter session token", a.out)
	if err != nil {
		return err
	}
	if token == "" {
		return errors.New("empty token")
	}

	a.session.Login(token)
	a.log.Debug(ctx, "session token replaced")
	fmt.Fprintln(a.out, "Logged in")
	return nil
}

// Logout drops the session token. Selected documents are kept.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	return nil
}
