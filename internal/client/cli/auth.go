package cli

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophinvoice/internal/client/client"
	"github.com/dmitrijs2005/gophinvoice/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username and password and creates the account
// together with its identity key pair. The password is wiped before return.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Register(ctx, userName, password); err != nil {
		fmt.Fprintln(a.out, "Registration failed:", describe(err))
		return err
	}

	fmt.Fprintln(a.out, "Success! You can login now.")
	return nil
}

// Login authenticates, unlocks the identity key and prepares the invoice
// service for the account. A previous session is dropped first.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	account, err := a.authService.Login(ctx, userName, password)
	if err != nil {
		a.logger.Warn(ctx, "login unsuccessful", "user", userName, "error", err)
		fmt.Fprintln(a.out, "Login failed:", describe(err))
		return err
	}

	a.dropSession()
	a.account = account
	a.invoices = a.newInvoices(account)
	a.setMode(ctx, ModeOnline)

	a.logger.Info(ctx, "login successful", "user", userName)
	fmt.Fprintf(a.out, "Logged in as %s\n", account.Username)
	return nil
}

// Logout forgets the server tokens and wipes the unlocked identity key.
func (a *App) Logout(ctx context.Context) error {
	a.authService.Logout(ctx)
	a.dropSession()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// WhoAmI prints the account name and its public identity key.
func (a *App) WhoAmI(ctx context.Context) error {
	if a.account == nil {
		return common.ErrorUnauthorized
	}
	fmt.Fprintf(a.out, "%s\npublic key: %s\n", a.account.Username, hex.EncodeToString(a.account.Identity.Public))
	return nil
}

func (a *App) dropSession() {
	if a.account != nil {
		a.account.Identity.Wipe()
	}
	a.account = nil
	a.invoices = nil
	a.inbox = nil
}

// describe turns transport errors into short user-facing text.
func describe(err error) string {
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable"
	case errors.Is(err, client.ErrUnauthorized):
		return "wrong username or password"
	case errors.Is(err, client.ErrConflict):
		return "username already taken"
	case errors.Is(err, client.ErrNotFound):
		return "not found"
	}
	return err.Error()
}
