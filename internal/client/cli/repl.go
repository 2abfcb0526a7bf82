package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Create(ctx context.Context) error
	Inbox(ctx context.Context) error
	Show(ctx context.Context, n string) error
	Pay(ctx context.Context, n string) error
}

// runREPL reads one command per line from reader and dispatches it to a.
// The loop exits on EOF or when the user types "exit" or "quit".
//
//	Not logged in:
//	  - help           show available commands
//	  - register       create an account and its identity key
//	  - login          authenticate and unlock the identity key
//	  - exit | quit    leave the program
//
//	Logged in:
//	  - whoami         print the account and its public key
//	  - create         build, encrypt and send an invoice
//	  - inbox          fetch pending invoices
//	  - show <n>       print invoice n from the last inbox listing
//	  - pay <n>        pay invoice n and acknowledge it
//	  - logout         forget the session
//
// Handlers report their own errors to the user, so errors are dropped here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("gi %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if !a.isLoggedIn() {
			switch cmd {
			case "whoami", "create", "inbox", "show", "pay", "logout":
				printlnFn("Please login first")
				continue
			}
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, create, inbox, show <n>, pay <n>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "create":
			_ = a.Create(ctx)

		case "inbox":
			_ = a.Inbox(ctx)

		case "show", "pay":
			if len(args) == 0 {
				printlnFn(fmt.Sprintf("Usage: %s <n>", cmd))
				continue
			}
			if cmd == "show" {
				_ = a.Show(ctx, args[0])
			} else {
				_ = a.Pay(ctx, args[0])
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
