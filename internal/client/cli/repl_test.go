package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) WhoAmI(ctx context.Context) error { f.calls = append(f.calls, "whoami"); return nil }
func (f *fakeExec) Create(ctx context.Context) error { f.calls = append(f.calls, "create"); return nil }
func (f *fakeExec) Inbox(ctx context.Context) error  { f.calls = append(f.calls, "inbox"); return nil }
func (f *fakeExec) Show(ctx context.Context, n string) error {
	f.calls = append(f.calls, "show "+n)
	return nil
}
func (f *fakeExec) Pay(ctx context.Context, n string) error {
	f.calls = append(f.calls, "pay "+n)
	return nil
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	capturePrintln(t)

	input := strings.Join([]string{
		"help",
		"inbox",
		"login",
		"help",
		"whoami",
		"create",
		"inbox",
		"show 2",
		"pay 1",
		"foobar",
		"logout",
		"exit",
		"inbox",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, rdr(input))

	require.Equal(t, []string{"login", "whoami", "create", "inbox", "show 2", "pay 1", "logout"}, exec.calls)
}

func TestRunREPL_GuardsCommandsBeforeLogin(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("create\npay 1\n"))

	require.Empty(t, exec.calls)
	require.Contains(t, *lines, "Please login first")
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr("show\npay\nquit\n"))

	require.Empty(t, exec.calls)
	require.Contains(t, *lines, "Usage: show <n>")
	require.Contains(t, *lines, "Usage: pay <n>")
	require.Contains(t, *lines, "Bye!")
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("\n  \nregister"))

	require.Equal(t, []string{"register"}, exec.calls)
}
