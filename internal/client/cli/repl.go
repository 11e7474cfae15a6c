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
	report(err error)
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	History(ctx context.Context) error
	Result(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	Annotated(ctx context.Context, args []string) error
	Developers(ctx context.Context) error
	Go(ctx context.Context, args []string) error
	Status(ctx context.Context) error
}

// runREPL reads commands from reader until EOF or "exit"/"quit" and
// dispatches them to a. Command errors are shown to the user and the loop
// carries on.
//
// The prompt shows the signed-in user and the current path (from statusFn).
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("doccheck %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: upload <path>, history, result <id>, download <id> [dir], annotated <id> [dir], developers, go <path>, status, logout, exit")
			} else {
				printlnFn("Available commands: login, go <path>, status, exit")
			}

		case "login":
			a.report(a.Login(ctx))

		case "logout":
			a.report(a.Logout(ctx))

		case "upload":
			a.report(a.Upload(ctx, args))

		case "history", "h":
			a.report(a.History(ctx))

		case "result":
			a.report(a.Result(ctx, args))

		case "download":
			a.report(a.Download(ctx, args))

		case "annotated":
			a.report(a.Annotated(ctx, args))

		case "developers":
			a.report(a.Developers(ctx))

		case "go":
			a.report(a.Go(ctx, args))

		case "status":
			a.report(a.Status(ctx))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
