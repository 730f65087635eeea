package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isSignedIn() bool
	Login(ctx context.Context) error
	Guest(ctx context.Context) error
	List(ctx context.Context) error
	More(ctx context.Context) error
	Recent(ctx context.Context) error
	Favorites(ctx context.Context) error
	Add(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Favorite(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Edit(ctx context.Context, id string) error
	Sync(ctx context.Context) error
	Stats(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a read-eval-print loop for the dream journal CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands taking an entry id (show, fav, del, edit) print a usage hint when
// the id is missing instead of invoking the handler.
//
// Errors returned by command handlers are ignored here; handlers print their
// own diagnostics. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("dj %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isSignedIn() {
				printlnFn("Available commands: (l)ist, more, recent, fav(orite)s, add, show <id>, fav <id>, edit <id>, del <id>, sync, stats, logout, exit")
			} else {
				printlnFn("Available commands: login, guest, (l)ist, recent, add, show <id>, fav <id>, edit <id>, del <id>, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "guest":
			_ = a.Guest(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "more":
			_ = a.More(ctx)

		case "recent":
			_ = a.Recent(ctx)

		case "favs", "favorites":
			_ = a.Favorites(ctx)

		case "add":
			_ = a.Add(ctx)

		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <id>")
				continue
			}
			_ = a.Show(ctx, args[0])

		case "fav":
			if len(args) == 0 {
				printlnFn("Usage: fav <id>")
				continue
			}
			_ = a.Favorite(ctx, args[0])

		case "edit":
			if len(args) == 0 {
				printlnFn("Usage: edit <id>")
				continue
			}
			_ = a.Edit(ctx, args[0])

		case "del", "delete":
			if len(args) == 0 {
				printlnFn("Usage: del <id>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "sync":
			_ = a.Sync(ctx)

		case "stats":
			_ = a.Stats(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
