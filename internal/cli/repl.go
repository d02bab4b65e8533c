package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	Add(ctx context.Context) error
	Find(ctx context.Context) error
	List(ctx context.Context) error
	Update(ctx context.Context) error
	Request(ctx context.Context) error
	Requests(ctx context.Context) error
	LowStock(ctx context.Context) error
	Export(ctx context.Context) error
}

const helpText = "Available commands: add, find, (l)ist, update, request, requests, lowstock, export, help, exit"

// runREPL starts a read-eval-print loop over the record store.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader, w io.Writer) {
	fmt.Fprintln(w, "Tactical Supply Management System (type 'help' for commands)")

	for {
		fmt.Fprint(w, "supply> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			fmt.Fprintln(w, helpText)

		case "add":
			_ = a.Add(ctx)

		case "find":
			_ = a.Find(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "update":
			_ = a.Update(ctx)

		case "request":
			_ = a.Request(ctx)

		case "requests":
			_ = a.Requests(ctx)

		case "lowstock":
			_ = a.LowStock(ctx)

		case "export":
			_ = a.Export(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
