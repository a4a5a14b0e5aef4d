package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// commander is the command surface the REPL needs. The real App satisfies
// it; tests can provide a lightweight stub.
type commander interface {
	exec(ctx context.Context, cmd string, args []string) error
}

// runREPL reads commands line by line and dispatches them through a until
// EOF or "exit". Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a commander, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("kyc %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if err := a.exec(ctx, parts[0], parts[1:]); err != nil {
			printlnFn("error:", err)
		}
	}
}

const helpText = `Available commands:
  login                         enter a session token
  logout                        drop the session token
  fields                        list document fields and their state
  set name=value ...            set a value or select a file, e.g.
                                set pan=ABCDE1234F panFront=./pan.jpg
  check field path              validate a file without selecting it
  remove field                  clear a document field
  retry field                   retry a failed upload
  submit [name=value ...]       upload documents and submit KYC
  resubmit [name=value ...]     update the last rejected KYC record
  status                        show KYC status from the backend
  history                       list local submission attempts
  orphans                       list uploaded objects no submission uses
  forget attempt                drop an attempt from the local journal
  exit`

// exec runs one command. It is shared by the REPL and argv mode.
func (a *App) exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		fmt.Fprintln(a.out, helpText)
		return nil
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	case "fields", "l", "list":
		return a.Fields(ctx)
	case "set":
		return a.Set(ctx, args)
	case "check":
		return a.Check(ctx, args)
	case "remove":
		return a.Remove(ctx, args)
	case "retry":
		return a.Retry(ctx, args)
	case "submit":
		return a.Submit(ctx, args)
	case "resubmit":
		return a.Resubmit(ctx, args)
	case "status":
		return a.Status(ctx)
	case "history":
		return a.History(ctx)
	case "orphans":
		return a.Orphans(ctx)
	case "forget":
		return a.Forget(ctx, args)
	}
	return fmt.Errorf("unknown command: %s", cmd)
}
