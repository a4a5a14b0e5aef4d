package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeCommander struct {
	calls []string
}

func (f *fakeCommander) exec(_ context.Context, cmd string, args []string) error {
	f.calls = append(f.calls, strings.TrimSpace(cmd+" "+strings.Join(args, " ")))
	if cmd == "submit" {
		return errors.New("boom")
	}
	return nil
}

func captureOutput(t *testing.T) *[]string {
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

func TestRunREPL_DispatchesUntilExit(t *testing.T) {
	out := captureOutput(t)

	input := strings.NewReader(strings.Join([]string{
		"login",
		"",
		"set pan=ABCDE1234F  panFront=./pan.png",
		"submit",
		"exit",
		"status",
	}, "\n"))

	cmd := &fakeCommander{}
	runREPL(context.Background(), cmd, func() string { return "(0/6 documents)" }, bufio.NewScanner(input))

	assert.Equal(t, []string{"login", "set pan=ABCDE1234F panFront=./pan.png", "submit"}, cmd.calls)
	assert.Contains(t, *out, "kyc (0/6 documents) > ")
	assert.Contains(t, *out, "error: boom")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	captureOutput(t)

	cmd := &fakeCommander{}
	runREPL(context.Background(), cmd, func() string { return "" }, bufio.NewScanner(strings.NewReader("history")))
	assert.Equal(t, []string{"history"}, cmd.calls)
}
