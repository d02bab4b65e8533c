package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubExec struct {
	calls []string
}

func (s *stubExec) note(name string) error {
	s.calls = append(s.calls, name)
	return nil
}

func (s *stubExec) Add(context.Context) error      { return s.note("add") }
func (s *stubExec) Find(context.Context) error     { return s.note("find") }
func (s *stubExec) List(context.Context) error     { return s.note("list") }
func (s *stubExec) Update(context.Context) error   { return s.note("update") }
func (s *stubExec) Request(context.Context) error  { return s.note("request") }
func (s *stubExec) Requests(context.Context) error { return s.note("requests") }
func (s *stubExec) LowStock(context.Context) error { return s.note("lowstock") }
func (s *stubExec) Export(context.Context) error   { return s.note("export") }

func runScript(t *testing.T, script string) (*stubExec, string) {
	t.Helper()
	stub := &stubExec{}
	var out bytes.Buffer
	runREPL(context.Background(), stub, bufio.NewReader(strings.NewReader(script)), &out)
	return stub, out.String()
}

func TestREPL_DispatchesCommands(t *testing.T) {
	stub, _ := runScript(t, "add\nfind\nlist\nupdate\nrequest\nrequests\nlowstock\nexport\nexit\n")
	assert.Equal(t,
		[]string{"add", "find", "list", "update", "request", "requests", "lowstock", "export"},
		stub.calls)
}

func TestREPL_ListShortForm(t *testing.T) {
	stub, _ := runScript(t, "l\nexit\n")
	assert.Equal(t, []string{"list"}, stub.calls)
}

func TestREPL_BlankLinesAreIgnored(t *testing.T) {
	stub, _ := runScript(t, "\n   \nlist\nexit\n")
	assert.Equal(t, []string{"list"}, stub.calls)
}

func TestREPL_UnknownCommand(t *testing.T) {
	stub, out := runScript(t, "frobnicate\nexit\n")
	assert.Empty(t, stub.calls)
	assert.Contains(t, out, "Unknown command: frobnicate")
}

func TestREPL_HelpAndExit(t *testing.T) {
	_, out := runScript(t, "help\nquit\n")
	assert.Contains(t, out, helpText)
	assert.Contains(t, out, "Bye!")
}

func TestREPL_StopsOnEOF(t *testing.T) {
	stub, _ := runScript(t, "list\n")
	assert.Equal(t, []string{"list"}, stub.calls)
}
