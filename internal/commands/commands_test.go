package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"

	"taskdash/internal/commands"
	"taskdash/internal/config"
	"taskdash/internal/dashboard"
	"taskdash/internal/exitcode"
	"taskdash/internal/ids"
	"taskdash/internal/testutil"
)

// runCommand is a helper to run a command with FakeService.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	cfg.Quiet = quiet

	ctx := context.Background()
	if svc == nil {
		code = cmd.Run(ctx, cfg, nil, args, &outBuf, &errBuf)
	} else {
		code = cmd.Run(ctx, cfg, svc, args, &outBuf, &errBuf)
	}
	return outBuf.String(), errBuf.String(), code
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskdash 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "taskdash list", "taskdash add", "taskdash toggle", "alias for toggle", "--base-url"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

// Tests for list command
func TestListCommand_Golden(t *testing.T) {
	for _, page := range []int{1, 2} {
		t.Run(strconv.Itoa(page), func(t *testing.T) {
			svc := testutil.NewFakeServiceWithTasks(12)

			cmd := &commands.ListCmd{}
			cmd.SetPage(page)
			stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

			if code != exitcode.Success {
				t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
			}
			testutil.GoldenString(t, "list_page"+strconv.Itoa(page), stdout)
		})
	}
}

func TestListCommand_Empty(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.ListCmd{}
	cmd.SetPage(1)
	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.HasPrefix(stdout, "no tasks found\n") {
		t.Errorf("expected empty message, got %q", stdout)
	}
}

func TestListCommand_JSON(t *testing.T) {
	svc := testutil.NewFakeServiceWithTasks(12)

	cmd := &commands.ListCmd{}
	cmd.SetPage(1)
	cmd.SetFormat("json")
	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}

	var view dashboard.View
	if err := json.Unmarshal([]byte(stdout), &view); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}
	if len(view.Tasks) != 10 || view.TotalCount != 12 || view.TotalPages != 2 {
		t.Errorf("unexpected view: %d tasks, total %d, pages %d", len(view.Tasks), view.TotalCount, view.TotalPages)
	}
	if !view.Tasks[2].Completed {
		t.Error("task #3 should be completed")
	}
}

func TestListCommand_YAML(t *testing.T) {
	svc := testutil.NewFakeServiceWithTasks(3)

	cmd := &commands.ListCmd{}
	cmd.SetPage(1)
	cmd.SetFormat("yaml")
	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	for _, want := range []string{"totalCount: 3", "title: task 1", "completed: true"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("YAML output missing %q:\n%s", want, stdout)
		}
	}
}

func TestListCommand_InvalidFormat(t *testing.T) {
	svc := testutil.NewFakeServiceWithTasks(3)

	cmd := &commands.ListCmd{}
	cmd.SetPage(1)
	cmd.SetFormat("xml")
	_, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasPrefix(stderr, "error: invalid format: xml") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.CallCount("FetchPage") != 0 {
		t.Error("invalid format should not reach the backend")
	}
}

func TestListCommand_InvalidPage(t *testing.T) {
	svc := testutil.NewFakeServiceWithTasks(3)

	cmd := &commands.ListCmd{}
	cmd.SetPage(0)
	_, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid page number: 0\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_PageOutOfRange(t *testing.T) {
	svc := testutil.NewFakeServiceWithTasks(12)

	cmd := &commands.ListCmd{}
	cmd.SetPage(5)
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	expected := "error: page out of range: 5 (last page is 2)\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestListCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeServiceWithTasks(3)
	svc.FetchPageErr = errors.New("connection refused")

	cmd := &commands.ListCmd{}
	cmd.SetPage(1)
	_, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.Contains(stderr, "failed to fetch todos") || !strings.Contains(stderr, "connection refused") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_UnexpectedArg(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetPage(1)
	_, stderr, code := runCommand(t, cmd, testutil.NewFakeService(), []string{"extra"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unexpected argument: extra\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	svc := testutil.NewFakeServiceWithTasks(3)

	cmd := &commands.AddCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"Buy", "milk"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}

	calls := svc.Calls()
	if len(calls) != 1 || calls[0].Op != "CreateTask" || calls[0].Title != "Buy milk" {
		t.Errorf("unexpected calls: %+v", calls)
	}

	idText, ok := strings.CutPrefix(strings.TrimSpace(stdout), "ok #")
	if !ok {
		t.Fatalf("expected ok output, got %q", stdout)
	}
	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		t.Fatalf("invalid id in %q: %v", stdout, err)
	}
	if !ids.IsLocal(id) {
		t.Errorf("id %d should be in the local range", id)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	cmd := &commands.AddCmd{}
	stdout, stderr, code := runCommand(t, cmd, testutil.NewFakeService(), []string{"Buy milk"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" || stderr != "" {
		t.Errorf("expected no output, got stdout %q stderr %q", stdout, stderr)
	}
}

func TestAddCommand_NoTitle(t *testing.T) {
	for _, args := range [][]string{nil, {"   "}} {
		svc := testutil.NewFakeService()

		cmd := &commands.AddCmd{}
		_, stderr, code := runCommand(t, cmd, svc, args, false)

		if code != exitcode.UserError {
			t.Errorf("%q: expected exit code %d, got %d", args, exitcode.UserError, code)
		}
		if stderr != "error: title required\n" {
			t.Errorf("%q: expected title error, got %q", args, stderr)
		}
		if svc.CallCount("CreateTask") != 0 {
			t.Errorf("%q: blank title should not reach the backend", args)
		}
	}
}

func TestAddCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.CreateTaskErr = errors.New("unexpected status 500")

	cmd := &commands.AddCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"Buy milk"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: unexpected status 500\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for toggle command
func TestToggleCommand(t *testing.T) {
	tests := []struct {
		ref       string
		wantOut   string
		completed bool
	}{
		{"1", "ok #1 completed\n", true},
		{"#3", "ok #3 incomplete\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			svc := testutil.NewFakeServiceWithTasks(5)

			cmd := &commands.ToggleCmd{}
			cmd.SetPage(1)
			stdout, stderr, code := runCommand(t, cmd, svc, []string{tt.ref}, false)

			if code != exitcode.Success {
				t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
			}
			if stdout != tt.wantOut {
				t.Errorf("expected %q, got %q", tt.wantOut, stdout)
			}

			var set []testutil.Call
			for _, c := range svc.Calls() {
				if c.Op == "SetCompleted" {
					set = append(set, c)
				}
			}
			if len(set) != 1 || set[0].Completed != tt.completed {
				t.Errorf("unexpected SetCompleted calls: %+v", set)
			}
		})
	}
}

func TestToggleCommand_OtherPage(t *testing.T) {
	svc := testutil.NewFakeServiceWithTasks(12)

	cmd := &commands.ToggleCmd{}
	cmd.SetPage(2)
	stdout, _, code := runCommand(t, cmd, svc, []string{"12"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok #12 incomplete\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestToggleCommand_NotOnPage(t *testing.T) {
	svc := testutil.NewFakeServiceWithTasks(12)

	cmd := &commands.ToggleCmd{}
	cmd.SetPage(1)
	_, stderr, code := runCommand(t, cmd, svc, []string{"12"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task not found on page 1: #12\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.CallCount("SetCompleted") != 0 {
		t.Error("missing task should not reach the backend")
	}
}

func TestToggleCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeServiceWithTasks(5)
	svc.SetCompletedErr = errors.New("request timed out")

	cmd := &commands.ToggleCmd{}
	cmd.SetPage(1)
	_, stderr, code := runCommand(t, cmd, svc, []string{"2"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: request timed out\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestToggleCommand_InvalidRef(t *testing.T) {
	svc := testutil.NewFakeServiceWithTasks(5)

	cmd := &commands.ToggleCmd{}
	cmd.SetPage(1)
	_, stderr, code := runCommand(t, cmd, svc, []string{"abc"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid task reference: abc\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(svc.Calls()) != 0 {
		t.Error("invalid ref should not reach the backend")
	}
}

func TestToggleCommand_Quiet(t *testing.T) {
	cmd := &commands.ToggleCmd{}
	cmd.SetPage(1)
	stdout, _, code := runCommand(t, cmd, testutil.NewFakeServiceWithTasks(2), []string{"2"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
}

func TestDefaultRegistry(t *testing.T) {
	for name, want := range map[string]string{
		"dashboard": "dashboard",
		"list":      "list",
		"ls":        "list",
		"add":       "add",
		"create":    "add",
		"toggle":    "toggle",
		"done":      "toggle",
		"help":      "help",
		"version":   "version",
	} {
		cmd, ok := commands.DefaultRegistry.Find(name)
		if !ok {
			t.Errorf("command %q not registered", name)
			continue
		}
		if cmd.Name() != want {
			t.Errorf("%q resolves to %q, want %q", name, cmd.Name(), want)
		}
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.ListCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&commands.ListCmd{}); err == nil {
		t.Error("expected error for duplicate name")
	}
}
