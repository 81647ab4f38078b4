package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/testutil"
	"github.com/idilsaglam/todo/internal/ui"
)

// isolate keeps config lookups away from the developer's machine.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", dir)
	for _, k := range []string{
		"TODO_CONFIG", "TODO_BASE_URL", "TODO_RESOURCE", "TODO_LIST_URL", "TODO_CREATE_URL",
		"TODO_UPDATE_URL", "TODO_DELETE_URL", "TODO_LOG_LEVEL", "TODO_LOG_FILE", "TODO_THEME",
		"TODO_TIMEOUT", "TODO_GROUP", "NO_COLOR",
	} {
		t.Setenv(k, "")
	}
	t.Cleanup(func() { ui.SetTheme("classic") })
	return dir
}

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, svc *testutil.FakeService, args ...string) result {
	t.Helper()
	var out, errb bytes.Buffer
	full := append([]string{"--base-url", svc.URL, "--theme", "mono"}, args...)
	code := Run(context.Background(), full, &out, &errb)
	return result{code: code, stdout: out.String(), stderr: errb.String()}
}

func TestList(t *testing.T) {
	isolate(t)
	svc := testutil.NewFakeService(t,
		model.Item{ID: "1", Name: "Buy milk"},
		model.Item{ID: "2", Name: "Walk dog", Done: true},
	)

	r := run(t, svc, "ls")

	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, " 1. [ ] Buy milk #1")
	assert.Contains(t, r.stdout, " 2. [x] Walk dog #2")
	assert.Contains(t, r.stdout, "Total 2")
}

func TestList_Grouped(t *testing.T) {
	isolate(t)
	svc := testutil.NewFakeService(t,
		model.Item{ID: "1", Name: "Buy milk", Done: true},
		model.Item{ID: "2", Name: "Walk dog"},
	)

	r := run(t, svc, "ls", "--group")

	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Pending")
	assert.Less(t, bytes.Index([]byte(r.stdout), []byte("Walk dog")), bytes.Index([]byte(r.stdout), []byte("Buy milk")))
}

func TestList_GroupFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TODO_GROUP", "true")
	svc := testutil.NewFakeService(t, model.Item{ID: "1", Name: "Buy milk"})

	r := run(t, svc, "ls")

	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Pending")
}

func TestList_JSON(t *testing.T) {
	isolate(t)
	seed := []model.Item{{ID: "1", Name: "Buy milk"}, {ID: "2", Name: "Walk dog", Done: true}}
	svc := testutil.NewFakeService(t, seed...)

	r := run(t, svc, "ls", "--json")

	require.Equal(t, ExitOK, r.code, r.stderr)
	var got []model.Item
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))
	assert.Equal(t, seed, got)
}

func TestList_ServiceDown(t *testing.T) {
	isolate(t)
	svc := testutil.NewFakeService(t)
	svc.FailWith(http.MethodGet, http.StatusServiceUnavailable)

	r := run(t, svc, "ls")

	assert.Equal(t, ExitFailed, r.code)
	assert.Empty(t, r.stdout)
	assert.Contains(t, r.stderr, "remote call failed")
}

func TestAdd(t *testing.T) {
	isolate(t)
	svc := testutil.NewFakeService(t)
	svc.AssignID("srv-1")

	r := run(t, svc, "add", "Buy", "oat", "milk")

	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "added")
	assert.Equal(t, []model.Item{{ID: "srv-1", Name: "Buy oat milk"}}, svc.Items())
}

func TestAdd_Blank(t *testing.T) {
	isolate(t)
	svc := testutil.NewFakeService(t)

	r := run(t, svc, "add", "  ")

	assert.Equal(t, ExitUsage, r.code)
	assert.Contains(t, r.stderr, "empty name")
	assert.Empty(t, svc.Requests())
}

func TestEdit_ByIndex(t *testing.T) {
	isolate(t)
	svc := testutil.NewFakeService(t,
		model.Item{ID: "a", Name: "Buy milk"},
		model.Item{ID: "b", Name: "Walk dog", Done: true},
	)

	r := run(t, svc, "edit", "2", "Walk", "cat")

	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "updated")
	assert.Equal(t, model.Item{ID: "b", Name: "Walk cat", Done: true}, svc.Items()[1])
	reqs := svc.Requests()
	assert.Equal(t, http.MethodPut, reqs[len(reqs)-1].Method)
	assert.Equal(t, "/Todo/b", reqs[len(reqs)-1].Path)
}

func TestDone_ByID(t *testing.T) {
	isolate(t)
	svc := testutil.NewFakeService(t, model.Item{ID: "42", Name: "Buy milk"})

	r := run(t, svc, "done", "42")

	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "toggled")
	assert.True(t, svc.Items()[0].Done)
}

func TestDone_Failure(t *testing.T) {
	isolate(t)
	svc := testutil.NewFakeService(t, model.Item{ID: "1", Name: "Buy milk"})
	svc.FailWith(http.MethodPut, http.StatusInternalServerError)

	r := run(t, svc, "done", "1")

	assert.Equal(t, ExitFailed, r.code)
	assert.NotContains(t, r.stdout, "toggled")
	assert.Contains(t, r.stderr, "remote call failed")
	assert.False(t, svc.Items()[0].Done)
}

func TestRemove(t *testing.T) {
	isolate(t)
	svc := testutil.NewFakeService(t,
		model.Item{ID: "1", Name: "Buy milk"},
		model.Item{ID: "2", Name: "Walk dog"},
	)

	r := run(t, svc, "rm", "1")

	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "removed")
	assert.Equal(t, []model.Item{{ID: "2", Name: "Walk dog"}}, svc.Items())
}

func TestRemove_BadRef(t *testing.T) {
	isolate(t)
	svc := testutil.NewFakeService(t, model.Item{ID: "1", Name: "Buy milk"})

	r := run(t, svc, "rm", "7")

	assert.Equal(t, ExitUsage, r.code)
	assert.Contains(t, r.stderr, "index out of range")
	assert.Len(t, svc.Requests(), 1)
}

func TestUsage(t *testing.T) {
	isolate(t)
	svc := testutil.NewFakeService(t)

	cases := []struct {
		name string
		args []string
	}{
		{"no subcommand", nil},
		{"unknown flag", []string{"ls", "--bogus"}},
		{"missing arg", []string{"done"}},
		{"bad theme", []string{"--theme", "rainbow", "ls"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := run(t, svc, tc.args...)
			assert.Equal(t, ExitUsage, r.code)
		})
	}
}

func TestLogFile(t *testing.T) {
	dir := isolate(t)
	svc := testutil.NewFakeService(t)
	svc.FailWith(http.MethodGet, http.StatusInternalServerError)
	logPath := filepath.Join(dir, "logs", "todo.log")

	r := run(t, svc, "--log-file", logPath, "ls")

	assert.Equal(t, ExitFailed, r.code)
	assert.NotContains(t, r.stderr, "remote call failed")
	assert.FileExists(t, logPath)
}

func TestResolveRef(t *testing.T) {
	items := []model.Item{{ID: "10"}, {ID: "x"}, {ID: "1"}}

	cases := []struct {
		ref  string
		want string
		ok   bool
	}{
		{"x", "x", true},
		{"1", "1", true}, // id beats index
		{"2", "x", true},
		{"10", "10", true},
		{"0", "", false},
		{"4", "", false},
		{"nope", "", false},
	}
	for _, tc := range cases {
		got, err := resolveRef(items, tc.ref)
		if !tc.ok {
			assert.Error(t, err, tc.ref)
			continue
		}
		require.NoError(t, err, tc.ref)
		assert.Equal(t, tc.want, got, tc.ref)
	}
}
