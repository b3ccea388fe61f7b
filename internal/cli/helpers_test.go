package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/notion-cli/internal/config"
	"github.com/aidanlsb/notion-cli/internal/filter"
	"github.com/aidanlsb/notion-cli/internal/notion"
)

const (
	testDatabaseID = "8a3f0c2e-5b7d-4e1f-9c6a-2d4b8e0f1a3c"
	testPageID     = "1b2c3d4e-5f60-4718-8293-a4b5c6d7e8f9"
	testBlockID    = "c0ffee00-1234-4abc-8def-0123456789ab"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

// fakeNotion serves canned JSON per "METHOD /path". Each route answers with
// its responses in order and repeats the last one.
type fakeNotion struct {
	mu     sync.Mutex
	routes map[string][]string
	status map[string]int
	reqs   []recordedRequest
}

func (f *fakeNotion) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	key := r.Method + " " + r.URL.Path

	f.mu.Lock()
	f.reqs = append(f.reqs, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	responses, ok := f.routes[key]
	var resp string
	if ok && len(responses) > 0 {
		resp = responses[0]
		if len(responses) > 1 {
			f.routes[key] = responses[1:]
		}
	}
	status := f.status[key]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"object":"error","status":404,"code":"object_not_found","message":"no route for ` + key + `"}`))
		return
	}
	if status != 0 {
		w.WriteHeader(status)
	}
	_, _ = w.Write([]byte(resp))
}

func (f *fakeNotion) requests(method, path string) []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedRequest
	for _, r := range f.reqs {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// newFakeAPI starts a fake server and returns a real client pointed at it.
func newFakeAPI(t *testing.T, routes map[string][]string) (notion.API, *fakeNotion) {
	t.Helper()
	f := &fakeNotion{routes: routes, status: map[string]int{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	api, err := notion.NewClient("secret_test_token", notion.WithBaseURL(srv.URL+"/v1"))
	require.NoError(t, err)
	return api, f
}

// useAPI makes commands run against api for the rest of the test.
func useAPI(t *testing.T, api notion.API) {
	t.Helper()
	prev := newAPIClient
	t.Cleanup(func() { newAPIClient = prev })
	newAPIClient = func(*config.Config, logrus.FieldLogger) (notion.API, error) { return api, nil }
}

func bufferStreams() (streams, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return streams{out: &out, err: &errOut}, &out, &errOut
}

// runCLI executes args against a fresh config file. Flags keep their values
// between cobra executions, so they are reset first.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	clearNotionEnv(t)
	return runCLIKeepEnv(t, args...)
}

// runCLIKeepEnv is runCLI without clearing NOTION_* variables.
func runCLIKeepEnv(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	resetFlags(rootCmd)
	args = append(args, "--config", t.TempDir()+"/config.toml")

	var out, errOut bytes.Buffer
	code = execute(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func clearNotionEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"NOTION_TOKEN", "NOTION_API_KEY", "NOTION_API_BASE_URL", "NOTION_VERSION",
		"NOTION_TIMEOUT", "NOTION_OUTPUT", "NOTION_LOG_LEVEL", "NOTION_UI_ACCENT",
	} {
		t.Setenv(name, "")
	}
}

// scriptedPrompter answers prompts from a fixed script.
type scriptedPrompter struct {
	t       *testing.T
	answers []any
}

var _ filter.Prompter = (*scriptedPrompter)(nil)

func (p *scriptedPrompter) next(message string) any {
	p.t.Helper()
	if len(p.answers) == 0 {
		p.t.Fatalf("unexpected prompt %q: script exhausted", message)
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	if err, ok := a.(error); ok {
		return err
	}
	return a
}

func (p *scriptedPrompter) Confirm(message string, _ bool) (bool, error) {
	switch a := p.next(message).(type) {
	case error:
		return false, a
	case bool:
		return a, nil
	}
	p.t.Fatalf("prompt %q: want bool answer", message)
	return false, nil
}

func (p *scriptedPrompter) Select(message string, options []string) (string, error) {
	switch a := p.next(message).(type) {
	case error:
		return "", a
	case string:
		for _, o := range options {
			if o == a {
				return a, nil
			}
		}
		p.t.Fatalf("prompt %q: %q is not one of %v", message, a, options)
	}
	return "", nil
}

func (p *scriptedPrompter) MultiSelect(message string, _ []string) ([]string, error) {
	switch a := p.next(message).(type) {
	case error:
		return nil, a
	case []string:
		return a, nil
	}
	p.t.Fatalf("prompt %q: want []string answer", message)
	return nil, nil
}

func (p *scriptedPrompter) Input(message, _ string, _ func(string) error) (string, error) {
	switch a := p.next(message).(type) {
	case error:
		return "", a
	case string:
		return a, nil
	}
	p.t.Fatalf("prompt %q: want string answer", message)
	return "", nil
}

func (p *scriptedPrompter) Secret(message string) (string, error) {
	return p.Input(message, "", nil)
}

func (p *scriptedPrompter) done() {
	p.t.Helper()
	if len(p.answers) > 0 {
		p.t.Fatalf("%d scripted answers left unused", len(p.answers))
	}
}
