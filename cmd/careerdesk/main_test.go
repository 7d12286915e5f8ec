package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"careerdesk/cmd/careerdesk/ui"
	"careerdesk/internal/logging"
	"careerdesk/internal/session"
)

func TestOrDash(t *testing.T) {
	if got := orDash(""); got != "—" {
		t.Fatalf("expected dash for empty string, got '%s'", got)
	}
	if got := orDash("pro"); got != "pro" {
		t.Fatalf("expected passthrough, got '%s'", got)
	}
}

func TestRenderListTable(t *testing.T) {
	outputFormat = "table"
	table := ui.NewSimpleTable("Things", []string{"ID", "Name"})
	table.AddRow("t1", "first")

	output := captureOutput(t, func() {
		if err := renderList(table, nil); err != nil {
			t.Fatalf("renderList returned error: %v", err)
		}
	})

	if !strings.Contains(output, "Things") || !strings.Contains(output, "first") {
		t.Fatalf("expected rendered table, got: %s", output)
	}
}

func TestRenderListJSON(t *testing.T) {
	outputFormat = "json"
	records := []map[string]string{{"id": "t1"}}

	output := captureOutput(t, func() {
		if err := renderList(ui.NewSimpleTable("", nil), records); err != nil {
			t.Fatalf("renderList returned error: %v", err)
		}
	})

	var decoded []map[string]string
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, output)
	}
	if len(decoded) != 1 || decoded[0]["id"] != "t1" {
		t.Fatalf("unexpected JSON payload: %s", output)
	}
}

func TestRenderListYAML(t *testing.T) {
	outputFormat = "yaml"

	output := captureOutput(t, func() {
		if err := renderList(ui.NewSimpleTable("", nil), map[string]int{"count": 3}); err != nil {
			t.Fatalf("renderList returned error: %v", err)
		}
	})

	if !strings.Contains(output, "count: 3") {
		t.Fatalf("expected YAML output, got: %s", output)
	}
}

func TestRenderListUnknownFormat(t *testing.T) {
	outputFormat = "xml"
	if err := renderList(ui.NewSimpleTable("", nil), nil); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWhoamiNotLoggedIn(t *testing.T) {
	logger = zap.NewNop()
	configDir = t.TempDir()
	defer func() { configDir = "" }()

	err := runWhoami(&cobra.Command{}, nil)
	if err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Fatalf("expected not-logged-in error, got %v", err)
	}
}

func TestLoginStoresSession(t *testing.T) {
	logger = zap.NewNop()
	configDir = t.TempDir()
	defer func() { configDir = "" }()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"login": {
			"account": {"id": "u1", "email": "dana@example.com", "full_name": "Dana Doe", "email_verified": true},
			"tokens": {"access_token": "access-1", "refresh_token": "refresh-1"}
		}}`))
	}))
	defer srv.Close()
	t.Setenv("CAREERDESK_API_URL", srv.URL)

	loginEmail = "dana@example.com"
	loginPassword = "hunter22"
	defer func() { loginEmail, loginPassword = "", "" }()

	output := captureOutput(t, func() {
		if err := runLogin(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runLogin returned error: %v", err)
		}
	})
	if !strings.Contains(output, "Logged in as Dana Doe") {
		t.Fatalf("expected login confirmation, got: %s", output)
	}

	sess := session.New(configDir)
	if err := sess.Load(); err != nil {
		t.Fatalf("session load: %v", err)
	}
	if !sess.Authenticated() {
		t.Fatal("expected persisted authenticated session")
	}
	if sess.AccessToken() != "access-1" || sess.RefreshToken() != "refresh-1" {
		t.Fatal("token pair not persisted")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	logger = zap.NewNop()
	configDir = t.TempDir()
	defer func() { configDir = "" }()

	sess := session.New(configDir)
	if err := sess.SetTokens("a", "r"); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	output := captureOutput(t, func() {
		if err := runLogout(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runLogout returned error: %v", err)
		}
	})
	if !strings.Contains(output, "Logged out") {
		t.Fatalf("expected logout confirmation, got: %s", output)
	}

	reloaded := session.New(configDir)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("session load: %v", err)
	}
	if reloaded.Authenticated() {
		t.Fatal("expected cleared session")
	}
}

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origOut := os.Stdout
	origErr := os.Stderr
	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, rOut)
		_, _ = io.Copy(&buf, rErr)
		done <- buf.String()
	}()

	fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = origOut
	os.Stderr = origErr
	return <-done
}

func TestLoadEnvironmentLogsBoot(t *testing.T) {
	configDir = t.TempDir()
	defer func() { configDir = "" }()
	t.Cleanup(logging.CloseAll)

	raw := `{"logging": {"debug_mode": true, "level": "debug"}}`
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadEnvironment(); err != nil {
		t.Fatalf("loadEnvironment failed: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(configDir, "logs", "*_boot.log"))
	if err != nil || len(matches) == 0 {
		t.Fatalf("boot log not written: %v %v", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "environment ready") {
		t.Error("startup line missing from boot log")
	}
}

func TestRecruitersEditKeepsUnsetFields(t *testing.T) {
	logger = zap.NewNop()
	configDir = t.TempDir()
	defer func() { configDir = "" }()

	var putBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recruiters/rec-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"recruiter": {"id": "rec-1", "name": "Dana", "company": "Acme", "email": "dana@acme.io"}}`))
		case http.MethodPut:
			putBody, _ = io.ReadAll(r.Body)
			w.Write([]byte(`{"recruiter": {"id": "rec-1", "name": "Dana", "company": "Acme Corp", "email": "dana@acme.io"}}`))
		}
	}))
	defer srv.Close()
	t.Setenv("CAREERDESK_API_URL", srv.URL)

	sess := session.New(configDir)
	if err := sess.SetTokens("a", "r"); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	cmd := &cobra.Command{}
	cmd.Flags().StringVar(&recruiterCompany, "company", "", "")
	if err := cmd.Flags().Set("company", "Acme Corp"); err != nil {
		t.Fatal(err)
	}
	defer func() { recruiterCompany = "" }()

	output := captureOutput(t, func() {
		if err := runRecruitersEdit(cmd, []string{"rec-1"}); err != nil {
			t.Fatalf("runRecruitersEdit returned error: %v", err)
		}
	})
	if !strings.Contains(output, "Updated Dana at Acme Corp") {
		t.Fatalf("expected update confirmation, got: %s", output)
	}

	var sent map[string]string
	if err := json.Unmarshal(putBody, &sent); err != nil {
		t.Fatalf("unreadable update payload: %v", err)
	}
	if sent["company"] != "Acme Corp" {
		t.Errorf("changed flag not sent: %q", sent["company"])
	}
	if sent["name"] != "Dana" || sent["email"] != "dana@acme.io" {
		t.Errorf("unset flags must keep stored values, got %+v", sent)
	}
}
