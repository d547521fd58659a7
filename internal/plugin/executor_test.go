package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// writeScriptPlugin creates a shell-script plugin in a temp directory.
func writeScriptPlugin(t *testing.T, name, script string) *Plugin {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, name+".sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	return &Plugin{
		Manifest: Manifest{
			Name:       name,
			Version:    "1.0.0",
			Executable: name + ".sh",
			Actions:    []string{"speak", "open-link"},
		},
		Path:       dir,
		Executable: path,
	}
}

func TestExecutor_Execute(t *testing.T) {
	plugin := writeScriptPlugin(t, "ok-plugin", `echo '{"success":true,"data":{"message":"hello world"}}'
`)

	resp, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, &Request{Action: "speak"})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !resp.Success || resp.Error != "" {
		t.Errorf("response = %+v", resp)
	}

	var data map[string]string
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data["message"] != "hello world" {
		t.Errorf("message = %q, want 'hello world'", data["message"])
	}
}

func TestExecutor_Execute_ReadsStdin(t *testing.T) {
	plugin := writeScriptPlugin(t, "echo-plugin", `INPUT=$(cat)
echo "{\"success\":true,\"data\":{\"received\":$INPUT}}"
`)

	req := &Request{
		Action: "speak",
		Source: "show_panels",
		Config: json.RawMessage(`{"rate":170}`),
		Params: json.RawMessage(`{"text":"Displaying system data."}`),
	}

	resp, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, req)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var data struct {
		Received struct {
			Action string `json:"action"`
			Source string `json:"source"`
			Config struct {
				Rate int `json:"rate"`
			} `json:"config"`
			Params struct {
				Text string `json:"text"`
			} `json:"params"`
		} `json:"received"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}

	got := data.Received
	if got.Action != "speak" || got.Source != "show_panels" {
		t.Errorf("received action/source = %q/%q", got.Action, got.Source)
	}
	if got.Config.Rate != 170 || got.Params.Text != "Displaying system data." {
		t.Errorf("received config/params = %+v", got)
	}
}

func TestExecutor_Timeout(t *testing.T) {
	plugin := writeScriptPlugin(t, "slow-plugin", `sleep 10
echo '{"success":true}'
`)

	start := time.Now()
	_, err := NewExecutor(100*time.Millisecond).Execute(context.Background(), plugin, &Request{Action: "speak"})

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Execute() error = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout took %v", elapsed)
	}
}

func TestExecutor_ContextCancel(t *testing.T) {
	plugin := writeScriptPlugin(t, "slow-plugin", `sleep 10
echo '{"success":true}'
`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewExecutor(5*time.Second).Execute(ctx, plugin, &Request{Action: "speak"}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestExecutor_Execute_ErrorResponse(t *testing.T) {
	plugin := writeScriptPlugin(t, "error-plugin", `echo '{"success":false,"error":"something went wrong"}'
`)

	resp, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, &Request{Action: "open-link"})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if resp.Success {
		t.Error("expected success=false")
	}
	if resp.Error != "something went wrong" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestExecutor_Execute_InvalidJSON(t *testing.T) {
	plugin := writeScriptPlugin(t, "bad-plugin", `echo 'not valid json'
`)

	if _, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, &Request{Action: "speak"}); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestExecutor_Execute_NonZeroExit(t *testing.T) {
	plugin := writeScriptPlugin(t, "exit-plugin", `echo "Error: something failed" >&2
exit 1
`)

	if _, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, &Request{Action: "speak"}); err == nil {
		t.Fatal("expected error for non-zero exit")
	}
}

func TestNewExecutor(t *testing.T) {
	if got := NewExecutor(3 * time.Second).Timeout(); got != 3*time.Second {
		t.Errorf("Timeout() = %v, want 3s", got)
	}
	if got := NewExecutor(0).Timeout(); got != DefaultTimeout {
		t.Errorf("Timeout() = %v, want %v", got, DefaultTimeout)
	}
}

func TestPlugin_Supports(t *testing.T) {
	p := &Plugin{Manifest: Manifest{Actions: []string{"speak"}}}

	if !p.Supports("speak") {
		t.Error("expected speak to be supported")
	}
	if p.Supports("open-link") {
		t.Error("open-link is not declared")
	}
}
