// Package main provides the desktop effects plugin. It speaks text with the
// platform speech synthesizer and opens links in the default browser.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action string          `json:"action"`
	Source string          `json:"source"`
	Config json.RawMessage `json:"config"`
	Params json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type config struct {
	Rate int `json:"rate"`
}

type params struct {
	Text   string `json:"text"`
	URL    string `json:"url"`
	DryRun bool   `json:"dry_run"`
}

// defaultRate is the speech rate in words per minute.
const defaultRate = 170

func main() {
	resp := handle(os.Stdin, runtime.GOOS)
	json.NewEncoder(os.Stdout).Encode(resp)
}

func handle(r io.Reader, goos string) Response {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return failure(fmt.Sprintf("failed to decode request: %v", err))
	}

	var cfg config
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			return failure(fmt.Sprintf("invalid config: %v", err))
		}
	}
	var p params
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return failure(fmt.Sprintf("invalid params: %v", err))
		}
	}

	argv, err := commandFor(goos, req.Action, cfg, p)
	if err != nil {
		return failure(err.Error())
	}

	data, _ := json.Marshal(map[string]any{"command": argv, "dry_run": p.DryRun})
	if p.DryRun {
		return Response{Success: true, Data: data}
	}

	if out, err := exec.Command(argv[0], argv[1:]...).CombinedOutput(); err != nil {
		return failure(fmt.Sprintf("action %s failed: %v: %s", req.Action, err, out))
	}
	return Response{Success: true, Data: data}
}

// commandFor returns the argv that performs action on goos.
func commandFor(goos, action string, cfg config, p params) ([]string, error) {
	switch action {
	case "speak":
		if p.Text == "" {
			return nil, errors.New("speak requires text")
		}
		rate := cfg.Rate
		if rate <= 0 {
			rate = defaultRate
		}
		switch goos {
		case "darwin":
			return []string{"say", "-r", strconv.Itoa(rate), p.Text}, nil
		case "linux":
			return []string{"espeak", "-s", strconv.Itoa(rate), p.Text}, nil
		case "windows":
			return []string{"powershell", "-NoProfile", "-NonInteractive", "-Command", sapiScript(rate, p.Text)}, nil
		default:
			return nil, fmt.Errorf("speak is not supported on %s", goos)
		}

	case "open-link":
		u, err := url.Parse(p.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("refusing to open %q: only http(s) links are allowed", p.URL)
		}
		switch goos {
		case "darwin":
			return []string{"open", u.String()}, nil
		case "linux":
			return []string{"xdg-open", u.String()}, nil
		case "windows":
			return []string{"rundll32", "url.dll,FileProtocolHandler", u.String()}, nil
		default:
			return nil, fmt.Errorf("open-link is not supported on %s", goos)
		}

	default:
		return nil, fmt.Errorf("unknown action: %s", action)
	}
}

// sapiScript speaks text through System.Speech. SAPI rates run from -10 to 10
// with 0 near 180 words per minute.
func sapiScript(wpm int, text string) string {
	rate := min(max((wpm-180)/20, -10), 10)
	quoted := "'" + strings.ReplaceAll(text, "'", "''") + "'"
	return fmt.Sprintf("Add-Type -AssemblyName System.Speech; "+
		"$s = New-Object System.Speech.Synthesis.SpeechSynthesizer; "+
		"$s.Rate = %d; $s.Speak(%s)", rate, quoted)
}

func failure(msg string) Response {
	return Response{Success: false, Error: msg}
}
