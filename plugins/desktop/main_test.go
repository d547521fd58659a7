package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCommandFor(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		action  string
		cfg     config
		p       params
		want    []string
		wantErr bool
	}{
		{"say on darwin", "darwin", "speak", config{Rate: 170}, params{Text: "Hologram activated."}, []string{"say", "-r", "170", "Hologram activated."}, false},
		{"espeak default rate", "linux", "speak", config{}, params{Text: "Yes Sir."}, []string{"espeak", "-s", "170", "Yes Sir."}, false},
		{"empty text", "linux", "speak", config{}, params{}, nil, true},
		{"speak on windows", "windows", "speak", config{}, params{Text: "x"}, []string{"powershell", "-NoProfile", "-NonInteractive", "-Command", sapiScript(170, "x")}, false},
		{"speak on plan9", "plan9", "speak", config{}, params{Text: "x"}, nil, true},
		{"open on darwin", "darwin", "open-link", config{}, params{URL: "https://example.com/a?b=c"}, []string{"open", "https://example.com/a?b=c"}, false},
		{"xdg-open on linux", "linux", "open-link", config{}, params{URL: "http://example.com"}, []string{"xdg-open", "http://example.com"}, false},
		{"windows link", "windows", "open-link", config{}, params{URL: "https://example.com"}, []string{"rundll32", "url.dll,FileProtocolHandler", "https://example.com"}, false},
		{"file url", "linux", "open-link", config{}, params{URL: "file:///etc/passwd"}, nil, true},
		{"no host", "linux", "open-link", config{}, params{URL: "https://"}, nil, true},
		{"unknown action", "linux", "volume-up", config{}, params{}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := commandFor(tt.goos, tt.action, tt.cfg, tt.p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("commandFor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("commandFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSAPIScript(t *testing.T) {
	t.Run("quotes text", func(t *testing.T) {
		got := sapiScript(170, "It's online'; Remove-Item x")
		if !strings.HasSuffix(got, "$s.Speak('It''s online''; Remove-Item x')") {
			t.Errorf("sapiScript() = %q", got)
		}
	})

	t.Run("maps words per minute to SAPI rate", func(t *testing.T) {
		tests := []struct {
			wpm  int
			want string
		}{
			{170, "$s.Rate = 0;"},
			{260, "$s.Rate = 4;"},
			{1000, "$s.Rate = 10;"},
			{1, "$s.Rate = -8;"},
		}
		for _, tt := range tests {
			if got := sapiScript(tt.wpm, "x"); !strings.Contains(got, tt.want) {
				t.Errorf("sapiScript(%d) = %q, want %q", tt.wpm, got, tt.want)
			}
		}
	})
}

func TestHandle(t *testing.T) {
	t.Run("dry run", func(t *testing.T) {
		in := `{"action":"open-link","source":"open_video","params":{"url":"https://youtube.com/results?search_query=iron+man+hologram","dry_run":true}}`
		resp := handle(strings.NewReader(in), "linux")

		if !resp.Success {
			t.Fatalf("expected success, got %q", resp.Error)
		}
		var data struct {
			Command []string `json:"command"`
			DryRun  bool     `json:"dry_run"`
		}
		if err := json.Unmarshal(resp.Data, &data); err != nil {
			t.Fatalf("unmarshal data: %v", err)
		}
		if !data.DryRun || len(data.Command) != 2 || data.Command[0] != "xdg-open" {
			t.Errorf("data = %+v", data)
		}
	})

	t.Run("bad request", func(t *testing.T) {
		if resp := handle(strings.NewReader("{"), "linux"); resp.Success {
			t.Error("expected failure for malformed request")
		}
	})

	t.Run("bad params", func(t *testing.T) {
		if resp := handle(strings.NewReader(`{"action":"speak","params":"nope"}`), "linux"); resp.Success {
			t.Error("expected failure for malformed params")
		}
	})
}
