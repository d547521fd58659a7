// Package voice turns speech into HUD actions.
package voice

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/ayusman/holohud/internal/log"
	"github.com/ayusman/holohud/internal/pyservice"
)

var (
	// ErrNoSpeech is returned when nothing intelligible was heard.
	ErrNoSpeech = errors.New("no speech recognized")
	// ErrServiceNotFound is returned when speech_service.py is missing.
	ErrServiceNotFound = errors.New("speech_service.py not found")
)

// Recognizer listens for one utterance at a time.
type Recognizer interface {
	// Listen blocks until a phrase is transcribed, nothing was understood
	// (ErrNoSpeech), the recognizer fails, or ctx is done.
	Listen(ctx context.Context) (string, error)
	Close() error
}

// ServiceRecognizer runs speech_service.py and exchanges one JSON line per
// utterance with it. The process is started on the first Listen and
// restarted after any I/O failure.
type ServiceRecognizer struct {
	script      string
	phraseLimit time.Duration
	language    string

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  *bufio.Reader
	started bool
	logger  *slog.Logger
}

// NewServiceRecognizer locates the speech service. phraseLimit bounds how
// long a single utterance may run.
func NewServiceRecognizer(phraseLimit time.Duration) (*ServiceRecognizer, error) {
	script := pyservice.FindScript("speech_service.py")
	if script == "" {
		return nil, ErrServiceNotFound
	}
	return &ServiceRecognizer{
		script:      script,
		phraseLimit: phraseLimit,
		language:    "en-US",
		logger:      log.With("component", "voice.recognizer"),
	}, nil
}

type listenRequest struct {
	PhraseLimit float64 `json:"phrase_limit"`
}

type listenResponse struct {
	Text   string `json:"text"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type lineResult struct {
	line string
	err  error
}

// Listen asks the service for one utterance.
func (r *ServiceRecognizer) Listen(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureStarted(); err != nil {
		return "", err
	}

	req, err := json.Marshal(listenRequest{PhraseLimit: r.phraseLimit.Seconds()})
	if err != nil {
		return "", err
	}
	if _, err := r.stdin.Write(append(req, '\n')); err != nil {
		r.shutdown()
		return "", fmt.Errorf("write request: %w", err)
	}

	resultCh := make(chan lineResult, 1)
	stdout := r.stdout
	go func() {
		line, err := stdout.ReadString('\n')
		resultCh <- lineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		// The pending read only ends when the process goes away.
		r.kill()
		return "", ctx.Err()
	case res := <-resultCh:
		if res.err != nil {
			r.shutdown()
			return "", fmt.Errorf("read response: %w", res.err)
		}
		return parseTranscript([]byte(res.line))
	}
}

// Close stops the speech service.
func (r *ServiceRecognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shutdown()
}

func (r *ServiceRecognizer) ensureStarted() error {
	if r.started {
		return nil
	}

	r.cmd = pyservice.Command(r.script,
		"--language", r.language,
		"--phrase-limit", strconv.FormatFloat(r.phraseLimit.Seconds(), 'f', 1, 64),
	)

	stdin, err := r.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}
	stdout, err := r.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	if err := r.cmd.Start(); err != nil {
		return fmt.Errorf("start speech service: %w", err)
	}

	r.stdin = stdin
	r.stdout = bufio.NewReader(stdout)
	r.started = true
	r.logger.Info("speech service started", "pid", r.cmd.Process.Pid)
	return nil
}

func (r *ServiceRecognizer) kill() {
	if r.started && r.cmd.Process != nil {
		r.cmd.Process.Kill()
	}
	r.shutdown()
}

func (r *ServiceRecognizer) shutdown() error {
	if !r.started {
		return nil
	}

	if r.stdin != nil {
		r.stdin.Close()
	}

	err := r.cmd.Wait()
	r.started = false
	r.cmd = nil
	r.stdin = nil
	r.stdout = nil
	r.logger.Info("speech service stopped")

	return err
}

// parseTranscript decodes one response line from the speech service.
func parseTranscript(line []byte) (string, error) {
	var resp listenResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	switch resp.Status {
	case "ok":
		return resp.Text, nil
	case "no_speech":
		return "", ErrNoSpeech
	default:
		if resp.Error == "" {
			resp.Error = "status " + strconv.Quote(resp.Status)
		}
		return "", fmt.Errorf("speech service: %s", resp.Error)
	}
}
