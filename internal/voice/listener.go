package voice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ayusman/holohud/internal/action"
	"github.com/ayusman/holohud/internal/log"
)

// ErrTooManyFailures is returned by Run after too many consecutive
// recognizer failures.
var ErrTooManyFailures = errors.New("voice: too many consecutive recognizer failures")

// Listener defaults.
const (
	DefaultBackoffBase = 250 * time.Millisecond
	DefaultBackoffMax  = 8 * time.Second
)

// Submitter accepts actions from the listener goroutine.
type Submitter interface {
	Submit(a action.Action, origin action.Origin) bool
}

// Speaker says a reply out loud without blocking.
type Speaker interface {
	Speak(text string)
}

// Backoff is a capped exponential delay: Base, 2*Base, 4*Base ... Max.
type Backoff struct {
	Base    time.Duration
	Max     time.Duration
	attempt int
}

// Next returns the delay for the next retry and advances the schedule.
func (b *Backoff) Next() time.Duration {
	d := b.Base
	for i := 0; i < b.attempt && d < b.Max; i++ {
		d *= 2
	}
	if d > b.Max {
		d = b.Max
	}
	b.attempt++
	return d
}

// Reset restarts the schedule at Base.
func (b *Backoff) Reset() {
	b.attempt = 0
}

// ListenerConfig configures a Listener.
type ListenerConfig struct {
	BackoffBase time.Duration
	BackoffMax  time.Duration
	// MaxFailures stops the listener after this many consecutive failures.
	// Zero retries forever.
	MaxFailures int
	// Greeting is spoken once when Run starts. Empty disables it.
	Greeting string
}

// Listener runs the listen loop: recognize, match a phrase, submit the action.
type Listener struct {
	rec     Recognizer
	sink    Submitter
	speaker Speaker
	cfg     ListenerConfig
	backoff Backoff
	logger  *slog.Logger
	sleep   func(ctx context.Context, d time.Duration) error

	// onTranscript, when set, receives every recognized transcript.
	onTranscript func(text string)
}

// NewListener creates a listener. speaker may be nil.
func NewListener(rec Recognizer, sink Submitter, speaker Speaker, cfg ListenerConfig) *Listener {
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = DefaultBackoffBase
	}
	if cfg.BackoffMax < cfg.BackoffBase {
		cfg.BackoffMax = max(DefaultBackoffMax, cfg.BackoffBase)
	}
	return &Listener{
		rec:     rec,
		sink:    sink,
		speaker: speaker,
		cfg:     cfg,
		backoff: Backoff{Base: cfg.BackoffBase, Max: cfg.BackoffMax},
		logger:  log.With("component", "voice.listener"),
		sleep:   sleepCtx,
	}
}

// Run listens until ctx is cancelled, returning nil, or until MaxFailures
// consecutive recognizer errors, returning an error wrapping
// ErrTooManyFailures and the last failure.
func (l *Listener) Run(ctx context.Context) error {
	l.say(l.cfg.Greeting)
	l.logger.Info("listening")

	failures := 0
	for {
		text, err := l.rec.Listen(ctx)
		if ctx.Err() != nil {
			return nil
		}

		switch {
		case err == nil:
			failures = 0
			l.backoff.Reset()
			l.handle(text)

		case errors.Is(err, ErrNoSpeech):
			failures = 0
			l.backoff.Reset()

		default:
			failures++
			if l.cfg.MaxFailures > 0 && failures >= l.cfg.MaxFailures {
				return fmt.Errorf("%w (%d): %w", ErrTooManyFailures, failures, err)
			}
			delay := l.backoff.Next()
			l.logger.Warn("recognizer failed, backing off", "error", err, "failures", failures, "delay", delay)
			if err := l.sleep(ctx, delay); err != nil {
				return nil
			}
		}
	}
}

func (l *Listener) handle(text string) {
	if l.onTranscript != nil {
		l.onTranscript(text)
	}

	cmd, ok := Match(text)
	if !ok {
		l.logger.Debug("no command in transcript", "text", text)
		return
	}

	l.say(cmd.Reply)
	if cmd.Action.Valid() {
		l.sink.Submit(cmd.Action, action.OriginVoice)
		l.logger.Info("voice command", "phrase", cmd.Phrase, "action", cmd.Action.String())
	}
}

func (l *Listener) say(text string) {
	if text != "" && l.speaker != nil {
		l.speaker.Speak(text)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
