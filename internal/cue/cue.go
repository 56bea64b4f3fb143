// Package cue plays short reward sounds without ever blocking the caller.
package cue

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// playTimeout bounds how long a single cue may run before it is abandoned.
const playTimeout = 5 * time.Second

// Player plays one sound cue.
type Player interface {
	Play(ctx context.Context) error
}

// PlayerFunc adapts a function to the Player interface.
type PlayerFunc func(ctx context.Context) error

// Play calls f(ctx).
func (f PlayerFunc) Play(ctx context.Context) error {
	return f(ctx)
}

// Fire plays the cue on its own goroutine and returns immediately.
// Failures and panics are logged at debug level and otherwise ignored.
// The returned channel is closed once the attempt has finished; callers are
// free to ignore it.
func Fire(player Player, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if player == nil {
		close(done)
		return done
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	go func() {
		defer close(done)
		defer func() {
			if rec := recover(); rec != nil {
				logger.Debug("sound cue panicked", zap.Any("panic", rec))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), playTimeout)
		defer cancel()

		if err := player.Play(ctx); err != nil {
			logger.Debug("sound cue failed", zap.Error(err))
		}
	}()

	return done
}

// Bell rings the terminal bell by writing BEL to W.
type Bell struct {
	W io.Writer
}

// Play writes a single BEL character.
func (b Bell) Play(context.Context) error {
	if b.W == nil {
		return fmt.Errorf("bell: no writer")
	}
	_, err := io.WriteString(b.W, "\a")
	return err
}

// Command plays a sound by running an external program, e.g. "paplay reward.wav".
type Command struct {
	Name string
	Args []string
}

// Play runs the command and waits for it to exit or for ctx to expire.
func (c Command) Play(ctx context.Context) error {
	if c.Name == "" {
		return fmt.Errorf("command: no program configured")
	}
	if err := exec.CommandContext(ctx, c.Name, c.Args...).Run(); err != nil {
		return fmt.Errorf("run %s: %w", c.Name, err)
	}
	return nil
}
