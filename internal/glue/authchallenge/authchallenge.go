// Package authchallenge implements the password challenge please runs
// before a permitted, require_pass action: check the token cache, and
// failing that, prompt for a password (with a per-entry timeout) and
// verify it, allowing up to three attempts in total. Grounded on
// original_source/src/lib.rs::challenge_password. PAM itself (the
// original's Authenticator/PamConvo) is out of spec.md's scope (§1) —
// only the verification interface is specified here, so a deployment
// supplies its own Verifier (a PAM binding, an OS user password check,
// or a stub for tests).
package authchallenge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/term"
)

// ErrNoTTY is returned when a password must be read but no terminal is
// attached, mirroring challenge_password's "Cannot read password
// without tty" check.
var ErrNoTTY = errors.New("cannot read password: no controlling terminal")

// ErrTimedOut is returned when the configured timeout elapses before a
// password is verified.
var ErrTimedOut = errors.New("timed out getting password")

// ErrTooManyAttempts is returned after three failed verification
// attempts.
var ErrTooManyAttempts = errors.New("too many incorrect password attempts")

const maxAttempts = 3

// Verifier checks a plaintext password for user against whatever
// backend a deployment wires in (PAM, shadow, an external IdP). It
// returns a nil error iff the password is correct.
type Verifier interface {
	Verify(ctx context.Context, user, service, password string) error
}

// TokenCache is the subset of tokencache.Cache this package depends on.
type TokenCache interface {
	Valid(user, tty string, ppid int) bool
	Update(user, tty string, ppid int) error
}

// Challenger runs the challenge_password sequence.
type Challenger struct {
	Verifier Verifier
	Tokens   TokenCache
	// Out receives the password prompts. In is not read by Challenge:
	// passwords are read through ReadPassword from Request.TTYFd.
	In  io.Reader
	Out io.Writer
	// ReadPassword defaults to term.ReadPassword against a real fd;
	// overridable in tests to avoid requiring an actual terminal.
	ReadPassword func(fd int) ([]byte, error)
}

// New returns a Challenger wired to real terminal I/O.
func New(v Verifier, tokens TokenCache) *Challenger {
	return &Challenger{
		Verifier:     v,
		Tokens:       tokens,
		ReadPassword: term.ReadPassword,
	}
}

// Request carries everything the challenge needs to know about the
// invoker and the entry's effects, independent of policy.Decision so
// this package has no dependency on internal/domain/policy.
type Request struct {
	User    string
	Service string
	TTY     string
	PPID    int
	// Timeout is the per-entry challenge timeout in seconds; zero means
	// no timeout (wait indefinitely for input), matching
	// entry.timeout.is_some() gating the alarm in the original.
	Timeout int
	// Prompt, when false, means the invocation is non-interactive
	// (please -n); a required password can never be satisfied.
	Prompt bool
	// TTYFd is the terminal file descriptor ReadPassword reads from.
	TTYFd int
}

// Challenge runs the full sequence: token check, then (if prompting is
// allowed) up to three password prompts, updating the token cache on
// success.
func (c *Challenger) Challenge(ctx context.Context, req Request) error {
	if req.TTY == "" {
		return ErrNoTTY
	}

	if c.Tokens != nil && c.Tokens.Valid(req.User, req.TTY, req.PPID) {
		return c.Tokens.Update(req.User, req.TTY, req.PPID)
	}

	if !req.Prompt {
		return fmt.Errorf("password required but prompting is disabled: %w", ErrTooManyAttempts)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		password, err := c.readPasswordWithTimeout(ctx, req)
		if err != nil {
			return err
		}

		verifyErr := c.Verifier.Verify(ctx, req.User, req.Service, password)
		if verifyErr == nil {
			if c.Tokens != nil {
				return c.Tokens.Update(req.User, req.TTY, req.PPID)
			}
			return nil
		}

		fmt.Fprintln(c.Out, "Sorry, try again.")
	}

	return ErrTooManyAttempts
}

func (c *Challenger) readPasswordWithTimeout(ctx context.Context, req Request) (string, error) {
	fmt.Fprintf(c.Out, "[%s] password for %s: ", req.Service, req.User)

	type result struct {
		pw  []byte
		err error
	}
	done := make(chan result, 1)

	go func() {
		pw, err := c.ReadPassword(req.TTYFd)
		done <- result{pw, err}
	}()

	if req.Timeout <= 0 {
		r := <-done
		fmt.Fprintln(c.Out)
		if r.err != nil {
			return "", fmt.Errorf("read password: %w", r.err)
		}
		return string(r.pw), nil
	}

	timer := time.NewTimer(time.Duration(req.Timeout) * time.Second)
	defer timer.Stop()

	select {
	case r := <-done:
		fmt.Fprintln(c.Out)
		if r.err != nil {
			return "", fmt.Errorf("read password: %w", r.err)
		}
		return string(r.pw), nil
	case <-timer.C:
		fmt.Fprintln(c.Out, "\nTimed out getting password")
		return "", ErrTimedOut
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
