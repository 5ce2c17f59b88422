package scoring

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const (
	DefaultTimeout   = 60 * time.Second
	maxStderrInError = 512
)

// ExecScorer runs a scoring subprocess. The resume text is written to its
// stdin and a JSON result is read from its stdout.
type ExecScorer struct {
	Name    string
	Args    []string
	Dir     string
	Timeout time.Duration
}

// NewExecScorer splits a command line such as "python atschecker.py --json --stdin".
func NewExecScorer(commandLine string, timeout time.Duration) (*ExecScorer, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, errors.New("SCORER_COMMAND is required for the exec scorer")
	}
	return &ExecScorer{Name: fields[0], Args: fields[1:], Timeout: timeout}, nil
}

func (s *ExecScorer) Score(ctx context.Context, req Request) (Result, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.Name, s.Args...)
	cmd.Dir = s.Dir
	cmd.Stdin = strings.NewReader(req.Text)
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{}, fmt.Errorf("scorer timed out after %s", timeout)
		}
		return Result{}, fmt.Errorf("scorer process failed: %w: %s", err, tail(stderr.String(), maxStderrInError))
	}
	return ParseResult(stdout.Bytes())
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
