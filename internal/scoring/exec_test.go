package scoring

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func requireTool(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func TestExecScorerReadsStdoutJSON(t *testing.T) {
	requireTool(t, "cat")
	// cat echoes stdin, so the request text doubles as the scorer output.
	s, err := NewExecScorer("cat", time.Second)
	if err != nil {
		t.Fatalf("NewExecScorer: %v", err)
	}

	got, err := s.Score(context.Background(), Request{ResumeID: "r1", Text: validPayload})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got.OverallScore != 82 {
		t.Fatalf("unexpected score %d", got.OverallScore)
	}
}

func TestExecScorerFailures(t *testing.T) {
	requireTool(t, "sh")
	tests := []struct {
		name    string
		script  string
		timeout time.Duration
		wantErr string
	}{
		{name: "non-zero exit", script: "echo boom >&2; exit 3", timeout: time.Second, wantErr: "boom"},
		{name: "malformed output", script: "echo not json", timeout: time.Second, wantErr: "not valid JSON"},
		{name: "timeout", script: "sleep 5", timeout: 50 * time.Millisecond, wantErr: "timed out"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &ExecScorer{Name: "sh", Args: []string{"-c", tt.script}, Timeout: tt.timeout}
			_, err := s.Score(context.Background(), Request{Text: "resume"})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewExecScorerSplitsCommandLine(t *testing.T) {
	s, err := NewExecScorer("python atschecker.py --json --stdin", 0)
	if err != nil {
		t.Fatalf("NewExecScorer: %v", err)
	}
	if s.Name != "python" || strings.Join(s.Args, " ") != "atschecker.py --json --stdin" {
		t.Fatalf("unexpected command %s %v", s.Name, s.Args)
	}
	if _, err := NewExecScorer("   ", 0); err == nil {
		t.Fatalf("expected error for empty command")
	}
}
