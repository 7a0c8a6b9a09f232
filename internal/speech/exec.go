package speech

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"
)

// maxLineSize caps a single recognizer output line.
const maxLineSize = 1 << 20

// ExecRecognizer runs a recognizer command that prints one transcript update per line
// on stdout. A line holding a JSON object with "text" and "final" is decoded; any other
// non-empty line is taken as a final segment.
type ExecRecognizer struct {
	argv   []string
	lang   string
	logger *slog.Logger
}

// NewExecRecognizer parses the command line with shell quoting rules.
func NewExecRecognizer(command, lang string, logger *slog.Logger) (*ExecRecognizer, error) {
	argv, err := ParseCommand(command)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecRecognizer{
		argv:   argv,
		lang:   strings.TrimSpace(lang),
		logger: logger.With("component", "speech"),
	}, nil
}

// ParseCommand splits a recognizer command line into argv.
func ParseCommand(command string) ([]string, error) {
	if strings.TrimSpace(command) == "" {
		return nil, ErrEmptyCommand
	}
	parser := shellwords.NewParser()
	argv, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse speech command: %w", err)
	}
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}
	return argv, nil
}

// Argv returns the command and arguments that Start executes.
func (r *ExecRecognizer) Argv() []string {
	args := append([]string{}, r.argv...)
	if r.lang != "" {
		args = append(args, "--language", r.lang)
	}
	return args
}

// Start launches the recognizer. Cancelling ctx stops the process and closes the stream
// without an error.
func (r *ExecRecognizer) Start(ctx context.Context) (Stream, error) {
	args := r.Argv()
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Stream{}, fmt.Errorf("speech stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return Stream{}, fmt.Errorf("start speech recognizer: %w", err)
	}
	r.logger.Info("recognizer started", "argv", strings.Join(args, " "), "pid", cmd.Process.Pid)

	segments := make(chan Segment)
	stream, finish := NewStream(segments)
	go func() {
		err := pump(ctx, cmd, stdout, segments, &stderr)
		close(segments)
		finish(err)
	}()
	return stream, nil
}

// pump forwards parsed stdout lines until the recognizer exits or ctx is cancelled.
func pump(ctx context.Context, cmd *exec.Cmd, stdout io.Reader, segments chan<- Segment, stderr *bytes.Buffer) error {
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		seg, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		select {
		case segments <- seg:
		case <-ctx.Done():
			return waitRecognizer(ctx, cmd, stdout, stderr)
		}
	}
	if err := scanner.Err(); err != nil {
		// The rest of the output cannot be framed, so the recognizer is stopped.
		_ = cmd.Process.Kill()
		_ = waitRecognizer(ctx, cmd, stdout, stderr)
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("read speech recognizer output: %w", err)
	}
	return waitRecognizer(ctx, cmd, stdout, stderr)
}

// waitRecognizer drains stdout before Wait so the child never blocks on a full pipe.
func waitRecognizer(ctx context.Context, cmd *exec.Cmd, stdout io.Reader, stderr *bytes.Buffer) error {
	_, _ = io.Copy(io.Discard, stdout)
	err := cmd.Wait()
	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("speech recognizer exited: %w: %s", err, msg)
		}
		return fmt.Errorf("speech recognizer exited: %w", err)
	}
	return nil
}

// ParseLine decodes one recognizer output line.
func ParseLine(line string) (Segment, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Segment{}, false
	}
	if strings.HasPrefix(line, "{") {
		var seg Segment
		if err := json.Unmarshal([]byte(line), &seg); err == nil {
			seg.Text = strings.TrimSpace(seg.Text)
			if seg.Text == "" && !seg.Final {
				return Segment{}, false
			}
			return seg, true
		}
	}
	return Segment{Text: line, Final: true}, true
}
