package speech

import (
	"log/slog"
	"os/exec"
)

// CommandProvider reports support when the configured recognizer binary resolves on PATH.
type CommandProvider struct {
	Command string
	Logger  *slog.Logger
}

func (p CommandProvider) DetectSpeechSupport() bool {
	_, err := LookupCommand(p.Command)
	if err != nil {
		if p.Logger != nil {
			p.Logger.Warn("speech capability probe failed", "component", "speech", "error", err.Error())
		}
		return false
	}
	return true
}

// LookupCommand resolves the recognizer binary and returns its path.
func LookupCommand(command string) (string, error) {
	argv, err := ParseCommand(command)
	if err != nil {
		return "", err
	}
	return exec.LookPath(argv[0])
}
