// Package doctor runs readiness diagnostics for config, the speech recognizer, the
// passage library, and the word list.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/verte-zerg/recite/internal/speech"
	"github.com/verte-zerg/recite/internal/store"
	"github.com/verte-zerg/recite/internal/wordlist"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Input is the resolved environment to diagnose.
type Input struct {
	ConfigPath    string
	ConfigErr     error
	SpeechCommand string
	DBPath        string
	WordListPath  string
}

// Run executes every check.
func Run(ctx context.Context, in Input) Report {
	return Report{Checks: []Check{
		checkConfig(in.ConfigPath, in.ConfigErr),
		checkSpeech(in.SpeechCommand),
		checkDatabase(ctx, in.DBPath),
		checkWordList(in.WordListPath),
	}}
}

func checkConfig(path string, loadErr error) Check {
	if loadErr != nil {
		return Check{Name: "config", Pass: false, Message: loadErr.Error()}
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Check{Name: "config", Pass: true, Message: fmt.Sprintf("%q not found, using defaults", path)}
	}
	return Check{Name: "config", Pass: true, Message: fmt.Sprintf("loaded %q", path)}
}

func checkSpeech(command string) Check {
	if strings.TrimSpace(command) == "" {
		return Check{Name: "speech.command", Pass: false, Message: "no recognizer configured; set [speech] command"}
	}
	path, err := speech.LookupCommand(command)
	if err != nil {
		return Check{Name: "speech.command", Pass: false, Message: err.Error()}
	}
	return Check{Name: "speech.command", Pass: true, Message: fmt.Sprintf("found at %s", path)}
}

func checkDatabase(ctx context.Context, path string) Check {
	st, err := store.Open(path)
	if err != nil {
		return Check{Name: "database", Pass: false, Message: fmt.Sprintf("open %s: %v", path, err)}
	}
	defer func() {
		_ = st.Close()
	}()
	passages, err := st.ListPassages(ctx)
	if err != nil {
		return Check{Name: "database", Pass: false, Message: fmt.Sprintf("read %s: %v", path, err)}
	}
	return Check{Name: "database", Pass: true, Message: fmt.Sprintf("%d saved passages in %s", len(passages), path)}
}

func checkWordList(path string) Check {
	if strings.TrimSpace(path) == "" {
		return Check{Name: "wordlist", Pass: true, Message: "not configured, passage generation disabled"}
	}
	words, err := wordlist.LoadWords(path)
	if err != nil {
		return Check{Name: "wordlist", Pass: false, Message: err.Error()}
	}
	return Check{Name: "wordlist", Pass: true, Message: fmt.Sprintf("%d words in %s", len(words), path)}
}
