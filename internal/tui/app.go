package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/recite/internal/logging"
	"github.com/verte-zerg/recite/internal/model"
	"github.com/verte-zerg/recite/internal/session"
	"github.com/verte-zerg/recite/internal/speech"
)

type speechSupportMsg struct {
	supported bool
}

// Options wires the app to its collaborators.
type Options struct {
	Controller *session.Controller
	Provider   speech.CapabilityProvider
	Recognizer speech.Recognizer
	Library    []model.Passage
	Source     PassageSource
	TimeLimit  time.Duration
	Logger     *slog.Logger
	Now        func() time.Time
}

// App is the root model. It mounts exactly one screen for the session state and
// remounts the testing screen whenever the run identity changes.
type App struct {
	ctrl       *session.Controller
	provider   speech.CapabilityProvider
	recognizer speech.Recognizer
	library    []model.Passage
	source     PassageSource
	timeLimit  time.Duration
	logger     *slog.Logger
	now        func() time.Time

	setup   *setupModel
	testing *testingModel
	results *resultsModel

	width  int
	height int
}

// NewApp constructs the root model.
func NewApp(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard().Logger
	}
	ctrl := opts.Controller
	if ctrl == nil {
		ctrl = session.NewController(logger, "")
	}
	provider := opts.Provider
	if provider == nil {
		provider = speech.StaticProvider(false)
	}
	a := &App{
		ctrl:       ctrl,
		provider:   provider,
		recognizer: opts.Recognizer,
		library:    opts.Library,
		source:     opts.Source,
		timeLimit:  opts.TimeLimit,
		logger:     logger,
		now:        opts.Now,
	}
	a.mount()
	return a
}

// Controller exposes the session controller driving the app.
func (a *App) Controller() *session.Controller {
	return a.ctrl
}

// Init implements tea.Model. The capability probe runs once per app.
func (a *App) Init() tea.Cmd {
	provider := a.provider
	probe := func() tea.Msg {
		return speechSupportMsg{supported: provider.DetectSpeechSupport()}
	}
	var setupInit tea.Cmd
	if a.setup != nil {
		setupInit = a.setup.Init()
	}
	return tea.Batch(probe, setupInit)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	case speechSupportMsg:
		if a.ctrl.ResolveSpeechSupport(msg.supported) {
			a.logger.Info("speech support resolved", "supported", msg.supported)
		}
		if a.setup != nil {
			a.setup.setSupport(a.ctrl.SetupProps().SpeechSupport)
		}
		return a, a.mount()
	case startTestMsg:
		if err := a.ctrl.StartTest(msg.passage, msg.limit); err != nil {
			a.logger.Warn("start test rejected", "error", err)
			return a, nil
		}
		a.logger.Debug("mounting run", "run", a.ctrl.CurrentRun().String())
		return a, a.mount()
	case testCompleteMsg:
		if msg.key != a.ctrl.CurrentRun() {
			a.logger.Debug("dropping stale completion", "run", msg.key.String())
			return a, nil
		}
		if err := a.ctrl.TestComplete(msg.score, msg.words); err != nil {
			a.logger.Warn("test completion rejected", "error", err)
			return a, nil
		}
		return a, a.mount()
	case runMsg:
		if a.testing == nil || msg.runKey() != a.testing.key() {
			return a, nil
		}
		return a, a.testing.Update(msg)
	}
	if a.testing != nil {
		return a, a.testing.Update(msg)
	}
	if a.setup != nil {
		return a, a.setup.Update(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, keys.Quit) {
		if a.testing != nil {
			a.testing.stop()
		}
		return tea.Quit
	}
	if a.ctrl.AlertProps().Open {
		if key.Matches(msg, keys.Dismiss) {
			a.ctrl.AlertProps().Close()
		}
		return nil
	}
	switch a.ctrl.Screen() {
	case session.ScreenSetup:
		if a.setup != nil {
			return a.setup.Update(msg)
		}
	case session.ScreenTesting:
		if key.Matches(msg, keys.Back) {
			return a.restart()
		}
		if a.testing != nil {
			return a.testing.Update(msg)
		}
	case session.ScreenUnsupported, session.ScreenResults, session.ScreenNone:
		if key.Matches(msg, keys.Restart) {
			return a.restart()
		}
	}
	return nil
}

func (a *App) restart() tea.Cmd {
	a.ctrl.Restart()
	a.logger.Info("session restarted")
	return a.mount()
}

// mount reconciles the mounted screens with the session state.
func (a *App) mount() tea.Cmd {
	var cmds []tea.Cmd
	screen := a.ctrl.Screen()

	if props, ok := a.ctrl.TestingProps(); ok {
		if a.testing == nil || a.testing.key() != props.Key {
			if a.testing != nil {
				a.testing.stop()
			}
			a.testing = newTestingModel(props, a.recognizer, a.logger, a.now)
			a.testing.setWidth(a.width)
			cmds = append(cmds, a.testing.Init())
		}
	} else if a.testing != nil {
		a.testing.stop()
		a.testing = nil
	}

	if screen == session.ScreenSetup {
		if a.setup == nil {
			props := a.ctrl.SetupProps()
			if props.TimeLimit <= 0 {
				props.TimeLimit = a.timeLimit
			}
			a.setup = newSetupModel(props, a.library, a.source)
			a.setup.setWidth(a.width)
			cmds = append(cmds, a.setup.Init())
		}
	} else {
		a.setup = nil
	}

	if props, ok := a.ctrl.ResultsProps(); ok {
		if a.results == nil {
			a.results = newResultsModel(props)
			a.results.setWidth(a.width)
		}
	} else {
		a.results = nil
	}
	return tea.Batch(cmds...)
}

func (a *App) resize() {
	if a.setup != nil {
		a.setup.setWidth(a.width)
	}
	if a.testing != nil {
		a.testing.setWidth(a.width)
	}
	if a.results != nil {
		a.results.setWidth(a.width)
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if alert := a.ctrl.AlertProps(); alert.Open {
		return a.place(renderAlert(alert, a.width))
	}
	var content string
	switch a.ctrl.Screen() {
	case session.ScreenSetup:
		if a.setup != nil {
			content = a.setup.View()
		}
	case session.ScreenTesting:
		if a.testing != nil {
			content = a.testing.View()
		}
	case session.ScreenUnsupported:
		content = renderUnsupported(a.width)
	case session.ScreenResults:
		if a.results != nil {
			content = a.results.View()
		}
	}
	if content == "" {
		return ""
	}
	return a.place(content)
}

func (a *App) place(content string) string {
	if a.width == 0 || a.height == 0 {
		return content
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

func contentWidth(width int) int {
	if width <= 0 {
		return 0
	}
	w := int(float64(width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}
