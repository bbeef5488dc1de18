/* pkg/tui/model.go */

package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/crypto"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/debounce"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/strength"
)

// Checker evaluates one password. It must honour ctx: a newer keystroke
// cancels the check for older input.
type Checker func(ctx context.Context, password string) (*strength.Report, error)

// LocalChecker evaluates in-process.
func LocalChecker(e *strength.Evaluator) Checker {
	if e == nil {
		e = strength.NewEvaluator()
	}
	return func(_ context.Context, password string) (*strength.Report, error) {
		r := e.Evaluate(password)
		return &r, nil
	}
}

// Options configures the watch screen.
type Options struct {
	Check     Checker
	Generator *crypto.Generator
	Spec      crypto.Spec
	// Wait is the quiet period after the last keystroke before checking.
	Wait time.Duration
	// Source names where reports come from, shown in the footer.
	Source string
}

type (
	// evalTickMsg fires once the quiet period for a ticket has passed.
	evalTickMsg struct {
		ticket   debounce.Ticket
		password string
	}

	reportMsg struct {
		ticket debounce.Ticket
		report *strength.Report
		err    error
	}

	generatedMsg struct {
		password string
		err      error
	}
)

// Model is the bubbletea model behind `pwq watch`.
type Model struct {
	input  textinput.Model
	styles Styles

	check  Checker
	gen    *crypto.Generator
	spec   crypto.Spec
	wait   time.Duration
	source string
	gate   *debounce.Gate

	report   *strength.Report
	lastErr  error
	revealed bool
	pending  bool
	width    int
}

// New builds the model. ctx bounds every check it starts.
func New(ctx context.Context, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "type a password"
	ti.Prompt = "🔑 "
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = shared.MaxPasswordLength
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()

	if opts.Check == nil {
		opts.Check = LocalChecker(nil)
	}
	if opts.Generator == nil {
		opts.Generator = crypto.NewGenerator(nil)
	}
	if len(opts.Spec.Categories) == 0 {
		opts.Spec = crypto.DefaultSpec()
	}
	if opts.Source == "" {
		opts.Source = "local"
	}

	return Model{
		input:  ti,
		styles: NewStyles(),
		check:  opts.Check,
		gen:    opts.Generator,
		spec:   opts.Spec,
		wait:   opts.Wait,
		source: opts.Source,
		gate:   debounce.NewGate(ctx),
		width:  60,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.gate.Stop()
			return m, tea.Quit
		case "ctrl+r":
			m.revealed = !m.revealed
			if m.revealed {
				m.input.EchoMode = textinput.EchoNormal
			} else {
				m.input.EchoMode = textinput.EchoPassword
			}
			return m, nil
		case "ctrl+g":
			return m, m.generate()
		}

		before := m.input.Value()
		var inputCmd tea.Cmd
		m.input, inputCmd = m.input.Update(msg)
		if m.input.Value() == before {
			return m, inputCmd
		}
		checkCmd := m.schedule()
		return m, tea.Batch(inputCmd, checkCmd)

	case evalTickMsg:
		if !m.gate.Current(msg.ticket) {
			return m, nil
		}
		return m, m.runCheck(msg.ticket, msg.password)

	case reportMsg:
		// results for superseded input are dropped
		if !m.gate.Current(msg.ticket) {
			return m, nil
		}
		m.pending = false
		if msg.err != nil {
			// keep the previous report on screen
			m.lastErr = msg.err
			return m, nil
		}
		m.report, m.lastErr = msg.report, nil
		return m, nil

	case generatedMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			return m, nil
		}
		m.input.SetValue(msg.password)
		m.input.CursorEnd()
		t := m.gate.Next()
		m.pending = true
		// generated passwords are checked at once, without the quiet period
		return m, m.runCheck(t, msg.password)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// schedule supersedes in-flight work and starts the quiet period for the
// current input. Empty input hides the report instead.
func (m *Model) schedule() tea.Cmd {
	t := m.gate.Next()
	pw := m.input.Value()
	if pw == "" {
		m.report, m.lastErr, m.pending = nil, nil, false
		return nil
	}
	m.pending = true
	return tea.Tick(m.wait, func(time.Time) tea.Msg {
		return evalTickMsg{ticket: t, password: pw}
	})
}

func (m Model) runCheck(t debounce.Ticket, password string) tea.Cmd {
	check := m.check
	return func() tea.Msg {
		r, err := check(t.Ctx, password)
		return reportMsg{ticket: t, report: r, err: err}
	}
}

func (m Model) generate() tea.Cmd {
	gen, spec := m.gen, m.spec
	return func() tea.Msg {
		pw, err := gen.Generate(spec)
		return generatedMsg{password: pw, err: err}
	}
}

// Value is the current input.
func (m Model) Value() string {
	return m.input.Value()
}

// Report is the report on screen, or nil.
func (m Model) Report() *strength.Report {
	return m.report
}

// Run starts the full-screen program and blocks until the user quits.
func Run(ctx context.Context, opts Options, programOpts ...tea.ProgramOption) error {
	programOpts = append([]tea.ProgramOption{tea.WithContext(ctx)}, programOpts...)
	_, err := tea.NewProgram(New(ctx, opts), programOpts...).Run()
	return err
}
