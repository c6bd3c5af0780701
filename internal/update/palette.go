package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/ya3yoni/internal/commands"
)

func (m Model) openPalette() Model {
	m.Palette.Active = true
	m.Palette.Input = ""
	m.commandInput.Focus()
	m.commandInput.SetValue("")
	m.Status = StatusBar{Text: "command palette active"}
	return m
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	if msg.Type == tea.KeyRunes {
		m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
		m.Palette.Input = m.commandInput.Value()
		return m, nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m = m.closePalette()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var next tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Start: func() (commands.Result, error) {
			if m.session.Armed() {
				return commands.Result{Message: "reminders already running"}, nil
			}
			m, next = m.toggle()
			if m.Status.IsError {
				return commands.Result{}, m.LastError
			}
			return commands.Result{Message: "reminders started"}, nil
		},
		Stop: func() (commands.Result, error) {
			if !m.session.Armed() {
				return commands.Result{Message: "reminders already stopped"}, nil
			}
			m, next = m.toggle()
			return commands.Result{Message: StopMessage}, nil
		},
		Interval: func(a commands.IntervalArgs) (commands.Result, error) {
			cfg := m.session.Config()
			cfg.Interval = a.Every
			if err := m.session.SetConfig(cfg); err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			return commands.Result{Message: fmt.Sprintf("interval set to %s%s", a.Every, m.appliesLater())}, nil
		},
		Countdown: func(a commands.CountdownArgs) (commands.Result, error) {
			cfg := m.session.Config()
			cfg.CountdownSeconds = a.Seconds
			if err := m.session.SetConfig(cfg); err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			return commands.Result{Message: fmt.Sprintf("countdown set to %ds", a.Seconds)}, nil
		},
		Color: func(a commands.ColorArgs) (commands.Result, error) {
			m = m.saveEyeColor(a.Color)
			if m.Status.IsError {
				return commands.Result{}, m.LastError
			}
			return commands.Result{Message: m.Status.Text}, nil
		},
		Show: func(a commands.ShowArgs) (commands.Result, error) {
			panel := panelFromName(a.Panel)
			m, next = m.switchPanel(panel)
			return commands.Result{Message: fmt.Sprintf("showing %s", strings.ToLower(string(panel)))}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.log.Warn().Err(err).Str("command", raw).Msg("palette command failed")
		return m, next
	}
	m.Status = StatusBar{Text: res.Message}
	m.log.Debug().Str("command", raw).Msg("palette command applied")
	return m, next
}

func (m Model) appliesLater() string {
	if m.session.Armed() {
		return " (applies on next start)"
	}
	return ""
}

func panelFromName(name string) Panel {
	switch name {
	case commands.PanelSettings:
		return PanelSettings
	case commands.PanelInfo:
		return PanelInfo
	default:
		return PanelMain
	}
}
