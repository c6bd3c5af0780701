package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/ya3yoni/internal/storage"
	"github.com/sandeepkv93/ya3yoni/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForFireCmd(m.handoff.C())}
	if m.history != nil && m.historyRetention > 0 {
		cmds = append(cmds, pruneHistoryCmd(m.history, m.now().Add(-m.historyRetention)))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	case FireMsg:
		return m.onFire(typed.Fire)
	case PopupTickMsg:
		return m.onPopupTick(typed.ID)
	case spinner.TickMsg:
		if !m.session.Armed() {
			return m, nil
		}
		var cmd tea.Cmd
		m.armedSpinner, cmd = m.armedSpinner.Update(typed)
		return m, cmd
	case SwitchPanelMsg:
		if isKnownPanel(typed.Panel) {
			return m.switchPanel(typed.Panel)
		}
		return m, nil
	case BreakRecordedMsg:
		m.log.Debug().Str("break", typed.Break.ID).Msg("break recorded")
		if m.Panel == PanelInfo {
			return m, loadStatsCmd(m.history, m.now())
		}
		return m, nil
	case StatsLoadedMsg:
		m.Stats = typed.Stats
		m.Recent = typed.Recent
		return m, nil
	case HistoryPrunedMsg:
		if typed.Removed > 0 {
			m.log.Info().Int64("removed", typed.Removed).Msg("old breaks pruned")
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.log.Error().Err(typed.Err).Msg("background command failed")
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		return m.quit()
	}

	// The popup takes over the screen; only skip, stop and quit get through.
	if m.Popup() != nil {
		switch keyStr {
		case m.Keys.Back:
			return m.cancelPopup()
		case m.Keys.Toggle, " ":
			if m.session.Armed() {
				return m.toggle()
			}
		}
		return m, nil
	}

	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}

	switch keyStr {
	case "/":
		return m.openPalette(), nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case m.Keys.Quit:
		return m.quit()
	}

	switch m.Panel {
	case PanelSettings:
		return m.handleSettingsKey(msg)
	case PanelInfo:
		if keyStr == m.Keys.Back || keyStr == "b" {
			return m.switchPanel(PanelMain)
		}
		return m, nil
	}

	switch keyStr {
	case m.Keys.Toggle, " ":
		return m.toggle()
	case m.Keys.Settings:
		return m.switchPanel(PanelSettings)
	case m.Keys.Info:
		return m.switchPanel(PanelInfo)
	}
	return m, nil
}

func (m Model) quit() (Model, tea.Cmd) {
	m.stopBeat()
	m.stopBeat = func() {}
	m.Quitting = true
	return m, tea.Quit
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	if p := m.Popup(); p != nil {
		return views.RenderPopup(views.PopupData{
			Icon:         m.icons.Closed(),
			Message:      PopupMessage,
			Remaining:    p.Remaining(),
			ProgressView: m.popupProgress.ViewAs(p.Progress()),
			Width:        m.width,
			Height:       m.height,
		})
	}

	var body string
	switch m.Panel {
	case PanelSettings:
		body = m.renderSettingsPanel()
	case PanelInfo:
		body = m.renderInfoPanel()
	default:
		body = m.renderMainPanel()
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("%s | %s | %s", AppTitle, m.Panel, m.session.State()),
		Body:       body,
		SidePane:   views.RenderCommandPalette(m.Palette.Active, m.commandInput.View()) + m.renderHelpIfVisible(),
		StatusLine: m.Status.Text,
		IsError:    m.Status.IsError,
		Footer:     fmt.Sprintf("keys: %s start/stop | %s settings | %s info | / cmd | %s help | %s quit", m.Keys.Toggle, m.Keys.Settings, m.Keys.Info, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderMainPanel() string {
	if m.session.Armed() {
		cfg := m.session.Config()
		return views.RenderArmedBanner(views.ArmedBannerData{
			Spinner:   m.armedSpinner.View(),
			Interval:  formatInterval(cfg.Interval),
			Countdown: cfg.CountdownSeconds,
			Hint:      StopHint,
		})
	}
	return views.RenderMainPanel(views.MainPanelData{
		Icon:        m.icons.Eye(m.Prefs.EyeColor),
		Quote:       m.Prefs.EyeColor.Quote(),
		ToggleLabel: m.toggleLabel(),
	})
}

func (m Model) renderSettingsPanel() string {
	return views.RenderSettingsPanel(views.SettingsPanelData{
		Icon:     m.icons.Eye(m.Preview),
		Color:    string(m.Preview),
		Quote:    m.Preview.Quote(),
		Position: eyeColorPosition(m.Preview),
		Total:    eyeColorCount(),
		Saved:    m.Preview == m.Prefs.EyeColor,
	})
}

func (m Model) renderInfoPanel() string {
	data := views.InfoPanelData{
		Title:       AppTitle,
		Version:     AppVersion,
		Description: m.infoText,
		Completed:   m.Stats.Completed,
		Cancelled:   m.Stats.Cancelled,
		HistoryOff:  m.history == nil,
	}
	if m.Stats.LastEnded != nil {
		data.LastBreak = formatWhen(*m.Stats.LastEnded)
	}
	data.Recent = breakRows(m.Recent)
	return views.RenderInfoPanel(data)
}

func breakRows(in []storage.Break) []views.BreakRowData {
	out := make([]views.BreakRowData, 0, len(in))
	for _, b := range in {
		out = append(out, views.BreakRowData{
			When:    formatWhen(b.EndedAt),
			Outcome: b.Outcome,
			Color:   b.EyeColor,
		})
	}
	return out
}
