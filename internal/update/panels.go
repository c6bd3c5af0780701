package update

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/ya3yoni/internal/audio"
)

func (m Model) switchPanel(next Panel) (Model, tea.Cmd) {
	if next == m.Panel {
		return m, nil
	}
	if m.Panel == PanelInfo {
		m.stopBeat()
		m.stopBeat = func() {}
	}
	m.player.Play(audio.CueClick)
	m.Panel = next

	switch next {
	case PanelSettings:
		m.Preview = m.Prefs.EyeColor
	case PanelInfo:
		m.stopBeat = m.player.Loop(audio.CueBeat)
		return m, loadStatsCmd(m.history, m.now())
	}
	return m, nil
}

func isKnownPanel(p Panel) bool {
	switch p {
	case PanelMain, PanelSettings, PanelInfo:
		return true
	default:
		return false
	}
}
