package update

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/ya3yoni/internal/audio"
)

func (m Model) toggle() (Model, tea.Cmd) {
	if m.session.Armed() {
		m.session.Disarm()
		m.player.Play(audio.CueClick)
		m.Status = StatusBar{Text: StopMessage}
		return m, nil
	}
	if err := m.session.Arm(); err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.log.Error().Err(err).Msg("start failed")
		return m, nil
	}
	m.player.Play(audio.CueClick)
	m.Status = StatusBar{}
	return m, m.armedSpinner.Tick
}

func (m Model) toggleLabel() string {
	if m.session.Armed() {
		return "STOP"
	}
	return "START"
}
