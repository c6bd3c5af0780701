package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/ya3yoni/internal/audio"
	"github.com/sandeepkv93/ya3yoni/internal/model"
)

func (m Model) handleSettingsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h", "p":
		m.Preview = model.PrevEyeColor(m.Preview)
		m.player.Play(audio.CueSelect)
	case "right", "l", "n":
		m.Preview = model.NextEyeColor(m.Preview)
		m.player.Play(audio.CueSelect)
	case "enter", "w":
		m = m.saveEyeColor(m.Preview)
	case m.Keys.Back, "b":
		return m.switchPanel(PanelMain)
	}
	return m, nil
}

func (m Model) saveEyeColor(c model.EyeColor) Model {
	prefs := model.UserPreferences{EyeColor: c}
	if err := m.store.Save(prefs); err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: fmt.Sprintf("save failed: %v", err), IsError: true}
		m.log.Error().Err(err).Msg("save preferences failed")
		return m
	}
	m.Prefs = prefs
	m.Preview = c
	m.player.Play(audio.CueSave)
	m.Status = StatusBar{Text: fmt.Sprintf("eye color saved: %s", c)}
	return m
}
