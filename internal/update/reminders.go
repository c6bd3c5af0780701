package update

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/ya3yoni/internal/audio"
	"github.com/sandeepkv93/ya3yoni/internal/model"
	"github.com/sandeepkv93/ya3yoni/internal/popup"
	"github.com/sandeepkv93/ya3yoni/internal/scheduler"
	"github.com/sandeepkv93/ya3yoni/internal/storage"
)

const historyTimeout = 5 * time.Second

func waitForFireCmd(ch <-chan scheduler.Fire) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		f, ok := <-ch
		if !ok {
			return nil
		}
		return FireMsg{Fire: f}
	}
}

func popupTickCmd(id uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return PopupTickMsg{ID: id}
	})
}

func (m Model) onFire(f scheduler.Fire) (Model, tea.Cmd) {
	wait := waitForFireCmd(m.handoff.C())
	if !m.session.Current(f) {
		m.log.Debug().Uint64("seq", f.Seq).Uint64("gen", f.Gen).Msg("stale fire dropped")
		return m, wait
	}
	if m.Popup() != nil {
		m.log.Debug().Uint64("seq", f.Seq).Uint64("popup", m.popup.ID()).Msg("fire while popup open dropped")
		return m, wait
	}

	m.nextPopupID++
	countdown := m.session.Config().CountdownSeconds
	m.popup = popup.New(m.nextPopupID, countdown, m.now())
	m.log.Info().Uint64("seq", f.Seq).Uint64("popup", m.popup.ID()).Int("countdown", countdown).Msg("break popup opened")
	if m.desktopEnabled {
		if err := m.notifier.Send(PopupTitle, PopupMessage); err != nil {
			m.log.Warn().Err(err).Msg("desktop alert failed")
		}
	}
	return m, tea.Batch(wait, popupTickCmd(m.popup.ID()))
}

func (m Model) onPopupTick(id uint64) (Model, tea.Cmd) {
	if m.popup == nil || m.popup.ID() != id {
		return m, nil
	}
	step := m.popup.Tick(m.session.Cancelled(), m.now())
	if step.Reschedule {
		return m, popupTickCmd(id)
	}
	if !step.Closed {
		return m, nil
	}
	if step.PlayCue {
		m.player.Play(audio.CueBlip)
	}
	return m.finishPopup()
}

func (m Model) cancelPopup() (Model, tea.Cmd) {
	if m.popup == nil || !m.popup.Cancel(m.now()) {
		return m, nil
	}
	return m.finishPopup()
}

func (m Model) finishPopup() (Model, tea.Cmd) {
	p := m.popup
	m.log.Info().Uint64("popup", p.ID()).Str("outcome", string(p.Outcome())).Msg("break popup closed")
	if p.Outcome() == model.BreakCompleted {
		m.Status = StatusBar{Text: "eyes rested, back to it"}
	}
	if m.history == nil {
		return m, nil
	}
	b := model.Break{
		ID:        storage.NewID(),
		StartedAt: p.OpenedAt(),
		EndedAt:   p.ClosedAt(),
		Countdown: p.Countdown(),
		Outcome:   p.Outcome(),
		EyeColor:  m.Prefs.EyeColor,
	}
	if err := b.Validate(); err != nil {
		m.log.Error().Err(err).Msg("break not recorded")
		return m, nil
	}
	m.log.Debug().Str("break", b.ID).Dur("duration", b.Duration()).Msg("recording break")
	return m, recordBreakCmd(m.history, breakRecord(b))
}

func breakRecord(b model.Break) storage.Break {
	return storage.Break{
		ID:        b.ID,
		StartedAt: b.StartedAt,
		EndedAt:   b.EndedAt,
		Countdown: b.Countdown,
		Outcome:   string(b.Outcome),
		EyeColor:  string(b.EyeColor),
	}
}

func recordBreakCmd(repo storage.Repository, b storage.Break) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		if err := repo.RecordBreak(ctx, b); err != nil {
			return AppErrorMsg{Err: fmt.Errorf("record break: %w", err)}
		}
		return BreakRecordedMsg{Break: b}
	}
}

func loadStatsCmd(repo storage.Repository, now time.Time) tea.Cmd {
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		stats, err := repo.BreakStats(ctx, now.Add(-24*time.Hour))
		if err != nil {
			return AppErrorMsg{Err: fmt.Errorf("load break stats: %w", err)}
		}
		recent, err := repo.ListBreaks(ctx, storage.BreakListFilter{Limit: 5})
		if err != nil {
			return AppErrorMsg{Err: fmt.Errorf("list breaks: %w", err)}
		}
		return StatsLoadedMsg{Stats: stats, Recent: recent}
	}
}

func pruneHistoryCmd(repo storage.Repository, before time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		n, err := repo.PruneBefore(ctx, before)
		if err != nil {
			return AppErrorMsg{Err: fmt.Errorf("prune history: %w", err)}
		}
		return HistoryPrunedMsg{Removed: n}
	}
}
