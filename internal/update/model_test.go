package update

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/sandeepkv93/ya3yoni/internal/audio"
	"github.com/sandeepkv93/ya3yoni/internal/model"
	"github.com/sandeepkv93/ya3yoni/internal/notify"
	"github.com/sandeepkv93/ya3yoni/internal/scheduler"
	"github.com/sandeepkv93/ya3yoni/internal/session"
	"github.com/sandeepkv93/ya3yoni/internal/settings"
	"github.com/sandeepkv93/ya3yoni/internal/storage"
)

type cueRecorder struct {
	played []audio.Cue
	loops  int
	stops  int
}

func (r *cueRecorder) Play(c audio.Cue) { r.played = append(r.played, c) }
func (r *cueRecorder) Loop(audio.Cue) func() {
	r.loops++
	return func() { r.stops++ }
}
func (r *cueRecorder) Close() error { return nil }

func (r *cueRecorder) count(c audio.Cue) int {
	n := 0
	for _, p := range r.played {
		if p == c {
			n++
		}
	}
	return n
}

type memHistory struct {
	mu     sync.Mutex
	breaks []storage.Break
	err    error
	pruned time.Time
}

func (h *memHistory) RecordBreak(_ context.Context, in storage.Break) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.breaks = append(h.breaks, in)
	return nil
}

func (h *memHistory) GetBreak(_ context.Context, id string) (storage.Break, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, b := range h.breaks {
		if b.ID == id {
			return b, nil
		}
	}
	return storage.Break{}, storage.ErrNotFound
}

func (h *memHistory) ListBreaks(_ context.Context, _ storage.BreakListFilter) ([]storage.Break, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]storage.Break, len(h.breaks))
	copy(out, h.breaks)
	return out, nil
}

func (h *memHistory) BreakStats(_ context.Context, _ time.Time) (storage.BreakStats, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var s storage.BreakStats
	for _, b := range h.breaks {
		switch b.Outcome {
		case string(model.BreakCompleted):
			s.Completed++
		case string(model.BreakCancelled):
			s.Cancelled++
		}
	}
	return s, nil
}

func (h *memHistory) PruneBefore(_ context.Context, before time.Time) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pruned = before
	return 0, nil
}

type fixture struct {
	model    Model
	engine   *scheduler.Engine
	player   *cueRecorder
	alerts   *notify.Recorder
	history  *memHistory
	settings string
}

var testNow = time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	engine := scheduler.NewEngine(5*time.Millisecond, zerolog.Nop())
	h := scheduler.NewHandoff(4)
	sess, err := session.New(engine, h.Post, model.ReminderConfig{Interval: time.Hour, CountdownSeconds: 3}, zerolog.Nop())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(func() {
		sess.Close()
		h.Close()
	})

	f := &fixture{
		engine:   engine,
		player:   &cueRecorder{},
		alerts:   &notify.Recorder{},
		history:  &memHistory{},
		settings: filepath.Join(t.TempDir(), "config.json"),
	}
	m, err := New(Deps{
		Session:          sess,
		Handoff:          h,
		Settings:         settings.NewStore(f.settings, zerolog.Nop()),
		Audio:            f.player,
		Notifier:         f.alerts,
		DesktopEnabled:   true,
		History:          f.history,
		HistoryRetention: 24 * time.Hour,
		Log:              zerolog.Nop(),
		Now:              func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	f.model = m
	return f
}

func (f *fixture) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := f.model.Update(msg)
	m, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	f.model = m
	return cmd
}

// fire builds a fire from the loop that is armed now.
func (f *fixture) fire(seq uint64) FireMsg {
	return FireMsg{Fire: scheduler.Fire{Seq: seq, Gen: f.engine.Generation(), At: testNow}}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Deps{}); err == nil {
		t.Fatal("expected error without session")
	}
}

func TestToggleArmsAndDisarms(t *testing.T) {
	f := newFixture(t)

	if cmd := f.send(t, enterKey); cmd == nil {
		t.Fatal("expected spinner tick when armed")
	}
	if !f.model.Session().Armed() {
		t.Fatal("expected session armed")
	}
	if view := f.model.View(); !strings.Contains(view, "STOP") || !strings.Contains(view, StopHint) {
		t.Fatalf("expected collapsed armed banner, got:\n%s", view)
	}

	f.send(t, enterKey)
	if f.model.Session().Armed() || !f.model.Session().Cancelled() {
		t.Fatal("expected session idle and cancelled")
	}
	if f.model.Status.Text != StopMessage {
		t.Fatalf("unexpected status: %q", f.model.Status.Text)
	}
	if got := f.player.count(audio.CueClick); got != 2 {
		t.Fatalf("expected two clicks, got %d", got)
	}
	if !strings.Contains(f.model.View(), "START") {
		t.Fatal("expected START label when idle")
	}
}

func TestPopupCountdownCompletesWithOneCue(t *testing.T) {
	f := newFixture(t)
	f.send(t, enterKey)

	f.send(t, f.fire(1))
	p := f.model.Popup()
	if p == nil || p.Remaining() != 3 {
		t.Fatalf("expected popup showing 3, got %+v", p)
	}
	if len(f.alerts.Sent) != 1 || f.alerts.Sent[0].Body != PopupMessage {
		t.Fatalf("expected one desktop alert, got %+v", f.alerts.Sent)
	}
	if !strings.Contains(f.model.View(), PopupMessage) {
		t.Fatal("expected popup to replace the frame")
	}

	id := p.ID()
	shown := []int{p.Remaining()}
	var cmd tea.Cmd
	for i := 0; i < 4; i++ {
		cmd = f.send(t, PopupTickMsg{ID: id})
		if cur := f.model.Popup(); cur != nil {
			shown = append(shown, cur.Remaining())
		}
	}
	if want := []int{3, 2, 1, 0}; !equalInts(shown, want) {
		t.Fatalf("displayed %v, want %v", shown, want)
	}
	if f.model.Popup() != nil {
		t.Fatal("expected popup closed after countdown")
	}
	if got := f.player.count(audio.CueBlip); got != 1 {
		t.Fatalf("expected exactly one completion cue, got %d", got)
	}

	if cmd == nil {
		t.Fatal("expected history record command")
	}
	msg := cmd()
	recorded, ok := msg.(BreakRecordedMsg)
	if !ok {
		t.Fatalf("expected BreakRecordedMsg, got %T", msg)
	}
	if recorded.Break.Outcome != string(model.BreakCompleted) || recorded.Break.Countdown != 3 || recorded.Break.ID == "" {
		t.Fatalf("unexpected break record: %+v", recorded.Break)
	}

	f.send(t, PopupTickMsg{ID: id})
	if got := f.player.count(audio.CueBlip); got != 1 {
		t.Fatalf("late tick replayed the cue: %d", got)
	}
}

func TestStopClosesPopupAtNextTickWithoutCue(t *testing.T) {
	f := newFixture(t)
	f.send(t, enterKey)
	f.send(t, f.fire(1))
	id := f.model.Popup().ID()
	f.send(t, PopupTickMsg{ID: id})

	f.send(t, enterKey)
	if f.model.Popup() == nil {
		t.Fatal("stop must leave the popup to its next tick")
	}
	cmd := f.send(t, PopupTickMsg{ID: id})
	if f.model.Popup() != nil {
		t.Fatal("expected popup closed after stop")
	}
	if f.player.count(audio.CueBlip) != 0 {
		t.Fatal("cancelled popup must not play the completion cue")
	}
	if msg, ok := cmd().(BreakRecordedMsg); !ok || msg.Break.Outcome != string(model.BreakCancelled) {
		t.Fatalf("expected cancelled record, got %+v", msg)
	}
}

func TestEscCancelsPopupOnce(t *testing.T) {
	f := newFixture(t)
	f.send(t, enterKey)
	f.send(t, f.fire(1))
	id := f.model.Popup().ID()

	if cmd := f.send(t, escKey); cmd == nil {
		t.Fatal("expected record command on cancel")
	}
	if f.model.Popup() != nil {
		t.Fatal("expected popup closed")
	}
	if cmd := f.send(t, escKey); cmd != nil {
		t.Fatal("second cancel must be a no-op")
	}
	if cmd := f.send(t, PopupTickMsg{ID: id}); cmd != nil {
		t.Fatal("tick after cancel must be a no-op")
	}
	if f.player.count(audio.CueBlip) != 0 {
		t.Fatal("cancel must not play the completion cue")
	}
	if !f.model.Session().Armed() {
		t.Fatal("cancelling a popup must not stop the session")
	}
}

func TestFireWhilePopupOpenIsDropped(t *testing.T) {
	f := newFixture(t)
	f.send(t, enterKey)
	f.send(t, f.fire(1))
	first := f.model.Popup().ID()
	f.send(t, PopupTickMsg{ID: first})

	if cmd := f.send(t, f.fire(2)); cmd == nil {
		t.Fatal("expected the loop to keep waiting for fires")
	}
	p := f.model.Popup()
	if p == nil || p.ID() != first || p.Remaining() != 2 {
		t.Fatalf("second fire must not replace the open popup: %+v", p)
	}
	if len(f.alerts.Sent) != 1 {
		t.Fatalf("expected one alert, got %d", len(f.alerts.Sent))
	}
}

func TestFireWhileIdleIsDropped(t *testing.T) {
	f := newFixture(t)
	f.send(t, f.fire(1))
	if f.model.Popup() != nil {
		t.Fatal("fire while idle must not open a popup")
	}
}

func TestStaleTickIgnored(t *testing.T) {
	f := newFixture(t)
	f.send(t, enterKey)
	f.send(t, f.fire(1))
	if cmd := f.send(t, PopupTickMsg{ID: 99}); cmd != nil {
		t.Fatal("stale tick must be ignored")
	}
	if f.model.Popup().Remaining() != 3 {
		t.Fatal("stale tick changed the countdown")
	}
}

func TestSettingsNavigateAndSave(t *testing.T) {
	f := newFixture(t)
	f.send(t, runes("s"))
	if f.model.Panel != PanelSettings || f.model.Preview != model.EyeBlue {
		t.Fatalf("unexpected settings state: panel=%s preview=%s", f.model.Panel, f.model.Preview)
	}

	f.send(t, tea.KeyMsg{Type: tea.KeyRight})
	f.send(t, tea.KeyMsg{Type: tea.KeyRight})
	f.send(t, tea.KeyMsg{Type: tea.KeyLeft})
	if f.model.Preview != model.EyeGreen {
		t.Fatalf("expected green preview, got %s", f.model.Preview)
	}
	if f.player.count(audio.CueSelect) != 3 {
		t.Fatalf("expected three select cues, got %d", f.player.count(audio.CueSelect))
	}
	if _, err := os.Stat(f.settings); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("navigation must not write settings: %v", err)
	}
	if f.model.Prefs.EyeColor != model.EyeBlue {
		t.Fatal("navigation must not change the saved color")
	}

	f.send(t, enterKey)
	if f.model.Prefs.EyeColor != model.EyeGreen || f.player.count(audio.CueSave) != 1 {
		t.Fatalf("save did not apply: prefs=%+v", f.model.Prefs)
	}
	if got := settings.NewStore(f.settings, zerolog.Nop()).Load(); got.EyeColor != model.EyeGreen {
		t.Fatalf("expected green persisted, got %s", got.EyeColor)
	}

	f.send(t, escKey)
	if f.model.Panel != PanelMain {
		t.Fatalf("expected main panel, got %s", f.model.Panel)
	}
}

func TestSettingsPreviewRestartsFromSaved(t *testing.T) {
	f := newFixture(t)
	f.send(t, runes("s"))
	f.send(t, tea.KeyMsg{Type: tea.KeyLeft})
	if f.model.Preview != model.EyeRed {
		t.Fatalf("prev from blue should wrap to red, got %s", f.model.Preview)
	}
	f.send(t, escKey)
	f.send(t, runes("s"))
	if f.model.Preview != model.EyeBlue {
		t.Fatalf("expected preview reset to saved blue, got %s", f.model.Preview)
	}
}

func TestInfoPanelLoopsBeatAndLoadsStats(t *testing.T) {
	f := newFixture(t)
	f.history.breaks = []storage.Break{
		{ID: "a", Outcome: "completed", EndedAt: testNow},
		{ID: "b", Outcome: "cancelled", EndedAt: testNow},
	}

	cmd := f.send(t, runes("i"))
	if f.model.Panel != PanelInfo || f.player.loops != 1 {
		t.Fatalf("expected info panel with beat loop: panel=%s loops=%d", f.model.Panel, f.player.loops)
	}
	if cmd == nil {
		t.Fatal("expected stats command")
	}
	f.send(t, cmd())
	if f.model.Stats.Completed != 1 || f.model.Stats.Cancelled != 1 || len(f.model.Recent) != 2 {
		t.Fatalf("unexpected stats: %+v recent=%d", f.model.Stats, len(f.model.Recent))
	}
	if view := f.model.View(); !strings.Contains(view, "1 completed, 1 cancelled") {
		t.Fatalf("info view missing stats:\n%s", view)
	}

	f.send(t, escKey)
	if f.model.Panel != PanelMain || f.player.stops != 1 {
		t.Fatalf("expected beat stopped on leave: panel=%s stops=%d", f.model.Panel, f.player.stops)
	}
}

func TestQuitStopsBeat(t *testing.T) {
	f := newFixture(t)
	f.send(t, runes("i"))
	f.send(t, runes("q"))
	if !f.model.Quitting || f.player.stops != 1 {
		t.Fatalf("expected quit to stop the beat: quitting=%v stops=%d", f.model.Quitting, f.player.stops)
	}
}

func runPalette(t *testing.T, f *fixture, input string) tea.Cmd {
	t.Helper()
	f.send(t, runes("/"))
	if !f.model.Palette.Active {
		t.Fatal("expected palette active")
	}
	f.send(t, runes(input))
	return f.send(t, enterKey)
}

func TestPaletteCommands(t *testing.T) {
	f := newFixture(t)

	runPalette(t, f, "interval 20m")
	if got := f.model.Session().Config().Interval; got != 20*time.Minute {
		t.Fatalf("interval = %s", got)
	}

	runPalette(t, f, "countdown 20")
	if got := f.model.Session().Config().CountdownSeconds; got != 20 {
		t.Fatalf("countdown = %d", got)
	}

	runPalette(t, f, "color red")
	if f.model.Prefs.EyeColor != model.EyeRed {
		t.Fatalf("color = %s", f.model.Prefs.EyeColor)
	}

	runPalette(t, f, "start")
	if !f.model.Session().Armed() {
		t.Fatal("expected start to arm")
	}
	runPalette(t, f, "start")
	if f.model.Status.Text != "reminders already running" {
		t.Fatalf("unexpected status: %q", f.model.Status.Text)
	}
	runPalette(t, f, "stop")
	if f.model.Session().Armed() || f.model.Status.Text != StopMessage {
		t.Fatalf("expected stop, status=%q", f.model.Status.Text)
	}

	runPalette(t, f, "show settings")
	if f.model.Panel != PanelSettings {
		t.Fatalf("panel = %s", f.model.Panel)
	}

	runPalette(t, f, "blink twice")
	if !f.model.Status.IsError || !strings.Contains(f.model.Status.Text, "unknown_command") {
		t.Fatalf("expected unknown command error, got %+v", f.model.Status)
	}
	if f.model.Palette.Active {
		t.Fatal("palette should close after a command")
	}
}

func TestHistoryFailureSurfacesAsStatus(t *testing.T) {
	f := newFixture(t)
	f.history.err = errors.New("disk full")
	f.send(t, enterKey)
	f.send(t, f.fire(1))
	cmd := f.send(t, escKey)
	f.send(t, cmd())
	if !f.model.Status.IsError || !strings.Contains(f.model.Status.Text, "disk full") {
		t.Fatalf("expected error status, got %+v", f.model.Status)
	}
}

func TestPruneHistoryCommand(t *testing.T) {
	f := newFixture(t)
	before := testNow.Add(-24 * time.Hour)
	msg := pruneHistoryCmd(f.history, before)()
	if _, ok := msg.(HistoryPrunedMsg); !ok {
		t.Fatalf("expected HistoryPrunedMsg, got %T", msg)
	}
	if !f.history.pruned.Equal(before) {
		t.Fatalf("pruned before %s, want %s", f.history.pruned, before)
	}
}

func TestHelpToggle(t *testing.T) {
	f := newFixture(t)
	f.send(t, runes("?"))
	if !f.model.HelpVisible || !strings.Contains(f.model.View(), "start/stop reminders") {
		t.Fatal("expected help panel with main bindings")
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFormatInterval(t *testing.T) {
	cases := map[time.Duration]string{
		10 * time.Second: "10s",
		20 * time.Minute: "20m",
		time.Hour:        "1h",
		90 * time.Second: "1m30s",
	}
	for in, want := range cases {
		if got := formatInterval(in); got != want {
			t.Fatalf("formatInterval(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestFireFromEarlierArmIsDropped(t *testing.T) {
	f := newFixture(t)
	f.send(t, enterKey)
	stale := f.fire(1)
	f.send(t, enterKey)
	f.send(t, enterKey)
	if !f.model.Session().Armed() {
		t.Fatal("expected session re-armed")
	}

	if cmd := f.send(t, stale); cmd == nil {
		t.Fatal("expected the loop to keep waiting for fires")
	}
	if f.model.Popup() != nil {
		t.Fatal("a fire buffered before the stop must not open a popup after re-arm")
	}

	f.send(t, f.fire(2))
	if f.model.Popup() == nil {
		t.Fatal("a fire from the new loop should open the popup")
	}
}

func TestPaletteRejectsIntervalBelowWaitSlice(t *testing.T) {
	f := newFixture(t)
	runPalette(t, f, "interval 1ms")
	if !f.model.Status.IsError || !strings.Contains(f.model.Status.Text, "invalid_argument") {
		t.Fatalf("expected invalid argument error, got %+v", f.model.Status)
	}
	if got := f.model.Session().Config().Interval; got != time.Hour {
		t.Fatalf("interval changed to %s", got)
	}
}
