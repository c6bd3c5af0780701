package update

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/rs/zerolog"
	"github.com/sandeepkv93/ya3yoni/internal/assets"
	"github.com/sandeepkv93/ya3yoni/internal/audio"
	"github.com/sandeepkv93/ya3yoni/internal/model"
	"github.com/sandeepkv93/ya3yoni/internal/notify"
	"github.com/sandeepkv93/ya3yoni/internal/popup"
	"github.com/sandeepkv93/ya3yoni/internal/scheduler"
	"github.com/sandeepkv93/ya3yoni/internal/session"
	"github.com/sandeepkv93/ya3yoni/internal/settings"
	"github.com/sandeepkv93/ya3yoni/internal/storage"
	"github.com/sandeepkv93/ya3yoni/internal/views"
)

const (
	AppTitle   = "Ya3yoni"
	AppVersion = "1.0"

	PopupTitle   = "Eye Care"
	PopupMessage = "Close your eyes!"
	StopMessage  = "You'll come back crying soon.."
	StopHint     = "Don't you dare click it!"
)

const infoMarkdown = `- this app was made for your deadly brain that forgets to blink, playing staring contests with your computer.

And no, those 20 seconds of closing your eyes still won't finish the task you've been avoiding until the deadline... but at least your eyes won't suffer for it.

So here I am solving a problem you didn't even know you had.

*you're welcome*

Credits: Arwa Mohamed`

type Panel string

const (
	PanelMain     Panel = "Main"
	PanelSettings Panel = "Settings"
	PanelInfo     Panel = "Info"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Toggle   string
	Settings string
	Info     string
	Back     string
	Help     string
	Quit     string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Deps struct {
	Session          *session.Session
	Handoff          *scheduler.Handoff
	Settings         *settings.Store
	Assets           *assets.Table
	Audio            audio.Player
	Notifier         notify.Notifier
	DesktopEnabled   bool
	History          storage.Repository
	HistoryRetention time.Duration
	Log              zerolog.Logger
	Now              func() time.Time
}

type Model struct {
	Panel       Panel
	Prefs       model.UserPreferences
	Preview     model.EyeColor
	Palette     CommandPaletteState
	HelpVisible bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error
	Stats       storage.BreakStats
	Recent      []storage.Break

	session          *session.Session
	handoff          *scheduler.Handoff
	store            *settings.Store
	icons            *assets.Table
	player           audio.Player
	notifier         notify.Notifier
	desktopEnabled   bool
	history          storage.Repository
	historyRetention time.Duration
	log              zerolog.Logger
	now              func() time.Time

	popup       *popup.Popup
	nextPopupID uint64
	stopBeat    func()
	infoText    string

	commandInput  textinput.Model
	popupProgress progress.Model
	armedSpinner  spinner.Model
	helpModel     help.Model
	width         int
	height        int
}

type FireMsg struct {
	Fire scheduler.Fire
}

type PopupTickMsg struct {
	ID uint64
}

type BreakRecordedMsg struct {
	Break storage.Break
}

type StatsLoadedMsg struct {
	Stats  storage.BreakStats
	Recent []storage.Break
}

type HistoryPrunedMsg struct {
	Removed int64
}

type SwitchPanelMsg struct {
	Panel Panel
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

func New(deps Deps) (Model, error) {
	if deps.Session == nil {
		return Model{}, errors.New("update: session is required")
	}
	if deps.Handoff == nil {
		return Model{}, errors.New("update: handoff is required")
	}
	if deps.Settings == nil {
		return Model{}, errors.New("update: settings store is required")
	}
	m := Model{
		Panel:            PanelMain,
		Keys:             DefaultKeys(),
		session:          deps.Session,
		handoff:          deps.Handoff,
		store:            deps.Settings,
		icons:            deps.Assets,
		player:           deps.Audio,
		notifier:         deps.Notifier,
		desktopEnabled:   deps.DesktopEnabled,
		history:          deps.History,
		historyRetention: deps.HistoryRetention,
		log:              deps.Log.With().Str("component", "ui").Logger(),
		now:              deps.Now,
		stopBeat:         func() {},
	}
	if m.player == nil {
		m.player = audio.Noop{}
	}
	if m.notifier == nil {
		m.notifier = notify.Noop{}
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.Prefs = m.store.Load()
	m.Preview = m.Prefs.EyeColor
	m.infoText = views.RenderMarkdown(infoMarkdown, 40)
	m.initBubbleComponents()
	return m, nil
}

func DefaultKeys() GlobalKeyMap {
	return GlobalKeyMap{
		Toggle:   "enter",
		Settings: "s",
		Info:     "i",
		Back:     "esc",
		Help:     "?",
		Quit:     "q",
	}
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 128
	m.commandInput.Width = 36

	m.popupProgress = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	m.popupProgress.Width = 24

	m.armedSpinner = spinner.New()
	m.armedSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
}

func (m Model) Popup() *popup.Popup {
	if m.popup == nil || m.popup.Closed() {
		return nil
	}
	return m.popup
}

func (m Model) Session() *session.Session {
	return m.session
}
