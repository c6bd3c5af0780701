package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/sandeepkv93/ya3yoni/internal/assets"
	"github.com/sandeepkv93/ya3yoni/internal/audio"
	"github.com/sandeepkv93/ya3yoni/internal/config"
	"github.com/sandeepkv93/ya3yoni/internal/logger"
	"github.com/sandeepkv93/ya3yoni/internal/notify"
	"github.com/sandeepkv93/ya3yoni/internal/scheduler"
	"github.com/sandeepkv93/ya3yoni/internal/session"
	"github.com/sandeepkv93/ya3yoni/internal/settings"
	"github.com/sandeepkv93/ya3yoni/internal/storage"
	"github.com/sandeepkv93/ya3yoni/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ya3yoni failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, logCloser, err := logger.Open(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logCloser.Close()
	log.Info().
		Dur("interval", cfg.Interval).
		Int("countdown", cfg.Countdown).
		Dur("wait_slice", cfg.WaitSlice).
		Msg("starting")

	var history storage.Repository
	if strings.TrimSpace(cfg.HistoryPath) != "" {
		repo, err := storage.OpenSQLite(cfg.HistoryPath)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.HistoryPath).Msg("break history disabled")
		} else {
			defer repo.Close()
			history = repo
		}
	}

	var player audio.Player = audio.Noop{}
	if cfg.Audio {
		p := audio.Load(cfg.SoundsDir, log)
		defer p.Close()
		loaded := 0
		for cue := range audio.CueFiles {
			if p.Loaded(cue) {
				loaded++
			}
		}
		log.Info().Int("cues", loaded).Str("dir", cfg.SoundsDir).Msg("sound cues loaded")
		player = p
	}

	var notifier notify.Notifier = notify.Noop{}
	if cfg.DesktopNotifications {
		notifier = notify.Beeep{}
	}

	handoff := scheduler.NewHandoff(cfg.HandoffBuffer)
	defer handoff.Close()
	engine := scheduler.NewEngine(cfg.WaitSlice, log)
	sess, err := session.New(engine, handoff.Post, cfg.Reminder(), log)
	if err != nil {
		return err
	}
	defer sess.Close()

	icons := assets.Load(cfg.ImagesDir, cfg.IconSize, log)
	if missing := icons.Missing(); len(missing) > 0 {
		log.Warn().Strs("icons", missing).Msg("using placeholder icons")
	}

	m, err := update.New(update.Deps{
		Session:          sess,
		Handoff:          handoff,
		Settings:         settings.NewStore(cfg.SettingsPath, log),
		Assets:           icons,
		Audio:            player,
		Notifier:         notifier,
		DesktopEnabled:   cfg.DesktopNotifications,
		History:          history,
		HistoryRetention: cfg.HistoryRetention,
		Log:              log,
	})
	if err != nil {
		return err
	}

	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}
	logExit(log, engine, handoff)
	return nil
}

func logExit(log zerolog.Logger, engine *scheduler.Engine, handoff *scheduler.Handoff) {
	log.Info().
		Uint64("fired", engine.Fired()).
		Uint64("dropped", handoff.Dropped()).
		Msg("exiting")
}
