package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sandeepkv93/ya3yoni/internal/model"
)

const eyeColorKey = "eye_color"

// Store persists UserPreferences as a flat JSON object. Keys it does not
// know are kept as read and written back on save.
type Store struct {
	mu    sync.Mutex
	path  string
	extra map[string]json.RawMessage
	log   zerolog.Logger
}

func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{
		path: strings.TrimSpace(path),
		log:  log.With().Str("component", "settings").Logger(),
	}
}

func (s *Store) Path() string {
	return s.path
}

// Load never fails: a missing, unreadable or corrupt file yields defaults.
func (s *Store) Load() model.UserPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs := model.DefaultUserPreferences()
	s.extra = nil
	if s.path == "" {
		return prefs
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("read settings failed, using defaults")
		}
		return prefs
	}
	if strings.TrimSpace(string(raw)) == "" {
		return prefs
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &fields); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("corrupt settings file, using defaults")
		return prefs
	}
	s.extra = fields

	rawColor, ok := fields[eyeColorKey]
	if !ok {
		return prefs
	}
	var value string
	if err := json.Unmarshal(rawColor, &value); err != nil {
		s.log.Warn().Err(err).Msg("eye_color is not a string, using default")
		return prefs
	}
	color, err := model.ParseEyeColor(value)
	if err != nil {
		s.log.Warn().Err(err).Msg("unknown eye_color, using default")
		return prefs
	}
	prefs.EyeColor = color
	return prefs
}

func (s *Store) Save(prefs model.UserPreferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return errors.New("settings: no settings path configured")
	}

	fields := make(map[string]json.RawMessage, len(s.extra)+1)
	for k, v := range s.extra {
		fields[k] = v
	}
	color, err := json.Marshal(string(prefs.EyeColor))
	if err != nil {
		return err
	}
	fields[eyeColorKey] = color

	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	dir := filepath.Dir(s.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	s.extra = fields
	s.log.Info().Str("eye_color", string(prefs.EyeColor)).Msg("settings saved")
	return nil
}
