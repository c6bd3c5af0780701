package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/rs/zerolog"
)

type Cue string

const (
	CueClick  Cue = "click"
	CueSelect Cue = "select"
	CueSave   Cue = "save"
	CueBlip   Cue = "blip"
	CueBeat   Cue = "beat"
)

// CueFiles maps each cue to its file name inside the sounds directory.
var CueFiles = map[Cue]string{
	CueClick:  "computer-mouse-click.mp3",
	CueSelect: "select-sound.mp3",
	CueSave:   "save.mp3",
	CueBlip:   "blip.mp3",
	CueBeat:   "beat-effect.mp3",
}

// Player plays cues best-effort. Implementations never return errors to the
// caller; failures are logged.
type Player interface {
	Play(Cue)
	// Loop starts cue repeating and returns a stop func that may be called
	// more than once.
	Loop(Cue) func()
	Close() error
}

type Noop struct{}

func (Noop) Play(Cue)        {}
func (Noop) Loop(Cue) func() { return func() {} }
func (Noop) Close() error    { return nil }

// BeepPlayer keeps every cue decoded in memory.
type BeepPlayer struct {
	mu      sync.Mutex
	buffers map[Cue]*beep.Buffer
	format  beep.Format
	ready   bool
	log     zerolog.Logger
}

// Load decodes every cue from dir. A cue that cannot be loaded is skipped;
// if none load, the speaker is never initialised and playback is silent.
func Load(dir string, log zerolog.Logger) *BeepPlayer {
	p := &BeepPlayer{
		buffers: make(map[Cue]*beep.Buffer, len(CueFiles)),
		log:     log.With().Str("component", "audio").Logger(),
	}
	for cue, name := range CueFiles {
		if err := p.loadCue(cue, filepath.Join(dir, name)); err != nil {
			p.log.Warn().Err(err).Str("cue", string(cue)).Msg("sound cue unavailable")
		}
	}
	return p
}

func (p *BeepPlayer) Loaded(cue Cue) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.buffers[cue]
	return ok
}

func (p *BeepPlayer) loadCue(cue Cue, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	default:
		return fmt.Errorf("audio: unsupported format %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	defer stream.Close()

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			return fmt.Errorf("init speaker: %w", err)
		}
		p.format = format
		p.ready = true
	}

	var src beep.Streamer = stream
	if format.SampleRate != p.format.SampleRate {
		src = beep.Resample(4, format.SampleRate, p.format.SampleRate, stream)
	}
	buf := beep.NewBuffer(p.format)
	buf.Append(src)
	p.buffers[cue] = buf
	return nil
}

func (p *BeepPlayer) Play(cue Cue) {
	buf, ok := p.buffer(cue)
	if !ok {
		return
	}
	speaker.Play(buf.Streamer(0, buf.Len()))
}

func (p *BeepPlayer) Loop(cue Cue) func() {
	buf, ok := p.buffer(cue)
	if !ok {
		return func() {}
	}
	ctrl := &beep.Ctrl{Streamer: beep.Loop(-1, buf.Streamer(0, buf.Len()))}
	speaker.Play(ctrl)

	var once sync.Once
	return func() {
		once.Do(func() {
			speaker.Lock()
			ctrl.Streamer = nil
			speaker.Unlock()
		})
	}
}

func (p *BeepPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return nil
	}
	speaker.Clear()
	p.ready = false
	return nil
}

func (p *BeepPlayer) buffer(cue Cue) (*beep.Buffer, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return nil, false
	}
	buf, ok := p.buffers[cue]
	return buf, ok
}
