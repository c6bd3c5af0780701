package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoadMissingDirIsSilent(t *testing.T) {
	p := Load(filepath.Join(t.TempDir(), "absent"), zerolog.Nop())
	for cue := range CueFiles {
		if p.Loaded(cue) {
			t.Fatalf("cue %q should not be loaded", cue)
		}
		p.Play(cue)
	}
	stop := p.Loop(CueBeat)
	stop()
	stop()
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestLoadUndecodableFileIsSkipped(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, CueFiles[CueBlip]), []byte("not audio"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	p := Load(dir, zerolog.Nop())
	if p.Loaded(CueBlip) {
		t.Fatal("expected corrupt cue to be skipped")
	}
	p.Play(CueBlip)
}

func TestNoopPlayer(t *testing.T) {
	var p Player = Noop{}
	p.Play(CueClick)
	p.Loop(CueBeat)()
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
