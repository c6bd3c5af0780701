package views

import (
	"strings"
	"testing"
)

func TestRenderPopupShowsCountdown(t *testing.T) {
	out := RenderPopup(PopupData{Icon: "()", Message: "Close your eyes!", Remaining: 3, Width: 60, Height: 20})
	if !strings.Contains(out, "Close your eyes!") || !strings.Contains(out, "3") {
		t.Fatalf("popup missing content:\n%s", out)
	}
	if got := len(strings.Split(out, "\n")); got != 20 {
		t.Fatalf("expected popup to fill 20 rows, got %d", got)
	}
}

func TestRenderArmedBannerHasStop(t *testing.T) {
	out := RenderArmedBanner(ArmedBannerData{Spinner: "*", Interval: "10s", Countdown: 3, Hint: "Don't you dare click it!"})
	if !strings.Contains(out, "STOP") || !strings.Contains(out, "every 10s") {
		t.Fatalf("unexpected banner:\n%s", out)
	}
}

func TestRenderInfoPanelHistoryDisabled(t *testing.T) {
	out := RenderInfoPanel(InfoPanelData{Title: "Ya3yoni", Version: "1.0", HistoryOff: true})
	if !strings.Contains(out, "history: disabled") {
		t.Fatalf("expected disabled history note:\n%s", out)
	}
}

func TestRenderAppErrorStatus(t *testing.T) {
	out := RenderApp(AppData{Header: "h", Body: "b", StatusLine: "boom", IsError: true})
	if !strings.Contains(out, "boom") {
		t.Fatalf("missing status:\n%s", out)
	}
}

func TestRenderMarkdownFallsBackOnEmpty(t *testing.T) {
	if RenderMarkdown("   ", 40) != "" {
		t.Fatal("expected empty markdown to render empty")
	}
	if !strings.Contains(RenderMarkdown("you're **welcome**", 40), "welcome") {
		t.Fatal("expected rendered markdown to keep text")
	}
}
