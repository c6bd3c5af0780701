package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type MainPanelData struct {
	Icon        string
	Quote       string
	ToggleLabel string
}

type ArmedBannerData struct {
	Spinner   string
	Interval  string
	Countdown int
	Hint      string
}

type SettingsPanelData struct {
	Icon     string
	Color    string
	Quote    string
	Position int
	Total    int
	Saved    bool
}

type BreakRowData struct {
	When    string
	Outcome string
	Color   string
}

type InfoPanelData struct {
	Title       string
	Version     string
	Description string
	Completed   int
	Cancelled   int
	LastBreak   string
	Recent      []BreakRowData
	HistoryOff  bool
}

type PopupData struct {
	Icon         string
	Message      string
	Remaining    int
	ProgressView string
	Width        int
	Height       int
}

type HelpPanelData struct {
	CurrentPanel string
	Bindings     []string
	HelpView     string
}

func RenderMainPanel(data MainPanelData) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		data.Icon,
		"",
		quoteStyle.Render(data.Quote),
		"",
		buttonStyle.Render(data.ToggleLabel),
		"",
		"[s] settings  [i] info",
	)
	return lipgloss.PlaceHorizontal(42, lipgloss.Center, body)
}

// RenderArmedBanner is the collapsed main panel shown while reminders run.
func RenderArmedBanner(data ArmedBannerData) string {
	line := fmt.Sprintf("%s watching your eyes: every %s, %ds break", data.Spinner, data.Interval, data.Countdown)
	var b strings.Builder
	b.WriteString(line + "\n")
	b.WriteString(buttonStyle.Render("STOP"))
	if data.Hint != "" {
		b.WriteString("  " + quoteStyle.Render(data.Hint))
	}
	return b.String()
}

func RenderSettingsPanel(data SettingsPanelData) string {
	marker := ""
	if data.Saved {
		marker = " (saved)"
	}
	body := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Select your eye color:"),
		"",
		data.Icon,
		"",
		fmt.Sprintf("%s%s  %d/%d", data.Color, marker, data.Position, data.Total),
		quoteStyle.Render(data.Quote),
		"",
		"[<] prev  [>] next  [enter] save  [esc] back",
	)
	return lipgloss.PlaceHorizontal(42, lipgloss.Center, body)
}

func RenderInfoPanel(data InfoPanelData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(data.Title) + "\n")
	b.WriteString(fmt.Sprintf("Version %s\n\n", data.Version))
	b.WriteString(data.Description + "\n\n")
	if data.HistoryOff {
		b.WriteString("history: disabled\n")
	} else {
		b.WriteString(fmt.Sprintf("last 24h: %d completed, %d cancelled\n", data.Completed, data.Cancelled))
		if data.LastBreak != "" {
			b.WriteString(fmt.Sprintf("last break: %s\n", data.LastBreak))
		}
		for _, row := range data.Recent {
			b.WriteString(fmt.Sprintf("- %s %s (%s)\n", row.When, row.Outcome, row.Color))
		}
	}
	b.WriteString("\n[esc] back")
	return b.String()
}

// RenderPopup fills the whole frame with the countdown dialog centered in it.
func RenderPopup(data PopupData) string {
	box := popupStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		data.Icon,
		"",
		"🔔 "+data.Message,
		"",
		titleStyle.Background(primary).Render(fmt.Sprintf("%d", data.Remaining)),
		"",
		data.ProgressView,
		"",
		footerStyle.Background(primary).Render("[esc] skip"),
	))
	if data.Width <= 0 || data.Height <= 0 {
		return box
	}
	return lipgloss.Place(data.Width, data.Height, lipgloss.Center, lipgloss.Center, box)
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command:\n" + inputView
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s\n\n%s",
		strings.ToLower(data.CurrentPanel),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
