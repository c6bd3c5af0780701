package assets

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/sandeepkv93/ya3yoni/internal/model"
	"golang.org/x/image/draw"
)

// ClosedIcon is the popup's closed-eye image id.
const ClosedIcon = "closed"

type Icon struct {
	ID          string
	Art         string
	Placeholder bool
}

// Table holds every icon rendered once at startup.
type Table struct {
	icons   map[string]Icon
	missing []string
}

func Path(dir, id string) string {
	return filepath.Join(dir, id+".png")
}

// Load resolves every eye color plus the closed-eye icon from dir. Missing or
// undecodable files fall back to placeholder art and are logged.
func Load(dir string, size int, log zerolog.Logger) *Table {
	log = log.With().Str("component", "assets").Logger()
	ids := make([]string, 0, len(model.EyeColors)+1)
	for _, c := range model.EyeColors {
		ids = append(ids, string(c))
	}
	ids = append(ids, ClosedIcon)

	t := &Table{icons: make(map[string]Icon, len(ids))}
	for _, id := range ids {
		path := Path(dir, id)
		img, err := decodeFile(path)
		if err != nil {
			log.Warn().Err(err).Str("icon", id).Msg("icon unavailable, using placeholder")
			t.icons[id] = Icon{ID: id, Art: placeholderArt(id), Placeholder: true}
			t.missing = append(t.missing, id)
			continue
		}
		t.icons[id] = Icon{ID: id, Art: RenderImage(img, size)}
	}
	sort.Strings(t.missing)
	return t
}

func (t *Table) Eye(c model.EyeColor) string {
	return t.art(string(c))
}

func (t *Table) Closed() string {
	return t.art(ClosedIcon)
}

func (t *Table) Icon(id string) (Icon, bool) {
	icon, ok := t.icons[id]
	return icon, ok
}

// Missing lists the ids that fell back to placeholders.
func (t *Table) Missing() []string {
	out := make([]string, len(t.missing))
	copy(out, t.missing)
	return out
}

func (t *Table) art(id string) string {
	if t == nil {
		return placeholderArt(id)
	}
	if icon, ok := t.icons[id]; ok {
		return icon.Art
	}
	return placeholderArt(id)
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// RenderImage scales img to size x size pixels and draws it with upper
// half-blocks, two pixel rows per terminal line.
func RenderImage(img image.Image, size int) string {
	if size <= 0 {
		size = 1
	}
	if size%2 == 1 {
		size++
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	lines := make([]string, 0, size/2)
	for y := 0; y < size; y += 2 {
		var b strings.Builder
		for x := 0; x < size; x++ {
			b.WriteString(cell(dst.RGBAAt(x, y), dst.RGBAAt(x, y+1)))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func cell(top, bottom color.RGBA) string {
	topOn, bottomOn := top.A >= 128, bottom.A >= 128
	switch {
	case topOn && bottomOn:
		return lipgloss.NewStyle().Foreground(hex(top)).Background(hex(bottom)).Render("▀")
	case topOn:
		return lipgloss.NewStyle().Foreground(hex(top)).Render("▀")
	case bottomOn:
		return lipgloss.NewStyle().Foreground(hex(bottom)).Render("▄")
	default:
		return " "
	}
}

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

var irisColors = map[string]string{
	string(model.EyeBlue):  "#4E6EF2",
	string(model.EyeGreen): "#5E8C31",
	string(model.EyeBrown): "#8B5A2B",
	string(model.EyeGray):  "#9AA0A6",
	string(model.EyeRed):   "#D7263D",
}

func placeholderArt(id string) string {
	if id == ClosedIcon {
		return strings.Join([]string{
			"  .-----.  ",
			" (  ---  ) ",
			"  '-----'  ",
		}, "\n")
	}
	iris := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	if c, ok := irisColors[id]; ok {
		iris = lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Bold(true)
	}
	return strings.Join([]string{
		"  .-----.  ",
		" (  " + iris.Render("(@)") + "  ) ",
		"  '-----'  ",
	}, "\n")
}
