package update

import (
	"strings"
	"time"

	"github.com/sandeepkv93/ya3yoni/internal/model"
)

func formatInterval(d time.Duration) string {
	out := d.String()
	if d%time.Minute == 0 {
		out = strings.TrimSuffix(out, "0s")
	}
	if d%time.Hour == 0 {
		out = strings.TrimSuffix(out, "0m")
	}
	return out
}

func formatWhen(t time.Time) string {
	return t.Local().Format("Jan 2 15:04:05")
}

func eyeColorPosition(c model.EyeColor) int {
	return model.EyeColorIndex(c) + 1
}

func eyeColorCount() int {
	return len(model.EyeColors)
}
