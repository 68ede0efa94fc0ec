// Package export renders recorded runs to static formats.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/erisim/internal/sim"
)

var palette = []string{"#7aa2f7", "#ff9e64", "#9ece6a", "#bb9af7", "#f7768e", "#7dcfff", "#e0af68"}

// TrajectorySVG draws the path of every body seen from above (X right, Z
// down) with a disc at its final position. Both axes share one scale so
// circular orbits stay circular.
func TrajectorySVG(frames []sim.Frame, width, height int) string {
	if len(frames) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for _, f := range frames {
		for _, b := range f.Bodies {
			minX, maxX = math.Min(minX, b.Position.X()-b.Radius), math.Max(maxX, b.Position.X()+b.Radius)
			minZ, maxZ = math.Min(minZ, b.Position.Z()-b.Radius), math.Max(maxZ, b.Position.Z()+b.Radius)
		}
	}

	span := math.Max(maxX-minX, maxZ-minZ) * 1.1
	if span == 0 {
		span = 1
	}
	cx, cz := (minX+maxX)/2, (minZ+maxZ)/2
	s := math.Min(float64(width), float64(height)) / span
	project := func(x, z float64) (float64, float64) {
		return float64(width)/2 + (x-cx)*s, float64(height)/2 + (z-cz)*s
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	last := frames[len(frames)-1]
	for i, body := range last.Bodies {
		color := palette[i%len(palette)]

		sb.WriteString(`<path fill="none" stroke="` + color + `" stroke-width="1.2" d="`)
		n := 0
		for _, f := range frames {
			for _, b := range f.Bodies {
				if b.ID != body.ID {
					continue
				}
				x, y := project(b.Position.X(), b.Position.Z())
				if n == 0 {
					fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
				} else {
					fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
				}
				n++
			}
		}
		sb.WriteString("\"/>\n")

		x, y := project(body.Position.X(), body.Position.Z())
		r := math.Max(1.5, body.Radius*s)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"><title>%s</title></circle>`+"\n",
			x, y, r, color, body.Name)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
