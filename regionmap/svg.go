package regionmap

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"film-map-cli/palette"
)

const (
	svgTile   = 80
	svgGap    = 4
	svgMargin = 16
)

// WriteSVG draws the tile map of layout. colours holds each region's fill
// (missing regions use the inactive colour) and titles the hover text
// embedded as <title>.
func WriteSVG(w io.Writer, layout []Region, colours map[string]string, titles map[string]string) error {
	if len(layout) == 0 {
		return fmt.Errorf("empty region layout")
	}
	cols, rows := bounds(layout)
	width := svgMargin*2 + cols*svgTile + (cols-1)*svgGap
	height := svgMargin*2 + rows*svgTile + (rows-1)*svgGap

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+palette.MapBackground)
	for _, r := range layout {
		fill, ok := colours[r.ID]
		if !ok || fill == "" {
			fill = palette.InactiveColour
		}
		x := svgMargin + r.Col*(svgTile+svgGap)
		y := svgMargin + r.Row*(svgTile+svgGap)

		canvas.Gid(r.ID)
		if title := titles[r.ID]; title != "" {
			canvas.Title(title)
		} else {
			canvas.Title(r.Name)
		}
		canvas.Rect(x, y, svgTile, svgTile, fmt.Sprintf("fill:%s;stroke:#FFFFFF;stroke-width:2", fill))
		canvas.Text(x+svgTile/2, y+svgTile/2+6, r.Abbrev, "text-anchor:middle;font-family:sans-serif;font-size:18px;fill:#000000")
		canvas.Gend()
	}
	canvas.End()
	return nil
}
