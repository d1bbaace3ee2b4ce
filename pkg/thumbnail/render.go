// Package thumbnail downloads game cover art and turns it into text the
// terminal can draw: coloured half blocks everywhere, or Kitty, iTerm2 and
// Sixel images where the emulator supports them.
package thumbnail

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/blacktop/go-termimg"
	"github.com/disintegration/imaging"

	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/terminal"
)

// ErrDisabled is returned when the protocol is none.
var ErrDisabled = errors.New("thumbnail: rendering disabled")

// Unsharp amounts applied after downscaling. Half blocks have a quarter of
// the resolution and need more.
const (
	sharpenPixel     = 0.3
	sharpenHalfblock = 0.5
)

// Renderer draws images at a fixed protocol.
type Renderer struct {
	protocol     terminal.Protocol
	cellW, cellH int
}

// NewRenderer returns a renderer for p. Non-positive cell sizes take the
// terminal defaults.
func NewRenderer(p terminal.Protocol, cellW, cellH int) *Renderer {
	if cellW <= 0 {
		cellW = terminal.DefaultCellW
	}
	if cellH <= 0 {
		cellH = terminal.DefaultCellH
	}
	return &Renderer{protocol: p, cellW: cellW, cellH: cellH}
}

// Protocol returns the protocol the renderer draws with.
func (r *Renderer) Protocol() terminal.Protocol {
	return r.protocol
}

// Render fits img inside width x height cells, keeping its aspect ratio,
// and returns the escape sequence that draws it.
func (r *Renderer) Render(img image.Image, width, height int) (string, error) {
	if img == nil {
		return "", errors.New("thumbnail: nil image")
	}
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("thumbnail: invalid size %dx%d", width, height)
	}

	switch r.protocol {
	case terminal.ProtocolNone:
		return "", ErrDisabled
	case terminal.ProtocolHalfblocks:
		return halfblocks(fit(img, width, height*2, sharpenHalfblock)), nil
	case terminal.ProtocolKitty:
		return r.termimg(img, termimg.Kitty, width, height)
	case terminal.ProtocolITerm2:
		return r.termimg(img, termimg.ITerm2, width, height)
	case terminal.ProtocolSixel:
		return r.termimg(img, termimg.Sixel, width, height)
	}
	return "", fmt.Errorf("thumbnail: unsupported protocol %v", r.protocol)
}

func (r *Renderer) termimg(img image.Image, proto termimg.Protocol, width, height int) (string, error) {
	scaled := fit(img, width*r.cellW, height*r.cellH, sharpenPixel)

	ti := termimg.New(scaled)
	if ti == nil {
		return "", errors.New("thumbnail: go-termimg rejected image")
	}
	ti.Protocol(proto).Size(width, height).Scale(termimg.ScaleFit)

	out, err := ti.Render()
	if err != nil {
		return "", fmt.Errorf("thumbnail: %s render: %w", r.protocol, err)
	}
	return out, nil
}

// fit scales img down into maxW x maxH pixels. Images that already fit are
// not resampled or sharpened.
func fit(img image.Image, maxW, maxH int, sharpen float64) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return imaging.Clone(img)
	}
	return imaging.Sharpen(imaging.Fit(img, maxW, maxH, imaging.Lanczos), sharpen)
}

// halfblocks draws two pixel rows per text row: the upper pixel is the
// foreground of U+2580 and the lower one the background. Transparent pixels
// leave the terminal background showing.
func halfblocks(img *image.NRGBA) string {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(w * ((h + 1) / 2) * 40)

	for y := 0; y < h; y += 2 {
		if y > 0 {
			sb.WriteString("\x1b[0m\n")
		}
		for x := 0; x < w; x++ {
			top := img.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			var bot color.NRGBA
			if y+1 < h {
				bot = img.NRGBAAt(b.Min.X+x, b.Min.Y+y+1)
			}

			switch {
			case top.A == 0 && bot.A == 0:
				sb.WriteString("\x1b[0m ")
			case top.A == 0:
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[49m▄", bot.R, bot.G, bot.B)
			case bot.A == 0:
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[49m▀", top.R, top.G, top.B)
			default:
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
					top.R, top.G, top.B, bot.R, bot.G, bot.B)
			}
		}
	}
	sb.WriteString("\x1b[0m")
	return sb.String()
}
