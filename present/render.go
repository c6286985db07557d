// ABOUTME: Composites deck frames as PNG images: background, slide content, cross-fade overlays.
// ABOUTME: Text uses a scaled bitmap font for a terminal look; screenshots get a slow zoom.
package present

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	backgroundColor = color.NRGBA{R: 0x10, G: 0x18, B: 0x20, A: 0xFF}
	headingColor    = color.NRGBA{R: 0xEC, G: 0xEF, B: 0xF1, A: 0xFF}
	subheadingColor = color.NRGBA{R: 0x90, G: 0xA4, B: 0xAE, A: 0xFF}
	bulletColor     = color.NRGBA{R: 0xCF, G: 0xD8, B: 0xDC, A: 0xFF}
	accentColor     = color.NRGBA{R: 0x4D, G: 0xB6, B: 0xAC, A: 0xFF}
)

// RenderFrame composites one frame of the deck. The same (deck, frame) pair
// always produces the same image.
func (d *Deck) RenderFrame(frame int) (*image.NRGBA, error) {
	canvas := imaging.New(d.Width, d.Height, backgroundColor)
	windows := d.Windows()

	for i := range d.Slides {
		opacity := d.opacityAt(i, windows, frame)
		if opacity == 0 {
			continue
		}
		slideImg, err := d.renderSlide(i, windows, frame)
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", i, err)
		}
		canvas = imaging.Overlay(canvas, slideImg, image.Pt(0, 0), opacity)
	}

	return canvas, nil
}

// RenderAll writes every frame of the deck into outDir as frame_NNNNN.png.
// onFrame, when non-nil, is called after each frame for progress reporting.
func (d *Deck) RenderAll(outDir string, onFrame func(frame, total int)) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	total := d.TotalFrames()
	for frame := 0; frame < total; frame++ {
		img, err := d.RenderFrame(frame)
		if err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
		path := filepath.Join(outDir, fmt.Sprintf("frame_%05d.png", frame))
		if err := imaging.Save(img, path); err != nil {
			return fmt.Errorf("save frame %d: %w", frame, err)
		}
		if onFrame != nil {
			onFrame(frame+1, total)
		}
	}
	return nil
}

// FFmpegHint returns the command that assembles the rendered frames into a
// video. We shell out nothing ourselves; encoding stays the user's call.
func (d *Deck) FFmpegHint(outDir string) string {
	return fmt.Sprintf("ffmpeg -framerate %d -i %s/frame_%%05d.png -c:v libx264 -pix_fmt yuv420p out.mp4",
		d.FPS, outDir)
}

// renderSlide draws a single slide onto a transparent full-size canvas at its
// animation state for the given global frame.
func (d *Deck) renderSlide(i int, windows []Window, frame int) (*image.NRGBA, error) {
	canvas := imaging.New(d.Width, d.Height, color.NRGBA{})
	s := d.Slides[i]
	intro := d.introProgress(i, windows, frame)

	// Content slides up into place as the intro eases out.
	rise := int((1 - intro) * float64(d.Height) / 24)

	switch s.Kind {
	case SlideTitle:
		y := d.Height/2 - d.Height/10 + rise
		canvas = d.drawTextCentered(canvas, s.Heading, headingColor, 8, y)
		if s.Subheading != "" {
			canvas = d.drawTextCentered(canvas, s.Subheading, subheadingColor, 4, y+d.Height/8)
		}

	case SlideBullets:
		top := d.Height / 8
		canvas = d.drawTextAt(canvas, s.Heading, accentColor, 6, d.Width/12, top+rise)
		lineStep := d.Height / 12
		for j, b := range s.Bullets {
			y := top + lineStep*(j+2) + rise
			canvas = d.drawTextAt(canvas, "> "+b, bulletColor, 4, d.Width/10, y)
		}

	case SlideScreenshot:
		shot, err := d.loadScreenshot(s.Image, i, windows, frame)
		if err != nil {
			return nil, err
		}
		pt := image.Pt((d.Width-shot.Bounds().Dx())/2, (d.Height-shot.Bounds().Dy())/2+rise)
		canvas = imaging.Overlay(canvas, shot, pt, 1.0)
		if s.Heading != "" {
			canvas = d.drawTextCentered(canvas, s.Heading, headingColor, 4, d.Height-d.Height/10)
		}
	}

	return canvas, nil
}

// loadScreenshot opens the slide's image, fits it into the frame, and applies
// a slow zoom from 1.00 to 1.05 across the slide's window.
func (d *Deck) loadScreenshot(name string, i int, windows []Window, frame int) (*image.NRGBA, error) {
	src, err := imaging.Open(filepath.Join(d.AssetDir, name))
	if err != nil {
		return nil, fmt.Errorf("open screenshot: %w", err)
	}

	fitted := imaging.Fit(src, d.Width*3/4, d.Height*3/4, imaging.Lanczos)

	w := windows[i]
	through := float64(frame-w.Start) / float64(w.Frames())
	scale := 1.0 + 0.05*through
	zoomed := imaging.Resize(fitted, int(float64(fitted.Bounds().Dx())*scale), 0, imaging.Lanczos)
	return zoomed, nil
}

// drawTextCentered renders text horizontally centered at the given baseline y.
func (d *Deck) drawTextCentered(canvas *image.NRGBA, text string, col color.NRGBA, scale, y int) *image.NRGBA {
	img := rasterize(text, col, scale)
	x := (d.Width - img.Bounds().Dx()) / 2
	return imaging.Overlay(canvas, img, image.Pt(x, y), 1.0)
}

// drawTextAt renders text at a fixed top-left position.
func (d *Deck) drawTextAt(canvas *image.NRGBA, text string, col color.NRGBA, scale, x, y int) *image.NRGBA {
	img := rasterize(text, col, scale)
	return imaging.Overlay(canvas, img, image.Pt(x, y), 1.0)
}

// rasterize draws text with the 7x13 bitmap face and scales it up with
// nearest-neighbor so the glyphs stay crisp and pixelated.
func rasterize(text string, col color.NRGBA, scale int) *image.NRGBA {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	if width < 1 {
		width = 1
	}
	height := face.Metrics().Height.Ceil()

	small := image.NewNRGBA(image.Rect(0, 0, width, height))
	drawer := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)

	if scale <= 1 {
		return small
	}
	return imaging.Resize(small, width*scale, height*scale, imaging.NearestNeighbor)
}
