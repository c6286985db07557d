// ABOUTME: Timeline arithmetic: converts slide durations to frame windows with cross-fade overlap.
// ABOUTME: Pure functions of (deck, frame); rendering the same frame twice gives the same answer.
package present

import "math"

// Window is a half-open frame range [Start, End) on the global timeline.
type Window struct {
	Start int
	End   int
}

// Contains reports whether the frame falls inside the window.
func (w Window) Contains(frame int) bool {
	return frame >= w.Start && frame < w.End
}

// Frames returns the window length in frames.
func (w Window) Frames() int {
	return w.End - w.Start
}

// slideFrames converts a slide duration to a whole frame count at the deck's
// frame rate.
func (d *Deck) slideFrames(i int) int {
	return int(math.Round(d.Slides[i].DurationSeconds * float64(d.FPS)))
}

// Windows lays every slide out on the global timeline. Each slide starts
// CrossFadeFrames before the previous one ends, so during the overlap both
// slides are live and the incoming one fades in over the outgoing one.
func (d *Deck) Windows() []Window {
	windows := make([]Window, len(d.Slides))
	start := 0
	for i := range d.Slides {
		end := start + d.slideFrames(i)
		windows[i] = Window{Start: start, End: end}
		start = end - d.CrossFadeFrames
	}
	return windows
}

// TotalFrames returns the length of the whole composition in frames.
func (d *Deck) TotalFrames() int {
	windows := d.Windows()
	if len(windows) == 0 {
		return 0
	}
	return windows[len(windows)-1].End
}

// opacityAt returns the slide's opacity at a global frame. Slides fade in
// linearly over the cross-fade window; the first slide starts fully opaque.
// Outside the slide's window the opacity is zero.
func (d *Deck) opacityAt(i int, windows []Window, frame int) float64 {
	w := windows[i]
	if !w.Contains(frame) {
		return 0
	}
	if i == 0 || d.CrossFadeFrames == 0 {
		return 1
	}
	into := frame - w.Start
	if into >= d.CrossFadeFrames {
		return 1
	}
	return float64(into+1) / float64(d.CrossFadeFrames)
}

// easeOutCubic maps linear progress t in [0,1] to a decelerating curve.
// Intro animations use it so content settles rather than stops dead.
func easeOutCubic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	u := 1 - t
	return 1 - u*u*u
}

// introProgress returns eased progress through the slide's intro animation,
// which runs over the first half second of the slide.
func (d *Deck) introProgress(i int, windows []Window, frame int) float64 {
	introFrames := d.FPS / 2
	if introFrames < 1 {
		introFrames = 1
	}
	into := frame - windows[i].Start
	return easeOutCubic(float64(into) / float64(introFrames))
}
