// ABOUTME: Tests for timeline layout: frame conversion, cross-fade overlap, opacity ramps, easing.
// ABOUTME: Pure arithmetic, no image IO.
package present

import (
	"math"
	"testing"
)

func testDeck() *Deck {
	d := &Deck{
		Title:           "kovoterm",
		CrossFadeFrames: -1,
		Slides: []Slide{
			{Kind: SlideTitle, Heading: "KOVOTERM", DurationSeconds: 3},
			{Kind: SlideBullets, Heading: "Pipeline", Bullets: []string{"inbox", "OCR"}, DurationSeconds: 4},
			{Kind: SlideTitle, Heading: "Konec", DurationSeconds: 2},
		},
	}
	d.applyDefaults()
	return d
}

func TestWindowsOverlapByCrossFade(t *testing.T) {
	d := testDeck()
	w := d.Windows()

	// 3s, 4s, 2s at 30fps with 15-frame overlap.
	if w[0].Start != 0 || w[0].End != 90 {
		t.Errorf("slide 0 window wrong: %+v", w[0])
	}
	if w[1].Start != 75 || w[1].End != 195 {
		t.Errorf("slide 1 window wrong: %+v", w[1])
	}
	if w[2].Start != 180 || w[2].End != 240 {
		t.Errorf("slide 2 window wrong: %+v", w[2])
	}

	for i := 1; i < len(w); i++ {
		overlap := w[i-1].End - w[i].Start
		if overlap != d.CrossFadeFrames {
			t.Errorf("slides %d/%d overlap by %d frames, want %d", i-1, i, overlap, d.CrossFadeFrames)
		}
	}
}

func TestTotalFramesAccountsForOverlap(t *testing.T) {
	d := testDeck()
	// 90 + 120 + 60 minus two 15-frame overlaps.
	if got := d.TotalFrames(); got != 240 {
		t.Errorf("total frames = %d, want 240", got)
	}
}

func TestOpacityRampDuringCrossFade(t *testing.T) {
	d := testDeck()
	w := d.Windows()

	if got := d.opacityAt(0, w, 0); got != 1 {
		t.Errorf("first slide must start opaque, got %v", got)
	}
	if got := d.opacityAt(1, w, 74); got != 0 {
		t.Errorf("slide 1 must be invisible before its window, got %v", got)
	}
	if got := d.opacityAt(1, w, 75); got <= 0 || got > 0.1 {
		t.Errorf("fade-in should start near zero, got %v", got)
	}
	if got := d.opacityAt(1, w, 89); got != 1 {
		t.Errorf("fade-in should complete at the end of the overlap, got %v", got)
	}
	if got := d.opacityAt(1, w, 150); got != 1 {
		t.Errorf("mid-slide opacity must be 1, got %v", got)
	}
	if got := d.opacityAt(0, w, 90); got != 0 {
		t.Errorf("slide 0 must vanish after its window, got %v", got)
	}
}

func TestOpacityMonotoneOverFade(t *testing.T) {
	d := testDeck()
	w := d.Windows()

	prev := 0.0
	for f := w[1].Start; f < w[1].Start+d.CrossFadeFrames; f++ {
		op := d.opacityAt(1, w, f)
		if op < prev {
			t.Fatalf("opacity decreased at frame %d: %v -> %v", f, prev, op)
		}
		prev = op
	}
}

func TestEaseOutCubicEndpoints(t *testing.T) {
	if easeOutCubic(0) != 0 || easeOutCubic(1) != 1 {
		t.Error("easing must be pinned at the endpoints")
	}
	if easeOutCubic(-1) != 0 || easeOutCubic(2) != 1 {
		t.Error("easing must clamp outside [0,1]")
	}
	if got := easeOutCubic(0.5); math.Abs(got-0.875) > 1e-9 {
		t.Errorf("easeOutCubic(0.5) = %v, want 0.875", got)
	}
}
