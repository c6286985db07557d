// ABOUTME: Deck and Slide types for the offline marketing video renderer, loaded from a YAML file.
// ABOUTME: A deck is static data: no external fetches, no interaction, one-shot playback.
package present

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Slide kinds.
const (
	SlideTitle      = "title"
	SlideBullets    = "bullets"
	SlideScreenshot = "screenshot"
)

// Rendering defaults. Durations are authored in seconds and converted to
// frames at FPS; adjacent slides overlap by CrossFadeFrames.
const (
	DefaultFPS             = 30
	DefaultWidth           = 1920
	DefaultHeight          = 1080
	DefaultCrossFadeFrames = 15
)

// Slide is one timed slide. Which fields matter depends on Kind:
// title uses Heading/Subheading, bullets adds Bullets, screenshot uses Image
// (path relative to the deck's asset directory) with an optional Heading.
type Slide struct {
	Kind            string   `yaml:"kind"`
	Heading         string   `yaml:"heading,omitempty"`
	Subheading      string   `yaml:"subheading,omitempty"`
	Bullets         []string `yaml:"bullets,omitempty"`
	Image           string   `yaml:"image,omitempty"`
	DurationSeconds float64  `yaml:"duration"`
}

// Deck is the full composition: an ordered slide list plus rendering
// parameters. Omitted parameters fall back to the package defaults; an
// explicit crossfade_frames of 0 disables the cross-fade.
type Deck struct {
	Title           string  `yaml:"title"`
	FPS             int     `yaml:"fps,omitempty"`
	Width           int     `yaml:"width,omitempty"`
	Height          int     `yaml:"height,omitempty"`
	CrossFadeFrames int     `yaml:"crossfade_frames,omitempty"`
	AssetDir        string  `yaml:"asset_dir,omitempty"`
	Slides          []Slide `yaml:"slides"`
}

// LoadDeck reads and validates a deck definition from a YAML file.
func LoadDeck(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck file: %w", err)
	}

	// -1 marks crossfade_frames as absent; yaml leaves it untouched when the
	// key is missing, so an authored 0 survives as 0.
	deck := Deck{CrossFadeFrames: -1}
	if err := yaml.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("parse deck file: %w", err)
	}

	deck.applyDefaults()
	if err := deck.validate(); err != nil {
		return nil, err
	}
	return &deck, nil
}

// applyDefaults fills zero parameters with package defaults.
func (d *Deck) applyDefaults() {
	if d.FPS <= 0 {
		d.FPS = DefaultFPS
	}
	if d.Width <= 0 {
		d.Width = DefaultWidth
	}
	if d.Height <= 0 {
		d.Height = DefaultHeight
	}
	if d.CrossFadeFrames < 0 {
		d.CrossFadeFrames = DefaultCrossFadeFrames
	}
}

// validate rejects decks that cannot be laid out on a timeline.
func (d *Deck) validate() error {
	if len(d.Slides) == 0 {
		return fmt.Errorf("deck has no slides")
	}
	for i, s := range d.Slides {
		switch s.Kind {
		case SlideTitle, SlideBullets, SlideScreenshot:
		default:
			return fmt.Errorf("slide %d: unknown kind %q", i, s.Kind)
		}
		if s.DurationSeconds <= 0 {
			return fmt.Errorf("slide %d: duration must be positive", i)
		}
		if s.Kind == SlideScreenshot && s.Image == "" {
			return fmt.Errorf("slide %d: screenshot slide needs an image", i)
		}
		frames := int(s.DurationSeconds * float64(d.FPS))
		if frames <= d.CrossFadeFrames {
			return fmt.Errorf("slide %d: duration %.2fs is shorter than the cross-fade window", i, s.DurationSeconds)
		}
	}
	return nil
}
