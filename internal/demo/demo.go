// Package demo replays simple movement patterns on a moving head.
package demo

import (
	"context"
	"math"
	"time"

	"lightpong/internal/fixture"
	"lightpong/internal/logger"
)

// Point is one pan/tilt position.
type Point struct {
	Pan, Tilt uint8
}

// Circle returns steps points on a circle around the center.
func Circle(steps int, radius float64) []Point {
	pts := make([]Point, steps)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(steps)
		pts[i] = Point{
			Pan:  around(fixture.Center, radius*math.Cos(a)),
			Tilt: around(fixture.Center, radius*math.Sin(a)),
		}
	}
	return pts
}

// FigureEight returns a Lissajous figure eight.
func FigureEight(steps int, size float64) []Point {
	pts := make([]Point, steps)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(steps)
		pts[i] = Point{
			Pan:  around(fixture.Center, size*math.Sin(a)),
			Tilt: around(fixture.Center, size*math.Sin(2*a)),
		}
	}
	return pts
}

// TiltSweep goes 0..255 and back at a fixed pan.
func TiltSweep(pan uint8) []Point {
	pts := make([]Point, 0, 512)
	for i := 0; i <= 255; i++ {
		pts = append(pts, Point{Pan: pan, Tilt: uint8(i)})
	}
	for i := 255; i >= 0; i-- {
		pts = append(pts, Point{Pan: pan, Tilt: uint8(i)})
	}
	return pts
}

func around(center uint8, off float64) uint8 {
	v := int(center) + int(off)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Pattern is a named movement with its look.
type Pattern struct {
	Name   string
	Color  fixture.ColorWheel
	Points []Point
	Step   time.Duration
}

// Patterns is the default demo cycle.
func Patterns() []Pattern {
	return []Pattern{
		{Name: "circle", Color: fixture.ColorGreen, Points: Circle(100, 50), Step: 30 * time.Millisecond},
		{Name: "figure-eight", Color: fixture.ColorLightBlue, Points: FigureEight(200, 50), Step: 20 * time.Millisecond},
		{Name: "tilt-sweep", Color: fixture.ColorWhite, Points: TiltSweep(fixture.Center), Step: 20 * time.Millisecond},
	}
}

// Player moves a fixture through patterns.
type Player struct {
	log   *logger.Log
	light *fixture.Fixture
	pause time.Duration
}

func NewPlayer(log logger.Logger, light *fixture.Fixture, pause time.Duration) *Player {
	return &Player{log: log.Module("demo"), light: light, pause: pause}
}

// Play runs one pattern.
func (p *Player) Play(ctx context.Context, pat Pattern) error {
	p.log.Infof("=== %s ===", pat.Name)
	if err := p.light.SetIntensity(fixture.DimmerFull); err != nil {
		return err
	}
	if err := p.light.SetColor(pat.Color); err != nil && !isUnsupported(err) {
		return err
	}
	for _, pt := range pat.Points {
		if err := p.light.SetPosition(pt.Pan, pt.Tilt); err != nil {
			return err
		}
		if err := sleep(ctx, pat.Step); err != nil {
			return err
		}
	}
	return nil
}

// Run cycles patterns until ctx is done.
func (p *Player) Run(ctx context.Context, patterns []Pattern) error {
	for cycle := 1; ; cycle++ {
		p.log.Infof("DEMO CYCLE #%d", cycle)
		for _, pat := range patterns {
			if err := p.Play(ctx, pat); err != nil {
				return err
			}
		}
		if err := sleep(ctx, p.pause); err != nil {
			return err
		}
	}
}
