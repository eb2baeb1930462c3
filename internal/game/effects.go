package game

import (
	"context"
	"time"

	"lightpong/internal/fixture"
)

const fireballRotation = 52 // CCW base 148 + 52 = 200

var victoryColors = []fixture.ColorWheel{
	fixture.ColorRed, fixture.ColorGreen, fixture.ColorDarkBlue,
	fixture.ColorYellow, fixture.ColorPink, fixture.ColorLightBlue,
}

func playerColor(player int) fixture.ColorWheel {
	if player == 1 {
		return fixture.ColorGreen
	}
	return fixture.ColorDarkBlue
}

func (g *Game) normalLook() {
	g.check(g.light.SetColor(fixture.ColorWhite))
	g.check(g.light.SetGobo(fixture.GoboOpen))
	g.check(g.light.SetGoboRotation(fixture.RotationFixed, 0))
}

func (g *Game) fireballLook() {
	g.check(g.light.SetColor(fixture.ColorRed))
	g.check(g.light.SetGobo(fixture.Gobo4))
	g.check(g.light.SetGoboRotation(fixture.RotationCCW, fireballRotation))
}

func (g *Game) flash(ctx context.Context, on, off time.Duration) error {
	g.check(g.light.SetIntensity(fixture.DimmerFull))
	if err := g.pause(ctx, on); err != nil {
		return err
	}
	g.check(g.light.SetIntensity(0))
	return g.pause(ctx, off)
}

// missBlink blinks the scoring player's color, then returns to white.
func (g *Game) missBlink(ctx context.Context, scorer int) error {
	g.check(g.light.SetColor(playerColor(scorer)))
	g.check(g.light.SetGobo(fixture.GoboOpen))
	g.check(g.light.SetGoboRotation(fixture.RotationFixed, 0))

	for i := 0; i < g.cfg.Blinks; i++ {
		if err := g.flash(ctx, g.cfg.BlinkOn, g.cfg.BlinkOff); err != nil {
			return err
		}
	}
	g.check(g.light.SetIntensity(fixture.DimmerFull))
	g.check(g.light.SetColor(fixture.ColorWhite))
	return g.pause(ctx, g.effect(500*time.Millisecond))
}

// victory cycles colors, flashes gobos in the winner's color and spins.
func (g *Game) victory(ctx context.Context, winner int) error {
	g.log.Infof("PLAYER %d WINS! Playing victory animation...", winner)

	for cycle := 0; cycle < 3; cycle++ {
		for _, c := range victoryColors {
			g.check(g.light.SetColor(c))
			g.check(g.light.SetGoboRotation(fixture.RotationCCW, fireballRotation))
			if err := g.pause(ctx, g.effect(200*time.Millisecond)); err != nil {
				return err
			}
		}
	}

	g.check(g.light.SetColor(playerColor(winner)))
	g.check(g.light.SetGoboRotation(fixture.RotationFixed, 0))
	for i := 0; i < 8; i++ {
		g.check(g.light.SetGobo(fixture.Gobo2 + fixture.GoboWheel(i%4)))
		if err := g.flash(ctx, g.effect(150*time.Millisecond), g.effect(150*time.Millisecond)); err != nil {
			return err
		}
	}

	g.check(g.light.SetGobo(fixture.GoboOpen))
	g.check(g.light.SetGoboRotation(fixture.RotationCCW, fireballRotation))
	for i := 0; i < 5; i++ {
		if err := g.flash(ctx, g.effect(300*time.Millisecond), g.effect(300*time.Millisecond)); err != nil {
			return err
		}
	}

	g.check(g.light.SetIntensity(fixture.DimmerFull))
	g.normalLook()
	g.log.Info("Victory animation complete! Resetting game...")
	return nil
}

func (g *Game) effect(d time.Duration) time.Duration {
	return time.Duration(float64(d) * g.cfg.EffectSpeed)
}

// pause sleeps for d unless ctx ends first.
func (g *Game) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
