package game

import (
	"context"
	"errors"
	"math/rand"

	"lightpong/internal/fixture"
	"lightpong/internal/logger"
)

// Game is the two-state light pong loop. Only the goroutine running Run
// touches the light and the game state.
type Game struct {
	log     *logger.Log
	light   Light
	paddles *Paddles
	scores  Broadcaster
	cfg     Conf
	rnd     *rand.Rand

	side          Side
	score         Score
	awaitingServe bool
}

// New builds a game with the ball at the top.
func New(log logger.Logger, light Light, paddles *Paddles, scores Broadcaster, cfg Conf, rnd *rand.Rand) *Game {
	return &Game{
		log:     log.Module("game"),
		light:   light,
		paddles: paddles,
		scores:  scores,
		cfg:     cfg,
		rnd:     rnd,
		side:    SideTop,
	}
}

func (g *Game) Side() Side   { return g.side }
func (g *Game) Score() Score { return g.score }

// AwaitingServe reports whether the next wait has no timeout.
func (g *Game) AwaitingServe() bool { return g.awaitingServe }

// Run sets up the light and plays until ctx is done.
func (g *Game) Run(ctx context.Context) error {
	err := g.Setup(ctx)
	for err == nil {
		err = g.Step(ctx)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// Setup puts the light in its playing look and serves from the top.
func (g *Game) Setup(ctx context.Context) error {
	g.check(g.light.SetColor(fixture.ColorWhite))
	g.check(g.light.SetShutter(fixture.ShutterOpen))
	g.check(g.light.SetIntensity(fixture.DimmerFull))
	g.check(g.light.SetGobo(fixture.GoboOpen))
	g.check(g.light.SetGoboRotation(fixture.RotationFixed, 0))
	g.check(g.light.SetSpeed(fixture.SpeedFast))
	g.check(g.light.SetSpecial(fixture.SpecialNoBlackoutPanTilt))
	if err := g.pause(ctx, g.cfg.MoveDelay/2); err != nil {
		return err
	}

	g.side = SideTop
	g.score = Score{}
	g.awaitingServe = false
	pan := g.moveBall(SideTop)
	g.log.Infof("Game started: ball at %s (pan=%d, tilt=%d)", g.side, pan, g.cfg.TiltTop)
	return g.pause(ctx, g.cfg.MoveDelay)
}

// Step waits for the defending paddle and applies one transition.
func (g *Game) Step(ctx context.Context) error {
	side := g.side
	timeout := g.cfg.HitTimeout
	if g.awaitingServe {
		timeout = 0
		g.log.Infof("Waiting for Player %d hit (no timeout)", side.Player())
	} else {
		g.log.Infof("Waiting for Player %d paddle hit", side.Player())
	}

	g.paddles.Clear(side)
	hit, ok, err := g.paddles.Wait(ctx, side, timeout)
	if err != nil {
		return err
	}
	if ok {
		g.awaitingServe = false
		return g.returnBall(ctx, hit)
	}
	return g.missed(ctx, side)
}

func (g *Game) returnBall(ctx context.Context, hit Hit) error {
	to := hit.Side.Opposite()
	g.log.Infof("Player %d hit detected, moving ball to %s", hit.Side.Player(), to)
	if hit.Fireball {
		g.log.Infof("Fireball activated by Player %d", hit.Side.Player())
		g.fireballLook()
	} else {
		g.normalLook()
	}
	g.moveBall(to)
	g.side = to
	return g.pause(ctx, g.cfg.MoveDelay)
}

func (g *Game) missed(ctx context.Context, side Side) error {
	winner := side.Opposite().Player()
	if winner == 1 {
		g.score.P1++
	} else {
		g.score.P2++
	}
	g.log.Infof("Timeout: Player %d missed - Score P1=%d P2=%d", side.Player(), g.score.P1, g.score.P2)
	g.broadcast()

	if g.score.P1 >= g.cfg.WinScore || g.score.P2 >= g.cfg.WinScore {
		if err := g.victory(ctx, winner); err != nil {
			return err
		}
		g.score = Score{}
		g.broadcast()
		g.moveBall(SideTop)
		g.side = SideTop
		g.awaitingServe = false
		return g.pause(ctx, g.cfg.ResetDelay)
	}

	if err := g.missBlink(ctx, winner); err != nil {
		return err
	}
	g.awaitingServe = true
	return nil
}

// moveBall places the light at a random pan inside the band on side.
func (g *Game) moveBall(side Side) uint8 {
	span := int(g.cfg.PanMax) - int(g.cfg.PanMin) + 1
	pan := g.cfg.PanMin + uint8(g.rnd.Intn(span))
	tilt := g.cfg.TiltTop
	if side == SideBottom {
		tilt = g.cfg.TiltBottom
	}
	g.log.Debugf("Moving to %s (pan=%d, tilt=%d)", side, pan, tilt)
	g.check(g.light.SetPosition16(uint16(pan)<<8, uint16(tilt)<<8))
	return pan
}

func (g *Game) broadcast() {
	if g.scores == nil {
		return
	}
	if err := g.scores.PublishScore(g.score); err != nil {
		g.log.Warnf("score broadcast failed: %v", err)
	}
}

func (g *Game) check(err error) {
	if err != nil && !errors.Is(err, fixture.ErrUnsupported) {
		g.log.Warnf("light update failed: %v", err)
	}
}
