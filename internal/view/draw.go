package view

import (
	"fmt"
	"image/color"

	"github.com/Garsondee/rocket/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	colBackground = color.RGBA{A: 255}
	colPlayer     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colEnemy      = color.RGBA{R: 230, G: 230, B: 0, A: 255}
	colBullet     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colParticle   = color.RGBA{R: 255, G: 110, B: 20, A: 255}
	colHUD        = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colHUDDim     = color.RGBA{R: 150, G: 150, B: 150, A: 255}
)

// Draw renders the current snapshot, the HUD and the event panel.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)

	snap := g.session.World.Snapshot()
	drawSnapshot(screen, snap)
	g.drawHUD(screen, snap)
	g.feed.Draw(screen, int(snap.Size.Width), int(snap.Size.Height))
}

func drawSnapshot(screen *ebiten.Image, s game.Snapshot) {
	for _, p := range s.Particles {
		r := float32(game.ParticleDrawRadius(p.TTL))
		vector.FillCircle(screen, float32(p.Vector.X), float32(p.Vector.Y), r, colParticle, true)
	}
	for _, b := range s.Bullets {
		vector.FillCircle(screen, float32(b.Vector.X), float32(b.Vector.Y), float32(b.Radius), colBullet, true)
	}
	for _, e := range s.Enemies {
		vector.StrokeCircle(screen, float32(e.Vector.X), float32(e.Vector.Y), float32(e.Radius), 2, colEnemy, true)
	}
	drawPlayer(screen, s.Player.Vector)
}

// playerOutline returns the ship polygon rotated to the player's heading and
// placed at its position.
func playerOutline(at game.Vector) [len(game.PlayerPolygon)]game.Vector {
	var out [len(game.PlayerPolygon)]game.Vector
	for i, pt := range game.PlayerPolygon {
		v := game.NewVector(pt[0], pt[1], 0)
		v.Rotate(at.Direction)
		v.Translate(at)
		out[i] = v
	}
	return out
}

func drawPlayer(screen *ebiten.Image, at game.Vector) {
	pts := playerOutline(at)
	var path vector.Path
	path.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		path.LineTo(float32(p.X), float32(p.Y))
	}
	path.Close()

	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(colPlayer)
	vector.FillPath(screen, &path, &vector.FillOptions{}, op)
}

func (g *Game) drawHUD(screen *ebiten.Image, s game.Snapshot) {
	g.drawText(screen, game.ScoreText(s.Player.Score), 10, 10, colHUD)

	info := fmt.Sprintf("SIM: %s  P=pause  ,/. speed  C=copy report  R=reset [%s]",
		speedLabel(g.simSpeed), g.session.World.Policy)
	g.drawText(screen, info, 10, int(s.Size.Height)-20, colHUDDim)

	if g.statusLeft > 0 {
		g.drawText(screen, g.status, 10, 28, colHUDDim)
	}
}

func (g *Game) drawText(screen *ebiten.Image, str string, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, str, g.face, op)
}
