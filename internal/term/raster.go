package term

import (
	"math"

	"github.com/Garsondee/rocket/internal/game"
	"github.com/gdamore/tcell/v2"
)

// hudRows is the number of rows above the playfield.
const hudRows = 1

var (
	styleHUD      = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleHint     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePlayer   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleEnemy    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleBullet   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleParticle = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleEmber    = tcell.StyleDefault.Foreground(tcell.ColorMaroon)
)

// headingRunes are indexed by octant, clockwise from +x. Screen y grows down.
var headingRunes = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// Cell is one character position.
type Cell struct {
	Rune  rune
	Style tcell.Style
}

// Raster maps a world snapshot onto a character grid.
type Raster struct {
	Cols, Rows int
	cells      []Cell
}

// NewRaster creates a blank grid.
func NewRaster(cols, rows int) *Raster {
	r := &Raster{}
	r.Resize(cols, rows)
	return r
}

// Resize reallocates the grid.
func (r *Raster) Resize(cols, rows int) {
	r.Cols, r.Rows = max(cols, 0), max(rows, 0)
	r.cells = make([]Cell, r.Cols*r.Rows)
	r.Clear()
}

// Clear blanks every cell.
func (r *Raster) Clear() {
	for i := range r.cells {
		r.cells[i] = Cell{Rune: ' ', Style: tcell.StyleDefault}
	}
}

// At returns the cell at col,row. Out of range positions read as blank.
func (r *Raster) At(col, row int) Cell {
	if col < 0 || row < 0 || col >= r.Cols || row >= r.Rows {
		return Cell{Rune: ' ', Style: tcell.StyleDefault}
	}
	return r.cells[row*r.Cols+col]
}

func (r *Raster) set(col, row int, ch rune, st tcell.Style) {
	if col < 0 || row < 0 || col >= r.Cols || row >= r.Rows {
		return
	}
	r.cells[row*r.Cols+col] = Cell{Rune: ch, Style: st}
}

// CellFor scales a world position into the playfield rows.
func (r *Raster) CellFor(size game.Size, v game.Vector) (col, row int, ok bool) {
	if !size.Contains(v) || r.Cols == 0 || r.Rows <= hudRows {
		return 0, 0, false
	}
	fieldRows := r.Rows - hudRows
	col = min(int(v.X/size.Width*float64(r.Cols)), r.Cols-1)
	row = min(int(v.Y/size.Height*float64(fieldRows)), fieldRows-1) + hudRows
	return col, row, true
}

// HeadingRune returns an arrow pointing along direction.
func HeadingRune(direction float64) rune {
	oct := int(math.Round(direction/(math.Pi/4))) % 8
	if oct < 0 {
		oct += 8
	}
	return headingRunes[oct]
}

// Draw rasterizes s with a status line on top.
func (r *Raster) Draw(s game.Snapshot, status string) {
	r.Clear()
	score := game.ScoreText(s.Player.Score)
	r.text(0, 0, score, styleHUD)
	r.text(len(score)+2, 0, status, styleHint)

	for _, p := range s.Particles {
		if col, row, ok := r.CellFor(s.Size, p.Vector); ok {
			ch, st := '*', styleParticle
			if p.TTL < 0.2 {
				ch, st = '.', styleEmber
			}
			r.set(col, row, ch, st)
		}
	}
	for _, b := range s.Bullets {
		if col, row, ok := r.CellFor(s.Size, b.Vector); ok {
			r.set(col, row, '•', styleBullet)
		}
	}
	for _, e := range s.Enemies {
		if col, row, ok := r.CellFor(s.Size, e.Vector); ok {
			r.set(col, row, 'O', styleEnemy)
		}
	}
	if col, row, ok := r.CellFor(s.Size, s.Player.Vector); ok {
		r.set(col, row, HeadingRune(s.Player.Vector.Direction), stylePlayer)
	}
}

func (r *Raster) text(col, row int, s string, st tcell.Style) {
	for _, ch := range s {
		r.set(col, row, ch, st)
		col++
	}
}

// Blit copies the grid to screen. The caller calls Show.
func (r *Raster) Blit(screen tcell.Screen) {
	for row := 0; row < r.Rows; row++ {
		for col := 0; col < r.Cols; col++ {
			c := r.cells[row*r.Cols+col]
			screen.SetContent(col, row, c.Rune, nil, c.Style)
		}
	}
}
