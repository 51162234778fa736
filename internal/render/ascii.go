// Package render turns a board.Board (or a sequence of them, from a
// replayed GameLog) into a human-viewable form: an ASCII dump for log
// lines and Discord messages, and an animated GIF for a full replay.
package render

import (
	"fmt"
	"strings"

	"github.com/arcsnake/mcts-engine/internal/board"
	"github.com/arcsnake/mcts-engine/internal/geom"
)

// ASCII renders b as a grid of characters: '.' empty, 'o' food, '#'
// hazard, and a letter per snake (lowercase body, uppercase head), 'a'
// for b.Snakes[0], 'b' for b.Snakes[1], and so on. Rendered top row
// first, matching how a board reads on a terminal.
func ASCII(b *board.Board) string {
	var sb strings.Builder

	cells := make([][]byte, geom.Height)
	for y := range cells {
		cells[y] = make([]byte, geom.Width)
		for x := range cells[y] {
			cells[y][x] = '.'
		}
	}
	for _, p := range b.Foods {
		cells[p.Y][p.X] = 'o'
	}
	for y := 0; y < geom.Height; y++ {
		for x := 0; x < geom.Width; x++ {
			if b.Hazard[geom.Point{X: x, Y: y}.Index()] && cells[y][x] == '.' {
				cells[y][x] = '#'
			}
		}
	}
	for i, s := range b.Snakes {
		if !s.IsAlive() {
			continue
		}
		lower := byte('a' + i)
		for j, p := range s.Body {
			if j == 0 {
				cells[p.Y][p.X] = lower - 'a' + 'A'
			} else if cells[p.Y][p.X] == '.' {
				cells[p.Y][p.X] = lower
			}
		}
	}

	for y := geom.Height - 1; y >= 0; y-- {
		for x := 0; x < geom.Width; x++ {
			sb.WriteByte(cells[y][x])
		}
		sb.WriteByte('\n')
	}
	for i, s := range b.Snakes {
		fmt.Fprintf(&sb, "%c: %s health=%d length=%d\n", 'a'+i, s.Name, s.Health, len(s.Body))
	}
	return sb.String()
}
