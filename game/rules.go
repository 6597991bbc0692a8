package game

import "time"

const (
	pointsPerLine   = 100
	linesPerLevel   = 10
	initialInterval = 1000 * time.Millisecond
	intervalStep    = 100 * time.Millisecond
	minInterval     = 100 * time.Millisecond
)

// Collide reports whether any occupied cell of the piece lands on an occupied
// board cell or outside the board. It does not modify its arguments.
func Collide(b *Board, p *Piece) bool {
	for row := 0; row < p.Shape.Size; row++ {
		for col := 0; col < p.Shape.Size; col++ {
			if p.Shape.Cells[row][col] == Empty {
				continue
			}
			x, y := p.X+col, p.Y+row
			if !b.Contains(x, y) || b.cells[y][x] != Empty {
				return true
			}
		}
	}
	return false
}

// merge commits every occupied cell of the piece into the board. The piece
// must be in a non-colliding position.
func merge(b *Board, p *Piece) {
	for row := 0; row < p.Shape.Size; row++ {
		for col := 0; col < p.Shape.Size; col++ {
			if c := p.Shape.Cells[row][col]; c != Empty {
				b.cells[p.Y+row][p.X+col] = c
			}
		}
	}
}

// sweep removes every full row, scanning bottom-up and re-examining the same
// index after each removal. The n-th line cleared in one sweep (from 0) is
// worth 2^n × 100 × level.
func sweep(b *Board, level int) (lines, points int) {
	multiplier := 1
	for y := b.Height() - 1; y >= 0; {
		if !b.Full(y) {
			y--
			continue
		}
		b.removeRow(y)
		points += multiplier * pointsPerLine * level
		multiplier *= 2
		lines++
	}
	return lines, points
}

// DropInterval is the automatic drop period at the given level.
func DropInterval(level int) time.Duration {
	return max(minInterval, initialInterval-time.Duration(level-1)*intervalStep)
}
