package main

import (
	"math/rand/v2"

	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/loop"
)

// AutoPlayer issues random commands every frame, weighted towards sideways
// movement so pieces spread across the board and lines get cleared.
type AutoPlayer struct {
	Session *game.Session
	rng     *rand.Rand
	Issued  int64
}

func (p *AutoPlayer) Execute(frame *loop.Frame) {
	var cmd game.Command
	switch roll := p.rng.IntN(100); {
	case roll < 15:
		cmd = game.CommandMoveLeft
	case roll < 30:
		cmd = game.CommandMoveRight
	case roll < 40:
		cmd = game.CommandRotate
	case roll < 50:
		cmd = game.CommandSoftDrop
	case roll < 53:
		cmd = game.CommandHardDrop
	default:
		return
	}
	p.Session.Apply(cmd)
	p.Issued++
}
