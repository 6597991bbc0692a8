package game

import (
	"fmt"
	"math/rand/v2"
)

const (
	RandomizerUniform = "uniform"
	RandomizerBag     = "bag"

	DefaultHighScoreKey = "tetris-high-score"
)

// Config holds the static parameters of a session.
type Config struct {
	Rows int
	Cols int

	// HighScoreKey is the key the high score is stored under.
	HighScoreKey string

	// Randomizer selects the piece generator: RandomizerUniform or
	// RandomizerBag.
	Randomizer string

	// Seed seeds the piece generator. Zero picks a random seed.
	Seed uint64
}

func DefaultConfig() Config {
	return Config{
		Rows:         DefaultRows,
		Cols:         DefaultCols,
		HighScoreKey: DefaultHighScoreKey,
		Randomizer:   RandomizerUniform,
	}
}

func (c Config) validate() error {
	if c.Rows < maxShapeSize || c.Cols < maxShapeSize {
		return fmt.Errorf("board must be at least %dx%d, got %dx%d", maxShapeSize, maxShapeSize, c.Rows, c.Cols)
	}
	if c.HighScoreKey == "" {
		return fmt.Errorf("high score key is empty")
	}
	return nil
}

func (c Config) newGenerator() (Generator, error) {
	seed := c.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	switch c.Randomizer {
	case "", RandomizerUniform:
		return NewUniformGenerator(rng), nil
	case RandomizerBag:
		return NewBagGenerator(rng), nil
	default:
		return nil, fmt.Errorf("unknown randomizer %q", c.Randomizer)
	}
}
