// Package audio plays short synthesized cues for game events.
package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Tone is one note of a cue.
type Tone struct {
	Freq     float64
	Duration time.Duration
}

var (
	// LineClearTones rise with the number of lines cleared at once; index
	// by lines-1.
	LineClearTones = []Tone{
		{Freq: 660, Duration: 60 * time.Millisecond},
		{Freq: 770, Duration: 70 * time.Millisecond},
		{Freq: 880, Duration: 80 * time.Millisecond},
		{Freq: 1320, Duration: 120 * time.Millisecond},
	}
	LevelUpTones  = []Tone{{523, 80 * time.Millisecond}, {659, 80 * time.Millisecond}, {784, 120 * time.Millisecond}}
	GameOverTones = []Tone{{392, 150 * time.Millisecond}, {330, 150 * time.Millisecond}, {262, 300 * time.Millisecond}}
)

// Player is where cues are sent. The speaker is the production player.
type Player interface {
	Play(s ...beep.Streamer)
}

type speakerPlayer struct{}

func (speakerPlayer) Play(s ...beep.Streamer) { speaker.Play(s...) }

// Cues turns game events into sounds. A zero Cues, or one whose speaker
// failed to start, is silent.
type Cues struct {
	player Player
}

// Open starts the system speaker.
func Open() (*Cues, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return &Cues{}, fmt.Errorf("audio: init speaker: %w", err)
	}
	return &Cues{player: speakerPlayer{}}, nil
}

// NewCues sends cues to player.
func NewCues(player Player) *Cues {
	return &Cues{player: player}
}

// Close releases the speaker if Open started it.
func (c *Cues) Close() {
	if _, ok := c.player.(speakerPlayer); ok {
		speaker.Close()
	}
}

func (c *Cues) LinesCleared(lines int) {
	if lines <= 0 {
		return
	}
	c.play(LineClearTones[min(lines, len(LineClearTones))-1])
}

func (c *Cues) LevelUp(level int) {
	c.play(LevelUpTones...)
}

func (c *Cues) GameOver() {
	c.play(GameOverTones...)
}

func (c *Cues) play(tones ...Tone) {
	if c == nil || c.player == nil {
		return
	}
	streamers := make([]beep.Streamer, 0, len(tones))
	for _, t := range tones {
		sine, err := generators.SineTone(sampleRate, t.Freq)
		if err != nil {
			continue
		}
		streamers = append(streamers, beep.Take(sampleRate.N(t.Duration), sine))
	}
	if len(streamers) == 0 {
		return
	}
	c.player.Play(beep.Seq(streamers...))
}
