package game

import (
	"time"
)

// sequence is a Generator that cycles through a fixed list of types.
type sequence struct {
	types []PieceType
	i     int
}

func newSequence(types ...PieceType) *sequence {
	return &sequence{types: types}
}

func (s *sequence) Next() PieceType {
	t := s.types[s.i%len(s.types)]
	s.i++
	return t
}

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type memoryStore struct {
	values map[string]int
	sets   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string]int)}
}

func (m *memoryStore) Get(key string) (int, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryStore) Set(key string, score int) error {
	m.values[key] = score
	m.sets++
	return nil
}

// fillRow occupies every cell of row y except the listed columns.
func fillRow(b *Board, y int, holes ...int) {
	for x := range b.cells[y] {
		b.cells[y][x] = 1
	}
	for _, x := range holes {
		b.cells[y][x] = Empty
	}
}

func newTestSession(gen Generator, hooks Hooks) (*Session, *fakeClock) {
	clock := newFakeClock()
	s, err := NewSession(Options{
		Config:    DefaultConfig(),
		Generator: gen,
		Hooks:     hooks,
		Clock:     clock.Now,
	})
	if err != nil {
		panic(err)
	}
	return s, clock
}
