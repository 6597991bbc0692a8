package game

// Piece is a shape placed on the board; (X, Y) is the board position of the
// shape window's top-left cell.
type Piece struct {
	Shape Shape
	X, Y  int
}

// Queue is the two-slot piece pipeline. The next shape is generated when the
// queue is built and replaced on every Advance, so a lookahead is always
// available and no generation is ever skipped.
type Queue struct {
	gen  Generator
	next Shape
}

func NewQueue(gen Generator) *Queue {
	return &Queue{gen: gen, next: NewShape(gen.Next())}
}

// Peek returns the pending shape without consuming it.
func (q *Queue) Peek() Shape {
	return q.next
}

// Advance hands out the pending shape and generates its successor.
func (q *Queue) Advance() Shape {
	current := q.next
	q.next = NewShape(q.gen.Next())
	return current
}

// Player is the active piece together with its lookahead queue.
type Player struct {
	Piece
	queue *Queue
}

func newPlayer(gen Generator) *Player {
	return &Player{queue: NewQueue(gen)}
}

// Next returns the lookahead shape.
func (p *Player) Next() Shape {
	return p.queue.Peek()
}

// reset promotes the lookahead to the active piece and centres it on the top
// row of a board with the given width.
func (p *Player) reset(boardWidth int) {
	shape := p.queue.Advance()
	p.Piece = Piece{
		Shape: shape,
		X:     boardWidth/2 - shape.Size/2,
		Y:     0,
	}
}
