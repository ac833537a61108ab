package tetris

import "math/rand/v2"

// Randomizer produces the sequence of upcoming shapes.
type Randomizer interface {
	// Next consumes and returns the upcoming shape.
	Next() Shape
	// Peek returns the upcoming shape without consuming it.
	Peek() Shape
}

// Bag is the 7-bag randomizer: every seven draws contain each shape once.
// Two bags created with the same seed produce the same sequence.
// https://tetris.wiki/Random_Generator
type Bag struct {
	rng   *rand.Rand
	bag   []Shape
	first bool
}

func NewBag(seed int64) *Bag {
	s := uint64(seed)
	return &Bag{
		rng:   rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15)),
		first: true,
	}
}

func (b *Bag) Next() Shape {
	if len(b.bag) == 0 {
		b.fill()
	}
	s := b.bag[0]
	b.bag = b.bag[1:]
	return s
}

func (b *Bag) Peek() Shape {
	if len(b.bag) == 0 {
		b.fill()
	}
	return b.bag[0]
}

func (b *Bag) fill() {
	b.bag = AllShapes()
	b.shuffle()
	// the first piece of a game is never S, Z or O.
	if b.first {
		for b.bag[0] == S || b.bag[0] == Z || b.bag[0] == O {
			b.shuffle()
		}
		b.first = false
	}
}

func (b *Bag) shuffle() {
	b.rng.Shuffle(len(b.bag), func(i, j int) { b.bag[i], b.bag[j] = b.bag[j], b.bag[i] })
}
