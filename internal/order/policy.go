// Package order определяет порядок воспроизведения треков плейлиста
package order

import (
	"math/rand/v2"
	"time"
)

// Mode - режим порядка воспроизведения.
// Перемешивание и повтор взаимоисключающие, поэтому это одно значение, а не два флага.
type Mode int

const (
	// Normal - последовательное воспроизведение
	Normal Mode = iota
	// Shuffle - воспроизведение по сохраненной перестановке
	Shuffle
	// Loop - повтор текущего трека
	Loop
)

// String возвращает название режима
func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Shuffle:
		return "shuffle"
	case Loop:
		return "loop"
	default:
		return "unknown"
	}
}

// Policy вычисляет следующий и предыдущий индекс с учетом режима
type Policy struct {
	mode Mode
	perm []int // Перестановка индексов плейлиста, только для Shuffle
	n    int
	rng  *rand.Rand
}

// NewPolicy создает политику в последовательном режиме
func NewPolicy() *Policy {
	seed := uint64(time.Now().UnixNano())
	return NewPolicyWithRand(rand.New(rand.NewPCG(seed, seed>>1)))
}

// NewPolicyWithRand создает политику с заданным источником случайности
func NewPolicyWithRand(rng *rand.Rand) *Policy {
	return &Policy{mode: Normal, rng: rng}
}

// Mode возвращает текущий режим
func (p *Policy) Mode() Mode {
	return p.mode
}

// Len возвращает длину плейлиста, известную политике
func (p *Policy) Len() int {
	return p.n
}

// EnableShuffle строит новую перестановку Фишера-Йетса для n треков.
// Возвращает перестановку и позицию текущего трека в ней.
// Повтор при этом выключается.
func (p *Policy) EnableShuffle(n, current int) ([]int, int) {
	p.n = n
	p.perm = p.permute(n)
	p.mode = Shuffle
	return p.Order(), p.Position(current)
}

// DisableShuffle возвращает последовательный порядок.
// Результат - индекс текущего трека в исходном плейлисте.
func (p *Policy) DisableShuffle(current int) int {
	if p.mode == Shuffle {
		p.mode = Normal
	}
	p.perm = nil
	return current
}

// EnableLoop включает повтор текущего трека, выключая перемешивание
func (p *Policy) EnableLoop() {
	p.perm = nil
	p.mode = Loop
}

// DisableLoop выключает повтор
func (p *Policy) DisableLoop() {
	if p.mode == Loop {
		p.mode = Normal
	}
}

// Grow сообщает политике о новых треках в конце плейлиста.
// В режиме Shuffle новые индексы дописываются в конец перестановки.
func (p *Policy) Grow(n int) {
	if n <= p.n {
		return
	}
	if p.mode == Shuffle {
		for i := p.n; i < n; i++ {
			p.perm = append(p.perm, i)
		}
	}
	p.n = n
}

// Reset сбрасывает знание о плейлисте после очистки. Режим сохраняется.
func (p *Policy) Reset() {
	p.n = 0
	if p.mode == Shuffle {
		p.perm = p.perm[:0]
	}
}

// Next возвращает индекс следующего трека
func (p *Policy) Next(current int) int {
	return p.step(current, 1)
}

// Previous возвращает индекс предыдущего трека
func (p *Policy) Previous(current int) int {
	return p.step(current, -1)
}

// Order возвращает порядок отображения: перестановку или тождественный порядок
func (p *Policy) Order() []int {
	out := make([]int, p.n)
	if p.mode == Shuffle && len(p.perm) == p.n {
		copy(out, p.perm)
		return out
	}
	for i := range out {
		out[i] = i
	}
	return out
}

// Position возвращает позицию индекса плейлиста в порядке воспроизведения
func (p *Policy) Position(index int) int {
	if p.mode != Shuffle {
		return index
	}
	for pos, v := range p.perm {
		if v == index {
			return pos
		}
	}
	return -1
}

func (p *Policy) step(current, delta int) int {
	n := p.n
	if n == 0 {
		return -1
	}
	if p.mode != Shuffle || len(p.perm) != n {
		return ((current+delta)%n + n) % n
	}
	pos := p.Position(current)
	if pos < 0 {
		return p.perm[0]
	}
	return p.perm[((pos+delta)%n+n)%n]
}

// permute реализует тасование Фишера-Йетса за O(n)
func (p *Policy) permute(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := p.rng.IntN(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}
