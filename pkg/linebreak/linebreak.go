// Package linebreak breaks a paragraph of fixed-width objects into lines
// with the box/glue/penalty algorithm of Knuth and Plass.
//
// Braille cells have a fixed width, so glue neither stretches nor shrinks.
// The cost of a line is its squared slack plus the squared value of the
// penalty it ends at; the breaker minimizes the total over the paragraph.
package linebreak

import (
	"math"
)

// Infinity is the penalty value that forbids a break. -Infinity forces one.
const Infinity = math.MaxInt - 1

type Kind int

const (
	Box Kind = iota
	Glue
	Penalty
)

// Object is one item of a paragraph. Value only applies to penalties.
// A Guide box is dropped when the line is broken with a hyphen right after
// it.
type Object struct {
	Kind  Kind
	Width int
	Value int
	Guide bool
}

func NewBox(width int) Object { return Object{Kind: Box, Width: width} }
func NewGlue(width int) Object { return Object{Kind: Glue, Width: width} }
func NewPenalty(width, value int) Object { return Object{Kind: Penalty, Width: width, Value: value} }
func NewGuide(width int) Object { return Object{Kind: Box, Width: width, Guide: true} }
func (o Object) IsForcedBreak() bool { return o.Kind == Penalty && o.Value == -Infinity }
func (o Object) breakable() bool { return o.Kind == Penalty && o.Value != Infinity }

type node struct {
	pos      int
	demerits int
	line     int
	total    int
	previous *node
}

type breaker struct {
	objs    []Object
	lengths []int
	active  []*node
	sum     int
}

// Breakpoints returns the indices into objs at which lines begin, the
// first always being 0. A break at a glue starts the next line after any
// glue that follows it; a break at a penalty puts the penalty's width at the
// end of the broken line.
//
// lineLengths gives the width of each line; the last entry applies to all
// further lines. It must not be empty.
//
// A box too wide for any line still yields a result: when every way of
// continuing overflows, the least overfull line is taken.
func Breakpoints(objs []Object, lineLengths []int) []int {
	if len(lineLengths) == 0 {
		panic("linebreak: no line lengths")
	}
	b := &breaker{objs: objs, lengths: lineLengths, active: []*node{{}}}
	for i, o := range objs {
		switch o.Kind {
		case Box:
			b.sum += o.Width
		case Glue:
			if i > 0 && objs[i-1].Kind == Box {
				b.consider(i)
			}
			b.sum += o.Width
		case Penalty:
			if o.breakable() {
				b.consider(i)
			}
		}
	}

	best := b.active[0]
	for _, n := range b.active[1:] {
		if n.demerits < best.demerits {
			best = n
		}
	}
	var breaks []int
	for n := best; n != nil; n = n.previous {
		breaks = append(breaks, n.pos)
	}
	for i, j := 0, len(breaks)-1; i < j; i, j = i+1, j-1 {
		breaks[i], breaks[j] = breaks[j], breaks[i]
	}
	return breaks
}

func (b *breaker) lineLength(line int) int {
	if line > len(b.lengths) {
		line = len(b.lengths)
	}
	return b.lengths[line-1]
}

// slack is the room left on the line from n to i. Negative means overfull.
func (b *breaker) slack(n *node, i int) int {
	width := b.sum - n.total
	if o := b.objs[i]; o.Kind == Penalty {
		width += o.Width
		if o.Width > 0 && i > 0 && b.objs[i-1].Guide {
			width -= b.objs[i-1].Width
		}
	}
	return b.lineLength(n.line+1) - width
}

func (b *breaker) demerits(n *node, i, slack int) int {
	d := slack * slack
	if o := b.objs[i]; o.Kind == Penalty {
		if o.Value != -Infinity {
			d += o.Value * o.Value
		}
		if prev := b.objs[n.pos]; o.Width > 0 && prev.Kind == Penalty && prev.Width > 0 {
			d += 10
		}
	}
	return d + n.demerits
}

// carry is the width of the glue skipped at the start of a line beginning
// at i.
func (b *breaker) carry(i int) int {
	width := 0
	for j := i; j < len(b.objs); j++ {
		o := b.objs[j]
		if o.Kind == Box || (j > i && o.IsForcedBreak()) {
			break
		}
		if o.Kind == Glue {
			width += o.Width
		}
	}
	return width
}

// consider records the best break at i for each line number reachable from
// the active nodes. Nodes that can no longer fit a line are deactivated.
func (b *breaker) consider(i int) {
	var (
		next    []*node
		spilled *node
		worst   = math.MinInt
	)
	total := b.sum + b.carry(i)
	for g := 0; g < len(b.active); {
		var (
			candidate *node
			demerits  = Infinity
		)
		line := b.active[g].line
		for ; g < len(b.active) && b.active[g].line == line; g++ {
			n := b.active[g]
			slack := b.slack(n, i)
			if slack < 0 {
				if slack > worst {
					spilled, worst = n, slack
				}
				continue
			}
			next = append(next, n)
			if d := b.demerits(n, i, slack); d < demerits {
				candidate, demerits = n, d
			}
		}
		if candidate != nil {
			next = append(next, &node{pos: i, demerits: demerits, line: candidate.line + 1, total: total, previous: candidate})
		}
	}

	if len(next) == 0 {
		next = []*node{{pos: i, demerits: b.demerits(spilled, i, 0), line: spilled.line + 1, total: total, previous: spilled}}
	}
	if b.objs[i].IsForcedBreak() {
		forced := next[:0]
		for _, n := range next {
			if n.pos == i {
				forced = append(forced, n)
			}
		}
		next = forced
	}
	b.active = next
}
