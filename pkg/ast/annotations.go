package ast

// Range is a half-open interval of rune offsets into the parsed input.
type Range struct {
	Begin, End int
}

// Annotations allocates node ids and remembers where each node came from.
type Annotations struct {
	ranges []Range
}

func NewAnnotations() *Annotations {
	return &Annotations{}
}

// Next allocates an id whose range is fixed later with Annotate.
func (a *Annotations) Next() int {
	a.ranges = append(a.ranges, Range{-1, -1})
	return len(a.ranges) - 1
}

func (a *Annotations) Annotate(id, begin, end int) {
	a.ranges[id] = Range{begin, end}
}

// Forget drops ids allocated at or after id. The parser calls it when it
// backtracks out of a construct.
func (a *Annotations) Forget(id int) {
	if id < len(a.ranges) {
		a.ranges = a.ranges[:id]
	}
}

func (a *Annotations) Len() int { return len(a.ranges) }

func (a *Annotations) Range(id int) (Range, bool) {
	if id < 0 || id >= len(a.ranges) || a.ranges[id].Begin < 0 {
		return Range{}, false
	}
	return a.ranges[id], true
}
