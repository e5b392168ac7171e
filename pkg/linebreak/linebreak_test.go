package linebreak

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var end = NewPenalty(0, -Infinity)

type breakTester struct {
	objs    []Object
	lengths []int
	want    []int
}

func (b *breakTester) runTest(t *testing.T) {
	assert.Equal(t, b.want, Breakpoints(b.objs, b.lengths))
}

func TestBreakpoints(t *testing.T) {
	tests := map[string]*breakTester{
		"exact-fit": {
			objs:    []Object{NewBox(3), NewGlue(1), NewBox(3), NewGlue(1), NewBox(3), NewGlue(1), NewBox(3), end},
			lengths: []int{7},
			want:    []int{0, 3, 7},
		},
		"narrow-first-line": {
			objs:    []Object{NewBox(3), NewGlue(1), NewBox(3), NewGlue(1), NewBox(3), NewGlue(1), NewBox(3), end},
			lengths: []int{3, 11},
			want:    []int{0, 1, 7},
		},
		"single-line": {
			objs:    []Object{NewBox(2), NewGlue(1), NewBox(2), end},
			lengths: []int{40},
			want:    []int{0, 3},
		},
		"forced-break": {
			objs:    []Object{NewBox(3), NewGlue(1), NewBox(3), end, NewBox(3), end},
			lengths: []int{20},
			want:    []int{0, 3, 5},
		},
		"forbidden-break": {
			objs:    []Object{NewBox(3), NewPenalty(0, Infinity), NewBox(3), NewGlue(1), NewBox(3), end},
			lengths: []int{6},
			want:    []int{0, 3, 5},
		},
		"overfull-box": {
			objs:    []Object{NewBox(10), NewGlue(1), NewBox(2), end},
			lengths: []int{5},
			want:    []int{0, 1, 3},
		},
		"empty": {
			lengths: []int{10},
			want:    []int{0},
		},
	}

	for name, tt := range tests {
		t.Run(name, tt.runTest)
	}
}

// widths measures the lines between consecutive breaks the way the breaker
// does: leading glue is dropped and a penalty adds its width.
func widths(objs []Object, breaks []int) []int {
	var out []int
	for k := 0; k+1 < len(breaks); k++ {
		start, stop := breaks[k], breaks[k+1]
		for start < stop && objs[start].Kind != Box {
			start++
		}
		w := 0
		for _, o := range objs[start:stop] {
			if o.Kind != Penalty {
				w += o.Width
			}
		}
		if objs[stop].Kind == Penalty {
			w += objs[stop].Width
		}
		out = append(out, w)
	}
	return out
}

func TestFeasibility(t *testing.T) {
	var objs []Object
	for i := 0; i < 60; i++ {
		if i > 0 {
			objs = append(objs, NewGlue(1))
		}
		objs = append(objs, NewBox(1+i%4), NewPenalty(0, 5), NewBox(1+i%3))
	}
	objs = append(objs, end)

	for _, lengths := range [][]int{{10}, {6, 12}, {32}, {40, 20}} {
		breaks := Breakpoints(objs, lengths)
		require.NotEmpty(t, breaks)
		assert.Equal(t, 0, breaks[0])
		assert.Equal(t, len(objs)-1, breaks[len(breaks)-1])
		for line, w := range widths(objs, breaks) {
			limit := lengths[len(lengths)-1]
			if line < len(lengths) {
				limit = lengths[line]
			}
			assert.LessOrEqual(t, w, limit, "line %d of %v", line, lengths)
		}
	}
}

func TestForcedBreaksAlwaysTaken(t *testing.T) {
	var (
		objs   []Object
		forced []int
	)
	for i := 0; i < 12; i++ {
		objs = append(objs, NewBox(2), NewGlue(1), NewBox(3))
		if i%4 == 3 {
			forced = append(forced, len(objs))
			objs = append(objs, end)
		} else {
			objs = append(objs, NewGlue(1))
		}
	}

	breaks := Breakpoints(objs, []int{80})
	for _, f := range forced {
		assert.Contains(t, breaks, f)
	}
}

func TestNoLineLengths(t *testing.T) {
	assert.Panics(t, func() { Breakpoints(nil, nil) })
}
