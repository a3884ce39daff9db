package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginatePartitionsRange(t *testing.T) {
	for pageSize := 1; pageSize <= 7; pageSize++ {
		for total := int64(0); total <= 40; total++ {
			first := Paginate(total, pageSize, 1)
			wantLast := int((total + int64(pageSize) - 1) / int64(pageSize))
			if wantLast < 1 {
				wantLast = 1
			}
			require.Equal(t, wantLast, first.LastPage, "size=%d total=%d", pageSize, total)

			seen := make([]int, total)
			for p := 1; p <= first.LastPage; p++ {
				w := Paginate(total, pageSize, p)
				assert.Equal(t, p, w.Page)
				for i := w.Offset; i < w.Offset+w.Limit; i++ {
					seen[i]++
				}
			}
			for i, n := range seen {
				assert.Equal(t, 1, n, "size=%d total=%d offset=%d covered %d times", pageSize, total, i, n)
			}
		}
	}
}

func TestPaginateClampsLowPages(t *testing.T) {
	want := Paginate(25, 10, 1)
	for _, p := range []int{0, -1, -100} {
		assert.Equal(t, want, Paginate(25, 10, p))
	}
}

func TestPaginateClampsHighPages(t *testing.T) {
	last := Paginate(25, 10, 3)
	assert.Equal(t, 3, last.LastPage)
	for _, p := range []int{4, 5, 1000} {
		assert.Equal(t, last, Paginate(25, 10, p))
	}
}

func TestPaginateWindow(t *testing.T) {
	w := Paginate(3, 2, 1)
	assert.Equal(t, Window{Offset: 0, Limit: 2, Page: 1, LastPage: 2, HasNext: true, HasPrev: false, Total: 3}, w)

	w = Paginate(3, 2, 2)
	assert.Equal(t, Window{Offset: 2, Limit: 1, Page: 2, LastPage: 2, HasNext: false, HasPrev: true, Total: 3}, w)
}

func TestPaginateEmpty(t *testing.T) {
	w := Paginate(0, 10, 5)
	assert.Equal(t, 1, w.Page)
	assert.Equal(t, 1, w.LastPage)
	assert.Equal(t, 0, w.Limit)
	assert.False(t, w.HasNext)
	assert.False(t, w.HasPrev)

	empty := Empty[int](10)
	assert.NotNil(t, empty.Items)
	assert.Len(t, empty.Items, 0)
}

func TestParsePage(t *testing.T) {
	tests := map[string]int{
		"":    1,
		"abc": 1,
		"0":   1,
		"-3":  1,
		"1":   1,
		"7":   7,
		"2.5": 1,
		" 2":  1,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ParsePage(raw), "raw=%q", raw)
	}
}
