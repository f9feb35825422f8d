package pane

import (
	"testing"

	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geometry(w, h int) Geometry {
	return Geometry{
		Window:       types.Size{Width: w, Height: h},
		Chrome:       types.Chrome{PromptBarHeight: 100, SidebarWidth: 60},
		HeaderHeight: 32,
	}
}

func TestComputeColumns(t *testing.T) {
	slots := Compute(geometry(1000, 800), 3)
	require.Len(t, slots, 3)

	// 940 / 3 = 313 remainder 1, absorbed by the last column
	assert.Equal(t, types.Rect{X: 60, Y: 32, Width: 313, Height: 668}, slots[0].Bounds)
	assert.Equal(t, types.Rect{X: 373, Y: 32, Width: 313, Height: 668}, slots[1].Bounds)
	assert.Equal(t, types.Rect{X: 686, Y: 32, Width: 314, Height: 668}, slots[2].Bounds)

	assert.Equal(t, types.Rect{X: 686, Y: 0, Width: 314, Height: 32}, slots[2].Header)
}

func TestComputeWidthsSumToAvailable(t *testing.T) {
	for _, w := range []int{61, 300, 999, 1001, 2560} {
		for n := 1; n <= 9; n++ {
			g := geometry(w, 900)
			g.Chrome.RightDockWidth = 17
			slots := Compute(g, n)

			sum := 0
			for i, s := range slots {
				sum += s.Bounds.Width
				if i > 0 {
					assert.Equal(t, slots[i-1].Bounds.X+slots[i-1].Bounds.Width, s.Bounds.X, "columns are contiguous")
				}
			}
			avail := g.Available().Width
			if avail > 0 {
				assert.Equal(t, avail, sum, "w=%d n=%d", w, n)
			} else {
				assert.Zero(t, sum)
			}
		}
	}
}

func TestComputeDegenerateSpace(t *testing.T) {
	tests := []struct {
		name string
		g    Geometry
	}{
		{"zero window", Geometry{}},
		{"sidebar wider than window", geometry(50, 800)},
		{"prompt bar taller than window", geometry(800, 120)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range Compute(tt.g, 4) {
				assert.Equal(t, Slot{}, s)
			}
		})
	}

	assert.Nil(t, Compute(geometry(800, 600), 0))
}

func TestComputeIsIdempotent(t *testing.T) {
	g := geometry(1440, 900)
	assert.Equal(t, Compute(g, 5), Compute(g, 5))
}
