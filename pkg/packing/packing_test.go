package packing

import (
	"math/rand/v2"
	"testing"
)

func TestTileToRowsGrid(t *testing.T) {
	boxes := []Box{{10, 10}, {10, 10}, {10, 10}, {10, 10}}
	got := TileToRows{}.Pack(boxes, 1.0)
	want := []Offset{{0, 0}, {10, 0}, {0, 10}, {10, 10}}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("offset[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTileToRowsPageRatio(t *testing.T) {
	boxes := []Box{{10, 10}, {10, 10}, {10, 10}, {10, 10}}

	tests := []struct {
		name      string
		ratio     float64
		wantWidth float64
	}{
		{"wide page keeps one row", 4.0, 40},
		{"square page makes a grid", 1.0, 20},
		{"tall page stacks", 0.25, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offsets := TileToRows{}.Pack(boxes, tt.ratio)
			var w float64
			for i, o := range offsets {
				w = max(w, o.X+boxes[i].Width)
			}
			if w != tt.wantWidth {
				t.Errorf("page width = %v, want %v", w, tt.wantWidth)
			}
		})
	}
}

func TestTileToRowsInputOrder(t *testing.T) {
	// The tallest box is packed first regardless of its input position.
	boxes := []Box{{5, 5}, {30, 30}}
	got := TileToRows{}.Pack(boxes, 1.0)
	if got[1] != (Offset{0, 0}) {
		t.Errorf("offset of tallest box = %+v, want origin", got[1])
	}
	if len(got) != len(boxes) {
		t.Errorf("len(offsets) = %d, want %d", len(got), len(boxes))
	}
}

func TestTileToRowsEmpty(t *testing.T) {
	if got := (TileToRows{}).Pack(nil, 1.0); len(got) != 0 {
		t.Errorf("Pack(nil) = %v, want empty", got)
	}
}

func TestTileToRowsNoOverlap(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	for trial := range 50 {
		boxes := make([]Box, 1+rng.IntN(40))
		for i := range boxes {
			boxes[i] = Box{Width: 1 + rng.Float64()*100, Height: 1 + rng.Float64()*100}
		}
		ratio := 0.25 + rng.Float64()*3
		offsets := TileToRows{}.Pack(boxes, ratio)

		for i := range boxes {
			for j := i + 1; j < len(boxes); j++ {
				if overlaps(boxes[i], offsets[i], boxes[j], offsets[j]) {
					t.Fatalf("trial %d: boxes %d and %d overlap: %+v@%+v %+v@%+v",
						trial, i, j, boxes[i], offsets[i], boxes[j], offsets[j])
				}
			}
		}
	}
}

func overlaps(a Box, ao Offset, b Box, bo Offset) bool {
	const eps = 1e-9
	return ao.X+a.Width > bo.X+eps && bo.X+b.Width > ao.X+eps &&
		ao.Y+a.Height > bo.Y+eps && bo.Y+b.Height > ao.Y+eps
}
