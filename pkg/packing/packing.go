// Package packing arranges independently laid-out components on one page.
//
// A [Packer] receives the bounding-box size of every component and a target
// page aspect ratio (width / height) and returns one offset per component.
// Translating each component by its offset yields a layout in which no two
// boxes overlap. Boxes are assumed to start at the origin.
//
// [TileToRows] is the default packer: it fills rows of boxes sorted by
// decreasing height, opening a new row whenever that keeps the page closer to
// the requested ratio.
//
//	offsets := packing.TileToRows{}.Pack([]packing.Box{{Width: 40, Height: 20}, {Width: 10, Height: 10}}, 1.0)
package packing

import (
	"cmp"
	"slices"
)

// Box is the size of a component's bounding box.
type Box struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Offset is the translation applied to every node of one component.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Packer computes non-overlapping offsets for a sequence of boxes.
//
// Implementations must return exactly len(boxes) offsets, in input order.
type Packer interface {
	Pack(boxes []Box, pageRatio float64) []Offset
}

// TileToRows packs boxes into horizontal rows.
//
// Boxes are visited by decreasing height (ties keep input order). Each box is
// appended either to the currently narrowest row or to a new row at the
// bottom, whichever gives the smaller page for the requested ratio; a page of
// width W and height H counts as max(W, H*pageRatio). Ties favour the
// existing row.
type TileToRows struct{}

type row struct {
	width, height float64
	boxes         []int
}

// Pack implements Packer.
func (TileToRows) Pack(boxes []Box, pageRatio float64) []Offset {
	offsets := make([]Offset, len(boxes))
	if len(boxes) == 0 {
		return offsets
	}
	if pageRatio <= 0 {
		pageRatio = 1
	}

	order := make([]int, len(boxes))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(boxes[b].Height, boxes[a].Height)
	})

	var rows []*row
	var pageW, pageH float64
	cost := func(w, h float64) float64 { return max(w, h*pageRatio) }

	for _, i := range order {
		b := boxes[i]
		if len(rows) == 0 {
			rows = append(rows, &row{width: b.Width, height: b.Height, boxes: []int{i}})
			pageW, pageH = b.Width, b.Height
			continue
		}

		narrow := rows[0]
		for _, r := range rows[1:] {
			if r.width < narrow.width {
				narrow = r
			}
		}

		appendW := max(pageW, narrow.width+b.Width)
		appendH := pageH + max(0, b.Height-narrow.height)
		newW := max(pageW, b.Width)
		newH := pageH + b.Height

		if cost(appendW, appendH) <= cost(newW, newH) {
			narrow.boxes = append(narrow.boxes, i)
			narrow.width += b.Width
			narrow.height = max(narrow.height, b.Height)
			pageW, pageH = appendW, appendH
		} else {
			rows = append(rows, &row{width: b.Width, height: b.Height, boxes: []int{i}})
			pageW, pageH = newW, newH
		}
	}

	y := 0.0
	for _, r := range rows {
		x := 0.0
		for _, i := range r.boxes {
			offsets[i] = Offset{X: x, Y: y}
			x += boxes[i].Width
		}
		y += r.height
	}
	return offsets
}

// Ensure TileToRows implements Packer.
var _ Packer = TileToRows{}
