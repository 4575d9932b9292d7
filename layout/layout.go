// Package layout builds the fabrication geometry of the scatterer array and
// serializes it to a GDSII stream file. Geometry generation is pure and
// deterministic; serialization is a separate step so the shape set can be
// inspected and tested without touching the binary format.
package layout

import (
	"math"

	"github.com/lumenforge/bic-simulator/model"
)

// Layer assignments and shape constants of the exported layout.
const (
	// DiskLayer carries the scatterer disks.
	DiskLayer = 1

	// MarkLayer carries the alignment marks.
	MarkLayer = 2

	// DiskPoints is the vertex count of the polygon approximating a disk.
	DiskPoints = 64

	// MarkSizeFraction scales the alignment bar length relative to the
	// lattice pitch.
	MarkSizeFraction = 0.5

	// markAspect divides the bar length to obtain its height.
	markAspect = 10

	// DatabaseUnit is the layout grid in metres (1 nm).
	DatabaseUnit = 1e-9
)

// Cell names used in the exported library.
const (
	DiskCellName = "DISK"
	TopCellName  = "TOP"
)

// Polygon is a closed boundary on a layer. XY holds interleaved x,y vertex
// coordinates in database units, with the first vertex repeated at the end.
type Polygon struct {
	Layer int
	XY    []int32
}

// ArrayRef instantiates a named cell on a rectangular grid. Pitches are in
// database units.
type ArrayRef struct {
	CellName   string
	Cols, Rows int
	X, Y       int32
	ColPitchX  int32
	ColPitchY  int32
	RowPitchX  int32
	RowPitchY  int32
}

// Cell is a named collection of boundaries and array references.
type Cell struct {
	Name     string
	Polygons []Polygon
	Arrays   []ArrayRef
}

// Library is a complete layout. Cells appear in definition order; referenced
// cells precede their referents.
type Library struct {
	Name  string
	Cells []Cell
}

// Build constructs the fabrication layout for the structure: a DISK cell
// holding one polygonal disk of the scatterer radius, and a TOP cell with a
// Cells-by-1 array of disks spaced by the pitch along x plus four alignment
// bars at the array extremities. Purely geometric; no manufacturability
// checks.
func Build(p model.ParameterSet) Library {
	disk := Cell{
		Name:     DiskCellName,
		Polygons: []Polygon{diskPolygon(p.Radius)},
	}

	pitch := toDB(p.Pitch)
	top := Cell{
		Name: TopCellName,
		Arrays: []ArrayRef{{
			CellName:  DiskCellName,
			Cols:      p.Cells,
			Rows:      1,
			ColPitchX: pitch,
		}},
	}

	// Alignment bars at both ends of the array, above and below the axis.
	barLen := MarkSizeFraction * p.Pitch
	for _, x := range []float64{-p.Pitch, float64(p.Cells) * p.Pitch} {
		for _, y := range []float64{-barLen, barLen} {
			top.Polygons = append(top.Polygons, rectangle(
				x-barLen/2, y-barLen/(2*markAspect),
				x+barLen/2, y+barLen/(2*markAspect),
				MarkLayer,
			))
		}
	}

	return Library{
		Name:  "BIC_ARRAY",
		Cells: []Cell{disk, top},
	}
}

// diskPolygon approximates a disk of the given radius (metres) centred at
// the origin by a DiskPoints-gon on DiskLayer.
func diskPolygon(radius float64) Polygon {
	xy := make([]int32, 0, 2*(DiskPoints+1))
	for k := 0; k < DiskPoints; k++ {
		theta := 2 * math.Pi * float64(k) / DiskPoints
		xy = append(xy, toDB(radius*math.Cos(theta)), toDB(radius*math.Sin(theta)))
	}
	xy = append(xy, xy[0], xy[1])
	return Polygon{Layer: DiskLayer, XY: xy}
}

// rectangle builds a closed axis-aligned boundary from two opposite corners
// in metres.
func rectangle(x0, y0, x1, y1 float64, layer int) Polygon {
	return Polygon{
		Layer: layer,
		XY: []int32{
			toDB(x0), toDB(y0),
			toDB(x1), toDB(y0),
			toDB(x1), toDB(y1),
			toDB(x0), toDB(y1),
			toDB(x0), toDB(y0),
		},
	}
}

// toDB converts metres to database units, rounding to the nearest grid step.
func toDB(metres float64) int32 {
	return int32(math.Round(metres / DatabaseUnit))
}
