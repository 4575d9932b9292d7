package layout

import (
	"reflect"
	"testing"

	"github.com/lumenforge/bic-simulator/model"
)

func TestBuild_DiskCell(t *testing.T) {
	lib := Build(model.DefaultParameters())
	if len(lib.Cells) != 2 {
		t.Fatalf("cells = %d, want 2", len(lib.Cells))
	}

	disk := lib.Cells[0]
	if disk.Name != DiskCellName {
		t.Fatalf("first cell = %q, want %q", disk.Name, DiskCellName)
	}
	if len(disk.Polygons) != 1 {
		t.Fatalf("disk polygons = %d, want 1", len(disk.Polygons))
	}
	poly := disk.Polygons[0]
	if poly.Layer != DiskLayer {
		t.Errorf("disk layer = %d, want %d", poly.Layer, DiskLayer)
	}
	// DiskPoints vertices plus the closing vertex, two coordinates each.
	if len(poly.XY) != 2*(DiskPoints+1) {
		t.Errorf("disk vertex coords = %d, want %d", len(poly.XY), 2*(DiskPoints+1))
	}
	if poly.XY[0] != poly.XY[len(poly.XY)-2] || poly.XY[1] != poly.XY[len(poly.XY)-1] {
		t.Error("disk polygon not closed")
	}
	// First vertex sits on the +x axis at the radius (202 nm).
	if poly.XY[0] != 202 || poly.XY[1] != 0 {
		t.Errorf("first vertex = (%d, %d), want (202, 0)", poly.XY[0], poly.XY[1])
	}
}

func TestBuild_TopCellArray(t *testing.T) {
	p := model.DefaultParameters()
	lib := Build(p)
	top := lib.Cells[1]
	if top.Name != TopCellName {
		t.Fatalf("second cell = %q, want %q", top.Name, TopCellName)
	}
	if len(top.Arrays) != 1 {
		t.Fatalf("array refs = %d, want 1", len(top.Arrays))
	}
	ref := top.Arrays[0]
	if ref.CellName != DiskCellName {
		t.Errorf("array references %q, want %q", ref.CellName, DiskCellName)
	}
	if ref.Cols != p.Cells || ref.Rows != 1 {
		t.Errorf("array grid = %dx%d, want %dx1", ref.Cols, ref.Rows, p.Cells)
	}
	if ref.ColPitchX != 600 || ref.ColPitchY != 0 {
		t.Errorf("column pitch = (%d, %d), want (600, 0)", ref.ColPitchX, ref.ColPitchY)
	}
}

func TestBuild_AlignmentMarks(t *testing.T) {
	p := model.DefaultParameters()
	lib := Build(p)
	marks := lib.Cells[1].Polygons
	if len(marks) != 4 {
		t.Fatalf("alignment marks = %d, want 4", len(marks))
	}

	// Bars sit at x in {-pitch, Cells*pitch} and y in {-pitch/2, +pitch/2},
	// each pitch/2 long and pitch/20 tall.
	wantCentres := map[[2]int32]bool{
		{-600, -300}:  false,
		{-600, 300}:   false,
		{12000, -300}: false,
		{12000, 300}:  false,
	}
	for _, m := range marks {
		if m.Layer != MarkLayer {
			t.Errorf("mark layer = %d, want %d", m.Layer, MarkLayer)
		}
		if len(m.XY) != 10 {
			t.Fatalf("mark vertex coords = %d, want 10 (closed rectangle)", len(m.XY))
		}
		cx := (m.XY[0] + m.XY[2]) / 2
		cy := (m.XY[1] + m.XY[5]) / 2
		key := [2]int32{cx, cy}
		seen, expected := wantCentres[key]
		if !expected {
			t.Fatalf("unexpected mark centre (%d, %d)", cx, cy)
		}
		if seen {
			t.Fatalf("duplicate mark centre (%d, %d)", cx, cy)
		}
		wantCentres[key] = true

		if width := m.XY[2] - m.XY[0]; width != 300 {
			t.Errorf("mark width = %d, want 300", width)
		}
		if height := m.XY[5] - m.XY[1]; height != 30 {
			t.Errorf("mark height = %d, want 30", height)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	p := model.DefaultParameters()
	if a, b := Build(p), Build(p); !reflect.DeepEqual(a, b) {
		t.Fatal("two builds of the same parameters differ")
	}
}
