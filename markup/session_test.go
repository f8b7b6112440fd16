package markup

import (
	"errors"
	"testing"

	"github.com/mgmeyers/pdftakeoff/viewport"
)

func TestCalibrationFlow(t *testing.T) {
	s, _ := newTestStore()
	sess := NewSession(s)

	sess.SelectTool(ToolCalibrate)
	if sess.State() != CalibratingPoint1 {
		t.Fatalf("state = %v", sess.State())
	}

	sess.Click(Point{X: 0, Y: 0})
	if sess.State() != CalibratingPoint2 {
		t.Fatalf("state = %v", sess.State())
	}
	if _, ok := sess.PreviewDistance(); ok {
		t.Error("preview needs two points")
	}
	if sess.CanApplyCalibration("5") {
		t.Error("apply must be disabled with one point")
	}

	sess.Click(Point{X: 30, Y: 40})
	sess.Click(Point{X: 60, Y: 80}) // corrects point 2
	if sess.State() != CalibratingPoint2 {
		t.Fatalf("state = %v", sess.State())
	}
	if d, ok := sess.PreviewDistance(); !ok || d != 100 {
		t.Errorf("PreviewDistance = %g, %v", d, ok)
	}

	for _, bad := range []string{"", "  ", "abc", "0", "-3", "NaN", "Inf", "+Inf", "-Inf", "1e400"} {
		if sess.CanApplyCalibration(bad) {
			t.Errorf("CanApplyCalibration(%q) = true", bad)
		}
		if sess.ApplyCalibration(bad, "m") {
			t.Errorf("ApplyCalibration(%q) accepted", bad)
		}
	}
	if sess.State() != CalibratingPoint2 {
		t.Error("rejected apply must keep calibrating")
	}

	if !sess.ApplyCalibration("5", "m") {
		t.Fatal("ApplyCalibration failed")
	}
	if sess.State() != Idle {
		t.Errorf("state after apply = %v", sess.State())
	}

	c := s.Calibration()
	if c == nil || c.PixelDistance != 100 || c.RealWorldDistance != 5 || c.Unit != "m" {
		t.Errorf("calibration = %+v", c)
	}
}

func TestCancelCalibration(t *testing.T) {
	s, rec := newTestStore()
	sess := NewSession(s)

	sess.SelectTool(ToolCalibrate)
	sess.Click(Point{X: 1, Y: 1})
	sess.Click(Point{X: 2, Y: 2})
	sess.CancelCalibration()

	if sess.State() != Idle || len(sess.CalibrationPoints()) != 0 {
		t.Errorf("cancel left state %v points %v", sess.State(), sess.CalibrationPoints())
	}
	if s.Calibration() != nil || len(rec.updates) != 0 {
		t.Error("cancel must not calibrate")
	}
}

func TestPolylineCommit(t *testing.T) {
	s, _ := newTestStore()
	sess := NewSession(s)
	sess.SelectTool(ToolPolyline)

	sess.Click(Point{X: 0, Y: 0})
	if _, ok := sess.Finish(""); ok {
		t.Error("one point polyline committed")
	}
	if sess.State() != DrawingPolyline || len(sess.Pending()) != 1 {
		t.Error("failed commit must keep the tool and the shape")
	}

	sess.Click(Point{X: 10, Y: 0})
	id, ok := sess.Finish("Kerb")
	if !ok || id == "" {
		t.Fatal("commit failed")
	}
	if len(sess.Pending()) != 0 || sess.State() != DrawingPolyline {
		t.Error("commit must clear the pending shape and keep the tool")
	}
	if got := s.Polylines(); len(got) != 1 || got[0].Label != "Kerb" || got[0].Length() != 10 {
		t.Errorf("polylines = %+v", got)
	}
}

func TestPolygonCommitNeedsThree(t *testing.T) {
	s, _ := newTestStore()
	sess := NewSession(s)
	sess.SelectTool(ToolPolygon)

	sess.Click(Point{X: 0, Y: 0})
	sess.Click(Point{X: 4, Y: 0})
	if _, ok := sess.Finish(""); ok {
		t.Error("two point polygon committed")
	}

	sess.Click(Point{X: 0, Y: 3})
	if _, ok := sess.Finish(""); !ok {
		t.Fatal("three point polygon rejected")
	}
	if got := s.Polygons(); len(got) != 1 || got[0].Area() != 6 {
		t.Errorf("polygons = %+v", got)
	}
}

func TestSwitchToolDiscardsShape(t *testing.T) {
	s, rec := newTestStore()
	sess := NewSession(s)
	sess.SelectTool(ToolPolygon)
	sess.Click(Point{X: 0, Y: 0})
	sess.Click(Point{X: 1, Y: 0})

	sess.SelectTool(ToolPolyline)
	if len(sess.Pending()) != 0 {
		t.Error("switching tools must discard the unfinished shape")
	}
	if len(rec.updates) != 0 {
		t.Error("discarding must not touch the store")
	}
}

func TestUndoPoint(t *testing.T) {
	s, _ := newTestStore()
	sess := NewSession(s)
	sess.SelectTool(ToolPolyline)

	if sess.UndoPoint() {
		t.Error("nothing to undo")
	}
	sess.Click(Point{X: 0, Y: 0})
	sess.Click(Point{X: 1, Y: 0})
	if !sess.UndoPoint() || len(sess.Pending()) != 1 {
		t.Error("UndoPoint failed")
	}
}

func TestPlacingCounts(t *testing.T) {
	s, _ := newTestStore()
	sess := NewSession(s)
	sess.SelectTool(ToolCount)

	if sess.Click(Point{X: 5, Y: 5}) {
		t.Error("click without a type placed a marker")
	}

	sess.SetCountTool(CountTool{Type: "Socket", Icon: "plug", Color: "#00ff00"})
	sess.Click(Point{X: 5, Y: 5})
	sess.Click(Point{X: 6, Y: 6})

	if n := s.CountOf("Socket"); n != 2 {
		t.Fatalf("CountOf = %d", n)
	}
	if c := s.Counts()[1]; c.X != 6 || c.Icon != "plug" || c.Color != "#00ff00" {
		t.Errorf("marker = %+v", c)
	}
}

func TestIdleClickIsNoop(t *testing.T) {
	s, _ := newTestStore()
	sess := NewSession(s)

	if sess.Click(Point{X: 1, Y: 1}) {
		t.Error("idle click had an effect")
	}
}

func TestClickAtNeedsFrame(t *testing.T) {
	s, _ := newTestStore()
	sess := NewSession(s)
	sess.SelectTool(ToolPolyline)

	c := viewport.CanvasFor(viewport.Frame{Width: 100, Height: 100}, 2, 1, 0, 0)

	if _, err := sess.ClickAt(10, 10, c, nil); !errors.Is(err, viewport.ErrNoFrame) {
		t.Errorf("expected ErrNoFrame, got %v", err)
	}
	if len(sess.Pending()) != 0 {
		t.Error("click without frame must not add a point")
	}

	ok, err := sess.ClickAt(100, 50, c, &viewport.Frame{Width: 100, Height: 100})
	if err != nil || !ok {
		t.Fatalf("ClickAt = %v, %v", ok, err)
	}
	if p := sess.Pending()[0]; p != (Point{X: 50, Y: 25}) {
		t.Errorf("normalized point = %+v", p)
	}
}
