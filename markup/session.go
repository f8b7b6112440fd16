package markup

import (
	"math"
	"strconv"
	"strings"

	"github.com/mgmeyers/pdftakeoff/measure"
	"github.com/mgmeyers/pdftakeoff/viewport"
)

// Tool is the active markup tool.
type Tool int

const (
	ToolNone Tool = iota
	ToolCalibrate
	ToolPolyline
	ToolPolygon
	ToolCount
)

// State is the interaction state of a session.
type State int

const (
	Idle State = iota
	CalibratingPoint1
	CalibratingPoint2
	DrawingPolyline
	DrawingPolygon
	PlacingCounts
)

func (s State) String() string {
	switch s {
	case CalibratingPoint1:
		return "calibrating-point-1"
	case CalibratingPoint2:
		return "calibrating-point-2"
	case DrawingPolyline:
		return "drawing-polyline"
	case DrawingPolygon:
		return "drawing-polygon"
	case PlacingCounts:
		return "placing-counts"
	}
	return "idle"
}

// CountTool is the marker style applied by clicks in PlacingCounts.
type CountTool struct {
	Type  string
	Icon  string
	Color string
}

// Session is the drawing state of one open document view. Nothing in it
// is persisted; only committed shapes reach the store.
type Session struct {
	store *Store
	state State

	pending []Point
	calib   []Point
	count   CountTool
}

// NewSession starts an idle session committing into store.
func NewSession(store *Store) *Session {
	return &Session{store: store}
}

// Store returns the store shapes are committed to.
func (s *Session) Store() *Store {
	return s.store
}

// State returns the current interaction state.
func (s *Session) State() State {
	return s.state
}

// SelectTool switches tools. Any shape under construction and any
// calibration points are discarded.
func (s *Session) SelectTool(t Tool) {
	s.pending = nil
	s.calib = nil

	switch t {
	case ToolCalibrate:
		s.state = CalibratingPoint1
	case ToolPolyline:
		s.state = DrawingPolyline
	case ToolPolygon:
		s.state = DrawingPolygon
	case ToolCount:
		s.state = PlacingCounts
	default:
		s.state = Idle
	}
}

// SetCountTool sets the type, icon and color of markers placed from now on.
func (s *Session) SetCountTool(c CountTool) {
	s.count = c
}

// CountTool returns the current marker style.
func (s *Session) CountTool() CountTool {
	return s.count
}

// Click handles a click at a document-space point. It reports whether the
// click had any effect.
func (s *Session) Click(p Point) bool {
	switch s.state {
	case CalibratingPoint1:
		s.calib = []Point{p}
		s.state = CalibratingPoint2
		return true
	case CalibratingPoint2:
		// a further click replaces the second point
		s.calib = []Point{s.calib[0], p}
		return true
	case DrawingPolyline, DrawingPolygon:
		s.pending = append(s.pending, p)
		return true
	case PlacingCounts:
		_, ok := s.store.AddCount(CountMarker{
			X:     p.X,
			Y:     p.Y,
			Type:  s.count.Type,
			Icon:  s.count.Icon,
			Color: s.count.Color,
		})
		return ok
	}

	return false
}

// ClickAt normalizes a pointer position before handling it. Without an
// active page frame there is no point and the click is refused.
func (s *Session) ClickAt(clientX, clientY float64, c viewport.Canvas, f *viewport.Frame) (bool, error) {
	p, err := viewport.Normalize(clientX, clientY, c, f)
	if err != nil {
		return false, err
	}

	return s.Click(PointFrom(p)), nil
}

// UndoPoint drops the last point of the shape under construction.
func (s *Session) UndoPoint() bool {
	if len(s.pending) == 0 {
		return false
	}

	s.pending = s.pending[:len(s.pending)-1]

	return true
}

// Pending returns the points of the shape under construction.
func (s *Session) Pending() []Point {
	return clonePoints(s.pending)
}

// Finish commits the shape under construction with an optional label.
// Too few points leave the tool active and the shape in place.
func (s *Session) Finish(label string) (string, bool) {
	var (
		id string
		ok bool
	)

	switch s.state {
	case DrawingPolyline:
		var l Polyline
		l, ok = s.store.AddPolyline(Polyline{Points: s.pending, Label: label})
		id = l.ID
	case DrawingPolygon:
		var p Polygon
		p, ok = s.store.AddPolygon(Polygon{Points: s.pending, Label: label})
		id = p.ID
	}

	if ok {
		s.pending = nil
	}

	return id, ok
}

// CalibrationPoints returns the points picked so far.
func (s *Session) CalibrationPoints() []Point {
	return clonePoints(s.calib)
}

// PreviewDistance returns the document-space distance between the two
// calibration points once both are set.
func (s *Session) PreviewDistance() (float64, bool) {
	if len(s.calib) != 2 {
		return 0, false
	}

	return measure.Distance(s.calib[0].R2(), s.calib[1].R2()), true
}

func parseDistance(distance string) (float64, bool) {
	distance = strings.TrimSpace(distance)
	if distance == "" {
		return 0, false
	}

	d, err := strconv.ParseFloat(distance, 64)
	if err != nil || d <= 0 || math.IsInf(d, 0) || math.IsNaN(d) {
		return 0, false
	}

	return d, true
}

// CanApplyCalibration reports whether ApplyCalibration would succeed.
func (s *Session) CanApplyCalibration(distance string) bool {
	px, ok := s.PreviewDistance()
	if !ok || px <= 0 {
		return false
	}

	_, ok = parseDistance(distance)

	return ok
}

// ApplyCalibration stores the scale defined by the two calibration points
// and the declared real-world distance, then returns to Idle.
func (s *Session) ApplyCalibration(distance, unit string) bool {
	if !s.CanApplyCalibration(distance) {
		return false
	}

	px, _ := s.PreviewDistance()
	realDist, _ := parseDistance(distance)

	s.store.SetCalibration(measure.Calibration{
		PixelDistance:     px,
		RealWorldDistance: realDist,
		Unit:              unit,
	})

	s.calib = nil
	s.state = Idle

	return true
}

// CancelCalibration discards both points and returns to Idle.
func (s *Session) CancelCalibration() {
	if s.state != CalibratingPoint1 && s.state != CalibratingPoint2 {
		return
	}

	s.calib = nil
	s.state = Idle
}

// UsedLabels returns the labels offered for autocomplete.
func (s *Session) UsedLabels() []string {
	return s.store.UsedLabels()
}
