package markup

import (
	"sort"

	"github.com/google/uuid"

	"github.com/mgmeyers/pdftakeoff/measure"
	"github.com/mgmeyers/pdftakeoff/pdfutils"
)

const (
	DefaultLineColor = "#e53935"
	DefaultAreaColor = "#1e88e5"
	DefaultIcon      = "circle"
)

// Listener receives exactly one update per logical mutation.
type Listener func(Update)

// Store owns the committed shapes of one set. It is used from a single
// goroutine and is not safe for concurrent use.
//
// Mutators report whether anything changed. Calls that change nothing,
// including repeated removals and edits of unknown ids, notify nobody.
type Store struct {
	set      *Set
	listener Listener
	labels   []string

	// NewID generates shape ids; replaced in tests.
	NewID func() string
}

// NewStore wraps set, which must already be in document space. A nil set
// starts empty.
func NewStore(set *Set, listener Listener) *Store {
	if set == nil {
		set = NewSet()
	}

	s := &Store{
		set:      set.Clone(),
		listener: listener,
		NewID:    func() string { return uuid.New().String() },
	}
	s.rebuildLabels()

	return s
}

// Snapshot returns a copy of the current set.
func (s *Store) Snapshot() *Set {
	return s.set.Clone()
}

// Calibration returns the current calibration, or nil.
func (s *Store) Calibration() *measure.Calibration {
	if s.set.Scale == nil {
		return nil
	}

	c := *s.set.Scale

	return &c
}

func (s *Store) notify(u Update) {
	s.rebuildLabels()

	if s.listener != nil {
		s.listener(u)
	}
}

func (s *Store) polylinesChanged() {
	l := clonePolylines(s.set.Polylines)
	s.notify(Update{Polylines: &l})
}

func (s *Store) polygonsChanged() {
	p := clonePolygons(s.set.Polygons)
	s.notify(Update{Polygons: &p})
}

func (s *Store) countsChanged() {
	c := append([]CountMarker{}, s.set.Counts...)
	s.notify(Update{Counts: &c})
}

func (s *Store) hasID(id string) bool {
	for _, l := range s.set.Polylines {
		if l.ID == id {
			return true
		}
	}
	for _, p := range s.set.Polygons {
		if p.ID == id {
			return true
		}
	}
	for _, c := range s.set.Counts {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) assignID(id string) (string, bool) {
	if id == "" {
		return s.NewID(), true
	}

	return id, !s.hasID(id)
}

func normalizeColor(color, fallback string) (string, bool) {
	if color == "" {
		return fallback, true
	}

	c, err := pdfutils.NormalizeColor(color)
	if err != nil {
		return "", false
	}

	return c, true
}

// AddPolyline commits a polyline. It needs at least two points and an id
// that is not already taken.
func (s *Store) AddPolyline(l Polyline) (Polyline, bool) {
	if len(l.Points) < 2 {
		return Polyline{}, false
	}

	var ok bool
	if l.ID, ok = s.assignID(l.ID); !ok {
		return Polyline{}, false
	}
	if l.Color, ok = normalizeColor(l.Color, DefaultLineColor); !ok {
		return Polyline{}, false
	}

	l.Label = pdfutils.CleanLabel(l.Label)
	l.Points = clonePoints(l.Points)

	s.set.Polylines = append(s.set.Polylines, l)
	s.polylinesChanged()

	return l, true
}

// AddPolygon commits a polygon. It needs at least three points.
func (s *Store) AddPolygon(p Polygon) (Polygon, bool) {
	if len(p.Points) < 3 {
		return Polygon{}, false
	}

	var ok bool
	if p.ID, ok = s.assignID(p.ID); !ok {
		return Polygon{}, false
	}
	if p.Color, ok = normalizeColor(p.Color, DefaultAreaColor); !ok {
		return Polygon{}, false
	}

	p.Label = pdfutils.CleanLabel(p.Label)
	p.Points = clonePoints(p.Points)

	s.set.Polygons = append(s.set.Polygons, p)
	s.polygonsChanged()

	return p, true
}

// AddCount places one marker. It needs a non-empty type. Without a color
// the marker takes the color of its type.
func (s *Store) AddCount(c CountMarker) (CountMarker, bool) {
	c.Type = pdfutils.CleanLabel(c.Type)
	if c.Type == "" {
		return CountMarker{}, false
	}

	var ok bool
	if c.ID, ok = s.assignID(c.ID); !ok {
		return CountMarker{}, false
	}
	if c.Color, ok = normalizeColor(c.Color, pdfutils.TypeColor(c.Type)); !ok {
		return CountMarker{}, false
	}
	if c.Icon == "" {
		c.Icon = DefaultIcon
	}

	c.Label = pdfutils.CleanLabel(c.Label)

	s.set.Counts = append(s.set.Counts, c)
	s.countsChanged()

	return c, true
}

// UpdateLabel relabels a shape.
func (s *Store) UpdateLabel(id string, kind Kind, label string) bool {
	label = pdfutils.CleanLabel(label)

	switch kind {
	case KindPolyline:
		for i := range s.set.Polylines {
			if s.set.Polylines[i].ID == id && s.set.Polylines[i].Label != label {
				s.set.Polylines[i].Label = label
				s.polylinesChanged()
				return true
			}
		}
	case KindPolygon:
		for i := range s.set.Polygons {
			if s.set.Polygons[i].ID == id && s.set.Polygons[i].Label != label {
				s.set.Polygons[i].Label = label
				s.polygonsChanged()
				return true
			}
		}
	case KindCount:
		for i := range s.set.Counts {
			if s.set.Counts[i].ID == id && s.set.Counts[i].Label != label {
				s.set.Counts[i].Label = label
				s.countsChanged()
				return true
			}
		}
	}

	return false
}

// UpdateColor recolors a shape. Invalid colors are rejected.
func (s *Store) UpdateColor(id string, kind Kind, color string) bool {
	color, err := pdfutils.NormalizeColor(color)
	if err != nil || color == "" {
		return false
	}

	switch kind {
	case KindPolyline:
		for i := range s.set.Polylines {
			if s.set.Polylines[i].ID == id && s.set.Polylines[i].Color != color {
				s.set.Polylines[i].Color = color
				s.polylinesChanged()
				return true
			}
		}
	case KindPolygon:
		for i := range s.set.Polygons {
			if s.set.Polygons[i].ID == id && s.set.Polygons[i].Color != color {
				s.set.Polygons[i].Color = color
				s.polygonsChanged()
				return true
			}
		}
	case KindCount:
		for i := range s.set.Counts {
			if s.set.Counts[i].ID == id && s.set.Counts[i].Color != color {
				s.set.Counts[i].Color = color
				s.countsChanged()
				return true
			}
		}
	}

	return false
}

// UpdateIcon changes the icon of one count marker.
func (s *Store) UpdateIcon(countID string, icon string) bool {
	if icon == "" {
		return false
	}

	for i := range s.set.Counts {
		if s.set.Counts[i].ID == countID && s.set.Counts[i].Icon != icon {
			s.set.Counts[i].Icon = icon
			s.countsChanged()
			return true
		}
	}

	return false
}

// RemoveByID deletes a shape. Removing an unknown id is a no-op.
func (s *Store) RemoveByID(id string, kind Kind) bool {
	switch kind {
	case KindPolyline:
		for i := range s.set.Polylines {
			if s.set.Polylines[i].ID == id {
				s.set.Polylines = append(s.set.Polylines[:i], s.set.Polylines[i+1:]...)
				s.polylinesChanged()
				return true
			}
		}
	case KindPolygon:
		for i := range s.set.Polygons {
			if s.set.Polygons[i].ID == id {
				s.set.Polygons = append(s.set.Polygons[:i], s.set.Polygons[i+1:]...)
				s.polygonsChanged()
				return true
			}
		}
	case KindCount:
		for i := range s.set.Counts {
			if s.set.Counts[i].ID == id {
				s.set.Counts = append(s.set.Counts[:i], s.set.Counts[i+1:]...)
				s.countsChanged()
				return true
			}
		}
	}

	return false
}

// RemoveCountsByType deletes a whole group.
func (s *Store) RemoveCountsByType(countType string) bool {
	kept := s.set.Counts[:0:0]
	for _, c := range s.set.Counts {
		if c.Type != countType {
			kept = append(kept, c)
		}
	}

	if len(kept) == len(s.set.Counts) {
		return false
	}

	s.set.Counts = kept
	s.countsChanged()

	return true
}

// RenameCountType moves every marker of one type to another in a single
// mutation. Renaming onto an existing type merges the two groups.
func (s *Store) RenameCountType(from, to string) bool {
	to = pdfutils.CleanLabel(to)
	if to == "" || from == to {
		return false
	}

	changed := false
	for i := range s.set.Counts {
		if s.set.Counts[i].Type == from {
			s.set.Counts[i].Type = to
			changed = true
		}
	}

	if changed {
		s.countsChanged()
	}

	return changed
}

// RestyleCountType sets icon and color on every marker of a type. Empty
// values leave that field alone.
func (s *Store) RestyleCountType(countType, icon, color string) bool {
	color, err := pdfutils.NormalizeColor(color)
	if err != nil {
		return false
	}

	changed := false
	for i := range s.set.Counts {
		c := &s.set.Counts[i]
		if c.Type != countType {
			continue
		}
		if icon != "" && c.Icon != icon {
			c.Icon = icon
			changed = true
		}
		if color != "" && c.Color != color {
			c.Color = color
			changed = true
		}
	}

	if changed {
		s.countsChanged()
	}

	return changed
}

// SetCalibration replaces the scale. Calibrations without finite, positive
// distances are rejected.
func (s *Store) SetCalibration(c measure.Calibration) bool {
	if !c.Valid() || c.RealWorldDistance <= 0 {
		return false
	}

	c.Unit = measure.CanonicalUnit(c.Unit)
	if s.set.Scale != nil && *s.set.Scale == c {
		return false
	}

	s.set.Scale = &c
	scale := c
	s.notify(Update{Scale: &scale})

	return true
}

// Polylines returns a copy of the committed polylines.
func (s *Store) Polylines() []Polyline {
	return clonePolylines(s.set.Polylines)
}

// Polygons returns a copy of the committed polygons.
func (s *Store) Polygons() []Polygon {
	return clonePolygons(s.set.Polygons)
}

// Counts returns a copy of the placed markers.
func (s *Store) Counts() []CountMarker {
	return append([]CountMarker{}, s.set.Counts...)
}

// CountsByType returns the distinct count types in lexicographic order.
func (s *Store) CountsByType() []string {
	seen := map[string]bool{}
	types := []string{}

	for _, c := range s.set.Counts {
		if !seen[c.Type] {
			seen[c.Type] = true
			types = append(types, c.Type)
		}
	}

	sort.Strings(types)

	return types
}

// CountOf returns how many markers have the given type.
func (s *Store) CountOf(countType string) int {
	n := 0
	for _, c := range s.set.Counts {
		if c.Type == countType {
			n++
		}
	}
	return n
}

// CountGroup is the aggregate view of one count type. Icon and Color come
// from the most recently placed marker of the group.
type CountGroup struct {
	Type   string
	Count  int
	Icon   string
	Color  string
	Labels []string
}

// Groups aggregates markers by type, ordered by type.
func (s *Store) Groups() []CountGroup {
	return GroupCounts(s.set.Counts)
}

// GroupCounts aggregates markers by type, ordered by type.
func GroupCounts(counts []CountMarker) []CountGroup {
	byType := map[string]*CountGroup{}
	labels := map[string]map[string]bool{}

	for _, c := range counts {
		g, ok := byType[c.Type]
		if !ok {
			g = &CountGroup{Type: c.Type}
			byType[c.Type] = g
			labels[c.Type] = map[string]bool{}
		}

		g.Count++
		g.Icon = c.Icon
		g.Color = c.Color

		if c.Label != "" && !labels[c.Type][c.Label] {
			labels[c.Type][c.Label] = true
			g.Labels = append(g.Labels, c.Label)
		}
	}

	groups := make([]CountGroup, 0, len(byType))
	for _, g := range byType {
		sort.Strings(g.Labels)
		groups = append(groups, *g)
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Type < groups[j].Type })

	return groups
}

// UsedLabels returns every label in use, sorted and de-duplicated. It is a
// cache rebuilt after each mutation.
func (s *Store) UsedLabels() []string {
	return append([]string(nil), s.labels...)
}

func (s *Store) rebuildLabels() {
	seen := map[string]bool{}
	labels := []string{}

	add := func(l string) {
		if l != "" && !seen[l] {
			seen[l] = true
			labels = append(labels, l)
		}
	}

	for _, l := range s.set.Polylines {
		add(l.Label)
	}
	for _, p := range s.set.Polygons {
		add(p.Label)
	}
	for _, c := range s.set.Counts {
		add(c.Label)
	}

	sort.Strings(labels)
	s.labels = labels
}
