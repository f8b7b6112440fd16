package viewport

// FrameTracker holds the document-space frame of the page currently shown.
// Changing page clears the frame; it is filled in exactly once, when that
// page finishes decoding.
type FrameTracker struct {
	page  int
	frame *Frame
}

// SetPage makes n the active page and forgets the previous frame.
func (t *FrameTracker) SetPage(n int) {
	t.page = n
	t.frame = nil
}

// Page returns the active page number.
func (t *FrameTracker) Page() int {
	return t.page
}

// Resolve records the frame for page n. It is ignored when n is no longer
// the active page or the frame was already recorded.
func (t *FrameTracker) Resolve(n int, f Frame) bool {
	if n != t.page || t.frame != nil || !f.usable() {
		return false
	}

	t.frame = &f

	return true
}

// Frame returns the active frame, or nil while the page is still decoding.
func (t *FrameTracker) Frame() *Frame {
	if t.frame == nil {
		return nil
	}

	f := *t.frame

	return &f
}
