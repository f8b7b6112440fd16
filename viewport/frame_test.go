package viewport

import "testing"

func TestFrameTracker(t *testing.T) {
	var tr FrameTracker
	tr.SetPage(1)

	if tr.Frame() != nil {
		t.Fatal("frame must be empty before decode")
	}
	if !tr.Resolve(1, Frame{Width: 612, Height: 792}) {
		t.Fatal("first resolve must succeed")
	}
	if tr.Resolve(1, Frame{Width: 1, Height: 1}) {
		t.Error("second resolve for the same page must be ignored")
	}
	if f := tr.Frame(); f == nil || f.Width != 612 {
		t.Errorf("Frame = %v", f)
	}

	tr.SetPage(2)
	if tr.Frame() != nil {
		t.Error("page change must clear the frame")
	}
	if tr.Resolve(1, Frame{Width: 612, Height: 792}) {
		t.Error("stale page frame must be ignored")
	}
	if !tr.Resolve(2, Frame{Width: 300, Height: 300}) {
		t.Error("frame for the new page must be accepted")
	}
}
