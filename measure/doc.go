// Package measure is the geometry kernel behind every quantity pdftakeoff
// reports: segment distances, polyline lengths, polygon areas and their
// conversion to real-world units through a scale calibration.
//
// All coordinates are document-space units (PDF user space of the page the
// shape was drawn on). Nothing here depends on zoom, device pixel ratio or
// any rendering surface.
package measure
