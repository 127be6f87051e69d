package models

import "image"

// StreamData holds the metadata of one image from the left stream.
// The image travels alongside; only the metadata is written to stream.txt.
type StreamData struct {
	FrameID      uint64      `json:"frame_id"`
	Timestamp    float64     `json:"timestamp"`     // device clock
	ExposureTime float64     `json:"exposure_time"` // ms
	Image        *image.Gray `json:"-"`             // raw pixels, saved separately
}

// Columns returns the ordered column names for stream.txt.
func (StreamData) Columns() []string {
	return []string{"frame_id", "timestamp", "exposure_time"}
}

// Row serialises the metadata of one frame.
func (d *StreamData) Row(nf NumberFormat) []string {
	return []string{
		utoa64(d.FrameID),
		nf.Float(d.Timestamp),
		nf.Float(d.ExposureTime),
	}
}
