package models

// VisibilityRequest carries the viewport and tab visibility signals. Omitted
// fields keep their previous value.
type VisibilityRequest struct {
	InView     *bool `json:"in_view"`
	TabVisible *bool `json:"tab_visible"`
}

// MeasureRequest reports the insights panel dimensions in pixels.
type MeasureRequest struct {
	ContentHeight  float64 `json:"content_height" validate:"gte=0"`
	ViewportHeight float64 `json:"viewport_height" validate:"gte=0"`
}
