package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels int           // Total number of pixels rendered
	Hits        int           // Pixels whose ray hit a shape
	Misses      int           // Pixels that fell through to the background
	Workers     int           // Number of goroutines used
	Elapsed     time.Duration // Wall time of the render
}

// rowStats counts what a single row contributed
type rowStats struct {
	hits   int
	misses int
}

// merge adds one row's counts into the totals
func (s *RenderStats) merge(row rowStats) {
	s.Hits += row.hits
	s.Misses += row.misses
}

// HitRatio returns the fraction of pixels that hit a shape
func (s RenderStats) HitRatio() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.TotalPixels)
}
