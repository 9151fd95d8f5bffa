package region

import (
	"iter"
	"time"
)

// Point is one entry of an exported series.
type Point struct {
	Date     string `json:"date"`
	Infected int    `json:"infected"`
}

// Series yields (date, infected) pairs in ascending date order.
// Dates without data are absent. Each range over the sequence starts from the beginning.
func (r *Region) Series() iter.Seq2[time.Time, int] {
	return func(yield func(time.Time, int) bool) {
		for _, d := range r.Dates() {
			if !yield(d, r.stats[d].Infected()) {
				return
			}
		}
	}
}

// Points materializes Series with dates formatted as MM/DD/YYYY.
func (r *Region) Points() []Point {
	points := make([]Point, 0, len(r.stats))
	for d, n := range r.Series() {
		points = append(points, Point{Date: FormatDate(d), Infected: n})
	}
	return points
}
