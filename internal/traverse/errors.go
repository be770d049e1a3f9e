package traverse

import "fmt"

// SegmentError identifies the node a traverse stopped at. Err carries the
// underlying kind (lookup failure, domain violation, cancellation).
type SegmentError struct {
	Index    int
	Depth    float64
	Pressure float64
	Err      error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("segment %d (depth %.2f ft, pressure %.3f psia): %v", e.Index, e.Depth, e.Pressure, e.Err)
}

func (e *SegmentError) Unwrap() error {
	return e.Err
}
