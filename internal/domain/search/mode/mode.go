package mode

// Mode is the ordering strategy of a listing query.
type Mode string

// Ordering mode constants, in precedence order.
const (
	// Ranked orders by the number of requested tags a document carries.
	Ranked Mode = "ranked"
	// Distance orders by geodesic distance from a point, nearest first.
	Distance Mode = "distance"
	// Sorted orders by explicit sort keys, or by the default key.
	Sorted Mode = "sorted"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Ranked || m == Distance || m == Sorted
}
