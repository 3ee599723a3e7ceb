package data

// GeneratedDataHeaders describes the shape of a generated dataset: its tag
// columns (with serialized types) and the field columns per measurement.
type GeneratedDataHeaders struct {
	TagTypes  []string
	TagKeys   []string
	FieldKeys map[string][]string
}
