// Package api holds the stable JSON wire types (v1).
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
package api

// RecordV1 is one named sequence, as accepted in JSON input.
type RecordV1 struct {
	Name     string `json:"name"`
	Sequence string `json:"sequence"`
}

// BuildRequestV1 asks for a distance matrix (and optionally a tree) from raw
// sequence text.
type BuildRequestV1 struct {
	Format        string `json:"format" validate:"required,oneof=fasta json"`
	Text          string `json:"text" validate:"required"`
	Strategy      string `json:"strategy,omitempty" validate:"omitempty,oneof=all-pairs reference"`
	CaseSensitive *bool  `json:"case_sensitive,omitempty"`
	Tree          bool   `json:"tree,omitempty"`
}

// BuildResultV1 is the renderer hand-off: labels in input order, the
// symmetric matrix, and the topology when one was assembled.
type BuildResultV1 struct {
	Labels    []string    `json:"labels"`
	Matrix    [][]float64 `json:"matrix"`
	LeafCount int         `json:"leaf_count"`
	Strategy  string      `json:"strategy"`
	Reference string      `json:"reference,omitempty"` // reference strategy only
	Newick    string      `json:"newick,omitempty"`
	Aligned   []RecordV1  `json:"aligned,omitempty"` // reference strategy only
}

// RowV1 is one matrix row, as streamed by the jsonl writer.
type RowV1 struct {
	Label     string    `json:"label"`
	Distances []float64 `json:"distances"`
}

// ErrorV1 is the body of every non-2xx HTTP response.
type ErrorV1 struct {
	Error     string `json:"error"`
	Type      string `json:"type"` // MALFORMED_INPUT | INSUFFICIENT_DATA | ...
	RequestID string `json:"request_id,omitempty"`
}
