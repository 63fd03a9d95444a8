package api

// AlignRequestV1 asks for one global alignment.
type AlignRequestV1 struct {
	A             string `json:"a"`
	B             string `json:"b"`
	CaseSensitive *bool  `json:"case_sensitive,omitempty"`
}

// AlignmentV1 is a finished two-sequence alignment.
type AlignmentV1 struct {
	AlignedA string  `json:"aligned_a"`
	AlignedB string  `json:"aligned_b"`
	Score    int     `json:"score"`
	Length   int     `json:"length"`
	Hamming  int     `json:"hamming"`
	Identity float64 `json:"identity"`
}

// ScoreV1 is an optimal global score without the alignment itself.
type ScoreV1 struct {
	Score int `json:"score"`
}
