package writers

import (
	"encoding/json"
	"io"

	"seqtree/internal/jsonlutil"
	"seqtree/internal/jsonutil"
	"seqtree/pkg/api"
)

func init() {
	Register("json", func(w io.Writer, r Report) error {
		return jsonutil.EncodePretty(w, ToAPIBuild(r))
	})
	Register("jsonl", WriteJSONL)
}

// WriteJSONL streams one api.RowV1 per taxon.
func WriteJSONL(w io.Writer, r Report) error {
	in, done := jsonlutil.Start[api.RowV1](w, 0,
		func(enc *json.Encoder, row api.RowV1) error { return enc.Encode(row) },
		IsBrokenPipe,
	)
	labels := r.Matrix.Labels()
	for i, row := range r.Matrix.Rows() {
		in <- api.RowV1{Label: labels[i], Distances: row}
	}
	close(in)
	return <-done
}
