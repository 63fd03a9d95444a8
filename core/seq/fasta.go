package seq

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"seqtree-core/errs"
)

// maxLine allows very long single-line sequences (64 MiB).
const maxLine = 64 * 1024 * 1024

// parseFASTA scans header/sequence lines. Lines are trimmed before the '>'
// test, blank lines are skipped and data before the first header is dropped.
func parseFASTA(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		recs    []Record
		name    string
		inRec   bool
		pending bytes.Buffer
	)

	flush := func() {
		if !inRec {
			return
		}
		recs = append(recs, Record{Name: name, Seq: StripSpace(pending.String())})
		pending.Reset()
	}

	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			flush()
			name = strings.TrimSpace(string(line[1:]))
			if name == "" {
				name = DefaultName
			}
			inRec = true
			continue
		}
		if inRec {
			pending.Write(line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errs.WrapMalformed(err, "fasta scan")
	}
	flush()

	if len(recs) == 0 {
		return []Record{}, errs.MalformedInput("fasta: no '>' header line found")
	}
	return recs, nil
}
