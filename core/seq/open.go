package seq

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open returns a reader over path, "-" meaning stdin. Gzip input is
// detected by magic number (1F 8B) or by a .gz suffix.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var sig [2]byte
	n, _ := fh.Read(sig[:])
	if _, err := fh.Seek(0, io.SeekStart); err != nil {
		_ = fh.Close()
		return nil, err
	}
	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	}
	return fh, nil
}

var fastaExts = map[string]bool{
	".fa": true, ".fasta": true, ".fas": true, ".fna": true, ".faa": true, ".ffn": true,
}

// DetectFormat guesses the input syntax from the file name, then from the
// first non-space byte of head. It reports false when neither is conclusive.
func DetectFormat(path string, head []byte) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSuffix(strings.ToLower(path), ".gz")))
	switch {
	case ext == ".json":
		return FormatJSON, true
	case fastaExts[ext]:
		return FormatFASTA, true
	}
	head = bytes.TrimLeft(head, " \t\r\n\ufeff")
	if len(head) == 0 {
		return "", false
	}
	switch head[0] {
	case '[':
		return FormatJSON, true
	case '>':
		return FormatFASTA, true
	}
	return "", false
}

// ReadFile opens path, resolves the format (auto when f is empty) and parses it.
func ReadFile(path string, f Format) ([]Record, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	br := bufio.NewReaderSize(rc, 64*1024)
	if f == "" {
		head, _ := br.Peek(512)
		var ok bool
		if f, ok = DetectFormat(path, head); !ok {
			f = FormatFASTA
		}
	}
	return Parse(br, f)
}
