package seq

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"seqtree-core/errs"
)

// jsonRecord is the accepted shape of one array element. Pointers tell
// "absent" apart from "empty".
type jsonRecord struct {
	Name     *string `json:"name"`
	Sequence *string `json:"sequence" validate:"required"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func schema() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

func parseJSON(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)

	var entries []*jsonRecord
	if err := dec.Decode(&entries); err != nil {
		return nil, errs.WrapMalformed(err, "json: expected an array of {name, sequence} objects")
	}
	if entries == nil {
		return nil, errs.MalformedInput("json: top-level value is null, want an array")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errs.MalformedInput("json: trailing data after top-level array")
	}

	recs := make([]Record, 0, len(entries))
	for i, e := range entries {
		if e == nil {
			return nil, errs.MalformedInput("json: element %d is null", i)
		}
		if err := schema().Struct(e); err != nil {
			return nil, errs.WrapMalformed(describe(err), "json: element %d", i)
		}
		name := DefaultName
		if e.Name != nil && *e.Name != "" {
			name = *e.Name
		}
		recs = append(recs, Record{Name: name, Seq: StripSpace(*e.Sequence)})
	}
	return recs, nil
}

// describe flattens validator output into "field: rule" pairs.
func describe(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(parts, "; "))
}
