package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"seqtree-core/align"
	"seqtree-core/errs"
	"seqtree-core/matrix"
	"seqtree-core/seq"

	"seqtree/internal/writers"
	"seqtree/pkg/api"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads exactly one JSON object into dst and validates it.
func (s *Server) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return err
		}
		return errs.WrapMalformed(err, "request body")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errs.MalformedInput("request body: trailing data after JSON object")
	}
	if err := s.validate.Struct(dst); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			parts := make([]string, 0, len(ve))
			for _, fe := range ve {
				if fe.Param() != "" {
					parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
				} else {
					parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
				}
			}
			return errs.MalformedInput("request: %s", strings.Join(parts, "; "))
		}
		return errs.WrapMalformed(err, "request")
	}
	return nil
}

// aligner builds a per-request aligner; only the case policy may differ
// from the configured one.
func (s *Server) aligner(caseSensitive *bool) (*align.Aligner, error) {
	cfg := *s.cfg
	if caseSensitive != nil {
		cfg.Alignment.CaseSensitive = *caseSensitive
	}
	return cfg.NewAligner()
}

func (s *Server) build(w http.ResponseWriter, r *http.Request) {
	var req api.BuildRequestV1
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	recs, err := seq.ParseString(req.Text, seq.Format(req.Format))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	al, err := s.aligner(req.CaseSensitive)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	strategy := matrix.Strategy(s.cfg.Matrix.Strategy)
	if req.Strategy != "" {
		strategy = matrix.Strategy(req.Strategy)
	}

	log := s.log.With(zap.String("request_id", chimiddleware.GetReqID(r.Context())))
	b := *s.builder
	b.Logger = log

	start := time.Now()
	rep, res, err := b.Build(r.Context(), recs, al, strategy, req.Tree)
	if s.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		s.metrics.ObserveBuild(string(strategy), outcome, time.Since(start), res.Alignments, res.CacheHits)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, writers.ToAPIBuild(rep))
}

func (s *Server) align(w http.ResponseWriter, r *http.Request) {
	var req api.AlignRequestV1
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	al, err := s.aligner(req.CaseSensitive)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := al.Align(seq.StripSpace(req.A), seq.StripSpace(req.B))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if s.metrics != nil {
		s.metrics.Alignments.Inc()
	}
	respond(w, http.StatusOK, writers.ToAPIAlignment(res, al.CaseSensitive()))
}

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
