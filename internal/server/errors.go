package server

import (
	"context"
	"errors"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"seqtree-core/errs"

	"seqtree/internal/appcore"
	"seqtree/internal/assembler"
	"seqtree/pkg/api"
)

// Error types reported in api.ErrorV1.Type besides the errs kinds.
const (
	TypeRequestTooLarge  = "REQUEST_TOO_LARGE"
	TypeAssemblerFailure = "ASSEMBLER_FAILURE"
	TypeNoAssembler      = "NO_ASSEMBLER"
	TypeCancelled        = "CANCELLED"
	TypeInternal         = "INTERNAL"
)

// classify maps an error onto an HTTP status and an ErrorV1 type.
func classify(err error) (int, string) {
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge, TypeRequestTooLarge
	case errors.Is(err, errs.ErrMalformedInput):
		return http.StatusBadRequest, string(errs.KindMalformedInput)
	case errors.Is(err, errs.ErrInsufficientData):
		return http.StatusUnprocessableEntity, string(errs.KindInsufficientData)
	case errors.Is(err, errs.ErrWorkloadExceeded):
		return http.StatusRequestEntityTooLarge, string(errs.KindWorkloadExceeded)
	case errors.Is(err, errs.ErrAlignmentFailure):
		return http.StatusInternalServerError, string(errs.KindAlignmentFailure)
	case errors.Is(err, assembler.ErrFailed):
		return http.StatusBadGateway, TypeAssemblerFailure
	case errors.Is(err, appcore.ErrNoAssembler):
		return http.StatusNotImplemented, TypeNoAssembler
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, TypeCancelled
	}
	return http.StatusInternalServerError, TypeInternal
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, typ := classify(err)
	id := chimiddleware.GetReqID(r.Context())
	lvl := s.log.Warn
	if status >= 500 {
		lvl = s.log.Error
	}
	lvl("request failed",
		zap.Error(err),
		zap.Int("status", status),
		zap.String("type", typ),
		zap.String("request_id", id))
	respond(w, status, api.ErrorV1{Error: err.Error(), Type: typ, RequestID: id})
}
