package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"syscall"

	"github.com/swapmeet/swapmeet/errs"
	"github.com/swapmeet/swapmeet/types"
	"github.com/swapmeet/swapmeet/validator"
)

var errBadRequest = errors.New("bad request")
var errStreamingUnsupported = errors.New("streaming unsupported")

func (h *Handler) respond(w http.ResponseWriter, v any, statusCode int) {
	b, err := json.Marshal(v)
	if err != nil {
		h.respondErr(w, fmt.Errorf("json marshal response body: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write(b); err != nil && !errors.Is(err, syscall.EPIPE) && !errors.Is(err, context.Canceled) {
		h.Logger.Error("write response", "err", err)
	}
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	statusCode := err2code(err)
	if statusCode == http.StatusInternalServerError {
		if !errors.Is(err, context.Canceled) {
			h.Logger.Error("got error", "err", err)
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Error(w, err.Error(), statusCode)
}

func err2code(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if errors.Is(err, errBadRequest) {
		return http.StatusBadRequest
	}

	if errors.Is(err, errStreamingUnsupported) {
		return http.StatusExpectationFailed
	}

	var errValidator *validator.Validator
	if errors.As(err, &errValidator) {
		return http.StatusUnprocessableEntity
	}

	var errTypes *errs.Error
	if errors.As(err, &errTypes) {
		switch errTypes.Kind {
		case errs.KindInvalidArgument:
			return http.StatusUnprocessableEntity
		case errs.KindNotFound:
			return http.StatusNotFound
		case errs.KindAlreadyExists:
			return http.StatusConflict
		case errs.KindFailedPrecondition:
			return http.StatusConflict
		case errs.KindPermissionDenied:
			return http.StatusForbidden
		case errs.KindUnauthenticated:
			return http.StatusUnauthorized
		}
	}

	return http.StatusInternalServerError
}

func (h *Handler) writeSSE(w io.Writer, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.Logger.Error("json marshal sse data", "err", err)
		if _, err := fmt.Fprintf(w, "event: error\ndata: %v\n\n", err); err != nil && !errors.Is(err, syscall.EPIPE) {
			h.Logger.Error("write sse error", "err", err)
		}
		return
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil && !errors.Is(err, syscall.EPIPE) {
		h.Logger.Error("write sse data", "err", err)
	}
}

func parsePageArgs(q url.Values) (types.PageArgs, error) {
	var pageArgs types.PageArgs

	if q.Has("first") {
		first, err := strconv.ParseUint(q.Get("first"), 10, 32)
		if err != nil {
			return pageArgs, errs.NewInvalidArgumentError("first", "Invalid first page arg")
		}

		pageArgs.First = new(uint(first))
	}

	if q.Has("after") {
		pageArgs.After = new(q.Get("after"))
	}

	if q.Has("last") {
		last, err := strconv.ParseUint(q.Get("last"), 10, 32)
		if err != nil {
			return pageArgs, errs.NewInvalidArgumentError("last", "Invalid last page arg")
		}

		pageArgs.Last = new(uint(last))
	}

	if q.Has("before") {
		pageArgs.Before = new(q.Get("before"))
	}

	return pageArgs, nil
}
