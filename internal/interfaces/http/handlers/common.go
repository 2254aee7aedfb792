// Package handlers implements the InsightBoard HTTP API.
package handlers

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/turtacn/InsightBoard/internal/domain/query"
	"github.com/turtacn/InsightBoard/internal/domain/record"
	"github.com/turtacn/InsightBoard/pkg/errors"
	"github.com/turtacn/InsightBoard/pkg/types/common"
)

// Query parameter names.
const (
	ParamSearch   = "q"
	ParamSort     = "sort"
	ParamOrder    = "order"
	ParamPage     = "page"
	ParamPageSize = "page_size"
)

// writeJSON writes a JSON response with the given status code.  A body that
// cannot be encoded turns into a 500 error envelope.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	var buf bytes.Buffer
	if data != nil {
		if err := json.NewEncoder(&buf).Encode(data); err != nil {
			buf.Reset()
			statusCode = http.StatusInternalServerError
			_ = json.NewEncoder(&buf).Encode(common.ErrorDetail{
				Code:    string(errors.ErrCodeInternal),
				Message: errors.DefaultMessageForCode(errors.ErrCodeInternal),
			})
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
}

// writeError maps err to its HTTP status.  Errors without an application
// code are reported as internal and their text is not exposed.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == errors.CodeUnknown || code == errors.CodeOK {
		writeJSON(w, http.StatusInternalServerError, common.ErrorDetail{
			Code:    string(errors.ErrCodeInternal),
			Message: errors.DefaultMessageForCode(errors.ErrCodeInternal),
		})
		return
	}
	writeJSON(w, errors.HTTPStatusForCode(code), common.ErrorDetail{
		Code:    string(code),
		Message: publicMessage(err),
	})
}

// publicMessage is the outermost AppError message plus its detail.
func publicMessage(err error) string {
	var ae *errors.AppError
	if !stderrors.As(err, &ae) {
		return err.Error()
	}
	if ae.Detail != "" {
		return ae.Message + ": " + ae.Detail
	}
	return ae.Message
}

// parseFilters reads one value per facet key.  Unknown parameters are
// ignored.
func parseFilters(r *http.Request) record.FilterState {
	var filters record.FilterState
	values := r.URL.Query()
	for _, key := range record.Facets {
		if v := values.Get(string(key)); v != "" {
			filters.Set(key, v)
		}
	}
	return filters
}

// parseQuery builds a query from the request.  Omitted parameters take the
// defaults; malformed ones are validation errors.
func parseQuery(r *http.Request, defaultPageSize int) (query.Query, error) {
	q := query.DefaultQuery()
	if defaultPageSize > 0 {
		q.Page.Size = defaultPageSize
	}
	values := r.URL.Query()

	q.Filters = parseFilters(r)
	q.Search = values.Get(ParamSearch)

	if v := values.Get(ParamSort); v != "" {
		f, err := record.ParseColumn(v)
		if err != nil {
			return q, errors.InvalidParam(fmt.Sprintf("sort field %q is not a displayed column", v))
		}
		q.Sort.Field = f
	}
	if v := values.Get(ParamOrder); v != "" {
		d, err := query.ParseDirection(v)
		if err != nil {
			return q, errors.InvalidParam(fmt.Sprintf("sort order %q is invalid; expected asc|desc", v))
		}
		q.Sort.Direction = d
	}
	if v := values.Get(ParamPage); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return q, errors.InvalidParam("page must be a non-negative integer")
		}
		q.Page.Index = n
	}
	if v := values.Get(ParamPageSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return q, errors.InvalidParam("page_size must be a positive integer")
		}
		q.Page.Size = n
	}
	return q, nil
}

//Personal.AI order the ending
