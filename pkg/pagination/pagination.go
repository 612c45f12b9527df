package pagination

import (
	"net/url"
	"strconv"

	pkgerrors "github.com/rb-dev78/tillpos/pkg/errors"
)

// MaxLimit caps how many products any listing can request.
const MaxLimit = 100

// Params holds paging inputs from controllers. A zero Limit means the
// full result set.
type Params struct {
	Limit  int
	Offset int
}

// ParseQuery reads the optional limit and offset query parameters.
func ParseQuery(values url.Values) (Params, error) {
	var params Params
	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return Params{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid limit %q", raw)
		}
		if limit > MaxLimit {
			limit = MaxLimit
		}
		params.Limit = limit
	}
	if raw := values.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return Params{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid offset %q", raw)
		}
		params.Offset = offset
	}
	return params, nil
}

// Window clips the range [Offset, Offset+Limit) to a list of the given
// length and returns the start and end indexes to slice with.
func Window(total int, params Params) (int, int) {
	start := params.Offset
	if start > total {
		start = total
	}
	end := total
	if params.Limit > 0 && start+params.Limit < end {
		end = start + params.Limit
	}
	return start, end
}
