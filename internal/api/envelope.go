package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/chapteredapp/chaptered-server/internal/errors"
	"github.com/chapteredapp/chaptered-server/internal/http/response"
)

// EnvelopeTransformer wraps every response body in the {success, data}
// envelope. Errors become {success: false, error, code, details}.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	code, err := strconv.Atoi(status)
	if err != nil {
		return v, nil
	}

	switch body := v.(type) {
	case *APIError:
		return response.Failure(domainerrors.Code(body.Code), body.Message, body.Details), nil
	case error:
		if code >= 400 {
			return response.Failure(response.CodeForStatus(code), body.Error(), nil), nil
		}
	}

	return response.Wrap(code, v), nil
}
