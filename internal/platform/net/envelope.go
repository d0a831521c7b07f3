package net

import (
	"net/http"

	perr "replyguard/internal/platform/errors"
)

// Envelope is the body every endpoint answers with
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// Reply builds the envelope for a handler outcome. A non nil err wins over data
// and picks the status from its project error code
func Reply(status int, data any, err error, reqID string) (int, Envelope) {
	if err != nil {
		status = perr.HTTPStatus(err)
		w := perr.WireFrom(err)
		return status, Envelope{
			StatusCode: status,
			Status:     http.StatusText(status),
			Code:       w.Code,
			Error:      w.Message,
			Field:      w.Field,
			RequestID:  reqID,
		}
	}
	if status == 0 {
		status = http.StatusOK
	}
	return status, Envelope{
		StatusCode: status,
		Status:     http.StatusText(status),
		RequestID:  reqID,
		Data:       data,
	}
}
