package crop

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/oukeidos/cropper/internal/apperrors"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Response is the tagged wire form of a crop outcome:
//
//	{"status":"ok","data":["<failed file>", ...]}
//	{"status":"error","error":"<message>"}
type Response struct {
	Status string   `json:"status"`
	Data   []string `json:"data,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// NewResponse builds the wire form of a Crop return value.
func NewResponse(res Result, err error) Response {
	if err != nil {
		return Response{Status: StatusError, Error: apperrors.PublicMessage(err)}
	}
	data := res.Failed
	if data == nil {
		data = []string{}
	}
	return Response{Status: StatusOK, Data: data}
}

// MarshalJSON always emits data for the ok variant, even when empty.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.Status == StatusOK {
		data := r.Data
		if data == nil {
			data = []string{}
		}
		return json.Marshal(struct {
			Status string   `json:"status"`
			Data   []string `json:"data"`
		}{r.Status, data})
	}
	type plain Response
	return json.Marshal(plain(r))
}

// Unpack converts the wire form back into a Crop return value. The error
// variant becomes a service error carrying the message verbatim.
func (r Response) Unpack() (Result, error) {
	switch r.Status {
	case StatusOK:
		failed := r.Data
		if failed == nil {
			failed = []string{}
		}
		return Result{Failed: failed}, nil
	case StatusError:
		return Result{}, apperrors.Service(r.Error)
	default:
		return Result{}, apperrors.Unavailable(fmt.Errorf("unknown response status %q", r.Status))
	}
}

func WriteResponse(w io.Writer, resp Response) error {
	enc := json.NewEncoder(w)
	return enc.Encode(resp)
}

func ReadResponse(r io.Reader) (Response, error) {
	var resp Response
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("decode crop response: %w", err)
	}
	return resp, nil
}
