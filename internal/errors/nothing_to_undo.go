package errors

import "net/http"

var ErrNothingToUndo = &Exception{
	Message:    "nothing to undo",
	StatusCode: http.StatusConflict,
}
