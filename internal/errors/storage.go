package errors

import "net/http"

var ErrCouldNotSave = &Exception{
	Message:    "could not save",
	StatusCode: http.StatusInsufficientStorage,
}

var ErrRemoteUnavailable = &Exception{
	Message:    "remote sync unavailable",
	StatusCode: http.StatusServiceUnavailable,
}
