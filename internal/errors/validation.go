package errors

import "net/http"

var ErrTitleRequired = &Exception{
	Message:    "title is required",
	StatusCode: http.StatusBadRequest,
}

var ErrNameRequired = &Exception{
	Message:    "name is required",
	StatusCode: http.StatusBadRequest,
}

var ErrInvalidJSON = &Exception{
	Message:    "invalid JSON payload",
	StatusCode: http.StatusBadRequest,
}

var ErrInvalidPriority = &Exception{
	Message:    "priority must be Low, Medium or High",
	StatusCode: http.StatusBadRequest,
}

var ErrInvalidPosition = &Exception{
	Message:    "position is out of range",
	StatusCode: http.StatusBadRequest,
}

var ErrInvalidSettings = &Exception{
	Message:    "auto priority hours must be greater than 0",
	StatusCode: http.StatusBadRequest,
}

var ErrAutoRotationActive = &Exception{
	Message:    "projects cannot be reordered while auto-rotation is enabled",
	StatusCode: http.StatusConflict,
}

var ErrInvalidEstimate = &Exception{
	Message:    "estimated time must not be negative",
	StatusCode: http.StatusBadRequest,
}

var ErrPositionRequired = &Exception{
	Message:    "position is required",
	StatusCode: http.StatusBadRequest,
}
