package errors

import "net/http"

var ErrInvalidCredentials = &Exception{
	Message:    "invalid email or password",
	StatusCode: http.StatusUnauthorized,
}

var ErrEmailTaken = &Exception{
	Message:    "an account with this email already exists",
	StatusCode: http.StatusConflict,
}

var ErrCurrentPasswordRequired = &Exception{
	Message:    "current password is required",
	StatusCode: http.StatusBadRequest,
}

var ErrAccountNotFound = &Exception{
	Message:    "account not found",
	StatusCode: http.StatusNotFound,
}

var ErrNotLoggedIn = &Exception{
	Message:    "not logged in",
	StatusCode: http.StatusUnauthorized,
}

var ErrInvalidToken = &Exception{
	Message:    "invalid token",
	StatusCode: http.StatusUnauthorized,
}

var ErrInvalidEmail = &Exception{
	Message:    "a valid email is required",
	StatusCode: http.StatusBadRequest,
}

var ErrPasswordTooShort = &Exception{
	Message:    "password must be at least 6 characters",
	StatusCode: http.StatusBadRequest,
}
