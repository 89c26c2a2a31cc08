package errors

var known = []*Exception{
	ErrTaskNotFound,
	ErrProjectNotFound,
	ErrNothingToUndo,
	ErrTitleRequired,
	ErrNameRequired,
	ErrInvalidJSON,
	ErrInvalidPriority,
	ErrInvalidPosition,
	ErrInvalidSettings,
	ErrInvalidEstimate,
	ErrAutoRotationActive,
	ErrPositionRequired,
	ErrInvalidCredentials,
	ErrEmailTaken,
	ErrCurrentPasswordRequired,
	ErrAccountNotFound,
	ErrNotLoggedIn,
	ErrInvalidToken,
	ErrInvalidEmail,
	ErrPasswordTooShort,
	ErrCouldNotSave,
	ErrRemoteUnavailable,
}

// FromResponse maps an error reported by the sync API back to the matching exception,
// so callers can keep using errors.Is across the wire.
func FromResponse(statusCode int, message string) error {
	for _, e := range known {
		if e.StatusCode == statusCode && e.Message == message {
			return e
		}
	}
	return &Exception{Message: message, StatusCode: statusCode}
}
