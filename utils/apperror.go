package utils

// Stable machine-checkable error codes. Clients and tests branch on these,
// never on the human-readable message.
const (
	CodeSettingsNotConfigured = "SETTINGS_NOT_CONFIGURED"
	CodeProfileNotConfigured  = "PROFILE_NOT_CONFIGURED"
	CodeAlreadyEarned         = "ALREADY_EARNED"
	CodeNoLeftover            = "NO_LEFTOVER"
	CodeInvalidPoints         = "INVALID_POINTS"
	CodeInsufficientBalance   = "INSUFFICIENT_BALANCE"
	CodeNotFound              = "NOT_FOUND"
	CodeNotAuthorized         = "NOT_AUTHORIZED"
	CodePotRedeemed           = "POT_REDEEMED"
	CodeEmailExists           = "EMAIL_EXISTS"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
)

// AppError is an intentional, user-facing failure. Anything else bubbling out
// of a service is treated as an internal error and surfaced generically.
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func NewAppError(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

func ErrNotFound(message string) *AppError {
	return NewAppError(404, CodeNotFound, message)
}

func ErrNotAuthorized() *AppError {
	return NewAppError(403, CodeNotAuthorized, "Not authorized")
}
