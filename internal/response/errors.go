package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Scheduling ────────────────────────────────────────────────────
	ErrInvalidSession  ErrCode = "INVALID_SESSION"
	ErrRoomConflict    ErrCode = "ROOM_CONFLICT"
	ErrGroupConflict   ErrCode = "GROUP_CONFLICT"
	ErrDuplicateID     ErrCode = "DUPLICATE_SESSION_ID"
	ErrUnknownSlot     ErrCode = "UNKNOWN_SLOT"
	ErrDateDayMismatch ErrCode = "DATE_DAY_MISMATCH"
	ErrImportRejected  ErrCode = "IMPORT_REJECTED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Incorrect email or password."
	case ErrSessionInvalidated:
		return "Your session has ended. Please sign in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."

	// ─── Scheduling ────────────────────────────────────────────────────
	case ErrInvalidSession:
		return "The session is not valid for this facility or group."
	case ErrRoomConflict:
		return "The room is already booked at this time."
	case ErrGroupConflict:
		return "The group already has a session at this time."
	case ErrDuplicateID:
		return "A session with this ID is already scheduled."
	case ErrUnknownSlot:
		return "Unknown day or time slot."
	case ErrDateDayMismatch:
		return "The date does not fall on the requested day."
	case ErrImportRejected:
		return "The schedule file could not be imported."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
