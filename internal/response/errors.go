package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrSessionNotFound  ErrCode = "SESSION_NOT_FOUND"
	ErrQuestionNotFound ErrCode = "QUESTION_NOT_FOUND"
	ErrSessionLimit     ErrCode = "SESSION_LIMIT"

	// ─── Skip logic ────────────────────────────────────────────────────
	ErrSkipLogicConflict ErrCode = "SKIP_LOGIC_CONFLICT"
	ErrInvalidSkipTarget ErrCode = "INVALID_SKIP_TARGET"
	ErrIncompleteSurvey  ErrCode = "INCOMPLETE_SURVEY"
	ErrNoSibling         ErrCode = "NO_SIBLING"
	ErrOptionDisabled    ErrCode = "OPTION_DISABLED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
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
	case ErrSessionNotFound:
		return "Editing session not found or expired. Please reopen the survey."
	case ErrQuestionNotFound:
		return "Question not found in this survey."
	case ErrSessionLimit:
		return "Too many surveys are being edited right now. Please try again later."

	// ─── Skip logic ────────────────────────────────────────────────────
	case ErrSkipLogicConflict:
		return "This change would break skip logic. Please change the logic first."
	case ErrInvalidSkipTarget:
		return "Skip logic can only point to a later question."
	case ErrIncompleteSurvey:
		return "Some skip logic is incomplete."
	case ErrNoSibling:
		return "The question cannot be moved any further."
	case ErrOptionDisabled:
		return "Multi-step and display survey directly cannot both be enabled."

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
