// internal/common/errors/handler.go
package errors

// ErrorHandler turns handler errors into contained, user-visible replies.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleEventError logs err and returns the text to send back to the caller.
// Validation and not-found outcomes are expected and logged at warn level.
func (h *ErrorHandler) HandleEventError(taskType, eventID string, err error) string {
	stdErr := Normalize(err)
	if stdErr == nil {
		return ""
	}

	fields := map[string]interface{}{
		"taskType":      taskType,
		"eventId":       eventID,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}

	switch stdErr.Code {
	case ErrCodeValidationFailed, ErrCodeNotFound, ErrCodeAccessDenied, ErrCodeFileNotFound:
		h.logger.Warn("event rejected", fields)
	default:
		h.logger.Error("event failed", fields)
	}

	return UserMessage(stdErr)
}

// UserMessage renders err for a chat reply.
func UserMessage(err error) string {
	stdErr := Normalize(err)
	if stdErr == nil {
		return ""
	}
	switch stdErr.Code {
	case ErrCodeValidationFailed, ErrCodeAccessDenied, ErrCodeNotFound, ErrCodeFileNotFound:
		return "❌ " + stdErr.Message
	case ErrCodeRemoteUnavailable:
		return "❌ Service temporarily unavailable, please try again later."
	default:
		return "❌ Error: " + stdErr.Message
	}
}
