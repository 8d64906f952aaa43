package errors

var (
	ErrCardNotFound = &DomainError{
		Code:    "CARD_NOT_FOUND",
		Message: "card not found",
	}
	ErrUserNotFound = &DomainError{
		Code:    "USER_NOT_FOUND",
		Message: "user not found",
	}
	ErrCardInvalid = &DomainError{
		Code:    "CARD_INVALID",
		Message: "card is inactive, blocked or expired",
	}
	ErrInvalidOperation = &DomainError{
		Code:    "INVALID_OPERATION",
		Message: "operation not permitted in current card state",
	}
	ErrOwnershipViolation = &DomainError{
		Code:    "OWNERSHIP_VIOLATION",
		Message: "both cards must belong to the current user",
	}
)
