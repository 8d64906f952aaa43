package errors

var (
	ErrTransactionNotFound = &DomainError{
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found",
	}
	ErrSameCardTransfer = &DomainError{
		Code:    "SAME_CARD_TRANSFER",
		Message: "cannot transfer to the same card",
	}
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "invalid amount",
	}
	ErrInsufficientFunds = &DomainError{
		Code:    "INSUFFICIENT_FUNDS",
		Message: "insufficient funds",
	}
	ErrTransferFailed = &DomainError{
		Code:    "TRANSFER_EXECUTION_FAILED",
		Message: "transfer execution failed",
	}
)
