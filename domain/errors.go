package domain

import "fmt"

// Ledger errors. Callers match them with errors.Is, the ledger may wrap them with context.
var (
	ErrorUnauthorized      = fmt.Errorf("unauthorized")
	ErrorInvalidAddress    = fmt.Errorf("invalid address")
	ErrorNotFound          = fmt.Errorf("not found")
	ErrorAlreadyRegistered = fmt.Errorf("project already registered")
	ErrorNotRegistered     = fmt.Errorf("project not registered")
	ErrorOverflow          = fmt.Errorf("overflow")

	ErrorNotInitialized     = fmt.Errorf("ledger is not initialized")
	ErrorAlreadyInitialized = fmt.Errorf("ledger is already initialized")
	ErrorUnknownOperation   = fmt.Errorf("unknown operation")
)
