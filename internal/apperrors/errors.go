package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
// Handlers map these to 404 Not Found.
var (
	// ErrAccountNotFound indicates that an account with the given ID does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrHoldingNotFound indicates that no holding exists for the given ID,
	// or that a sell targets an (account, fund) pair without a holding.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrConversionNotFound indicates that a conversion with the given ID does not exist.
	ErrConversionNotFound = errors.New("conversion not found")

	// ErrFundNotFound indicates that the market data provider does not know the fund code.
	ErrFundNotFound = errors.New("fund not found")

	// ErrNavNotFound indicates no published NAV for a specific fund and date combination.
	ErrNavNotFound = errors.New("nav not found")
)

// Business logic errors represent trades that cannot be executed under the settlement rules.
var (
	// ErrInvalidAmount indicates a non-positive amount, or an amount that leaves
	// nothing to convert into shares after the fee is deducted.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidNav indicates the confirmed NAV could not be resolved or was not positive.
	ErrInvalidNav = errors.New("invalid nav")

	// ErrInsufficientHolding indicates a sell larger than the holding's amount or shares.
	ErrInsufficientHolding = errors.New("insufficient holding")

	// ErrNegativeBalance indicates a ledger change that would drive a balance below zero.
	ErrNegativeBalance = errors.New("holding balance cannot be negative")

	// ErrHoldingExists indicates an attempt to seed a holding that is already present.
	ErrHoldingExists = errors.New("holding already exists")

	// ErrConcurrentHoldingUpdate indicates the holding changed between read and write.
	// The caller may retry the whole operation.
	ErrConcurrentHoldingUpdate = errors.New("holding was modified concurrently")

	// ErrSameFundConversion indicates a conversion whose source and target fund are the same.
	ErrSameFundConversion = errors.New("conversion source and target fund must differ")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrInvalidDate indicates a date parameter that is missing or malformed.
	ErrInvalidDate = errors.New("invalid date")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrieveAccounts     = errors.New("failed to retrieve accounts")
	ErrFailedToRetrieveAccount      = errors.New("failed to retrieve account")
	ErrFailedToRetrieveHoldings     = errors.New("failed to retrieve holdings")
	ErrFailedToRetrieveHolding      = errors.New("failed to retrieve holding")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveConversions  = errors.New("failed to retrieve conversions")
	ErrFailedToRetrieveNav          = errors.New("failed to retrieve nav")
	ErrFailedToRetrieveEstimate     = errors.New("failed to retrieve estimate")
	ErrFailedToRunSettlement        = errors.New("failed to run settlement")
	ErrFailedToGetVersionInfo       = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataIntegrity indicates stored rows that violate a structural rule,
	// for example a conversion missing one of its two legs.
	ErrDataIntegrity = errors.New("data integrity violation")
)
