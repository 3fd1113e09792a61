package core

import "errors"

// Transaction rejection errors, per §4.4 step 2: a hard reject with
// no state change, distinct from an in-execution revert (which still
// produces a receipt).
var (
	ErrInvalidSender      = errors.New("core: invalid transaction signature")
	ErrNonceMismatch      = errors.New("core: sender nonce mismatch")
	ErrInsufficientFunds  = errors.New("core: sender balance below gas_limit*gas_price+value")
	ErrIntrinsicGas       = errors.New("core: gas_limit below intrinsic gas")
	ErrGasLimitExceedsBlk = errors.New("core: transaction gas_limit exceeds block gas pool")
)

// HeaderError names one member of the full-set header validation error
// collection from §4.4.2. Error() returns the protocol's snake_case
// error names so they round-trip through test fixtures unchanged.
type HeaderError string

const (
	ErrInvalidDifficulty     HeaderError = "invalid_difficulty"
	ErrExceededGasLimit      HeaderError = "exceeded_gas_limit"
	ErrInvalidGasLimit       HeaderError = "invalid_gas_limit"
	ErrChildTimestampInvalid HeaderError = "child_timestamp_invalid"
	ErrChildNumberInvalid    HeaderError = "child_number_invalid"
	ErrExtraDataTooLarge     HeaderError = "extra_data_too_large"
)

func (e HeaderError) Error() string { return string(e) }

// HolisticError names one member of the block-against-reconstruction
// mismatch set from §4.4 "Holistic validity".
type HolisticError string

const (
	ErrStateRootMismatch        HolisticError = "state_root_mismatch"
	ErrTransactionsRootMismatch HolisticError = "transactions_root_mismatch"
	ErrReceiptsRootMismatch     HolisticError = "receipts_root_mismatch"
	ErrOmmersHashMismatch       HolisticError = "ommers_hash_mismatch"
)

func (e HolisticError) Error() string { return string(e) }
