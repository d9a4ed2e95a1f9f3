// (c) 2024, Banksy Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package banksyvm

import "errors"

// Instruction failure sentinels. Exported so that callers can distinguish
// business-rule rejections (a losing bid, a mismatched currency) from hard
// failures they should propagate.
var (
	ErrZeroSupply        = errors.New("asset supply must be greater than zero")
	ErrURITooLong        = errors.New("asset uri exceeds maximum length")
	ErrAssetNotFound     = errors.New("asset not found")
	ErrAccountNotFound   = errors.New("balance account not found")
	ErrAuctionNotFound   = errors.New("auction not found")
	ErrExchangeNotFound  = errors.New("exchange not found")
	ErrUnauthorized      = errors.New("signer is not the required authority")
	ErrEscrowAccount     = errors.New("account is escrow-held and cannot be debited directly")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrSupplyExceeded    = errors.New("distribution exceeds remaining supply")
	ErrAmountOverflow    = errors.New("balance amount overflow")
	ErrAlreadyClosed     = errors.New("operation on a closed auction or exchange")
	ErrExchangeOpen      = errors.New("an open exchange already escrows this item for this seller")
	ErrBidTooLow         = errors.New("bid is not above the reserve price and current bid")
	ErrWrongCurrency     = errors.New("payment source does not match the required currency")
)

// Rejected reports whether err is a non-fatal bid rejection: the auction
// swallowed the bid without touching any state.
func Rejected(err error) bool {
	return errors.Is(err, ErrBidTooLow) || errors.Is(err, ErrWrongCurrency)
}
