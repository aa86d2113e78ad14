package ledger

import (
	"fmt"

	"github.com/ddex3/Shaked-Role-Economy-Gamification-Discord-Bot-sub001/gamebot/database/repositories"
)

// ErrInsufficientFunds is returned by RemoveCoins when the balance cannot
// cover the debit. No partial effect occurs.
var ErrInsufficientFunds = repositories.ErrInsufficientFunds

// ValidationError rejects malformed input before any mutation happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validateUserID(userID string) error {
	if userID == "" {
		return &ValidationError{Field: "user", Reason: "empty identity"}
	}
	return nil
}

func validateAmount(amount int64) error {
	if amount < 0 {
		return &ValidationError{Field: "amount", Reason: "must be >= 0"}
	}
	return nil
}
