package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// NewTransactionID builds a process-wide unique ledger transaction id with a
// category prefix, e.g. PRIZE-1717171717-a1b2c3d4e5f6.
func NewTransactionID(prefix string) string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in serious trouble; fall
		// back to a time-only suffix rather than panicking a payment path.
		return fmt.Sprintf("%s-%d", strings.ToUpper(prefix), time.Now().UnixNano())
	}
	return fmt.Sprintf("%s-%d-%s", strings.ToUpper(prefix), time.Now().Unix(), hex.EncodeToString(buf))
}

// MaskAccountNumber hides all but the last four digits of an account number.
func MaskAccountNumber(accountNumber string) string {
	if len(accountNumber) <= 4 {
		return strings.Repeat("*", len(accountNumber))
	}
	return strings.Repeat("*", len(accountNumber)-4) + accountNumber[len(accountNumber)-4:]
}
