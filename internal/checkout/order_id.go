package checkout

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	orderIDPrefix   = "ORD"
	orderIDLength   = 9
	orderIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewOrderID returns "ORD" followed by nine random upper-case alphanumerics.
// Uniqueness is not guaranteed.
func NewOrderID() (string, error) {
	buf := make([]byte, orderIDLength)
	max := big.NewInt(int64(len(orderIDAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate order id: %w", err)
		}
		buf[i] = orderIDAlphabet[n.Int64()]
	}
	return orderIDPrefix + string(buf), nil
}
