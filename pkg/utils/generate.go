package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateTransactionID builds a payment reference.
// Format: TXN_<unix millis>_<9 base36 chars>
func GenerateTransactionID() string {
	return fmt.Sprintf("TXN_%d_%s", time.Now().UnixMilli(), randomBase36(9))
}

func randomBase36(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(base36)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			idx = big.NewInt(time.Now().UnixNano() % int64(len(base36)))
		}
		b[i] = base36[idx.Int64()]
	}
	return string(b)
}
