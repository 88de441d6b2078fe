package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/Apurer/go-gin-inventory-api/internal/domains/orders/domain"
)

type normalizedPlaceOrder struct {
	Status string `json:"status"`
}

// fingerprintPlaceOrder hashes the parts of a placement that shape the order.
// The customer is excluded since it always comes from the caller.
func fingerprintPlaceOrder(status domain.Status) (string, error) {
	payload, err := json.Marshal(normalizedPlaceOrder{Status: string(status)})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
