package mapper

import (
	"bytes"
	"encoding/json"

	catalogtypes "github.com/Apurer/go-gin-inventory-api/internal/domains/catalog/application/types"
)

// RestockRequest keeps the quantity raw so that both 10 and "10" reach the
// service, which owns the parsing rules.
type RestockRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

// RestockResponse is returned after a successful restock.
type RestockResponse struct {
	Message string `json:"message"`
	Book    Book   `json:"book"`
}

// ToRestockInput extracts the raw quantity text. JSON strings are unquoted,
// numbers are passed through verbatim, anything else becomes empty.
func ToRestockInput(bookID int64, req RestockRequest) catalogtypes.RestockInput {
	return catalogtypes.RestockInput{BookID: bookID, Quantity: rawQuantity(req.Quantity)}
}

func rawQuantity(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return string(raw)
	default:
		return ""
	}
}

// FromRestockResult converts the application result.
func FromRestockResult(result *catalogtypes.RestockResult) RestockResponse {
	if result == nil {
		return RestockResponse{}
	}
	return RestockResponse{Message: result.Message, Book: FromProjection(result.Book)}
}
