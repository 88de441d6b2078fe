package mapper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToRestockInput_RawQuantity(t *testing.T) {
	cases := map[string]string{
		`{"quantity": 10}`:     "10",
		`{"quantity": "10"}`:   "10",
		`{"quantity": " 7 "}`:  " 7 ",
		`{"quantity": -3}`:     "-3",
		`{"quantity": 2.5}`:    "2.5",
		`{"quantity": true}`:   "",
		`{"quantity": null}`:   "",
		`{"quantity": [1]}`:    "",
		`{}`:                   "",
	}
	for body, want := range cases {
		var req RestockRequest
		if !assert.NoError(t, json.Unmarshal([]byte(body), &req), body) {
			continue
		}
		got := ToRestockInput(3, req)
		assert.Equal(t, int64(3), got.BookID, body)
		assert.Equal(t, want, got.Quantity, body)
	}
}
