package entities_test

import (
	"encoding/json"
	"testing"
	"ticketyboo/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseRequest_scalars(t *testing.T) {
	testCases := []struct {
		Name        string
		Body        string
		ExpectedID  entities.Scalar
		ExpectedQty entities.Scalar
	}{
		{Name: "numbers", Body: `{"eventId": 1, "quantity": 2}`, ExpectedID: "1", ExpectedQty: "2"},
		{Name: "strings", Body: `{"eventId": "1", "quantity": " 2 "}`, ExpectedID: "1", ExpectedQty: "2"},
		{Name: "absent", Body: `{}`, ExpectedID: "", ExpectedQty: ""},
		{Name: "null", Body: `{"eventId": null, "quantity": null}`, ExpectedID: "", ExpectedQty: ""},
		{Name: "bool", Body: `{"eventId": 1, "quantity": true}`, ExpectedID: "1", ExpectedQty: "true"},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			var req entities.PurchaseRequest
			require.NoError(t, json.Unmarshal([]byte(tc.Body), &req))

			assert.Equal(t, tc.ExpectedID, req.EventID)
			assert.Equal(t, tc.ExpectedQty, req.Quantity)
		})
	}
}

func TestScalar_Int64(t *testing.T) {
	testCases := []struct {
		Input       entities.Scalar
		Expected    int64
		ExpectedErr bool
	}{
		{Input: "2", Expected: 2},
		{Input: "2.0", Expected: 2},
		{Input: "-3", Expected: -3},
		{Input: "0", Expected: 0},
		{Input: "2.5", ExpectedErr: true},
		{Input: "abc", ExpectedErr: true},
		{Input: "true", ExpectedErr: true},
		{Input: "", ExpectedErr: true},
		{Input: "99999999999999999999999", ExpectedErr: true},
	}

	for _, tc := range testCases {
		t.Run(string(tc.Input), func(t *testing.T) {
			v, err := tc.Input.Int64()
			if tc.ExpectedErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, v)
		})
	}
}

func TestPurchase_json_has_no_raw_card_fields(t *testing.T) {
	p := entities.Purchase{
		ID:         1,
		TotalPrice: entities.MustMoney("130"),
		CardMasked: entities.MaskCardNumber("4111111111111111"),
	}

	payload, err := json.Marshal(p)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(payload, &fields))

	assert.NotContains(t, fields, "cardNumber")
	assert.NotContains(t, fields, "cardCvv")
	assert.NotContains(t, fields, "cardExpiry")
	assert.Equal(t, "**** **** **** 1111", fields["cardMasked"])
	assert.Equal(t, 130.0, fields["totalPrice"])
}
