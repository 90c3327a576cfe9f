package entities

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is the immutable record of a committed ticket sale. It never
// carries raw card data.
type Purchase struct {
	ID             int64     `json:"id"`
	EventID        int64     `json:"eventId"`
	EventName      string    `json:"eventName"`
	Quantity       int       `json:"quantity"`
	CustomerName   string    `json:"customerName"`
	CustomerEmail  string    `json:"customerEmail"`
	TotalPrice     Money     `json:"totalPrice"`
	CardMasked     string    `json:"cardMasked,omitempty"`
	CardholderName string    `json:"cardholderName,omitempty"`
	PurchaseDate   time.Time `json:"purchaseDate"`
}

type PurchaseRequest struct {
	EventID        Scalar `json:"eventId"`
	Quantity       Scalar `json:"quantity"`
	CustomerName   string `json:"customerName"`
	CustomerEmail  string `json:"customerEmail"`
	CardNumber     string `json:"cardNumber"`
	CardExpiry     string `json:"cardExpiry"`
	CardCvv        string `json:"cardCvv"`
	CardholderName string `json:"cardholderName"`
}

type PurchaseResponse struct {
	Success  bool     `json:"success"`
	Purchase Purchase `json:"purchase"`
}

// Scalar keeps a submitted JSON scalar verbatim so that "absent" and
// "present but not a whole number" can be told apart.
type Scalar string

var errNotWholeNumber = errors.New("not a whole number")

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = Scalar(strings.TrimSpace(str))
		return nil
	}

	*s = Scalar(data)
	return nil
}

func (s Scalar) IsZero() bool {
	return s == ""
}

// Int64 parses the scalar as a whole number. "2", "2.0" and 2 are accepted,
// "2.5", "abc" and true are not.
func (s Scalar) Int64() (int64, error) {
	d, err := decimal.NewFromString(string(s))
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, errNotWholeNumber
	}
	if !d.Equal(decimal.NewFromInt(d.IntPart())) {
		return 0, errNotWholeNumber
	}
	return d.IntPart(), nil
}
