package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/lithammer/shortuuid/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type PurchaseRequest struct {
	EventID        any    `json:"eventId,omitempty"`
	Quantity       any    `json:"quantity,omitempty"`
	CustomerName   string `json:"customerName,omitempty"`
	CustomerEmail  string `json:"customerEmail,omitempty"`
	CardNumber     string `json:"cardNumber,omitempty"`
	CardExpiry     string `json:"cardExpiry,omitempty"`
	CardCvv        string `json:"cardCvv,omitempty"`
	CardholderName string `json:"cardholderName,omitempty"`
}

type Purchase struct {
	ID            int64   `json:"id"`
	EventID       int64   `json:"eventId"`
	EventName     string  `json:"eventName"`
	Quantity      int     `json:"quantity"`
	CustomerEmail string  `json:"customerEmail"`
	TotalPrice    float64 `json:"totalPrice"`
	CardMasked    string  `json:"cardMasked"`
}

type PurchaseResponse struct {
	Success  bool     `json:"success"`
	Purchase Purchase `json:"purchase"`
}

type Event struct {
	ID               int64   `json:"id"`
	Type             string  `json:"type"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	AvailableTickets int     `json:"availableTickets"`
}

type EventSales struct {
	EventID     int64   `json:"eventId"`
	TicketsSold int     `json:"ticketsSold"`
	Revenue     float64 `json:"revenue"`
	SoldOut     bool    `json:"soldOut"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type client struct {
	baseURL string
	http    *http.Client
}

// newClient traces its requests, so server spans join the test's trace.
func newClient(baseURL string) client {
	return client{
		baseURL: baseURL,
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	return addr
}

func (c client) purchase(t *testing.T, req PurchaseRequest) (int, []byte) {
	t.Helper()

	payload, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq, err := http.NewRequest(
		http.MethodPost,
		c.baseURL+"/api/tickets/purchase",
		bytes.NewBuffer(payload),
	)
	require.NoError(t, err)

	httpReq.Header.Set("Correlation-ID", shortuuid.New())
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, body
}

func (c client) get(t *testing.T, path string, target any) int {
	t.Helper()

	resp, err := c.http.Get(c.baseURL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if target != nil {
		require.NoError(t, json.Unmarshal(body, target), "body: %s", body)
	}

	return resp.StatusCode
}

// tryGet is get for use inside EventuallyWithT, where failing the test
// outright is not wanted.
func (c client) tryGet(path string, target any) (int, error) {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return resp.StatusCode, err
	}

	return resp.StatusCode, nil
}

func (c client) getRaw(t *testing.T, path string) string {
	t.Helper()

	resp, err := c.http.Get(c.baseURL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(body)
}

func waitForHttpServer(t *testing.T, baseURL string) {
	t.Helper()

	require.EventuallyWithT(
		t,
		func(t *assert.CollectT) {
			resp, err := http.Get(fmt.Sprintf("%s/health", baseURL))
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()

			assert.Less(t, resp.StatusCode, 300, "API not ready, http status: %d", resp.StatusCode)
		},
		time.Second*10,
		time.Millisecond*50,
	)
}
