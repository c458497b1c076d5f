package lemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/breezehr/breeze/internal/config"
	providerdomain "github.com/breezehr/breeze/internal/provider/domain"
)

const subscriptionBody = `{
	"data": {
		"type": "subscriptions",
		"id": "sub_1",
		"attributes": {
			"status": "active",
			"product_id": 200,
			"variant_id": 2001,
			"renews_at": "2026-09-01T00:00:00Z",
			"card_brand": "visa",
			"card_last_four": "4242",
			"updated_at": "2026-03-01T10:00:00Z",
			"first_subscription_item": {"id": 42, "quantity": 5}
		}
	}
}`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Config{}
	cfg.Provider.APIKey = "test-key"
	cfg.Provider.BaseURL = srv.URL
	cfg.Provider.Timeout = 5 * time.Second

	client, err := NewClient(cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(config.Config{}, zap.NewNop(), nil)
	assert.ErrorIs(t, err, providerdomain.ErrMissingCredentials)
}

func TestGetSubscription(t *testing.T) {
	var gotAuth, gotAccept string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/subscriptions/sub_1", r.URL.Path)
		w.Write([]byte(subscriptionBody))
	}))

	sub, err := client.GetSubscription(context.Background(), "sub_1")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "application/vnd.api+json", gotAccept)

	assert.Equal(t, "sub_1", sub.ID)
	assert.Equal(t, "active", sub.Status)
	assert.Equal(t, int64(200), sub.ProductID)
	assert.Equal(t, int64(2001), sub.VariantID)
	assert.Equal(t, "42", sub.ItemID)
	assert.Equal(t, 5, sub.Quantity)
	assert.Equal(t, "4242", sub.CardLastFour)
	require.NotNil(t, sub.RenewsAt)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), sub.RenewsAt.UTC())
	assert.JSONEq(t, subscriptionBody, string(sub.Raw))
}

func TestUpdateQuantityPatchesItemThenRereads(t *testing.T) {
	var patched map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPatch && r.URL.Path == "/subscription-items/42":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&patched))
			w.Write([]byte(`{"data": {"type": "subscription-items", "id": "42"}}`))
		case r.Method == http.MethodGet && r.URL.Path == "/subscriptions/sub_1":
			w.Write([]byte(subscriptionBody))
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	sub, err := client.UpdateQuantity(context.Background(), providerdomain.UpdateQuantityRequest{
		SubscriptionID:     "sub_1",
		ItemID:             "42",
		Quantity:           7,
		InvoiceImmediately: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "sub_1", sub.ID)

	data := patched["data"].(map[string]any)
	attrs := data["attributes"].(map[string]any)
	assert.Equal(t, float64(7), attrs["quantity"])
	assert.Equal(t, true, attrs["invoice_immediately"])
}

func TestUpdateVariantPatchesSubscription(t *testing.T) {
	var patched map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/subscriptions/sub_1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patched))
		w.Write([]byte(subscriptionBody))
	}))

	sub, err := client.UpdateVariant(context.Background(), providerdomain.UpdateVariantRequest{
		SubscriptionID: "sub_1",
		VariantID:      2001,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2001), sub.VariantID)

	data := patched["data"].(map[string]any)
	attrs := data["attributes"].(map[string]any)
	assert.Equal(t, float64(2001), attrs["variant_id"])
}

func TestErrorResponseCarriesProviderDetail(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors": [{"title": "Unprocessable Entity", "detail": "The quantity is invalid."}]}`))
	}))

	_, err := client.GetSubscription(context.Background(), "sub_1")
	require.Error(t, err)

	var pe *providerdomain.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusUnprocessableEntity, pe.StatusCode)
	assert.Equal(t, "The quantity is invalid.", pe.Detail)
}

func TestErrorResponseWithoutBodyFallsBackToStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.GetSubscription(context.Background(), "sub_1")
	require.Error(t, err)

	var pe *providerdomain.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusBadGateway, pe.StatusCode)
	assert.Contains(t, pe.Detail, "502")
}

func TestMalformedPayloadIsProviderError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {}}`))
	}))

	_, err := client.GetSubscription(context.Background(), "sub_1")
	assert.True(t, providerdomain.IsProviderError(err))
}
