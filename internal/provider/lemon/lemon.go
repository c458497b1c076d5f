package lemon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/breezehr/breeze/internal/config"
	"github.com/breezehr/breeze/internal/observability"
	providerdomain "github.com/breezehr/breeze/internal/provider/domain"
	"go.uber.org/zap"
)

// Client talks to the Lemon Squeezy API (JSON:API wire format). Quantity
// changes go to the subscription-item resource; variant changes to the
// subscription resource.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *zap.Logger
	metrics *observability.ProviderMetrics
}

func NewClient(cfg config.Config, log *zap.Logger, metrics *observability.ProviderMetrics) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.Provider.APIKey)
	if apiKey == "" {
		return nil, providerdomain.ErrMissingCredentials
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.Provider.BaseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: cfg.Provider.Timeout},
		log:     log.Named("provider.lemon"),
		metrics: metrics,
	}, nil
}

func (c *Client) GetSubscription(ctx context.Context, providerSubscriptionID string) (*providerdomain.Subscription, error) {
	start := time.Now()
	sub, err := c.getSubscription(ctx, providerSubscriptionID)
	c.observe("get_subscription", start, err)
	return sub, err
}

func (c *Client) UpdateQuantity(ctx context.Context, req providerdomain.UpdateQuantityRequest) (*providerdomain.Subscription, error) {
	start := time.Now()
	sub, err := c.updateQuantity(ctx, req)
	c.observe("update_quantity", start, err)
	return sub, err
}

func (c *Client) UpdateVariant(ctx context.Context, req providerdomain.UpdateVariantRequest) (*providerdomain.Subscription, error) {
	start := time.Now()
	sub, err := c.updateVariant(ctx, req)
	c.observe("update_variant", start, err)
	return sub, err
}

func (c *Client) observe(operation string, start time.Time, err error) {
	if c.metrics != nil {
		c.metrics.ObserveCall(operation, start, err)
	}
	if err != nil {
		c.log.Warn("provider call failed",
			zap.String("operation", operation),
			zap.Error(err),
		)
	}
}

func (c *Client) getSubscription(ctx context.Context, id string) (*providerdomain.Subscription, error) {
	body, err := c.do(ctx, http.MethodGet, "/subscriptions/"+id, nil)
	if err != nil {
		return nil, err
	}
	return decodeSubscription(body)
}

func (c *Client) updateQuantity(ctx context.Context, req providerdomain.UpdateQuantityRequest) (*providerdomain.Subscription, error) {
	payload := map[string]any{
		"data": map[string]any{
			"type": "subscription-items",
			"id":   req.ItemID,
			"attributes": map[string]any{
				"quantity":            req.Quantity,
				"invoice_immediately": req.InvoiceImmediately,
			},
		},
	}
	if _, err := c.do(ctx, http.MethodPatch, "/subscription-items/"+req.ItemID, payload); err != nil {
		return nil, err
	}
	// The item response carries no subscription attributes; re-read the
	// subscription so the caller gets a full post-change snapshot.
	return c.getSubscription(ctx, req.SubscriptionID)
}

func (c *Client) updateVariant(ctx context.Context, req providerdomain.UpdateVariantRequest) (*providerdomain.Subscription, error) {
	payload := map[string]any{
		"data": map[string]any{
			"type": "subscriptions",
			"id":   req.SubscriptionID,
			"attributes": map[string]any{
				"variant_id": req.VariantID,
			},
		},
	}
	body, err := c.do(ctx, http.MethodPatch, "/subscriptions/"+req.SubscriptionID, payload)
	if err != nil {
		return nil, err
	}
	return decodeSubscription(body)
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.api+json")
	req.Header.Set("Content-Type", "application/vnd.api+json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &providerdomain.Error{Detail: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &providerdomain.Error{Detail: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &providerdomain.Error{
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(raw, resp.StatusCode),
		}
	}

	return raw, nil
}

type wireDocument struct {
	Data wireResource `json:"data"`
}

type wireResource struct {
	ID         string                `json:"id"`
	Type       string                `json:"type"`
	Attributes wireSubscriptionAttrs `json:"attributes"`
}

type wireSubscriptionAttrs struct {
	Status      string     `json:"status"`
	ProductID   int64      `json:"product_id"`
	VariantID   int64      `json:"variant_id"`
	RenewsAt    *time.Time `json:"renews_at"`
	EndsAt      *time.Time `json:"ends_at"`
	TrialEndsAt *time.Time `json:"trial_ends_at"`
	CardBrand   string     `json:"card_brand"`
	CardLast4   string     `json:"card_last_four"`
	UpdatedAt   time.Time  `json:"updated_at"`
	FirstItem   *wireItem  `json:"first_subscription_item"`
}

type wireItem struct {
	ID       json.Number `json:"id"`
	Quantity int         `json:"quantity"`
}

func decodeSubscription(raw []byte) (*providerdomain.Subscription, error) {
	var doc wireDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &providerdomain.Error{Detail: "malformed subscription payload"}
	}
	if strings.TrimSpace(doc.Data.ID) == "" {
		return nil, &providerdomain.Error{Detail: "subscription payload missing id"}
	}

	attrs := doc.Data.Attributes
	sub := &providerdomain.Subscription{
		ID:           doc.Data.ID,
		Status:       strings.TrimSpace(attrs.Status),
		ProductID:    attrs.ProductID,
		VariantID:    attrs.VariantID,
		RenewsAt:     attrs.RenewsAt,
		EndsAt:       attrs.EndsAt,
		TrialEndsAt:  attrs.TrialEndsAt,
		CardBrand:    attrs.CardBrand,
		CardLastFour: attrs.CardLast4,
		UpdatedAt:    attrs.UpdatedAt,
		Raw:          raw,
	}
	if attrs.FirstItem != nil {
		sub.ItemID = attrs.FirstItem.ID.String()
		sub.Quantity = attrs.FirstItem.Quantity
	}
	return sub, nil
}

type wireErrors struct {
	Errors []struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

func errorDetail(raw []byte, status int) string {
	var parsed wireErrors
	if err := json.Unmarshal(raw, &parsed); err == nil && len(parsed.Errors) > 0 {
		parts := make([]string, 0, len(parsed.Errors))
		for _, e := range parsed.Errors {
			detail := strings.TrimSpace(e.Detail)
			if detail == "" {
				detail = strings.TrimSpace(e.Title)
			}
			if detail != "" {
				parts = append(parts, detail)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}
	return fmt.Sprintf("unexpected status %s", strconv.Itoa(status))
}
