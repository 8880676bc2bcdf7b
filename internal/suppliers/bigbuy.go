package suppliers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopopti/fulfillment-backend/pkg/db/models"
	"github.com/shopopti/fulfillment-backend/pkg/enums"
	pkgerrors "github.com/shopopti/fulfillment-backend/pkg/errors"
	"github.com/shopopti/fulfillment-backend/pkg/types"
)

const bigBuyDefaultBaseURL = "https://api.bigbuy.eu"

// BigBuyClient places orders through the BigBuy REST API.
type BigBuyClient struct {
	httpClient *http.Client
	baseURL    string
}

// BigBuyOption configures optional client behavior.
type BigBuyOption func(*BigBuyClient)

// WithBigBuyHTTPClient overrides the default HTTP client.
func WithBigBuyHTTPClient(client *http.Client) BigBuyOption {
	return func(c *BigBuyClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBigBuyBaseURL overrides the BigBuy API base URL.
func WithBigBuyBaseURL(baseURL string) BigBuyOption {
	return func(c *BigBuyClient) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewBigBuyClient builds the BigBuy client.
func NewBigBuyClient(opts ...BigBuyOption) *BigBuyClient {
	client := &BigBuyClient{
		baseURL:    bigBuyDefaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// Type implements Adapter.
func (c *BigBuyClient) Type() enums.SupplierType {
	return enums.SupplierTypeBigBuy
}

type bigBuyDelivery struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Country   string `json:"country"`
	Postcode  string `json:"postcode"`
	Town      string `json:"town"`
	Address   string `json:"address"`
}

type bigBuyProduct struct {
	Reference string `json:"reference"`
	Quantity  int    `json:"quantity"`
}

type bigBuyCreateOrderRequest struct {
	InternalReference string          `json:"internalReference"`
	Delivery          bigBuyDelivery  `json:"delivery"`
	Products          []bigBuyProduct `json:"products"`
}

type bigBuyCreateOrderResponse struct {
	ID      json.Number `json:"id"`
	OrderID json.Number `json:"order_id"`
	Error   string      `json:"error"`
}

// PlaceOrder creates a BigBuy order for the item group. The connection must
// carry an API key.
func (c *BigBuyClient) PlaceOrder(ctx context.Context, connection models.SupplierConnection, req PlaceOrderRequest) (*types.SupplierOrder, error) {
	apiKey := connection.APIKey()
	if apiKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeSupplierAuth, "BigBuy API key not found")
	}

	firstName, lastName := req.ShippingAddress.SplitName()
	payload := bigBuyCreateOrderRequest{
		InternalReference: req.OrderNumber,
		Delivery: bigBuyDelivery{
			FirstName: firstName,
			LastName:  lastName,
			Phone:     req.ShippingAddress.Phone,
			Email:     req.ShippingAddress.Email,
			Country:   req.ShippingAddress.CountryOrCode(),
			Postcode:  req.ShippingAddress.Zip,
			Town:      req.ShippingAddress.City,
			Address:   req.ShippingAddress.Address1,
		},
	}
	for _, item := range req.Items {
		payload.Products = append(payload.Products, bigBuyProduct{
			Reference: item.EffectiveSKU(),
			Quantity:  item.Quantity,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal BigBuy order request")
	}

	url := strings.TrimRight(c.baseURL, "/") + "/rest/order/create.json"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build BigBuy order request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeSupplierOrder, err, "execute BigBuy order request")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeSupplierOrder, err, "read BigBuy order response")
	}

	var apiResp bigBuyCreateOrderResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeSupplierOrder, fmt.Errorf("status %d: %w", resp.StatusCode, err), "decode BigBuy order response")
	}

	if apiResp.Error != "" {
		return nil, pkgerrors.New(pkgerrors.CodeSupplierOrder, apiResp.Error)
	}

	orderID := apiResp.ID.String()
	if orderID == "" {
		orderID = apiResp.OrderID.String()
	}

	var rawMap types.JSONMap
	_ = json.Unmarshal(raw, &rawMap)

	return &types.SupplierOrder{
		OrderID:      orderID,
		SupplierID:   connection.SupplierID.String(),
		SupplierName: "BigBuy",
		Status:       "confirmed",
		RawResponse:  rawMap,
	}, nil
}
