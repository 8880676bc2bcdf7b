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

const (
	cjDefaultBaseURL             = "https://developers.cjdropshipping.com/api2.0/v1"
	responseBodyReadLimit  int64 = 64 * 1024
	cjAccessTokenHeader          = "CJ-Access-Token"
)

// CJClient places orders through the CJ Dropshipping v2 API.
type CJClient struct {
	httpClient *http.Client
	baseURL    string
}

// CJOption configures optional client behavior.
type CJOption func(*CJClient)

// WithCJHTTPClient overrides the default HTTP client.
func WithCJHTTPClient(client *http.Client) CJOption {
	return func(c *CJClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithCJBaseURL overrides the CJ API base URL.
func WithCJBaseURL(baseURL string) CJOption {
	return func(c *CJClient) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewCJClient builds the CJ Dropshipping client.
func NewCJClient(opts ...CJOption) *CJClient {
	client := &CJClient{
		baseURL:    cjDefaultBaseURL,
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
func (c *CJClient) Type() enums.SupplierType {
	return enums.SupplierTypeCJDropshipping
}

type cjShippingAddress struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Country  string `json:"country"`
	Province string `json:"province"`
	City     string `json:"city"`
	Address  string `json:"address"`
	ZipCode  string `json:"zipCode"`
}

type cjProduct struct {
	VID      string `json:"vid"`
	Quantity int    `json:"quantity"`
}

type cjCreateOrderRequest struct {
	OrderNumber     string            `json:"orderNumber"`
	ShippingAddress cjShippingAddress `json:"shippingAddress"`
	Products        []cjProduct       `json:"products"`
}

type cjCreateOrderResponse struct {
	Result  bool   `json:"result"`
	Message string `json:"message"`
	Data    struct {
		OrderID  string `json:"orderId"`
		OrderNum string `json:"orderNum"`
	} `json:"data"`
}

// PlaceOrder creates a CJ order for the item group. The connection must carry
// an OAuth access token.
func (c *CJClient) PlaceOrder(ctx context.Context, connection models.SupplierConnection, req PlaceOrderRequest) (*types.SupplierOrder, error) {
	accessToken := connection.AccessToken()
	if accessToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeSupplierAuth, "CJ Dropshipping access token not found")
	}

	payload := cjCreateOrderRequest{
		OrderNumber: req.OrderNumber,
		ShippingAddress: cjShippingAddress{
			Name:     req.ShippingAddress.Name,
			Phone:    req.ShippingAddress.Phone,
			Country:  req.ShippingAddress.Country,
			Province: req.ShippingAddress.Province,
			City:     req.ShippingAddress.City,
			Address:  req.ShippingAddress.Address1,
			ZipCode:  req.ShippingAddress.Zip,
		},
	}
	for _, item := range req.Items {
		payload.Products = append(payload.Products, cjProduct{
			VID:      item.EffectiveSKU(),
			Quantity: item.Quantity,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal CJ order request")
	}

	url := strings.TrimRight(c.baseURL, "/") + "/shopping/order/createOrder"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build CJ order request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(cjAccessTokenHeader, accessToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeSupplierOrder, err, "execute CJ order request")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeSupplierOrder, err, "read CJ order response")
	}

	var apiResp cjCreateOrderResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeSupplierOrder, fmt.Errorf("status %d: %w", resp.StatusCode, err), "decode CJ order response")
	}

	if !apiResp.Result {
		message := apiResp.Message
		if message == "" {
			message = "CJ order creation failed"
		}
		return nil, pkgerrors.New(pkgerrors.CodeSupplierOrder, message)
	}

	orderID := apiResp.Data.OrderID
	if orderID == "" {
		orderID = apiResp.Data.OrderNum
	}

	var rawMap types.JSONMap
	_ = json.Unmarshal(raw, &rawMap)

	return &types.SupplierOrder{
		OrderID:      orderID,
		SupplierID:   connection.SupplierID.String(),
		SupplierName: "CJ Dropshipping",
		Status:       "confirmed",
		RawResponse:  rawMap,
	}, nil
}
