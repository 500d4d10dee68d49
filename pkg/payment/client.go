package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/buahsegar/storefront-backend/pkg/config"
	pkgerrors "github.com/buahsegar/storefront-backend/pkg/errors"
	"github.com/buahsegar/storefront-backend/pkg/logger"
)

const (
	sandboxEnv    = "sandbox"
	productionEnv = "production"

	requestTimeout = 10 * time.Second
)

var (
	errServerKeyRequired = errors.New("payment server key is required")
	errInvalidPaymentEnv = fmt.Errorf("payment environment must be %q or %q", sandboxEnv, productionEnv)
	errLoggerRequired    = errors.New("payment logger is required")
)

var baseURLs = map[string]string{
	sandboxEnv:    "https://app.sandbox.midtrans.com/snap/v1",
	productionEnv: "https://app.midtrans.com/snap/v1",
}

// Client talks to the Snap payment gateway with centralized auth, logging
// and error mapping.
type Client struct {
	httpClient  *http.Client
	serverKey   string
	environment string
	baseURL     string
	logger      *logger.Logger
}

// TransactionRequest describes the order handed to the gateway.
type TransactionRequest struct {
	OrderID     string
	GrossAmount int64
	Customer    Customer
	Items       []Item
}

// Customer is the payer contact block sent with the transaction.
type Customer struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// Item is one order line reported to the gateway.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// TransactionToken is the opaque widget handle returned by the gateway.
type TransactionToken struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// NewClient initializes the Snap wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.PaymentConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	env := cfg.Environment()
	baseURL, ok := baseURLs[env]
	if !ok {
		return nil, errInvalidPaymentEnv
	}

	serverKey := strings.TrimSpace(cfg.ServerKey)
	if serverKey == "" {
		return nil, errServerKeyRequired
	}

	c := &Client{
		httpClient:  &http.Client{Timeout: requestTimeout},
		serverKey:   serverKey,
		environment: env,
		baseURL:     baseURL,
		logger:      logg,
	}

	logg.Info(ctx, "payment client initialized")
	return c, nil
}

// Environment reports the normalized gateway environment.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// ServerKey returns the configured gateway credential.
func (c *Client) ServerKey() string {
	if c == nil {
		return ""
	}
	return c.serverKey
}

type transactionBody struct {
	TransactionDetails struct {
		OrderID     string `json:"order_id"`
		GrossAmount int64  `json:"gross_amount"`
	} `json:"transaction_details"`
	CustomerDetails Customer `json:"customer_details"`
	ItemDetails     []Item   `json:"item_details,omitempty"`
}

// CreateTransaction requests a widget token for the given order. Gateway
// failures map to DEPENDENCY_ERROR.
func (c *Client) CreateTransaction(ctx context.Context, req TransactionRequest) (*TransactionToken, error) {
	if strings.TrimSpace(req.OrderID) == "" {
		return nil, fmt.Errorf("order id is required")
	}
	if req.GrossAmount <= 0 {
		return nil, fmt.Errorf("gross amount must be positive")
	}

	var body transactionBody
	body.TransactionDetails.OrderID = req.OrderID
	body.TransactionDetails.GrossAmount = req.GrossAmount
	body.CustomerDetails = req.Customer
	body.ItemDetails = req.Items

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling transaction: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transactions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building transaction request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", c.authHeader())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment gateway unreachable")
	}
	defer closeBody(ctx, c.logger, resp.Body, "closing gateway response body failed")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("payment gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}

	var token TransactionToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding gateway response")
	}
	if token.Token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "gateway response missing token")
	}

	return &token, nil
}

func (c *Client) authHeader() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.serverKey+":"))
}

func closeBody(ctx context.Context, logg *logger.Logger, body io.Closer, msg string) {
	if body == nil {
		return
	}
	if err := body.Close(); err != nil && logg != nil {
		logg.Warn(ctx, msg)
	}
}
