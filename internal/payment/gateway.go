package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SessionRequest describes the checkout session to open with the gateway.
type SessionRequest struct {
	TxnID       string
	AmountCents int64
	Description string
	SuccessURL  string
	FailURL     string
	CancelURL   string
}

// Session is an open gateway checkout the payer is redirected to. A demo
// session settles on the spot instead of redirecting.
type Session struct {
	RedirectURL string
	Settled     bool
}

// Gateway opens checkout sessions with an external payment provider.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}

type GatewayConfig struct {
	BaseURL string
	StoreID string
	Secret  string
	Timeout time.Duration
}

type httpGateway struct {
	cfg    GatewayConfig
	client *http.Client
}

// NewHTTPGateway talks to a real provider. Requests carry the store id and
// an HMAC-SHA256 signature over the transaction id and amount.
func NewHTTPGateway(cfg GatewayConfig) Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &httpGateway{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (g *httpGateway) sign(txnID string, amountCents int64) string {
	mac := hmac.New(sha256.New, []byte(g.cfg.Secret))
	fmt.Fprintf(mac, "%s:%d", txnID, amountCents)
	return hex.EncodeToString(mac.Sum(nil))
}

func (g *httpGateway) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	payload := map[string]any{
		"store_id":     g.cfg.StoreID,
		"txn_id":       req.TxnID,
		"amount_cents": req.AmountCents,
		"description":  req.Description,
		"success_url":  req.SuccessURL,
		"fail_url":     req.FailURL,
		"cancel_url":   req.CancelURL,
		"signature":    g.sign(req.TxnID, req.AmountCents),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal session request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build session request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway session request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("gateway session request failed: status %d", resp.StatusCode)
	}

	var out struct {
		RedirectURL string `json:"redirect_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode session response failed: %w", err)
	}
	if out.RedirectURL == "" {
		return nil, fmt.Errorf("gateway returned no redirect url")
	}

	return &Session{RedirectURL: out.RedirectURL}, nil
}

type demoGateway struct{}

// NewDemoGateway needs no provider: sessions report themselves settled
// immediately, so online payments complete in the original request.
func NewDemoGateway() Gateway {
	return demoGateway{}
}

func (demoGateway) CreateSession(_ context.Context, _ SessionRequest) (*Session, error) {
	return &Session{Settled: true}, nil
}
