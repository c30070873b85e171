// Package gateway implements the PIX payment backend client over its
// REST/JSON contract.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/revendalabs/revenda/internal/config"
	paymentdomain "github.com/revendalabs/revenda/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg config.Config
	Log *zap.Logger
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.Logger
}

func New(p Params) paymentdomain.Gateway {
	return &Client{
		baseURL: p.Cfg.GatewayBaseURL,
		token:   p.Cfg.GatewayToken,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     p.Log.Named("payment.gateway"),
	}
}

// wireSession is the backend's representation of a PIX session.
type wireSession struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	Description   string  `json:"descricao"`
	DueDate       string  `json:"dataHora"`
	Value         float64 `json:"valor"`
	ExpirationSec int     `json:"tempoExpiracao"`
	QRCode        string  `json:"linkQRCode"`
}

type batchChargeItem struct {
	ID string `json:"id"`
}

type batchChargeRequest struct {
	Charges []batchChargeItem `json:"cobrancas"`
}

func (c *Client) CreateCharge(ctx context.Context, chargeID string) (*paymentdomain.Session, error) {
	if chargeID == "" {
		return nil, paymentdomain.ErrInvalidCharge
	}
	return c.sessionRequest(ctx, http.MethodPost, fmt.Sprintf("/revendas/cobrancas/%s", chargeID), nil)
}

func (c *Client) CreateBatchCharge(ctx context.Context, chargeIDs []string) (*paymentdomain.Session, error) {
	if len(chargeIDs) == 0 {
		return nil, paymentdomain.ErrInvalidCharge
	}
	body := batchChargeRequest{Charges: make([]batchChargeItem, 0, len(chargeIDs))}
	for _, id := range chargeIDs {
		if id == "" {
			return nil, paymentdomain.ErrInvalidCharge
		}
		body.Charges = append(body.Charges, batchChargeItem{ID: id})
	}
	return c.sessionRequest(ctx, http.MethodPost, "/revendas/cobrancas", body)
}

func (c *Client) CheckStatus(ctx context.Context, sessionID string) (*paymentdomain.Session, error) {
	if sessionID == "" {
		return nil, paymentdomain.ErrSessionNotFound
	}
	return c.sessionRequest(ctx, http.MethodGet, fmt.Sprintf("/revendas/cobrancas/pix/%s", sessionID), nil)
}

func (c *Client) RegisterPayment(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return paymentdomain.ErrSessionNotFound
	}
	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/revendas/cobrancas/pix/%s/pagamento", sessionID), nil)
	if err != nil {
		return err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", paymentdomain.ErrGateway, err)
	}
	defer res.Body.Close()

	return c.checkResponse(res)
}

func (c *Client) Cancel(ctx context.Context, sessionID string) (*paymentdomain.Session, error) {
	if sessionID == "" {
		return nil, paymentdomain.ErrSessionNotFound
	}
	return c.sessionRequest(ctx, http.MethodDelete, fmt.Sprintf("/revendas/cobrancas/pix/%s", sessionID), nil)
}

func (c *Client) sessionRequest(ctx context.Context, method, path string, body any) (*paymentdomain.Session, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", paymentdomain.ErrGateway, err)
	}
	defer res.Body.Close()

	if err := c.checkResponse(res); err != nil {
		return nil, err
	}

	var wire wireSession
	if err := json.NewDecoder(res.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: decode session: %v", paymentdomain.ErrGateway, err)
	}

	return toDomain(wire)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) checkResponse(res *http.Response) error {
	switch {
	case res.StatusCode >= 200 && res.StatusCode < 300:
		return nil
	case res.StatusCode == http.StatusNotFound:
		return paymentdomain.ErrSessionNotFound
	default:
		c.log.Warn("gateway returned error status",
			zap.Int("status", res.StatusCode),
			zap.String("url", res.Request.URL.Path),
		)
		return fmt.Errorf("%w: status %d", paymentdomain.ErrGateway, res.StatusCode)
	}
}

func toDomain(wire wireSession) (*paymentdomain.Session, error) {
	status, err := paymentdomain.ParseStatus(wire.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, wire.Status)
	}
	return &paymentdomain.Session{
		ID:                wire.ID,
		Status:            status,
		Description:       wire.Description,
		DueDate:           wire.DueDate,
		Value:             wire.Value,
		ExpirationSeconds: wire.ExpirationSec,
		QRCode:            wire.QRCode,
	}, nil
}
