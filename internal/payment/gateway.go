// Package payment talks to the card-payment provider (a Culqi-style API):
// creating charges, looking them up by idempotency key, and taking webhooks.
package payment

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/MikeMC777/choco-delisias/internal/apperr"
	"github.com/MikeMC777/choco-delisias/internal/money"
)

var (
	ErrMissingSourceToken = apperr.New(apperr.KindValidation, "missing_card_token", "card source token is required")
	ErrInvalidAmount      = apperr.New(apperr.KindValidation, "invalid_amount", "charge amount must be positive")
	ErrMissingEmail       = apperr.New(apperr.KindValidation, "missing_customer_email", "customer email is required for card payments")
	// ErrGatewayUnreachable means the outcome of the call is unknown.
	ErrGatewayUnreachable = apperr.New(apperr.KindGatewayUnavailable, "gateway_unreachable", "payment provider is unreachable")
	ErrChargeNotFound     = apperr.New(apperr.KindNotFound, "charge_not_found", "no charge recorded for this idempotency key")
)

// ChargeRequest is what the storefront asks the provider to collect.
type ChargeRequest struct {
	Amount         money.Minor
	Currency       string
	Email          string
	CustomerName   string
	Description    string
	SourceToken    string
	IdempotencyKey string
	Metadata       map[string]string
}

func (r ChargeRequest) validate() error {
	if strings.TrimSpace(r.SourceToken) == "" {
		return ErrMissingSourceToken
	}
	if r.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(r.Email) == "" {
		return ErrMissingEmail
	}
	return nil
}

// ChargeResult is the provider's definitive answer. A decline is a result,
// not an error: Success is false and Reason carries the provider message.
type ChargeResult struct {
	ChargeID      string
	ReferenceCode string
	Success       bool
	Reason        string
	Code          string
}

// Gateway is the provider surface checkout depends on.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	Lookup(ctx context.Context, idempotencyKey string) (*ChargeResult, error)
}

// Client is the HTTP adapter for the provider API.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
}

func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		HTTP:      &http.Client{},
		BaseURL:   strings.TrimRight(baseURL, "/"),
		SecretKey: secretKey,
		Timeout:   timeout,
	}
}

// Charge creates a charge. It never retries: a transport failure or timeout
// returns ErrGatewayUnreachable so the caller can reconcile with Lookup.
func (c *Client) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	body := encodeCharge(req)
	status, resp, err := c.do(ctx, http.MethodPost, "/charges", body, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if status >= 200 && status < 300 {
		// The provider may have charged; only Lookup can tell.
		res, err := decodeCharge(resp)
		if err != nil {
			return nil, errors.Wrapf(ErrGatewayUnreachable, "decode charge: %v", err)
		}
		return res, nil
	}
	if status >= 500 {
		return nil, errors.Wrapf(ErrGatewayUnreachable, "provider status %d", status)
	}
	res, err := decodeProviderError(resp)
	if err != nil {
		// Non-JSON 4xx bodies come from proxies and auth layers.
		return &ChargeResult{Reason: http.StatusText(status), Code: strconv.Itoa(status)}, nil
	}
	return res, nil
}

// Lookup asks the provider which charge, if any, it recorded for idempotencyKey.
func (c *Client) Lookup(ctx context.Context, idempotencyKey string) (*ChargeResult, error) {
	if idempotencyKey == "" {
		return nil, ErrChargeNotFound
	}
	path := "/charges?idempotency_key=" + url.QueryEscape(idempotencyKey)
	status, resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusNotFound:
		return nil, ErrChargeNotFound
	case status >= 500:
		return nil, errors.Wrapf(ErrGatewayUnreachable, "provider status %d", status)
	case status >= 300:
		return nil, errors.Errorf("lookup charge: provider status %d", status)
	}
	res, err := decodeChargeList(resp)
	if err != nil {
		return nil, errors.Wrap(err, "decode charge list")
	}
	if res == nil {
		return nil, ErrChargeNotFound
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, idempotencyKey string) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return 0, nil, errors.Wrap(err, "build provider request")
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, errors.Wrap(ErrGatewayUnreachable, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, errors.Wrap(ErrGatewayUnreachable, "read provider response: "+err.Error())
	}
	return resp.StatusCode, data, nil
}

func encodeCharge(req ChargeRequest) []byte {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	e.ObjStart()
	e.FieldStart("amount")
	e.Int64(int64(req.Amount))
	e.FieldStart("currency_code")
	e.Str(req.Currency)
	e.FieldStart("email")
	e.Str(req.Email)
	e.FieldStart("source_id")
	e.Str(req.SourceToken)
	if req.Description != "" {
		e.FieldStart("description")
		e.Str(req.Description)
	}
	if req.CustomerName != "" {
		e.FieldStart("antifraud_details")
		e.ObjStart()
		e.FieldStart("first_name")
		e.Str(req.CustomerName)
		e.ObjEnd()
	}
	e.FieldStart("metadata")
	e.ObjStart()
	if req.IdempotencyKey != "" {
		e.FieldStart("idempotency_key")
		e.Str(req.IdempotencyKey)
	}
	for k, v := range req.Metadata {
		e.FieldStart(k)
		e.Str(v)
	}
	e.ObjEnd()
	e.ObjEnd()

	return append([]byte(nil), e.Bytes()...)
}

// decodeCharge reads a charge object. outcome.type tells success apart from a
// charge the provider recorded but did not approve.
func decodeCharge(data []byte) (*ChargeResult, error) {
	return readCharge(jx.DecodeBytes(data))
}

func readCharge(d *jx.Decoder) (*ChargeResult, error) {
	res := &ChargeResult{Success: true}
	var outcomeType string
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Str()
			res.ChargeID = v
			return err
		case "reference_code":
			if d.Next() == jx.Null {
				return d.Null()
			}
			v, err := d.Str()
			res.ReferenceCode = v
			return err
		case "outcome":
			return d.Obj(func(d *jx.Decoder, key string) error {
				switch key {
				case "type":
					v, err := d.Str()
					outcomeType = v
					return err
				case "user_message", "merchant_message":
					if d.Next() != jx.String {
						return d.Skip()
					}
					v, err := d.Str()
					if res.Reason == "" {
						res.Reason = v
					}
					return err
				case "code":
					if d.Next() != jx.String {
						return d.Skip()
					}
					v, err := d.Str()
					res.Code = v
					return err
				default:
					return d.Skip()
				}
			})
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return nil, err
	}
	if res.ChargeID == "" {
		return nil, errors.New("charge without id")
	}
	if outcomeType != "" && outcomeType != "venta_exitosa" && outcomeType != "approved" {
		res.Success = false
	} else {
		res.Reason = ""
		res.Code = ""
	}
	return res, nil
}

// decodeChargeList reads {"data":[charge...]} and returns the first charge.
func decodeChargeList(data []byte) (*ChargeResult, error) {
	var found *ChargeResult
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		if key != "data" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			if found != nil {
				return d.Skip()
			}
			res, err := readCharge(d)
			if err != nil {
				return err
			}
			found = res
			return nil
		})
	})
	return found, err
}

// decodeProviderError reads the provider's error object into a declined result.
func decodeProviderError(data []byte) (*ChargeResult, error) {
	res := &ChargeResult{}
	var userMsg, merchantMsg, code, declineCode string
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		if d.Next() != jx.String {
			return d.Skip()
		}
		v, err := d.Str()
		if err != nil {
			return err
		}
		switch key {
		case "user_message":
			userMsg = v
		case "merchant_message":
			merchantMsg = v
		case "code":
			code = v
		case "decline_code":
			declineCode = v
		case "charge_id":
			res.ChargeID = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Reason = userMsg
	if res.Reason == "" {
		res.Reason = merchantMsg
	}
	if res.Reason == "" {
		res.Reason = "payment was declined"
	}
	res.Code = declineCode
	if res.Code == "" {
		res.Code = code
	}
	return res, nil
}
