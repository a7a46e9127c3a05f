// Package payu builds signed PayU hosted-checkout requests and verifies their callbacks.
package payu

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PratyushG434/Ecommerce-backend/internal/apperr"
)

const (
	testURL = "https://test.payu.in/_payment"
	liveURL = "https://secure.payu.in/_payment"

	StatusSuccess = "success"
)

type Client struct {
	key        string
	salt       string
	paymentURL string
	now        func() time.Time
}

func New(key, salt, mode string) *Client {
	u := testURL
	if mode == "live" {
		u = liveURL
	}
	return &Client{key: key, salt: salt, paymentURL: u, now: time.Now}
}

// PaymentURL is where the client posts Params.
func (c *Client) PaymentURL() string { return c.paymentURL }

// Payment describes a checkout to be signed.
type Payment struct {
	TxnID       string
	Amount      decimal.Decimal
	ProductInfo string
	FirstName   string
	Email       string
	Phone       string
	SuccessURL  string
	FailureURL  string
}

// Params is the form the browser submits to the gateway.
type Params struct {
	Key         string `json:"key"`
	TxnID       string `json:"txnid"`
	Amount      string `json:"amount"`
	ProductInfo string `json:"productinfo"`
	FirstName   string `json:"firstname"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	SuccessURL  string `json:"successUrl"`
	FailureURL  string `json:"failureUrl"`
	Hash        string `json:"hash"`
}

// Callback is the form the gateway posts back to surl/furl.
type Callback struct {
	Status      string `form:"status"`
	TxnID       string `form:"txnid"`
	Amount      string `form:"amount"`
	ProductInfo string `form:"productinfo"`
	FirstName   string `form:"firstname"`
	Email       string `form:"email"`
	Key         string `form:"key"`
	Hash        string `form:"hash"`
	MihPayID    string `form:"mihpayid"`
}

// FormatAmount renders an amount the way it is sent and signed.
func FormatAmount(d decimal.Decimal) string { return d.StringFixed(2) }

func (c *Client) Params(p Payment) Params {
	out := Params{
		Key:         c.key,
		TxnID:       p.TxnID,
		Amount:      FormatAmount(p.Amount),
		ProductInfo: p.ProductInfo,
		FirstName:   p.FirstName,
		Email:       p.Email,
		Phone:       p.Phone,
		SuccessURL:  p.SuccessURL,
		FailureURL:  p.FailureURL,
	}
	out.Hash = signature(map[string]string{
		fKey:         out.Key,
		fTxnID:       out.TxnID,
		fAmount:      out.Amount,
		fProductInfo: out.ProductInfo,
		fFirstName:   out.FirstName,
		fEmail:       out.Email,
		fSalt:        c.salt,
	}, requestFields)
	return out
}

// Verify recomputes the response hash from the callback fields and the merchant salt.
// The key is taken from the callback so a foreign merchant key also fails the check.
func (c *Client) Verify(cb Callback) error {
	if cb.Hash == "" {
		return apperr.Wrap(apperr.ErrSignatureMismatch, errors.New("missing hash"))
	}
	want := signature(map[string]string{
		fSalt:        c.salt,
		fStatus:      cb.Status,
		fEmail:       cb.Email,
		fFirstName:   cb.FirstName,
		fProductInfo: cb.ProductInfo,
		fAmount:      cb.Amount,
		fTxnID:       cb.TxnID,
		fKey:         cb.Key,
	}, responseFields)
	if cb.Key != c.key {
		return apperr.Wrap(apperr.ErrSignatureMismatch, fmt.Errorf("unexpected merchant key %q", cb.Key))
	}
	if !equalHash(want, cb.Hash) {
		return apperr.ErrSignatureMismatch
	}
	return nil
}

// NewTxnID returns "TXN" + unix millis + 6 random hex chars.
func (c *Client) NewTxnID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("txn id entropy: %w", err)
	}
	return "TXN" + strconv.FormatInt(c.now().UnixMilli(), 10) + hex.EncodeToString(b), nil
}
