package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"github.com/sony/gobreaker/v2"
)

type submitRewardRequest struct {
	WalletAddress string  `json:"wallet_address"`
	Amount        float64 `json:"amount"`
}

type submitRewardResponse struct {
	TxHash      string `json:"tx_hash"`
	BlockNumber int64  `json:"block_number"`
	Confirmed   bool   `json:"confirmed"`
}

type transactionStatusResponse struct {
	Confirmed bool   `json:"confirmed"`
	Status    string `json:"status"`
}

type claimRequest struct {
	WalletAddress string `json:"wallet_address"`
}

type claimResponse struct {
	TxHash string `json:"tx_hash"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HTTPLedgerClient talks to the blockchain settlement service over
// plain HTTP, behind a circuit breaker so a dead ledger fails fast
// instead of stalling every sweep worker.
type HTTPLedgerClient struct {
	Address string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewHTTPLedgerClient(address string) *HTTPLedgerClient {
	var st gobreaker.Settings
	st.Name = "ledger"
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= 3 && failureRatio >= 0.6
	}

	return &HTTPLedgerClient{
		Address: address,
		client:  &http.Client{Timeout: 30 * time.Second},
		breaker: gobreaker.NewCircuitBreaker[[]byte](st),
	}
}

func (c *HTTPLedgerClient) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		var reader io.Reader
		if body != nil {
			payload, err := json.Marshal(body)
			if err != nil {
				return nil, err
			}
			reader = bytes.NewBuffer(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.Address+path, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		response, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer response.Body.Close()

		responseBody, err := io.ReadAll(response.Body)
		if err != nil {
			return nil, err
		}

		if response.StatusCode >= 200 && response.StatusCode < 300 {
			return responseBody, nil
		}

		var errResp errorResponse
		if err := json.Unmarshal(responseBody, &errResp); err != nil || errResp.Error == "" {
			return nil, fmt.Errorf("ledger returned status %d", response.StatusCode)
		}
		return nil, errors.New(errResp.Error)
	})
}

func (c *HTTPLedgerClient) SubmitReward(ctx context.Context, walletAddress string, amount float64) (*domain.LedgerTx, error) {
	responseBody, err := c.do(ctx, http.MethodPost, "/rewards/submit", submitRewardRequest{
		WalletAddress: walletAddress,
		Amount:        amount,
	})
	if err != nil {
		return nil, &domain.ExternalServiceError{Service: "ledger", Err: err}
	}

	var resp submitRewardResponse
	if err := json.Unmarshal(responseBody, &resp); err != nil {
		return nil, &domain.ExternalServiceError{Service: "ledger", Err: err}
	}
	return &domain.LedgerTx{
		TxHash:      resp.TxHash,
		BlockNumber: resp.BlockNumber,
		Confirmed:   resp.Confirmed,
	}, nil
}

func (c *HTTPLedgerClient) ValidateTransaction(ctx context.Context, txHash string) (*domain.LedgerTxStatus, error) {
	responseBody, err := c.do(ctx, http.MethodGet, "/transactions/"+txHash, nil)
	if err != nil {
		return nil, &domain.ExternalServiceError{Service: "ledger", Err: err}
	}

	var resp transactionStatusResponse
	if err := json.Unmarshal(responseBody, &resp); err != nil {
		return nil, &domain.ExternalServiceError{Service: "ledger", Err: err}
	}
	return &domain.LedgerTxStatus{Confirmed: resp.Confirmed, Status: resp.Status}, nil
}

func (c *HTTPLedgerClient) ClaimFor(ctx context.Context, walletAddress string) (string, error) {
	responseBody, err := c.do(ctx, http.MethodPost, "/rewards/claim", claimRequest{
		WalletAddress: walletAddress,
	})
	if err != nil {
		return "", &domain.ExternalServiceError{Service: "ledger", Err: err}
	}

	var resp claimResponse
	if err := json.Unmarshal(responseBody, &resp); err != nil {
		return "", &domain.ExternalServiceError{Service: "ledger", Err: err}
	}
	return resp.TxHash, nil
}
