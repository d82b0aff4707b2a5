package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
)

type userResponse struct {
	ID            string `json:"id"`
	Role          string `json:"role"`
	WalletAddress string `json:"wallet_address"`
}

type shopResponse struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
}

// HTTPIdentityProvider resolves users and shop ownership from the
// identity service.
type HTTPIdentityProvider struct {
	Address string
	client  *http.Client
}

func NewHTTPIdentityProvider(address string) *HTTPIdentityProvider {
	return &HTTPIdentityProvider{
		Address: address,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *HTTPIdentityProvider) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.Address+path, nil)
	if err != nil {
		return &domain.ExternalServiceError{Service: "identity", Err: err}
	}

	response, err := p.client.Do(req)
	if err != nil {
		return &domain.ExternalServiceError{Service: "identity", Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return domain.NewNotFoundError("identity resource", path)
	}
	if response.StatusCode != http.StatusOK {
		return &domain.ExternalServiceError{
			Service: "identity",
			Err:     fmt.Errorf("identity returned status %d", response.StatusCode),
		}
	}

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return &domain.ExternalServiceError{Service: "identity", Err: err}
	}
	if err := json.Unmarshal(responseBody, out); err != nil {
		return &domain.ExternalServiceError{Service: "identity", Err: err}
	}
	return nil
}

func (p *HTTPIdentityProvider) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	var resp userResponse
	if err := p.get(ctx, "/users/"+userID, &resp); err != nil {
		return nil, err
	}
	return &domain.User{
		ID:            resp.ID,
		Role:          domain.Role(resp.Role),
		WalletAddress: resp.WalletAddress,
	}, nil
}

func (p *HTTPIdentityProvider) GetShopOwnerID(ctx context.Context, shopID string) (string, error) {
	var resp shopResponse
	if err := p.get(ctx, "/shops/"+shopID, &resp); err != nil {
		return "", err
	}
	return resp.OwnerID, nil
}
