package custody

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/termvault/staking-ledger-service/internal/config"
	"github.com/termvault/staking-ledger-service/internal/types"
)

// Client talks to the custody bridge, the external collaborator that holds
// and moves the staked funds. It implements ledger.Custody.
type Client struct {
	config     *config.CustodyConfig
	httpClient *http.Client
}

func NewClient(cfg *config.CustodyConfig) *Client {
	httpClient := &http.Client{
		Timeout: time.Duration(cfg.Timeout) * time.Millisecond,
	}
	return &Client{
		cfg,
		httpClient,
	}
}

type transferRequest struct {
	Asset   string `json:"asset"`
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

type balanceResponse struct {
	Asset   string `json:"asset"`
	Balance uint64 `json:"balance"`
}

// TransferIn pulls token principal from the staker into custody. Only the
// token asset ever moves through this path.
func (c *Client) TransferIn(ctx context.Context, asset types.AssetKind, from string, amount uint64) error {
	return c.postTransfer(ctx, "/v1/transfers/in", asset, from, amount)
}

// TransferOut releases funds from custody to the given account.
func (c *Client) TransferOut(ctx context.Context, asset types.AssetKind, to string, amount uint64) error {
	return c.postTransfer(ctx, "/v1/transfers/out", asset, to, amount)
}

// BalanceOf reports the bridge's custody balance for one asset kind.
func (c *Client) BalanceOf(ctx context.Context, asset types.AssetKind) (uint64, error) {
	url := fmt.Sprintf("%s/v1/balances/%s", c.config.Address, asset)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("custody bridge returned status %d for balance query", resp.StatusCode)
	}

	var output balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&output); err != nil {
		return 0, fmt.Errorf("failed to decode custody bridge response: %w", err)
	}
	return output.Balance, nil
}

func (c *Client) postTransfer(ctx context.Context, path string, asset types.AssetKind, account string, amount uint64) error {
	url := c.config.Address + path

	body, err := json.Marshal(transferRequest{
		Asset:   asset.ToString(),
		Account: account,
		Amount:  amount,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal transfer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("custody bridge returned status %d for %s", resp.StatusCode, path)
	}
	return nil
}
