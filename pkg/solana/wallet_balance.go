package solana

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/client"
)

// WalletReader reads wallet balances from the chain.
type WalletReader struct {
	client *client.Client
}

// NewWalletReader creates a reader against the given RPC endpoint.
func NewWalletReader(endpoint string) *WalletReader {
	return &WalletReader{client: client.NewClient(endpoint)}
}

// GetSolBalance returns the wallet's SOL balance in lamports.
func (w *WalletReader) GetSolBalance(ctx context.Context, owner string) (uint64, error) {
	balance, err := w.client.GetBalance(ctx, owner)
	if err != nil {
		return 0, fmt.Errorf("get balance for %s: %w", owner, err)
	}
	return balance, nil
}
