package solana

import (
	"context"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	log "github.com/sirupsen/logrus"

	"alphawatch/pkg/retry"
)

// MintChecker resolves whether a token's mint authority is still set.
type MintChecker struct {
	client   *rpc.Client
	retryCfg retry.Config
}

// NewMintChecker creates a checker against the given RPC endpoint.
func NewMintChecker(endpoint string) *MintChecker {
	return &MintChecker{
		client:   rpc.New(endpoint),
		retryCfg: retry.DefaultConfig,
	}
}

// IsTokenMintable fetches the mint account and reports whether its mint
// authority is set. A missing account counts as not mintable.
func (m *MintChecker) IsTokenMintable(ctx context.Context, mintAddress string) (bool, error) {
	pubkey, err := solana.PublicKeyFromBase58(mintAddress)
	if err != nil {
		return false, fmt.Errorf("invalid mint address %s: %w", mintAddress, err)
	}

	var account *rpc.GetAccountInfoResult
	err = retry.Do(ctx, m.retryCfg, func(ctx context.Context) error {
		var err error
		account, err = m.client.GetAccountInfo(ctx, pubkey)
		if err != nil {
			if errors.Is(err, rpc.ErrNotFound) {
				return retry.Permanent(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, retry.ErrPermanent) {
			log.Warnf("Mint account %s not found on chain", mintAddress)
			return false, nil
		}
		return false, fmt.Errorf("fetch mint account %s: %w", mintAddress, err)
	}

	var mint token.Mint
	if err := bin.NewBinDecoder(account.Value.Data.GetBinary()).Decode(&mint); err != nil {
		return false, fmt.Errorf("decode mint account %s: %w", mintAddress, err)
	}

	return mint.MintAuthority != nil, nil
}
