package candymachine

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"candy-machine-mint-go/internal/client"
)

// RPCAdapter implements ChainClient on top of the shared RPC wrapper
type RPCAdapter struct {
	rpc *client.Client
}

// NewRPCAdapter wraps an RPC client for use by the engine
func NewRPCAdapter(rpcClient *client.Client) *RPCAdapter {
	return &RPCAdapter{rpc: rpcClient}
}

func (a *RPCAdapter) GetAccountData(ctx context.Context, pubkey solana.PublicKey) ([]byte, error) {
	data, err := a.rpc.GetAccountData(ctx, pubkey)
	if err != nil {
		if errors.Is(err, client.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return data, nil
}

func (a *RPCAdapter) AccountExists(ctx context.Context, pubkey solana.PublicKey) (bool, error) {
	return a.rpc.AccountExists(ctx, pubkey)
}

func (a *RPCAdapter) GetTokenAccountBalance(ctx context.Context, tokenAccount solana.PublicKey) (uint64, error) {
	return a.rpc.GetTokenAccountBalance(ctx, tokenAccount)
}

func (a *RPCAdapter) GetBalance(ctx context.Context, pubkey solana.PublicKey) (uint64, error) {
	return a.rpc.GetBalance(ctx, pubkey)
}

func (a *RPCAdapter) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	return a.rpc.GetLatestBlockhash(ctx)
}

func (a *RPCAdapter) GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	return a.rpc.GetMinimumBalanceForRentExemption(ctx, size)
}

func (a *RPCAdapter) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	return a.rpc.SendTransaction(ctx, tx)
}

func (a *RPCAdapter) GetSignatureStatus(ctx context.Context, sig solana.Signature) (StatusReport, error) {
	status, err := a.rpc.GetSignatureStatus(ctx, sig)
	if err != nil {
		return StatusReport{}, err
	}
	if status == nil {
		return StatusReport{Found: false}, nil
	}

	confirmed := status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
		status.ConfirmationStatus == rpc.ConfirmationStatusFinalized

	return StatusReport{
		Found:     true,
		Confirmed: confirmed,
		LedgerErr: status.Err,
	}, nil
}
