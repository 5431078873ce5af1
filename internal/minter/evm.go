package minter

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/attendly/attendance-api/internal/config"
)

const safeMintABI = `[{"inputs":[{"internalType":"address","name":"to","type":"address"},{"internalType":"string","name":"uri","type":"string"}],"name":"safeMint","outputs":[],"stateMutability":"nonpayable","type":"function"}]`

var ErrMintReverted = errors.New("mint transaction reverted")

// EVMMinter calls safeMint on an ERC-721 contract and blocks until the
// transaction is mined.
type EVMMinter struct {
	client   *ethclient.Client
	contract *bind.BoundContract
	key      *ecdsa.PrivateKey
	chainID  *big.Int
}

func NewEVMMinter(conf *config.ChainConfig) (*EVMMinter, error) {
	client, err := ethclient.Dial(conf.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("ethclient.Dial -> %w", err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(conf.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("crypto.HexToECDSA -> %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(safeMintABI))
	if err != nil {
		return nil, fmt.Errorf("abi.JSON -> %w", err)
	}

	address := common.HexToAddress(conf.ContractAddress)
	contract := bind.NewBoundContract(address, parsed, client, client, client)

	return &EVMMinter{
		client:   client,
		contract: contract,
		key:      key,
		chainID:  big.NewInt(conf.ChainID),
	}, nil
}

// Mint submits safeMint(recipient, tokenURI) and waits for the receipt.
// Gas estimation doubles as simulation: a call that would revert fails
// before anything is submitted.
func (m *EVMMinter) Mint(ctx context.Context, recipient, tokenURI string) (string, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(m.key, m.chainID)
	if err != nil {
		return "", fmt.Errorf("bind.NewKeyedTransactorWithChainID -> %w", err)
	}
	opts.Context = ctx

	tx, err := m.contract.Transact(opts, "safeMint", common.HexToAddress(recipient), tokenURI)
	if err != nil {
		return "", fmt.Errorf("m.contract.Transact -> %w", err)
	}

	receipt, err := bind.WaitMined(ctx, m.client, tx)
	if err != nil {
		return "", fmt.Errorf("bind.WaitMined -> %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", ErrMintReverted
	}

	return tx.Hash().Hex(), nil
}
