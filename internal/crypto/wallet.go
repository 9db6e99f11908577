// Package crypto holds the bot's key handling. A Wallet wraps a secp256k1
// private key and signs transactions for the configured chain.
package crypto

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Wallet signs transactions with a single EOA key.
type Wallet struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
	signer     types.Signer
}

// NewWallet creates a Wallet from a hex-encoded secp256k1 private key and
// the target chain ID. An empty key is an error; keys may carry a 0x prefix.
func NewWallet(privateKeyHex string, chainID *big.Int) (*Wallet, error) {
	keyHex := strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")
	if keyHex == "" {
		return nil, fmt.Errorf("crypto: empty private key")
	}
	pk, err := ethcrypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, fmt.Errorf("crypto: invalid private key: %w", err)
	}
	return &Wallet{
		privateKey: pk,
		address:    ethcrypto.PubkeyToAddress(pk.PublicKey),
		signer:     types.LatestSignerForChainID(chainID),
	}, nil
}

// Address returns the address derived from the wallet's private key.
func (w *Wallet) Address() common.Address {
	return w.address
}

// SignTx signs the transaction with the wallet key for the wallet's chain.
func (w *Wallet) SignTx(tx *types.Transaction) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, w.signer, w.privateKey)
	if err != nil {
		return nil, fmt.Errorf("crypto: sign tx: %w", err)
	}
	return signed, nil
}
