package executor

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/dexflow/arbot/internal/crypto"
	"github.com/dexflow/arbot/internal/domain"
)

// routerABIJSON is the slice of the Uniswap V2 router ABI the executor
// needs: swapExactTokensForTokens only.
const routerABIJSON = `[{"inputs":[{"internalType":"uint256","name":"amountIn","type":"uint256"},{"internalType":"uint256","name":"amountOutMin","type":"uint256"},{"internalType":"address[]","name":"path","type":"address[]"},{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"deadline","type":"uint256"}],"name":"swapExactTokensForTokens","outputs":[{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],"stateMutability":"nonpayable","type":"function"}]`

// deadlineWindow is how far in the future a swap deadline is set.
const deadlineWindow = 5 * time.Minute

// RouterConfig carries the swap parameters for the on-chain executor.
type RouterConfig struct {
	RouterAddress common.Address
	TokenIn       common.Address
	TokenOut      common.Address
	AmountIn      *big.Int
	GasLimit      uint64
}

// Router submits real swapExactTokensForTokens transactions through a
// Uniswap V2-style router. One opportunity maps to one swap on the buy
// venue's router.
type Router struct {
	client    *ethclient.Client
	wallet    *crypto.Wallet
	routerABI abi.ABI
	cfg       RouterConfig
	logger    *slog.Logger
}

var _ domain.Executor = (*Router)(nil)

// NewRouter builds an on-chain executor.
func NewRouter(client *ethclient.Client, wallet *crypto.Wallet, cfg RouterConfig, logger *slog.Logger) (*Router, error) {
	parsed, err := abi.JSON(strings.NewReader(routerABIJSON))
	if err != nil {
		return nil, fmt.Errorf("executor: parse router abi: %w", err)
	}
	return &Router{
		client:    client,
		wallet:    wallet,
		routerABI: parsed,
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "router_executor")),
	}, nil
}

// Submit builds, signs, and broadcasts the swap for the opportunity.
func (r *Router) Submit(ctx context.Context, opp domain.Opportunity) error {
	from := r.wallet.Address()

	nonce, err := r.client.PendingNonceAt(ctx, from)
	if err != nil {
		return fmt.Errorf("executor: pending nonce: %w", err)
	}
	gasPrice, err := r.client.SuggestGasPrice(ctx)
	if err != nil {
		return fmt.Errorf("executor: suggest gas price: %w", err)
	}

	deadline := big.NewInt(time.Now().Add(deadlineWindow).Unix())
	path := []common.Address{r.cfg.TokenIn, r.cfg.TokenOut}
	// amountOutMin 0: slippage is bounded upstream by the profit threshold
	data, err := r.routerABI.Pack("swapExactTokensForTokens",
		r.cfg.AmountIn, big.NewInt(0), path, from, deadline)
	if err != nil {
		return fmt.Errorf("executor: pack swap: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &r.cfg.RouterAddress,
		Value:    big.NewInt(0),
		Gas:      r.cfg.GasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := r.wallet.SignTx(tx)
	if err != nil {
		return fmt.Errorf("executor: %w", err)
	}

	if err := r.client.SendTransaction(ctx, signed); err != nil {
		return fmt.Errorf("executor: send tx: %w", err)
	}

	r.logger.Info("swap submitted",
		slog.String("id", opp.ID),
		slog.String("tx", signed.Hash().Hex()),
		slog.String("buy_venue", opp.BuyVenue),
		slog.String("sell_venue", opp.SellVenue),
		slog.Float64("profit", opp.Profit),
		slog.Uint64("nonce", nonce),
	)
	return nil
}
