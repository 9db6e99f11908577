// Package feed implements domain.PriceSource. The production source reads
// Uniswap V2-style pair reserves over JSON-RPC; a static source backs tests
// and dry runs.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// pairABIJSON is the minimal slice of the IUniswapV2Pair ABI the source
// needs: getReserves only.
const pairABIJSON = `[{"constant":true,"inputs":[],"name":"getReserves","outputs":[{"internalType":"uint112","name":"_reserve0","type":"uint112"},{"internalType":"uint112","name":"_reserve1","type":"uint112"},{"internalType":"uint32","name":"_blockTimestampLast","type":"uint32"}],"payable":false,"stateMutability":"view","type":"function"}]`

// Pool describes one venue's pair contract.
type Pool struct {
	Address        common.Address
	Token0Decimals int
	Token1Decimals int
}

// UniswapSource polls pair contracts for reserves and quotes each venue as
// token0/token1 adjusted for token decimals. One snapshot issues one
// getReserves call per venue; a failing venue is logged and omitted from the
// snapshot rather than failing the whole poll.
type UniswapSource struct {
	client  *ethclient.Client
	pairABI abi.ABI
	pools   map[string]Pool
	logger  *slog.Logger
}

// NewUniswapSource dials the JSON-RPC endpoint and prepares the pair ABI.
func NewUniswapSource(ctx context.Context, rpcURL string, pools map[string]Pool, logger *slog.Logger) (*UniswapSource, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("feed: dial %s: %w", rpcURL, err)
	}
	parsed, err := abi.JSON(strings.NewReader(pairABIJSON))
	if err != nil {
		return nil, fmt.Errorf("feed: parse pair abi: %w", err)
	}
	src := &UniswapSource{
		client:  client,
		pairABI: parsed,
		pools:   make(map[string]Pool, len(pools)),
		logger:  logger.With(slog.String("component", "uniswap_feed")),
	}
	for venue, p := range pools {
		src.pools[venue] = p
	}
	return src, nil
}

// Close releases the underlying RPC connection.
func (s *UniswapSource) Close() {
	s.client.Close()
}

// Snapshot fetches the current price for every configured venue. Venues are
// polled in sorted order; a per-venue failure is logged and that venue is
// left out of the returned map.
func (s *UniswapSource) Snapshot(ctx context.Context) (map[string]float64, error) {
	venues := make([]string, 0, len(s.pools))
	for v := range s.pools {
		venues = append(venues, v)
	}
	sort.Strings(venues)

	prices := make(map[string]float64, len(venues))
	for _, venue := range venues {
		price, err := s.price(ctx, venue)
		if err != nil {
			s.logger.Error("price fetch failed",
				slog.String("venue", venue),
				slog.String("error", err.Error()),
			)
			continue
		}
		prices[venue] = price
	}
	return prices, nil
}

// price reads the pair reserves for one venue and converts them to a quote.
func (s *UniswapSource) price(ctx context.Context, venue string) (float64, error) {
	pool, ok := s.pools[venue]
	if !ok {
		return 0, fmt.Errorf("feed: pool not configured for %q", venue)
	}

	data, err := s.pairABI.Pack("getReserves")
	if err != nil {
		return 0, fmt.Errorf("feed: pack getReserves: %w", err)
	}
	raw, err := s.client.CallContract(ctx, ethereum.CallMsg{
		To:   &pool.Address,
		Data: data,
	}, nil)
	if err != nil {
		return 0, fmt.Errorf("feed: call getReserves %s: %w", pool.Address.Hex(), err)
	}

	out, err := s.pairABI.Unpack("getReserves", raw)
	if err != nil {
		return 0, fmt.Errorf("feed: unpack getReserves: %w", err)
	}
	if len(out) < 2 {
		return 0, fmt.Errorf("feed: getReserves returned %d values", len(out))
	}
	reserve0, ok0 := out[0].(*big.Int)
	reserve1, ok1 := out[1].(*big.Int)
	if !ok0 || !ok1 {
		return 0, fmt.Errorf("feed: unexpected getReserves output types")
	}

	if reserve0.Sign() == 0 || reserve1.Sign() == 0 {
		s.logger.Warn("zero reserves", slog.String("venue", venue))
		return 0, nil
	}

	return PairPrice(reserve0, reserve1, pool.Token0Decimals, pool.Token1Decimals), nil
}

// PairPrice converts raw pair reserves into a token0-per-token1 price,
// normalizing each reserve by its token's decimals.
func PairPrice(reserve0, reserve1 *big.Int, dec0, dec1 int) float64 {
	r0, _ := new(big.Float).SetInt(reserve0).Float64()
	r1, _ := new(big.Float).SetInt(reserve1).Float64()
	if r1 == 0 {
		return 0
	}
	// price = (r0 / 10^dec0) / (r1 / 10^dec1)
	return (r0 / r1) * math.Pow10(dec1-dec0)
}
