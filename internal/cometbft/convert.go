package cometbft

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/goodnatureofminers/penumbra-indexer/internal/chain"
)

func convertStatus(raw json.RawMessage) (*chain.Status, error) {
	var res statusResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("%w: unmarshal status: %w", chain.ErrDecode, err)
	}

	latest, err := parseHeight(res.SyncInfo.LatestBlockHeight)
	if err != nil {
		return nil, fmt.Errorf("%w: latest_block_height: %w", chain.ErrDecode, err)
	}

	var earliest uint64
	if res.SyncInfo.EarliestBlockHeight != "" {
		if earliest, err = parseHeight(res.SyncInfo.EarliestBlockHeight); err != nil {
			return nil, fmt.Errorf("%w: earliest_block_height: %w", chain.ErrDecode, err)
		}
	}

	return &chain.Status{
		Network:        res.NodeInfo.Network,
		LatestHeight:   latest,
		LatestTime:     res.SyncInfo.LatestBlockTime,
		EarliestHeight: earliest,
		CatchingUp:     res.SyncInfo.CatchingUp,
	}, nil
}

func convertBlock(raw json.RawMessage, requested uint64) (*chain.Block, error) {
	var res blockResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("%w: unmarshal block: %w", chain.ErrDecode, err)
	}

	header := res.Block.Header
	height, err := parseHeight(header.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: block height: %w", chain.ErrDecode, err)
	}
	if height != requested {
		return nil, fmt.Errorf("%w: node returned height %d for requested %d", chain.ErrDecode, height, requested)
	}
	if res.BlockID.Hash == "" {
		return nil, fmt.Errorf("%w: block %d has no hash", chain.ErrDecode, height)
	}
	if header.Time.IsZero() {
		return nil, fmt.Errorf("%w: block %d has no time", chain.ErrDecode, height)
	}

	txs := make([]chain.Tx, 0, len(res.Block.Data.Txs))
	for i, data := range res.Block.Data.Txs {
		tx, err := convertTx(i, data)
		if err != nil {
			return nil, fmt.Errorf("%w: block %d tx %d: %w", chain.ErrDecode, height, i, err)
		}
		txs = append(txs, tx)
	}

	var previous *string
	if h := header.LastBlockID.Hash; h != "" {
		previous = &h
	}

	return &chain.Block{
		Height:          height,
		Hash:            res.BlockID.Hash,
		Time:            header.Time,
		ProposerAddress: header.ProposerAddress,
		PreviousHash:    previous,
		Txs:             txs,
		Raw:             raw,
	}, nil
}

func convertTx(index int, data string) (chain.Tx, error) {
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return chain.Tx{}, fmt.Errorf("decode base64: %w", err)
	}
	sum := sha256.Sum256(b)
	return chain.Tx{
		Index: index,
		Hash:  strings.ToUpper(hex.EncodeToString(sum[:])),
		Data:  data,
		Bytes: b,
	}, nil
}

func parseHeight(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty height")
	}
	h, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse height %q: %w", s, err)
	}
	return h, nil
}
