package cometbft

import (
	"encoding/json"
	"time"
)

type (
	rpcResponse struct {
		Result json.RawMessage `json:"result"`
		Error  *rpcError       `json:"error"`
	}

	rpcError struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    string `json:"data"`
	}

	statusResult struct {
		NodeInfo struct {
			Network string `json:"network"`
		} `json:"node_info"`
		SyncInfo struct {
			LatestBlockHeight   string    `json:"latest_block_height"`
			LatestBlockTime     time.Time `json:"latest_block_time"`
			EarliestBlockHeight string    `json:"earliest_block_height"`
			CatchingUp          bool      `json:"catching_up"`
		} `json:"sync_info"`
	}

	blockResult struct {
		BlockID blockID `json:"block_id"`
		Block   struct {
			Header struct {
				Height          string    `json:"height"`
				Time            time.Time `json:"time"`
				LastBlockID     blockID   `json:"last_block_id"`
				ProposerAddress string    `json:"proposer_address"`
			} `json:"header"`
			Data struct {
				Txs []string `json:"txs"`
			} `json:"data"`
		} `json:"block"`
	}

	blockID struct {
		Hash string `json:"hash"`
	}
)
