package ingester

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/internal/chain"
	"github.com/goodnatureofminers/penumbra-indexer/internal/model"
	"github.com/shopspring/decimal"
)

type blockProcessor struct {
	source     Source
	repo       Repository
	classifier chain.Classifier
	metrics    BlockProcessorMetrics
	now        func() time.Time
}

// Process fetches one height, classifies its transactions and stores the block
// together with its transactions.
func (p *blockProcessor) Process(ctx context.Context, height uint64) (err error) {
	started := time.Now()
	txCount := 0
	defer func() {
		p.metrics.ObserveProcessHeight(err, height, txCount, started)
	}()

	block, err := p.source.FetchBlock(ctx, height)
	if err != nil {
		return fmt.Errorf("fetch block %d: %w", height, err)
	}

	b, txs := buildBlock(block, p.classifier, p.now().UTC())
	txCount = len(txs)

	if err = p.repo.SaveBlock(ctx, b, txs); err != nil {
		return fmt.Errorf("save block %d: %w", height, err)
	}
	return nil
}

func buildBlock(src *chain.Block, classifier chain.Classifier, now time.Time) (model.Block, []model.Transaction) {
	burn := decimal.Zero
	txs := make([]model.Transaction, 0, len(src.Txs))
	for _, tx := range src.Txs {
		c := classifier.Classify(tx)
		action := c.ActionType
		if action == "" {
			action = chain.UnknownAction
		}
		burn = burn.Add(c.Burn)
		txs = append(txs, model.Transaction{
			TxHash:      tx.Hash,
			BlockHeight: src.Height,
			Time:        src.Time,
			ActionType:  action,
			Amount:      c.Amount,
			Data:        tx.Data,
			CreatedAt:   now,
		})
	}

	return model.Block{
		Height:            src.Height,
		Time:              src.Time,
		Hash:              src.Hash,
		ProposerAddress:   src.ProposerAddress,
		TxCount:           uint32(len(txs)),
		PreviousBlockHash: src.PreviousHash,
		BurnAmount:        burn,
		Data:              src.Raw,
		CreatedAt:         now,
	}, txs
}
