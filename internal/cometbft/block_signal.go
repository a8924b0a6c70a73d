package cometbft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/goodnatureofminers/penumbra-indexer/pkg/retry"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const newBlockQuery = "tm.event='NewBlockHeader'"

type subscribeRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	ID      int               `json:"id"`
	Params  map[string]string `json:"params"`
}

// BlockSignal subscribes to new-block events and turns them into wake-ups.
type BlockSignal struct {
	endpoint   string
	retryDelay time.Duration
	metrics    SignalMetrics
	logger     *zap.Logger
}

// NewBlockSignal derives the websocket endpoint from the node's RPC URL.
func NewBlockSignal(rpcURL string, retryDelay time.Duration, metrics SignalMetrics, logger *zap.Logger) (*BlockSignal, error) {
	if metrics == nil {
		return nil, errors.New("block signal metrics is required")
	}
	u, err := url.Parse(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("unsupported rpc url scheme %q", u.Scheme)
	}
	u = u.JoinPath("websocket")
	u.RawQuery = ""

	return &BlockSignal{
		endpoint:   u.String(),
		retryDelay: retryDelay,
		metrics:    metrics,
		logger:     logger.With(zap.String("endpoint", u.String())),
	}, nil
}

// Start subscribes in the background and returns a channel that receives a
// value whenever the node announces a block. Sends never block; bursts coalesce.
func (s *BlockSignal) Start(ctx context.Context) <-chan struct{} {
	notify := make(chan struct{}, 1)
	go func() {
		err := retry.Do(ctx, retry.Policy{Delay: s.retryDelay}, func(ctx context.Context) error {
			return s.subscribe(ctx, notify)
		}, func(err error, attempt uint64, next time.Duration) {
			s.logger.Warn("block subscription dropped, reconnecting",
				zap.Error(err), zap.Uint64("attempt", attempt), zap.Duration("sleep", next))
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("block subscription stopped", zap.Error(err))
		}
	}()
	return notify
}

func (s *BlockSignal) subscribe(ctx context.Context, notify chan<- struct{}) error {
	conn, _, err := websocket.Dial(ctx, s.endpoint, nil)
	s.metrics.ObserveConnect(err)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")
	conn.SetReadLimit(1 << 20)

	req := subscribeRequest{
		JSONRPC: "2.0",
		Method:  "subscribe",
		ID:      1,
		Params:  map[string]string{"query": newBlockQuery},
	}
	if err := wsjson.Write(ctx, conn, req); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	s.logger.Info("subscribed to new blocks")

	for {
		var msg rpcResponse
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return fmt.Errorf("read event: %w", err)
		}
		if msg.Error != nil {
			return msg.Error.err("subscribe")
		}
		if !isEvent(msg.Result) {
			continue
		}

		s.metrics.ObserveEvent()
		select {
		case notify <- struct{}{}:
		default:
		}
	}
}

// The subscribe acknowledgement carries an empty result object; events carry a query.
func isEvent(result json.RawMessage) bool {
	var event struct {
		Query string `json:"query"`
	}
	if len(result) == 0 || json.Unmarshal(result, &event) != nil {
		return false
	}
	return event.Query != ""
}
