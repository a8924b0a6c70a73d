package transport

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

const (
	defaultBlocksLimit       = 10
	maxBlocksLimit           = 100
	defaultTransactionsLimit = 50
	maxTransactionsLimit     = 500

	defaultStatsWindow  = 100
	defaultStatsHistory = 30 * 24 * time.Hour

	internalErrorMessage = "internal server error"
)

// APIHandler serves the read-only query endpoints from the store.
type APIHandler struct {
	repo         Repository
	logger       *zap.Logger
	marshaler    runtime.Marshaler
	now          func() time.Time
	statsWindow  int
	statsHistory time.Duration
}

// NewAPIHandler builds the handler. statsWindow is the number of latest blocks
// the average block time is taken over; statsHistory bounds the daily series.
func NewAPIHandler(repo Repository, logger *zap.Logger, statsWindow int, statsHistory time.Duration) *APIHandler {
	if statsWindow <= 0 {
		statsWindow = defaultStatsWindow
	}
	if statsHistory <= 0 {
		statsHistory = defaultStatsHistory
	}
	return &APIHandler{
		repo:         repo,
		logger:       logger,
		marshaler:    &runtime.JSONBuiltin{},
		now:          time.Now,
		statsWindow:  statsWindow,
		statsHistory: statsHistory,
	}
}

// LatestBlocks handles GET /api/blocks.
func (h *APIHandler) LatestBlocks(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	limit := parseLimit(r, defaultBlocksLimit, maxBlocksLimit)
	blocks, err := h.repo.LatestBlocks(r.Context(), limit)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toBlockList(blocks))
}

// BlockByHeight handles GET /api/blocks/{height}.
func (h *APIHandler) BlockByHeight(w http.ResponseWriter, r *http.Request, params map[string]string) {
	raw := params["height"]
	notFound := fmt.Sprintf("Block at height %s not found", raw)

	height, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		h.writeError(w, http.StatusNotFound, notFound)
		return
	}
	block, err := h.repo.BlockByHeight(r.Context(), height)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if block == nil {
		h.writeError(w, http.StatusNotFound, notFound)
		return
	}
	h.writeJSON(w, http.StatusOK, toBlock(*block))
}

// BlockTransactions handles GET /api/blocks/{height}/transactions.
func (h *APIHandler) BlockTransactions(w http.ResponseWriter, r *http.Request, params map[string]string) {
	raw := params["height"]
	notFound := fmt.Sprintf("No transactions found for block at height %s", raw)

	height, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		h.writeError(w, http.StatusNotFound, notFound)
		return
	}
	txs, err := h.repo.TransactionsByBlock(r.Context(), height)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if len(txs) == 0 {
		h.writeError(w, http.StatusNotFound, notFound)
		return
	}
	h.writeJSON(w, http.StatusOK, toTransactionList(txs))
}

// LatestTransactions handles GET /api/transactions.
func (h *APIHandler) LatestTransactions(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	limit := parseLimit(r, defaultTransactionsLimit, maxTransactionsLimit)
	txs, err := h.repo.LatestTransactions(r.Context(), limit)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toTransactionList(txs))
}

// Stats handles GET /api/stats.
func (h *APIHandler) Stats(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	since := h.now().UTC().Add(-h.statsHistory).Truncate(24 * time.Hour)
	stats, err := h.repo.ChainStats(r.Context(), h.statsWindow, since)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toStats(stats))
}

// Health handles GET /healthz.
func (h *APIHandler) Health(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseLimit reads ?limit=, falling back to def when absent or invalid and capping at maxLimit.
func parseLimit(r *http.Request, def, maxLimit int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return def
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func (h *APIHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("query failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	h.writeError(w, http.StatusInternalServerError, internalErrorMessage)
}

func (h *APIHandler) writeError(w http.ResponseWriter, code int, message string) {
	h.writeJSON(w, code, ErrorResponse{Error: message, Code: uint16(code)})
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	body, err := h.marshaler.Marshal(v)
	if err != nil {
		h.logger.Error("marshal response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", h.marshaler.ContentType(v))
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		h.logger.Debug("write response", zap.Error(err))
	}
}
