package api

import (
	"net/http"
	"strconv"

	"github.com/alpha-scanner/internal/types"
	"github.com/gorilla/mux"
)

// handleScanAlphaBuyers handles GET /api/tokens/{token}/alpha-buyers?offset=N.
// Returns one page of classified early buyers plus the stateless cursor.
func (s *Server) handleScanAlphaBuyers(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	token := vars["token"]

	// Non-numeric or missing offsets fall back to the first page.
	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil {
			offset = o
		}
	}

	page, err := s.scanService.Scan(r.Context(), token, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// handleWalletPerformance handles GET /api/wallets/{address}/performance.
// A wallet with no surviving records after filtering is a 404, not an
// empty summary.
func (s *Server) handleWalletPerformance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address := vars["address"]

	summary, err := s.scanService.Aggregate(r.Context(), address)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if summary == nil {
		respondError(w, http.StatusNotFound, "NO_PERFORMANCE_DATA",
			"no performance data for wallet", map[string]interface{}{"address": address})
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// handleWalletTokens handles GET /api/wallets/{address}/tokens.
// Returns the wallet's filtered per-token performance records.
func (s *Server) handleWalletTokens(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address := vars["address"]

	records, err := s.scanService.WalletTokens(r.Context(), address)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if records == nil {
		records = []types.TokenPerformanceRecord{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"data": records})
}
