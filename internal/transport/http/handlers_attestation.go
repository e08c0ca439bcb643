package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cisattest/internal/anchor"
	"cisattest/internal/assessment"
	"cisattest/internal/platform/middleware"
	"cisattest/internal/transport/http/shared"
	dErrors "cisattest/pkg/domain-errors"
)

func fingerprintParam(r *http.Request) string {
	return chi.URLParam(r, "fingerprint")
}

type registerRequest struct {
	Hash string `json:"hash"`
}

type registerResponse struct {
	Outcome     string `json:"outcome"`
	TxHash      string `json:"tx_hash,omitempty"`
	Block       uint64 `json:"block,omitempty"`
	ExplorerURL string `json:"explorer_url,omitempty"`
}

// handleRegister anchors a fingerprint on the ledger. A duplicate returns 200
// with outcome already_registered; a fresh registration returns 201.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.svc.Register(ctx, req.Hash)
	if err != nil {
		h.log.WarnContext(ctx, "registration failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error())
		shared.WriteError(w, err)
		return
	}

	resp := registerResponse{
		Outcome: string(result.Outcome),
		TxHash:  result.Tx.Hash,
		Block:   result.Tx.Block,
	}
	status := http.StatusOK
	if result.Outcome == anchor.OutcomeRegistered {
		status = http.StatusCreated
		if h.explorerBase != "" && result.Tx.Hash != "" {
			resp.ExplorerURL = h.explorerBase + "/tx/" + result.Tx.Hash
		}
	}
	shared.WriteJSON(w, status, resp)
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Verify(r.Context(), fingerprintParam(r))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	// Not found is a valid answer, not an error: the response always carries
	// the found flag.
	shared.WriteJSON(w, http.StatusOK, result)
}

type historyResponse struct {
	Entries []assessment.LogEntry `json:"entries"`
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.History(r.Context(), fingerprintParam(r))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if entries == nil {
		entries = []assessment.LogEntry{}
	}
	shared.WriteJSON(w, http.StatusOK, historyResponse{Entries: entries})
}
