package httptransport

import (
	"encoding/json"
	"net/http"
	"time"

	"cisattest/internal/assessment"
	"cisattest/internal/catalog"
	"cisattest/internal/maturity"
	"cisattest/internal/platform/middleware"
	"cisattest/internal/transport/http/shared"
	dErrors "cisattest/pkg/domain-errors"
)

// catalogResponse lists the safeguards in canonical order together with the
// per-control grouping the questionnaire is rendered from.
type catalogResponse struct {
	Safeguards []catalog.Safeguard                           `json:"safeguards"`
	Controls   map[int]map[catalog.Group][]catalog.Safeguard `json:"controls"`
}

func (h *Handler) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	sgs := h.svc.Catalog()
	shared.WriteJSON(w, http.StatusOK, catalogResponse{
		Safeguards: sgs,
		Controls:   catalog.GroupByControl(sgs),
	})
}

// submitRequest is the questionnaire submission body. Answers map safeguard
// IDs to status strings; missing or unknown statuses count as not implemented.
type submitRequest struct {
	Company     string            `json:"company"`
	GeneratedAt time.Time         `json:"generated_at,omitzero"`
	Answers     map[string]string `json:"answers"`
}

type submitResponse struct {
	Fingerprint string                           `json:"fingerprint"`
	CMMIAvg     float64                          `json:"cmmi_avg"`
	Maturity    map[int]maturity.ControlMaturity `json:"maturity"`
	GeneratedAt time.Time                        `json:"generated_at"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.svc.Submit(ctx, assessment.SubmitInput{
		Company:     req.Company,
		GeneratedAt: req.GeneratedAt,
		Answers:     req.Answers,
	})
	if err != nil {
		if dErrors.Is(err, dErrors.CodeBadRequest) {
			shared.WriteError(w, err)
			return
		}
		h.log.ErrorContext(ctx, "assessment submission failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error())
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to submit assessment"))
		return
	}

	shared.WriteJSON(w, http.StatusCreated, submitResponse{
		Fingerprint: string(result.Fingerprint),
		CMMIAvg:     result.Report.AverageLevel,
		Maturity:    result.Report.Maturity,
		GeneratedAt: result.Report.GeneratedAt,
	})
}

// hashRequest hashes arbitrary content without storing it. Content arrives as
// a string so the caller controls the exact bytes being hashed.
type hashRequest struct {
	Content   string `json:"content"`
	Algorithm string `json:"algorithm,omitempty"`
}

type hashResponse struct {
	Hash      string `json:"hash"`
	Algorithm string `json:"algorithm"`
}

func (h *Handler) handleHash(w http.ResponseWriter, r *http.Request) {
	var req hashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Content == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "content is required"))
		return
	}

	hash, algo, err := h.svc.HashContent([]byte(req.Content), req.Algorithm)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, hashResponse{Hash: string(hash), Algorithm: string(algo)})
}

type reportResponse struct {
	Fingerprint string          `json:"fingerprint"`
	CID         string          `json:"cid,omitempty"`
	Report      json.RawMessage `json:"report"`
}

func (h *Handler) handleGetReport(w http.ResponseWriter, r *http.Request) {
	stored, err := h.svc.Report(r.Context(), fingerprintParam(r))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, reportResponse{
		Fingerprint: string(stored.Fingerprint),
		CID:         stored.CID,
		Report:      json.RawMessage(stored.Canonical),
	})
}

type pinResponse struct {
	CID string `json:"cid"`
}

func (h *Handler) handlePin(w http.ResponseWriter, r *http.Request) {
	cid, err := h.svc.Pin(r.Context(), fingerprintParam(r))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, pinResponse{CID: cid})
}
