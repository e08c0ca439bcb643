package httptransport

import (
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"cisattest/internal/anchor"
	"cisattest/internal/assessment"
	"cisattest/internal/catalog"
	"cisattest/pkg/testutil"
)

const explorerBase = "https://sepolia.etherscan.io"

type HandlerSuite struct {
	suite.Suite
	router http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	discard := slog.New(slog.DiscardHandler)
	svc := assessment.NewService(
		catalog.Fallback(),
		assessment.NewMemoryReportStore(),
		assessment.NewMemoryAttestationLog(),
		anchor.NewService(anchor.NewMemoryLedger(), discard),
		discard,
		assessment.WithClock(func() time.Time {
			return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
		}),
	)
	s.router = NewRouter(NewHandler(svc, discard, nil, explorerBase))
}

// submit files an assessment through the API and returns the fingerprint.
func (s *HandlerSuite) submit(company string) string {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/assessments", map[string]any{
		"company": company,
		"answers": map[string]string{"1.1": "implemented", "1.2": "partial"},
	})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)

	resp := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
	fingerprint, _ := (*resp)["fingerprint"].(string)
	s.Require().NotEmpty(fingerprint)
	return fingerprint
}

func (s *HandlerSuite) TestCatalog() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/catalog"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	resp := testutil.UnmarshalResponse[catalogResponse](s.T(), rr)
	s.NotEmpty(resp.Safeguards)
	s.NotEmpty(resp.Controls)
	// Canonical order: first safeguard belongs to the first control.
	s.Equal(1, resp.Safeguards[0].Control)
}

func (s *HandlerSuite) TestSubmit() {
	s.Run("returns the scored report", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/assessments", map[string]any{
			"company": "Acme Corp",
			"answers": map[string]string{"1.1": "implemented"},
		})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)

		resp := testutil.UnmarshalResponse[submitResponse](s.T(), rr)
		s.NotEmpty(resp.Fingerprint)
		s.NotEmpty(resp.Maturity)
		s.GreaterOrEqual(resp.CMMIAvg, 1.0)
	})

	s.Run("rejects malformed bodies", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/assessments", "{nope")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
		testutil.AssertErrorCode(s.T(), rr, "bad_request")
	})

	s.Run("rejects blank company", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/assessments", map[string]any{
			"company": "  ",
		})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *HandlerSuite) TestHash() {
	s.Run("hashes content with the default algorithm", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/hash", map[string]string{
			"content": "abc",
		})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		resp := testutil.UnmarshalResponse[hashResponse](s.T(), rr)
		s.Equal("0xba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", resp.Hash)
		s.Equal("sha256", resp.Algorithm)
	})

	s.Run("echoes the canonical algorithm name", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/hash", map[string]string{
			"content":   "abc",
			"algorithm": " SHA256 ",
		})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		resp := testutil.UnmarshalResponse[hashResponse](s.T(), rr)
		s.Equal("sha256", resp.Algorithm)
	})

	s.Run("rejects empty content", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/hash", map[string]string{})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("rejects unknown algorithms", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/hash", map[string]string{
			"content":   "abc",
			"algorithm": "md5",
		})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *HandlerSuite) TestReport() {
	s.Run("returns the stored canonical document", func() {
		fingerprint := s.submit("Acme Corp")

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/reports/"+fingerprint))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		resp := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
		s.Equal(fingerprint, (*resp)["fingerprint"])
		s.Contains(*resp, "report")
	})

	s.Run("unknown fingerprint is 404", func() {
		const unknown = "0xba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/reports/"+unknown))
		testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
		testutil.AssertErrorCode(s.T(), rr, "not_found")
	})

	s.Run("pin without a provider is 501", func() {
		fingerprint := s.submit("Pinless Co")
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/reports/"+fingerprint+"/pin"))
		testutil.AssertStatus(s.T(), rr, http.StatusNotImplemented)
	})
}

func (s *HandlerSuite) TestAttestations() {
	s.Run("register verify round trip", func() {
		fingerprint := s.submit("Round Trip Co")

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/attestations", map[string]string{
			"hash": fingerprint,
		})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)

		reg := testutil.UnmarshalResponse[registerResponse](s.T(), rr)
		s.Equal("registered", reg.Outcome)
		s.NotEmpty(reg.TxHash)
		s.Equal(explorerBase+"/tx/"+reg.TxHash, reg.ExplorerURL)

		rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/attestations/"+fingerprint))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		verify := testutil.UnmarshalResponse[anchor.VerifyResult](s.T(), rr)
		s.True(verify.Found)
		s.NotEmpty(verify.Owner)
	})

	s.Run("duplicate registration is 200 already_registered", func() {
		fingerprint := s.submit("Duplicate Co")
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/attestations", map[string]string{"hash": fingerprint})

		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)

		rr = testutil.DoRequest(s.router,
			testutil.NewJSONRequest(s.T(), http.MethodPost, "/attestations", map[string]string{"hash": fingerprint}))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		reg := testutil.UnmarshalResponse[registerResponse](s.T(), rr)
		s.Equal("already_registered", reg.Outcome)
		s.Empty(reg.ExplorerURL)
	})

	s.Run("unregistered hash verifies as not found", func() {
		const unknown = "0xba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/attestations/"+unknown))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		verify := testutil.UnmarshalResponse[anchor.VerifyResult](s.T(), rr)
		s.False(verify.Found)
	})

	s.Run("malformed hash is 400", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/attestations", map[string]string{"hash": "0x1234"})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)

		rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/attestations/nope"))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("log lists registration attempts", func() {
		fingerprint := s.submit("Logged Co")
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/attestations", map[string]string{"hash": fingerprint})
		testutil.DoRequest(s.router, req)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/attestations/"+fingerprint+"/log"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		hist := testutil.UnmarshalResponse[historyResponse](s.T(), rr)
		s.Require().Len(hist.Entries, 1)
		s.Equal("Logged Co", hist.Entries[0].Company)
	})
}

func (s *HandlerSuite) TestHealth() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/healthz"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
}
