package pin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cisattest/internal/platform/config"
)

// pinata uploads via the pinJSONToIPFS endpoint using a bearer JWT.
type pinata struct {
	httpc    *http.Client
	endpoint string
	token    string
}

func newPinata(cfg config.PinConfig, httpc *http.Client, log *slog.Logger) *pinata {
	warnIfExpiring(cfg.PinataJWT, log)
	return &pinata{httpc: httpc, endpoint: cfg.PinataEndpoint, token: cfg.PinataJWT}
}

func (p *pinata) Name() string { return "pinata" }

func (p *pinata) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	// pinJSONToIPFS takes the document inline, not as a file part.
	var content json.RawMessage = data
	body, err := json.Marshal(map[string]any{
		"pinataContent": content,
		"pinataMetadata": map[string]any{
			"name": filename,
		},
	})
	if err != nil {
		return "", &ProviderError{Provider: p.Name(), Message: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &ProviderError{Provider: p.Name(), Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.httpc.Do(req)
	if err != nil {
		return "", &ProviderError{Provider: p.Name(), Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &ProviderError{
			Provider: p.Name(),
			Message:  fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
		}
	}

	var out struct {
		IpfsHash string `json:"IpfsHash"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &ProviderError{Provider: p.Name(), Message: "decode response", Err: err}
	}
	if out.IpfsHash == "" {
		return "", &ProviderError{Provider: p.Name(), Message: "response missing IpfsHash"}
	}
	return out.IpfsHash, nil
}

// warnIfExpiring logs when the configured JWT expires within a week. The token
// is not validated here; Pinata rejects bad tokens at upload time.
func warnIfExpiring(token string, log *slog.Logger) {
	if log == nil {
		return
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return
	}
	if claims.ExpiresAt == nil {
		return
	}
	until := time.Until(claims.ExpiresAt.Time)
	if until <= 0 {
		log.Warn("pinata JWT is expired", "expired_at", claims.ExpiresAt.Time)
	} else if until < 7*24*time.Hour {
		log.Warn("pinata JWT expires soon", "expires_at", claims.ExpiresAt.Time)
	}
}
