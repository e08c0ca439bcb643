package pin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cisattest/internal/platform/config"
)

const web3StorageEndpoint = "https://api.web3.storage/upload"

// web3Storage uploads via the web3.storage upload endpoint.
type web3Storage struct {
	httpc    *http.Client
	endpoint string
	token    string
}

func newWeb3Storage(cfg config.PinConfig, httpc *http.Client) *web3Storage {
	return &web3Storage{httpc: httpc, endpoint: web3StorageEndpoint, token: cfg.Web3StorageToken}
}

func (w *web3Storage) Name() string { return "web3.storage" }

func (w *web3Storage) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	body, contentType, err := multipartFile(filename, data)
	if err != nil {
		return "", &ProviderError{Provider: w.Name(), Message: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, body)
	if err != nil {
		return "", &ProviderError{Provider: w.Name(), Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+w.token)

	resp, err := w.httpc.Do(req)
	if err != nil {
		return "", &ProviderError{Provider: w.Name(), Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &ProviderError{
			Provider: w.Name(),
			Message:  fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
		}
	}

	var out struct {
		CID string `json:"cid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &ProviderError{Provider: w.Name(), Message: "decode response", Err: err}
	}
	if out.CID == "" {
		return "", &ProviderError{Provider: w.Name(), Message: "response missing cid"}
	}
	return out.CID, nil
}
