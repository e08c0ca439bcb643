package pin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"cisattest/internal/platform/config"
)

// nftStorage uploads via the nft.storage upload endpoint as a multipart file.
type nftStorage struct {
	httpc    *http.Client
	endpoint string
	token    string
}

func newNFTStorage(cfg config.PinConfig, httpc *http.Client) *nftStorage {
	return &nftStorage{httpc: httpc, endpoint: cfg.NFTStorageAPI, token: cfg.NFTStorageToken}
}

func (n *nftStorage) Name() string { return "nft.storage" }

func (n *nftStorage) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	body, contentType, err := multipartFile(filename, data)
	if err != nil {
		return "", &ProviderError{Provider: n.Name(), Message: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, body)
	if err != nil {
		return "", &ProviderError{Provider: n.Name(), Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+n.token)

	resp, err := n.httpc.Do(req)
	if err != nil {
		return "", &ProviderError{Provider: n.Name(), Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &ProviderError{
			Provider: n.Name(),
			Message:  fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
		}
	}

	var out struct {
		OK    bool `json:"ok"`
		Value struct {
			CID string `json:"cid"`
		} `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &ProviderError{Provider: n.Name(), Message: "decode response", Err: err}
	}
	if !out.OK || out.Value.CID == "" {
		return "", &ProviderError{Provider: n.Name(), Message: "response missing cid"}
	}
	return out.Value.CID, nil
}

func multipartFile(filename string, data []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
