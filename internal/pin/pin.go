// Package pin uploads canonical report documents to an IPFS pinning provider
// and returns the resulting content identifier.
//
// Provider choice is a pure function of configuration: the first configured
// provider in the fixed order pinata, nft.storage, web3.storage is used for
// every upload. A configured provider that fails does NOT fall through to the
// next one; silently pinning to a different service than the operator
// configured would be worse than the failure.
package pin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"cisattest/internal/platform/config"
)

// ErrNotConfigured is returned by Select when no provider credentials are
// present. Pinning is optional; callers degrade to registration without a CID.
var ErrNotConfigured = errors.New("pin: no provider configured")

// Uploader pins a JSON document and returns its content identifier.
type Uploader interface {
	Name() string
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// ProviderError carries the provider name alongside the upstream failure.
type ProviderError struct {
	Provider string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pin: %s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("pin: %s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Select returns the uploader for the first configured provider, or
// ErrNotConfigured when none is.
func Select(cfg config.PinConfig, httpc *http.Client, log *slog.Logger) (Uploader, error) {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	switch {
	case strings.TrimSpace(cfg.PinataJWT) != "":
		return newPinata(cfg, httpc, log), nil
	case strings.TrimSpace(cfg.NFTStorageToken) != "":
		return newNFTStorage(cfg, httpc), nil
	case strings.TrimSpace(cfg.Web3StorageToken) != "":
		return newWeb3Storage(cfg, httpc), nil
	}
	return nil, ErrNotConfigured
}
