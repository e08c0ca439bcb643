// Package rpc adapts the registry contract behind a JSON-RPC endpoint to the
// anchor.Ledger port. Calls are plain eth_call / eth_sendTransaction round
// trips with hand-packed ABI data; the contract surface is four functions:
//
//	registerReport(bytes32)
//	registerReportWithCID(bytes32,string)
//	verifyReport(bytes32) returns (bool, address, uint256)
//	getCID(bytes32) returns (string)
//
// Writes go through a node-managed sender account, so no local signing is
// needed. There is no retry and no backoff anywhere here; failures surface to
// the caller untouched.
package rpc

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/sha3"
	"golang.org/x/text/unicode/norm"

	"cisattest/internal/anchor"
	"cisattest/internal/platform/config"
	"cisattest/pkg/platform/sentinel"
)

var addressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

const zeroAddress = "0x0000000000000000000000000000000000000000"

// Client speaks JSON-RPC to a single configured chain.
type Client struct {
	httpc           *http.Client
	url             string
	contract        string
	sender          string
	supportsCID     bool
	receiptTimeout  time.Duration
	receiptInterval time.Duration
	log             *slog.Logger
}

// New validates the configuration and builds the adapter. The sender address
// is only required for writes; a read-only deployment may leave it empty.
func New(cfg config.LedgerConfig, log *slog.Logger) (*Client, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("ledger RPC URL is required")
	}
	contract, err := CleanAddress(cfg.ContractAddress)
	if err != nil {
		return nil, fmt.Errorf("contract address: %w", err)
	}
	sender := ""
	if cfg.SenderAddress != "" {
		if sender, err = CleanAddress(cfg.SenderAddress); err != nil {
			return nil, fmt.Errorf("sender address: %w", err)
		}
	}
	return &Client{
		httpc:           &http.Client{Timeout: 30 * time.Second},
		url:             cfg.RPCURL,
		contract:        contract,
		sender:          sender,
		supportsCID:     cfg.SupportsCID,
		receiptTimeout:  cfg.ReceiptTimeout,
		receiptInterval: cfg.ReceiptInterval,
		log:             log,
	}, nil
}

// CleanAddress sanitizes a configured address: one NFKC pass, surrounding
// whitespace and quotes stripped, then strict 0x + 40 hex validation.
func CleanAddress(value string) (string, error) {
	v := norm.NFKC.String(value)
	v = strings.Trim(strings.TrimSpace(v), `'"`)
	v = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, v)
	if !addressRe.MatchString(v) {
		return "", fmt.Errorf("malformed address %q (want 0x + 40 hex)", v)
	}
	return v, nil
}

func selector(signature string) []byte {
	k := sha3.NewLegacyKeccak256()
	k.Write([]byte(signature))
	return k.Sum(nil)[:4]
}

var (
	selRegister        = selector("registerReport(bytes32)")
	selRegisterWithCID = selector("registerReportWithCID(bytes32,string)")
	selVerify          = selector("verifyReport(bytes32)")
	selGetCID          = selector("getCID(bytes32)")
)

func (c *Client) Register(ctx context.Context, hash [32]byte) (anchor.TxRef, error) {
	data := append(append([]byte{}, selRegister...), hash[:]...)
	return c.sendAndWait(ctx, "registerReport", data)
}

func (c *Client) RegisterWithCID(ctx context.Context, hash [32]byte, cid string) (anchor.TxRef, error) {
	if !c.supportsCID {
		return anchor.TxRef{}, sentinel.ErrUnsupported
	}
	data := append(append([]byte{}, selRegisterWithCID...), hash[:]...)
	data = append(data, encodeString(cid, 64)...)
	tx, err := c.sendAndWait(ctx, "registerReportWithCID", data)
	if err != nil {
		// A bare revert on the CID entry point means the deployed contract
		// predates it; distinguish that from connectivity failures.
		var revert *anchor.RevertError
		if errors.As(err, &revert) && revert.Reason == "" {
			return anchor.TxRef{}, fmt.Errorf("registerReportWithCID: %w", sentinel.ErrUnsupported)
		}
	}
	return tx, err
}

func (c *Client) Verify(ctx context.Context, hash [32]byte) (anchor.Record, error) {
	data := append(append([]byte{}, selVerify...), hash[:]...)
	out, err := c.ethCall(ctx, "verifyReport", data)
	if err != nil {
		return anchor.Record{}, err
	}
	if len(out) < 96 {
		return anchor.Record{}, fmt.Errorf("verifyReport: short return (%d bytes)", len(out))
	}
	found := out[31] != 0
	if !found {
		return anchor.Record{}, nil
	}
	owner := "0x" + hex.EncodeToString(out[44:64])
	if owner == zeroAddress {
		owner = ""
	}
	ts := new(big.Int).SetBytes(out[64:96])
	return anchor.Record{
		Found:     true,
		Owner:     owner,
		Timestamp: time.Unix(ts.Int64(), 0).UTC(),
	}, nil
}

func (c *Client) CID(ctx context.Context, hash [32]byte) (string, error) {
	if !c.supportsCID {
		return "", sentinel.ErrUnsupported
	}
	data := append(append([]byte{}, selGetCID...), hash[:]...)
	out, err := c.ethCall(ctx, "getCID", data)
	if err != nil {
		var revert *anchor.RevertError
		if errors.As(err, &revert) && revert.Reason == "" {
			return "", fmt.Errorf("getCID: %w", sentinel.ErrUnsupported)
		}
		return "", err
	}
	return decodeString(out)
}

// encodeString ABI-encodes a dynamic string whose offset slot starts at
// headLen bytes after the selector.
func encodeString(s string, headLen int) []byte {
	out := make([]byte, 0, 64+len(s)+32)
	out = append(out, pad32Uint(uint64(headLen))...)
	out = append(out, pad32Uint(uint64(len(s)))...)
	out = append(out, []byte(s)...)
	if rem := len(s) % 32; rem != 0 {
		out = append(out, make([]byte, 32-rem)...)
	}
	return out
}

func pad32Uint(v uint64) []byte {
	out := make([]byte, 32)
	big.NewInt(0).SetUint64(v).FillBytes(out)
	return out
}

func decodeString(out []byte) (string, error) {
	if len(out) == 0 {
		return "", nil
	}
	if len(out) < 64 {
		return "", fmt.Errorf("string return too short (%d bytes)", len(out))
	}
	// Compare by subtraction on the trusted side; adding to the untrusted
	// offset or length could wrap around uint64.
	total := uint64(len(out))
	offset := new(big.Int).SetBytes(out[:32]).Uint64()
	if offset > total || total-offset < 32 {
		return "", fmt.Errorf("string offset out of range")
	}
	length := new(big.Int).SetBytes(out[offset : offset+32]).Uint64()
	if length > total-offset-32 {
		return "", fmt.Errorf("string length out of range")
	}
	return string(out[offset+32 : offset+32+length]), nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, op, method string, params []any) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &anchor.ConnectivityError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &anchor.ConnectivityError{Op: op, Err: fmt.Errorf("rpc endpoint returned %s", resp.Status)}
	}

	var decoded rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &anchor.ConnectivityError{Op: op, Err: fmt.Errorf("decode rpc response: %w", err)}
	}
	if decoded.Error != nil {
		return nil, classifyRPCError(op, decoded.Error)
	}
	return decoded.Result, nil
}

// classifyRPCError turns a JSON-RPC error into a structured revert where the
// node reports one, and a connectivity error otherwise.
func classifyRPCError(op string, e *rpcError) error {
	msg := e.Message
	lower := strings.ToLower(msg)
	if idx := strings.Index(lower, "execution reverted"); idx != -1 {
		reason := strings.TrimSpace(msg[idx+len("execution reverted"):])
		reason = strings.TrimPrefix(reason, ":")
		return &anchor.RevertError{Reason: strings.TrimSpace(reason)}
	}
	return &anchor.ConnectivityError{Op: op, Err: fmt.Errorf("rpc error %d: %s", e.Code, msg)}
}

func (c *Client) ethCall(ctx context.Context, op string, data []byte) ([]byte, error) {
	params := []any{
		map[string]string{"to": c.contract, "data": "0x" + hex.EncodeToString(data)},
		"latest",
	}
	raw, err := c.do(ctx, op, "eth_call", params)
	if err != nil {
		return nil, err
	}
	var hexOut string
	if err := json.Unmarshal(raw, &hexOut); err != nil {
		return nil, &anchor.ConnectivityError{Op: op, Err: fmt.Errorf("decode call result: %w", err)}
	}
	return hex.DecodeString(strings.TrimPrefix(hexOut, "0x"))
}

func (c *Client) sendAndWait(ctx context.Context, op string, data []byte) (anchor.TxRef, error) {
	if c.sender == "" {
		return anchor.TxRef{}, fmt.Errorf("%s: sender address not configured", op)
	}
	params := []any{map[string]string{
		"from": c.sender,
		"to":   c.contract,
		"data": "0x" + hex.EncodeToString(data),
	}}
	raw, err := c.do(ctx, op, "eth_sendTransaction", params)
	if err != nil {
		return anchor.TxRef{}, err
	}
	var txHash string
	if err := json.Unmarshal(raw, &txHash); err != nil {
		return anchor.TxRef{}, &anchor.ConnectivityError{Op: op, Err: fmt.Errorf("decode tx hash: %w", err)}
	}
	block, err := c.waitReceipt(ctx, op, txHash)
	if err != nil {
		return anchor.TxRef{}, err
	}
	return anchor.TxRef{Hash: txHash, Block: block}, nil
}

type receipt struct {
	BlockNumber string `json:"blockNumber"`
	Status      string `json:"status"`
}

// waitReceipt polls for the transaction receipt within the bounded
// confirmation window. Hitting the window is a connectivity failure, not a
// retryable condition.
func (c *Client) waitReceipt(ctx context.Context, op, txHash string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.receiptTimeout)
	defer cancel()

	ticker := time.NewTicker(c.receiptInterval)
	defer ticker.Stop()

	for {
		raw, err := c.do(ctx, op, "eth_getTransactionReceipt", []any{txHash})
		if err != nil {
			return 0, err
		}
		if string(raw) != "null" && len(raw) > 0 {
			var r receipt
			if err := json.Unmarshal(raw, &r); err != nil {
				return 0, &anchor.ConnectivityError{Op: op, Err: fmt.Errorf("decode receipt: %w", err)}
			}
			if r.Status == "0x0" {
				return 0, &anchor.RevertError{Reason: ""}
			}
			block := new(big.Int)
			block.SetString(strings.TrimPrefix(r.BlockNumber, "0x"), 16)
			return block.Uint64(), nil
		}
		select {
		case <-ctx.Done():
			return 0, &anchor.ConnectivityError{Op: op, Err: fmt.Errorf("no receipt for %s within %s", txHash, c.receiptTimeout)}
		case <-ticker.C:
		}
	}
}
