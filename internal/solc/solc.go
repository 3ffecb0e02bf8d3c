// Package solc talks to the external compilation service. The service is
// opaque: it takes source text and either returns compiled contracts with
// optional source maps, or a list of error strings. It offers no
// cancellation, so callers are expected to guard against stale responses
// themselves.
package solc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"loov.dev/evmlens/internal/srcmap"
)

// DefaultEVMVersion is used when the config does not name one.
const DefaultEVMVersion = "london"

// Request is the compile request sent to the service.
type Request struct {
	EntryFileName   string            `json:"entryFileName"`
	FileContents    map[string]string `json:"fileContents"`
	EVMVersion      string            `json:"evmVersion"`
	ConstructorArgs json.RawMessage   `json:"constructorArgs,omitempty"`
}

// Contract is one compiled contract in the service response.
type Contract struct {
	Bytecode        string            `json:"bytecode"`
	RuntimeBytecode string            `json:"runtimeBytecode"`
	ABI             json.RawMessage   `json:"abi,omitempty"`
	ConstructorMap  []srcmap.RawEntry `json:"constructorMap,omitempty"`
	RuntimeMap      []srcmap.RawEntry `json:"runtimeMap,omitempty"`
}

type response struct {
	Errors    []string            `json:"errors,omitempty"`
	Contracts map[string]Contract `json:"contracts,omitempty"`
}

// Result is the outcome of one compilation. Exactly one of Success with
// bytecode, or non-empty Errors, holds.
type Result struct {
	Success         bool
	Bytecode        string
	RuntimeBytecode string
	ABI             json.RawMessage
	ConstructorMap  []srcmap.RawEntry
	RuntimeMap      []srcmap.RawEntry
	Errors          []string
}

// Client is an HTTP JSON client for the compilation service.
type Client struct {
	URL        string
	EVMVersion string
	HTTPClient *http.Client
	Log        *slog.Logger
}

func NewClient(url string) *Client {
	return &Client{
		URL:        url,
		EVMVersion: DefaultEVMVersion,
		HTTPClient: http.DefaultClient,
	}
}

func (c *Client) logger() *slog.Logger {
	if c.Log != nil {
		return c.Log
	}
	return slog.Default()
}

// Compile sends files to the service and reduces the response to a Result
// for the contract matching entry. Transport and decoding failures are
// returned as errors; compiler-reported errors come back inside the Result
// with Success false.
func (c *Client) Compile(ctx context.Context, entry string, files map[string]string) (*Result, error) {
	body, err := json.Marshal(Request{
		EntryFileName: entry,
		FileContents:  files,
		EVMVersion:    c.EVMVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding compile request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("compile request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("compile request: unexpected status %s", resp.Status)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding compile response: %w", err)
	}

	return c.reduce(entry, &out), nil
}

func (c *Client) reduce(entry string, out *response) *Result {
	if len(out.Errors) > 0 {
		return &Result{Errors: out.Errors}
	}

	contract, key, err := ResolveContract(out.Contracts, entry, c.logger())
	if err != nil {
		// Distinct from compiler-reported errors: the service answered
		// but produced nothing usable for this file.
		return &Result{Errors: []string{
			fmt.Sprintf("evmlens: compiler produced no contract for %q", entry),
		}}
	}
	c.logger().Debug("compiled contract", "entry", entry, "key", key)

	return &Result{
		Success:         true,
		Bytecode:        contract.Bytecode,
		RuntimeBytecode: contract.RuntimeBytecode,
		ABI:             contract.ABI,
		ConstructorMap:  contract.ConstructorMap,
		RuntimeMap:      contract.RuntimeMap,
	}
}
