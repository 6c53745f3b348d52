package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"defind/crypto"
)

// httpTransfer settles withdrawals against an external settlement endpoint.
// The endpoint receives a JSON POST and confirms with HTTP 2xx; anything
// else, including transport failure, counts as a rejected transfer.
type httpTransfer struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

func newHTTPTransfer(endpoint string, logger *slog.Logger) *httpTransfer {
	return &httpTransfer{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
}

type transferRequest struct {
	Amount      string `json:"amount"`
	Destination string `json:"destination"`
}

func (t *httpTransfer) Transfer(ctx context.Context, amount uint64, destination crypto.Identity) bool {
	payload, err := json.Marshal(transferRequest{
		Amount:      strconv.FormatUint(amount, 10),
		Destination: destination.String(),
	})
	if err != nil {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Warn("credit transfer failed", "error", err)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		t.logger.Warn("credit transfer rejected", "status", resp.StatusCode)
		return false
	}
	return true
}
