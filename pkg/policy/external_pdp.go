package policy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/russellmiller3/enact/pkg/contracts"
)

const (
	defaultPDPTimeout = 5 * time.Second
	defaultPDPPath    = "/decide"
)

// ExternalPDPConfig configures an HTTP-based external policy decision
// point — an organization's existing Rego/Cedar/OPA deployment, called out
// to rather than reimplemented in Go.
type ExternalPDPConfig struct {
	// URL is the base address of the PDP sidecar (e.g. "http://localhost:8181").
	URL string
	// DecidePath overrides the default "/decide" path.
	DecidePath string
	// Timeout bounds the HTTP round trip. Default 5s.
	Timeout time.Duration
	// PolicyVersion is a human-readable label for the active policy set,
	// reported in PolicyResult.Reason on denial.
	PolicyVersion string
}

type pdpRequest struct {
	Workflow       string         `json:"workflow"`
	UserEmail      string         `json:"userEmail"`
	Payload        map[string]any `json:"payload,omitempty"`
	UserAttributes map[string]any `json:"userAttributes,omitempty"`
}

type pdpResponse struct {
	Allow  bool   `json:"allow"`
	Reason string `json:"reason,omitempty"`
}

// NewExternalPDPPolicy wraps a remote policy decision point as a Policy.
// Any communication failure — connection refused, timeout, non-200, bad
// JSON — denies. An external PDP is never allowed to fail open.
func NewExternalPDPPolicy(name string, cfg ExternalPDPConfig) Policy {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultPDPTimeout
	}
	path := cfg.DecidePath
	if path == "" {
		path = defaultPDPPath
	}
	client := &http.Client{Timeout: timeout}

	return func(ctx contracts.Context) contracts.PolicyResult {
		reqCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		deny := func(reason string) contracts.PolicyResult {
			return contracts.PolicyResult{Policy: name, Passed: false, Reason: reason}
		}

		body, err := json.Marshal(pdpRequest{
			Workflow:       ctx.Workflow,
			UserEmail:      ctx.UserEmail,
			Payload:        ctx.Payload,
			UserAttributes: ctx.UserAttributes,
		})
		if err != nil {
			return deny(fmt.Sprintf("external PDP: request marshal failed: %v", err))
		}

		httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, cfg.URL+path, bytes.NewReader(body))
		if err != nil {
			return deny(fmt.Sprintf("external PDP: request construction failed: %v", err))
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(httpReq)
		if err != nil {
			return deny(fmt.Sprintf("external PDP %q unreachable: %v", cfg.PolicyVersion, err))
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return deny(fmt.Sprintf("external PDP returned HTTP %d", resp.StatusCode))
		}

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return deny(fmt.Sprintf("external PDP: reading response failed: %v", err))
		}

		var decoded pdpResponse
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return deny(fmt.Sprintf("external PDP: malformed response: %v", err))
		}

		if !decoded.Allow {
			reason := decoded.Reason
			if reason == "" {
				reason = "denied by external PDP"
			}
			return deny(reason)
		}
		return contracts.PolicyResult{Policy: name, Passed: true, Reason: "allowed by external PDP"}
	}
}
