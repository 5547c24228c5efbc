// Package iokanban implements the client for the operational
// pipeline-tool (Kanban) API. This is an impure I/O package
// implementing the maike.KanbanClient contract.
//
// The tool is reachable under several base URLs depending on where the
// operator sits (office network, VPN, DNS alias). The client probes
// the caller-supplied ordered candidates and remembers the first one
// that answers for the rest of the session; an apparent failure of the
// remembered endpoint triggers a re-probe on the next call.
package iokanban

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/helenomaffra/maikedb/pkg/config"
	"github.com/helenomaffra/maikedb/pkg/maike"
	"github.com/helenomaffra/maikedb/pkg/ref"
)

const processPath = "/api/v1/cards"

type client struct {
	endpoints  []string
	httpClient *http.Client

	mu     sync.Mutex
	active string
}

// New creates a Kanban client from configuration.
func New(cfg *config.KanbanConfig) maike.KanbanClient {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &client{
		endpoints:  cfg.Endpoints,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FindProcess returns the tracking-enriched record for a reference, or
// nil when the pipeline tool does not know it.
func (c *client) FindProcess(
	ctx context.Context,
	r ref.Ref,
) (*maike.ProcessRecord, error) {
	cards, err := c.fetchCards(ctx)
	if err != nil {
		return nil, err
	}

	want := r.String()
	for i := range cards {
		if ref.Normalize(cards[i].OrderNumber) == want {
			return cards[i].toRecord(want), nil
		}
	}
	return nil, nil
}

// fetchCards retrieves the full card list, probing candidate base URLs
// until one answers.
func (c *client) fetchCards(ctx context.Context) ([]cardResponse, error) {
	candidates := c.candidateOrder()

	var lastErr error
	for _, base := range candidates {
		cards, err := c.fetchFrom(ctx, base)
		if err != nil {
			lastErr = err
			slog.Debug("kanban endpoint did not answer",
				"endpoint", base, "error", err)
			c.forget(base)
			continue
		}
		c.remember(base)
		return cards, nil
	}

	return nil, UnreachableError(candidates, lastErr)
}

func (c *client) fetchFrom(
	ctx context.Context,
	base string,
) ([]cardResponse, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, base+processPath, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kanban answered with status %d",
			resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var cards []cardResponse
	if err := json.Unmarshal(body, &cards); err != nil {
		return nil, DecodeError(base, err)
	}
	return cards, nil
}

// candidateOrder puts the remembered endpoint first, then the
// configured order.
func (c *client) candidateOrder() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == "" {
		return c.endpoints
	}
	res := []string{c.active}
	for _, e := range c.endpoints {
		if e != c.active {
			res = append(res, e)
		}
	}
	return res
}

func (c *client) remember(base string) {
	c.mu.Lock()
	c.active = base
	c.mu.Unlock()
}

func (c *client) forget(base string) {
	c.mu.Lock()
	if c.active == base {
		c.active = ""
	}
	c.mu.Unlock()
}
