package status

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/hostbay/panelgate/internal/observability"
	"github.com/hostbay/panelgate/internal/panelconfig"
	"github.com/hostbay/panelgate/internal/pterodactyl"
)

var ErrNoBackends = errors.New("no usable panel configuration found")

// backendOrder fixes the deterministic ordering of aggregated results,
// regardless of query completion order.
var backendOrder = []panelconfig.PanelType{
	panelconfig.PanelTypePublic,
	panelconfig.PanelTypePrivate,
}

// ConfigStore fetches per-panel-type backend configuration.
type ConfigStore interface {
	FindByPanelType(ctx context.Context, panelType panelconfig.PanelType) (*panelconfig.Config, error)
}

// Lister queries one backend's listing endpoints.
type Lister interface {
	ListNodes(ctx context.Context, b pterodactyl.Backend) (*pterodactyl.NodeList, error)
	ListServers(ctx context.Context, b pterodactyl.Backend) (*pterodactyl.ServerList, error)
}

// NodeEntry is one backend's contribution to a node status response: either
// a populated listing or an error annotation, never both.
type NodeEntry struct {
	PanelType  panelconfig.PanelType `json:"panelType"`
	TotalNodes *int                  `json:"total_nodes,omitempty"`
	Details    []pterodactyl.Node    `json:"details,omitempty"`
	Error      string                `json:"error,omitempty"`
}

// ServerEntry is the server-listing counterpart of NodeEntry.
type ServerEntry struct {
	PanelType    panelconfig.PanelType `json:"panelType"`
	TotalServers *int                  `json:"total_servers,omitempty"`
	Details      []pterodactyl.Server  `json:"details,omitempty"`
	Error        string                `json:"error,omitempty"`
}

// Service fans read-only status queries out across every configured backend
// and merges the results, tolerating partial failure per backend.
type Service struct {
	configs ConfigStore
	panels  Lister
	metrics *observability.Metrics
}

func NewService(configs ConfigStore, panels Lister, metrics *observability.Metrics) *Service {
	return &Service{
		configs: configs,
		panels:  panels,
		metrics: metrics,
	}
}

// Nodes aggregates node listings. One unreachable backend contributes an
// error entry; the call as a whole still succeeds.
func (s *Service) Nodes(ctx context.Context) ([]NodeEntry, error) {
	backends, err := s.collectBackends(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]NodeEntry, len(backends))
	s.forEachBackend(ctx, backends, "nodes", func(ctx context.Context, i int, b pterodactyl.Backend) error {
		list, err := s.panels.ListNodes(ctx, b)
		if err != nil {
			entries[i] = NodeEntry{PanelType: b.PanelType, Error: err.Error()}
			return err
		}
		entries[i] = NodeEntry{PanelType: b.PanelType, TotalNodes: &list.Total, Details: list.Nodes}
		return nil
	})

	return entries, nil
}

// Servers aggregates server listings with the same failure isolation as
// Nodes.
func (s *Service) Servers(ctx context.Context) ([]ServerEntry, error) {
	backends, err := s.collectBackends(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]ServerEntry, len(backends))
	s.forEachBackend(ctx, backends, "servers", func(ctx context.Context, i int, b pterodactyl.Backend) error {
		list, err := s.panels.ListServers(ctx, b)
		if err != nil {
			entries[i] = ServerEntry{PanelType: b.PanelType, Error: err.Error()}
			return err
		}
		entries[i] = ServerEntry{PanelType: b.PanelType, TotalServers: &list.Total, Details: list.Servers}
		return nil
	})

	return entries, nil
}

// collectBackends resolves the configured backends in deterministic order,
// skipping configurations that lack the fields needed to reach the cluster.
func (s *Service) collectBackends(ctx context.Context) ([]pterodactyl.Backend, error) {
	var backends []pterodactyl.Backend
	for _, panelType := range backendOrder {
		cfg, err := s.configs.FindByPanelType(ctx, panelType)
		if err != nil {
			if errors.Is(err, panelconfig.ErrNotFound) {
				continue
			}
			return nil, err
		}

		if cfg.Domain == "" || cfg.PTLA == "" {
			slog.Warn("Skipping panel configuration with missing connection fields",
				"panel_type", panelType)
			continue
		}

		backends = append(backends, pterodactyl.Backend{
			PanelType: panelType,
			Domain:    cfg.Domain,
			Token:     cfg.PTLA,
		})
	}

	if len(backends) == 0 {
		return nil, ErrNoBackends
	}
	return backends, nil
}

// forEachBackend runs one query per backend concurrently. Results land at
// fixed indexes so the merged order stays deterministic.
func (s *Service) forEachBackend(ctx context.Context, backends []pterodactyl.Backend, endpoint string, query func(ctx context.Context, i int, b pterodactyl.Backend) error) {
	var wg sync.WaitGroup
	for i, b := range backends {
		wg.Add(1)
		go func(i int, b pterodactyl.Backend) {
			defer wg.Done()
			if err := query(ctx, i, b); err != nil {
				slog.Error("Backend status query failed",
					"panel_type", b.PanelType,
					"endpoint", endpoint,
					"error", err)
				s.metrics.UpstreamErrorsTotal.WithLabelValues(string(b.PanelType), endpoint).Inc()
			}
		}(i, b)
	}
	wg.Wait()
}
