package provisioning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hostbay/panelgate/internal/accesskey"
	"github.com/hostbay/panelgate/internal/notify"
	"github.com/hostbay/panelgate/internal/observability"
	"github.com/hostbay/panelgate/internal/panelconfig"
	"github.com/hostbay/panelgate/internal/pterodactyl"
)

var (
	ErrMissingFields  = errors.New("missing required parameters")
	ErrConfigNotFound = errors.New("panel configuration not found")
)

// Request is a panel creation request as presented by the caller.
type Request struct {
	Username       string
	RAM            string
	Disk           string
	CPU            string
	HostingPackage string
	PanelType      panelconfig.PanelType
	AccessKey      string
}

func (r Request) validate() error {
	if r.Username == "" || r.RAM == "" || r.Disk == "" || r.CPU == "" ||
		r.HostingPackage == "" || r.PanelType == "" || r.AccessKey == "" {
		return ErrMissingFields
	}
	return nil
}

// Result is the upstream payload to forward to the caller, verbatim.
type Result struct {
	StatusCode int
	Body       json.RawMessage
	OK         bool
}

// KeyAuthority authorizes an access key for a panel type and charges a use.
type KeyAuthority interface {
	Authorize(ctx context.Context, key string, panelType panelconfig.PanelType) (*accesskey.Key, error)
}

// ConfigStore fetches the provisioning configuration for a panel type.
type ConfigStore interface {
	FindByPanelType(ctx context.Context, panelType panelconfig.PanelType) (*panelconfig.Config, error)
}

// PanelCreator issues the upstream provisioning call.
type PanelCreator interface {
	CreatePanel(ctx context.Context, p pterodactyl.CreateParams) (*pterodactyl.CreateResult, error)
}

// Service turns an authorized request into an upstream provisioning call
// plus a detached, best-effort notification.
type Service struct {
	keys     KeyAuthority
	configs  ConfigStore
	panels   PanelCreator
	notifier notify.Notifier
	metrics  *observability.Metrics
}

func NewService(keys KeyAuthority, configs ConfigStore, panels PanelCreator, notifier notify.Notifier, metrics *observability.Metrics) *Service {
	return &Service{
		keys:     keys,
		configs:  configs,
		panels:   panels,
		notifier: notifier,
		metrics:  metrics,
	}
}

// Provision authorizes the request, provisions the panel upstream and
// forwards the upstream payload unchanged. The notification is dispatched
// after the result has been finalized and can never alter it.
func (s *Service) Provision(ctx context.Context, req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	if _, err := s.keys.Authorize(ctx, req.AccessKey, req.PanelType); err != nil {
		s.metrics.ProvisionsTotal.WithLabelValues(string(req.PanelType), "denied").Inc()
		return nil, err
	}

	cfg, err := s.configs.FindByPanelType(ctx, req.PanelType)
	if err != nil {
		if errors.Is(err, panelconfig.ErrNotFound) {
			slog.Error("Panel configuration missing", "panel_type", req.PanelType)
			s.metrics.ProvisionsTotal.WithLabelValues(string(req.PanelType), "config_error").Inc()
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, req.PanelType)
		}
		return nil, err
	}

	created, err := s.panels.CreatePanel(ctx, pterodactyl.CreateParams{
		Username: req.Username,
		RAM:      req.RAM,
		Disk:     req.Disk,
		CPU:      req.CPU,
		Config:   *cfg,
	})
	if err != nil {
		s.metrics.ProvisionsTotal.WithLabelValues(string(req.PanelType), "upstream_error").Inc()
		s.metrics.UpstreamErrorsTotal.WithLabelValues(string(req.PanelType), "create").Inc()
		return nil, err
	}

	result := &Result{
		StatusCode: created.StatusCode,
		Body:       created.Body,
		OK:         created.OK,
	}

	if !created.OK {
		slog.Warn("Upstream rejected panel creation",
			"panel_type", req.PanelType,
			"status_code", created.StatusCode,
			"message", created.Message)
		s.metrics.ProvisionsTotal.WithLabelValues(string(req.PanelType), "upstream_rejected").Inc()
		return result, nil
	}

	s.metrics.ProvisionsTotal.WithLabelValues(string(req.PanelType), "success").Inc()
	slog.Info("Panel provisioned", "panel_type", req.PanelType, "package", req.HostingPackage)

	s.dispatchNotification(ctx, req, created.Result)

	return result, nil
}

// dispatchNotification sends the creation summary on a detached goroutine.
// The outcome feeds logs and metrics only; the provisioning result has
// already been finalized when this runs.
func (s *Service) dispatchNotification(ctx context.Context, req Request, creds *pterodactyl.PanelCredentials) {
	n := notify.PanelNotification{
		HostingPackage: req.HostingPackage,
		PanelType:      string(req.PanelType),
		AccessKey:      req.AccessKey,
	}
	if creds != nil {
		n.Username = creds.Username
		n.Password = creds.Password
		n.Domain = creds.Domain
		n.UserID = creds.UserID.String()
		n.ServerID = creds.ServerID.String()
	}

	// Detach from the request context so the response can return without
	// tearing down the send.
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := s.notifier.Send(ctx, n.Message()); err != nil {
			slog.Warn("Failed to send panel notification", "error", err)
			s.metrics.NotificationsTotal.WithLabelValues("error").Inc()
			return
		}
		s.metrics.NotificationsTotal.WithLabelValues("success").Inc()
	}()
}
