package provisioning

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostbay/panelgate/internal/accesskey"
	"github.com/hostbay/panelgate/internal/observability"
	"github.com/hostbay/panelgate/internal/panelconfig"
	"github.com/hostbay/panelgate/internal/pterodactyl"
)

type fakeAuthority struct {
	err   error
	calls int
}

func (f *fakeAuthority) Authorize(_ context.Context, key string, _ panelconfig.PanelType) (*accesskey.Key, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &accesskey.Key{Key: key, IsActive: true, UsageCount: 6}, nil
}

type fakeConfigs struct {
	cfg *panelconfig.Config
}

func (f *fakeConfigs) FindByPanelType(_ context.Context, panelType panelconfig.PanelType) (*panelconfig.Config, error) {
	if f.cfg == nil {
		return nil, panelconfig.ErrNotFound
	}
	return f.cfg, nil
}

type fakePanels struct {
	result *pterodactyl.CreateResult
	err    error
	got    pterodactyl.CreateParams
}

func (f *fakePanels) CreatePanel(_ context.Context, p pterodactyl.CreateParams) (*pterodactyl.CreateResult, error) {
	f.got = p
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type stubNotifier struct {
	err  error
	sent chan string
}

func newStubNotifier(err error) *stubNotifier {
	return &stubNotifier{err: err, sent: make(chan string, 1)}
}

func (s *stubNotifier) Send(_ context.Context, message string) error {
	s.sent <- message
	return s.err
}

func waitForNotification(t *testing.T, n *stubNotifier) string {
	t.Helper()
	select {
	case msg := <-n.sent:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("notification was never dispatched")
		return ""
	}
}

func validRequest() Request {
	return Request{
		Username:       "alice",
		RAM:            "1024",
		Disk:           "2048",
		CPU:            "100",
		HostingPackage: "gold",
		PanelType:      panelconfig.PanelTypePublic,
		AccessKey:      "K1",
	}
}

func successUpstream() *pterodactyl.CreateResult {
	return &pterodactyl.CreateResult{
		StatusCode: 200,
		Body:       json.RawMessage(`{"status":true,"result":{"username":"u1","password":"p1","domain":"panel.example.com","id_user":7,"id_server":42}}`),
		OK:         true,
		Result: &pterodactyl.PanelCredentials{
			Username: "u1",
			Password: "p1",
			Domain:   "panel.example.com",
			UserID:   json.Number("7"),
			ServerID: json.Number("42"),
		},
	}
}

func newTestService(keys *fakeAuthority, configs *fakeConfigs, panels *fakePanels, notifier *stubNotifier) *Service {
	return NewService(keys, configs, panels, notifier, observability.NewMetrics())
}

func TestProvisionSuccess(t *testing.T) {
	cfg := &panelconfig.Config{PanelType: panelconfig.PanelTypePublic, Domain: "panel.example.com", EggID: "15", NestID: "5", Loc: "1", PTLA: "a", PTLC: "c"}
	panels := &fakePanels{result: successUpstream()}
	notifier := newStubNotifier(nil)
	svc := newTestService(&fakeAuthority{}, &fakeConfigs{cfg: cfg}, panels, notifier)

	result, err := svc.Provision(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, result.OK)
	assert.Equal(t, 200, result.StatusCode)
	assert.JSONEq(t, string(successUpstream().Body), string(result.Body))

	// the fetched config flows into the upstream call
	assert.Equal(t, "alice", panels.got.Username)
	assert.Equal(t, *cfg, panels.got.Config)

	msg := waitForNotification(t, notifier)
	assert.Contains(t, msg, "Username: <b>u1</b>")
	assert.Contains(t, msg, "Password: <b>p1</b>")
	assert.Contains(t, msg, "Package: <b>GOLD</b>")
	assert.Contains(t, msg, "<code>K1</code>")
	assert.Contains(t, msg, "User ID: 7")
	assert.Contains(t, msg, "Server ID: 42")
}

func TestProvisionNotificationFailureDoesNotAffectResult(t *testing.T) {
	cfg := &panelconfig.Config{PanelType: panelconfig.PanelTypePublic, Domain: "panel.example.com"}

	okNotifier := newStubNotifier(nil)
	okSvc := newTestService(&fakeAuthority{}, &fakeConfigs{cfg: cfg}, &fakePanels{result: successUpstream()}, okNotifier)
	okResult, err := okSvc.Provision(context.Background(), validRequest())
	require.NoError(t, err)
	waitForNotification(t, okNotifier)

	failNotifier := newStubNotifier(assert.AnError)
	failSvc := newTestService(&fakeAuthority{}, &fakeConfigs{cfg: cfg}, &fakePanels{result: successUpstream()}, failNotifier)
	failResult, err := failSvc.Provision(context.Background(), validRequest())
	require.NoError(t, err)
	waitForNotification(t, failNotifier)

	assert.Equal(t, okResult, failResult)
}

func TestProvisionMissingFields(t *testing.T) {
	svc := newTestService(&fakeAuthority{}, &fakeConfigs{}, &fakePanels{}, newStubNotifier(nil))

	req := validRequest()
	req.RAM = ""
	_, err := svc.Provision(context.Background(), req)
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestProvisionAuthorizationDenied(t *testing.T) {
	keys := &fakeAuthority{err: accesskey.ErrKeyRestricted}
	panels := &fakePanels{result: successUpstream()}
	notifier := newStubNotifier(nil)
	svc := newTestService(keys, &fakeConfigs{}, panels, notifier)

	_, err := svc.Provision(context.Background(), validRequest())
	assert.ErrorIs(t, err, accesskey.ErrKeyRestricted)
	assert.Empty(t, panels.got.Username, "upstream must not be called for a denied key")
	assert.Empty(t, notifier.sent)
}

func TestProvisionConfigNotFound(t *testing.T) {
	svc := newTestService(&fakeAuthority{}, &fakeConfigs{}, &fakePanels{}, newStubNotifier(nil))

	_, err := svc.Provision(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestProvisionUpstreamUnreachable(t *testing.T) {
	cfg := &panelconfig.Config{PanelType: panelconfig.PanelTypePublic}
	panels := &fakePanels{err: pterodactyl.ErrUnreachable}
	notifier := newStubNotifier(nil)
	svc := newTestService(&fakeAuthority{}, &fakeConfigs{cfg: cfg}, panels, notifier)

	_, err := svc.Provision(context.Background(), validRequest())
	assert.ErrorIs(t, err, pterodactyl.ErrUnreachable)
	assert.Empty(t, notifier.sent)
}

func TestProvisionUpstreamRejectionForwarded(t *testing.T) {
	cfg := &panelconfig.Config{PanelType: panelconfig.PanelTypePublic}
	rejected := &pterodactyl.CreateResult{
		StatusCode: 409,
		Body:       json.RawMessage(`{"status":false,"message":"out of capacity"}`),
		OK:         false,
		Message:    "out of capacity",
	}
	notifier := newStubNotifier(nil)
	svc := newTestService(&fakeAuthority{}, &fakeConfigs{cfg: cfg}, &fakePanels{result: rejected}, notifier)

	result, err := svc.Provision(context.Background(), validRequest())
	require.NoError(t, err)

	assert.False(t, result.OK)
	assert.Equal(t, 409, result.StatusCode)
	assert.JSONEq(t, string(rejected.Body), string(result.Body))
	assert.Empty(t, notifier.sent, "no notification for a rejected provision")
}
