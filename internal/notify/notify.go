// Package notify delivers best-effort notifications about newly created
// panels. Delivery failures are observed, never propagated to the caller
// that triggered them.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"
)

// Notifier is the outbound notification port. Implementations must be safe
// for concurrent use.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// PanelNotification summarizes a created panel for the notification channel.
type PanelNotification struct {
	Username       string
	Password       string
	HostingPackage string
	PanelType      string
	Domain         string
	AccessKey      string
	UserID         string
	ServerID       string
}

// Message renders the notification. The channel renders a constrained HTML
// subset, so every user-derived field is escaped before substitution.
func (n PanelNotification) Message() string {
	accessKey := n.AccessKey
	if accessKey == "" {
		accessKey = "Unknown"
	}

	var b strings.Builder
	b.WriteString("\n✅ <b>New Panel Created!</b>\n")
	b.WriteString("------------------------------\n")
	fmt.Fprintf(&b, "👤 Username: <b>%s</b>\n", html.EscapeString(n.Username))
	fmt.Fprintf(&b, "🔑 Password: <b>%s</b>\n", html.EscapeString(n.Password))
	fmt.Fprintf(&b, "📦 Package: <b>%s</b>\n", strings.ToUpper(n.HostingPackage))
	fmt.Fprintf(&b, "⚙️ Panel Type: <b>%s</b>\n", strings.ToUpper(n.PanelType))
	fmt.Fprintf(&b, "🔗 Domain: %s\n", html.EscapeString(n.Domain))
	b.WriteString("------------------------------\n")
	fmt.Fprintf(&b, "<b>Access Key Used:</b> <code>%s</code>\n", html.EscapeString(accessKey))
	fmt.Fprintf(&b, "User ID: %s\n", html.EscapeString(n.UserID))
	fmt.Fprintf(&b, "Server ID: %s\n", html.EscapeString(n.ServerID))
	return b.String()
}
