package notify

import (
	"bytes"
	"context"
	"html/template"
	"strings"
)

// Severity is the Bootstrap contextual class a toast is rendered with.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Notification is a transient message shown to the user.
type Notification struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// New builds a Notification, defaulting the severity to info.
func New(message string, severity Severity) Notification {
	return Notification{Severity: normalizeSeverity(severity), Message: message}
}

// Danger is shorthand for a danger-level notification.
func Danger(message string) Notification { return New(message, SeverityDanger) }

func normalizeSeverity(s Severity) Severity {
	v := Severity(strings.ToLower(strings.TrimSpace(string(s))))
	if v == "" {
		return SeverityInfo
	}
	return v
}

// Notifier receives notifications. Implementations must not block on slow sinks
// for longer than the caller's context allows.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Tee forwards each notification to every non-nil notifier in order.
func Tee(notifiers ...Notifier) Notifier {
	out := make([]Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return tee(out)
}

type tee []Notifier

func (t tee) Notify(ctx context.Context, n Notification) {
	for _, sink := range t {
		sink.Notify(ctx, n)
	}
}

// View is the rendered, framework-agnostic description of a toast.
type View struct {
	Class string
	Style string
	HTML  string
}

const toastStyle = "top: 20px; right: 20px; z-index: 9999"

var toastTemplate = template.Must(template.New("toast").Parse(
	`<div class="{{.Class}}" style="{{.Style}}" role="alert">{{.Message}}` +
		`<button type="button" class="btn-close" data-bs-dismiss="alert"></button></div>`))

// Render describes how n is displayed. It has no side effects.
func Render(n Notification) View {
	n.Severity = normalizeSeverity(n.Severity)
	v := View{
		Class: "alert alert-" + string(n.Severity) + " alert-dismissible fade show position-fixed",
		Style: toastStyle,
	}

	var buf bytes.Buffer
	err := toastTemplate.Execute(&buf, struct {
		Class   string
		Style   template.CSS
		Message string
	}{v.Class, template.CSS(v.Style), n.Message})
	if err != nil {
		v.HTML = template.HTMLEscapeString(n.Message)
		return v
	}
	v.HTML = buf.String()
	return v
}
