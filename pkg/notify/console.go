package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// ConsoleSink prints toasts as one-line banners, for terminal front ends.
type ConsoleSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleSink writes banners to w.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

// Notify implements Notifier.
func (c *ConsoleSink) Notify(_ context.Context, n Notification) {
	if c == nil || c.w == nil {
		return
	}
	n.Severity = normalizeSeverity(n.Severity)
	line := fmt.Sprintf("[%s] %s\n", strings.ToUpper(string(n.Severity)), PlainText(Render(n)))

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.w, line)
}

// PlainText extracts the visible text of a rendered toast.
func PlainText(v View) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(v.HTML))
	if err != nil {
		return strings.TrimSpace(v.HTML)
	}
	return strings.Join(strings.Fields(doc.Find("div.alert").First().Text()), " ")
}
