package publishers

import (
	"context"
	"time"

	"github.com/acts-bd/acts-client/pkg/notify"
)

const defaultPublishTimeout = 10 * time.Second

// AlertSink forwards notifications to the fanout as Events. Delivery failures are
// logged and never surface to the caller that raised the notification.
type AlertSink struct {
	source  string
	fanout  *Fanout
	timeout time.Duration
	log     Logger
}

// NewAlertSink wraps fanout. A non-positive timeout falls back to 10s.
func NewAlertSink(source string, fanout *Fanout, timeout time.Duration, log Logger) *AlertSink {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &AlertSink{
		source:  source,
		fanout:  fanout,
		timeout: timeout,
		log:     ensureLogger(log),
	}
}

// Notify implements notify.Notifier.
func (s *AlertSink) Notify(ctx context.Context, n notify.Notification) {
	if s == nil || s.fanout.Size() == 0 {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	evt := NewEvent(s.source, n)
	delivered, err := s.fanout.Publish(ctx, evt)
	if err != nil {
		s.log.WarnObj("alert publish failed", "alert_publish_error", map[string]any{
			"event_id":  evt.ID,
			"delivered": delivered,
			"total":     s.fanout.Size(),
			"error":     err.Error(),
		})
		return
	}
	s.log.InfoObj("alert published", "alert_published", map[string]any{
		"event_id":  evt.ID,
		"severity":  evt.Severity,
		"delivered": delivered,
	})
}

// Close releases the underlying publishers.
func (s *AlertSink) Close() error {
	if s == nil {
		return nil
	}
	return s.fanout.Close()
}

// OpenAlertSink loads the alerts file, builds every enabled publisher and wraps
// them in an AlertSink.
func OpenAlertSink(ctx context.Context, path, source string, log Logger) (*AlertSink, error) {
	cfgReg, err := LoadRegistry(path)
	if err != nil {
		return nil, err
	}
	pubs, err := BuildAll(ctx, DefaultRegistry(), cfgReg.Enabled(), log)
	if err != nil {
		return nil, err
	}
	return NewAlertSink(source, NewFanout(pubs), 0, log), nil
}
