package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/acts-bd/acts-client/internal/config"
	"github.com/acts-bd/acts-client/internal/logger"
	"github.com/acts-bd/acts-client/internal/storage"
	"github.com/acts-bd/acts-client/pkg/acts"
	"github.com/acts-bd/acts-client/pkg/csrf"
	"github.com/acts-bd/acts-client/pkg/httpclient"
	"github.com/acts-bd/acts-client/pkg/notify"
	"github.com/acts-bd/acts-client/pkg/publishers"
	"github.com/acts-bd/acts-client/pkg/request"
)

// Runtime owns the client stack: cookie persistence, transport, notification
// sinks, the request client and the typed API on top of it.
type Runtime struct {
	cfg    *config.Config
	log    logger.Logger
	store  storage.Store
	jar    *storage.Jar
	board  *notify.Board
	alerts *publishers.AlertSink

	Client *request.Client
	API    *acts.API
}

// NewRuntime wires the client from cfg. Failure banners are written to stderr;
// a nil writer means os.Stderr.
func NewRuntime(ctx context.Context, cfg *config.Config, log logger.Logger, stderr io.Writer) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	store, err := storage.NewStore(cfg.CookieStoreType, cfg.CookieDBPath, storage.Options{
		SessionTTL:      cfg.CookieSessionTTL,
		CleanupInterval: cfg.CookieCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init cookie storage: %w", err)
	}
	log.InfoObj("cookie storage initialized", "storage_config", map[string]any{
		"type":                     cfg.CookieStoreType,
		"path":                     cfg.CookieDBPath,
		"session_ttl_seconds":      int(cfg.CookieSessionTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.CookieCleanupInterval.Seconds()),
	})

	rt := &Runtime{cfg: cfg, log: log, store: store}

	rt.jar, err = storage.NewJar(store, log)
	if err != nil {
		rt.Close()
		return nil, err
	}

	transport := httpclient.NewRestyClientWithOptions(httpclient.Options{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.RequestTimeout,
		Jar:     rt.jar,
	})

	cookies, err := csrf.NewJarSource(rt.jar, cfg.BaseURL)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("csrf cookie source: %w", err)
	}

	rt.board = notify.NewBoard(cfg.ToastTTL)
	sinks := []notify.Notifier{rt.board, notify.NewConsoleSink(stderr)}

	if cfg.AlertsFile != "" {
		rt.alerts, err = publishers.OpenAlertSink(ctx, cfg.AlertsFile, cfg.AppName, log)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("init alert publishers: %w", err)
		}
		sinks = append(sinks, rt.alerts)
		log.InfoObj("alert publishers loaded", "alerts_file", cfg.AlertsFile)
	}

	rt.Client, err = request.New(transport,
		request.WithCookies(cookies),
		request.WithNotifier(notify.Tee(sinks...)),
		request.WithLogger(log),
	)
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.API, err = acts.New(rt.Client, cfg.APIPrefix)
	if err != nil {
		rt.Close()
		return nil, err
	}

	log.InfoObj("client ready", "client_config", map[string]any{
		"base_url":        cfg.BaseURL,
		"api_prefix":      cfg.APIPrefix,
		"timeout_seconds": int(cfg.RequestTimeout.Seconds()),
		"toast_ttl_ms":    cfg.ToastTTL.Milliseconds(),
	})
	return rt, nil
}

// Board exposes the live toast list.
func (r *Runtime) Board() *notify.Board { return r.board }

// Close dismisses pending toasts and releases publishers and the cookie store.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	if r.board != nil {
		r.board.Clear()
	}

	var errs []error
	if r.alerts != nil {
		if err := r.alerts.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close alert publishers: %w", err))
		}
	}
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cookie storage: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		r.log.ErrorObj("runtime close failed", "error", err.Error())
		return err
	}
	return nil
}
