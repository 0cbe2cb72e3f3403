// Package retrieval drives a browser session against the issuer portal to
// capture the authoritative copy of a certificate. The portal serves the
// document as a native download, so the raw bytes are taken from a network
// interception rather than the page itself.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/yephonekyaw/sit-cert-server/internal/config"
)

const (
	loginLinkExpr    = `//a[contains(text(), 'Log In')]`
	usernameSelector = `#main-login-username`
	passwordSelector = `#main-login-password`
	submitSelector   = `#main-login-submit-button`
	memberMenuExpr   = `//a[contains(text(), 'My Courses')]`

	documentURLPattern = "*citiprogram.org/verify/*"
)

// Retriever fetches the authoritative document bytes for a verification URL.
type Retriever interface {
	Fetch(ctx context.Context, verificationURL string) ([]byte, error)
}

type retriever struct {
	config config.IssuerConfig
	logger *slog.Logger
}

// New creates a browser-backed Retriever from issuer configuration.
func New(cfg config.IssuerConfig, logger *slog.Logger) Retriever {
	return &retriever{
		config: cfg,
		logger: logger.With("system", "retrieval"),
	}
}

// Fetch authenticates against the issuer portal, installs a response
// interceptor on the document-serving URL pattern, and re-navigates to the
// verification URL to trigger the download request. The aborted navigation
// the interception causes is an expected outcome, not a failure.
func (r *retriever) Fetch(ctx context.Context, verificationURL string) ([]byte, error) {
	if !r.config.Configured() {
		return nil, ErrNotConfigured
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !r.config.Headed),
		chromedp.NoSandbox,
		chromedp.UserAgent(r.config.UserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	loginCtx, cancelLogin, err := r.openLoginTab(browserCtx, verificationURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}
	defer cancelLogin()

	if err := r.authenticate(loginCtx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	document, err := r.interceptDocument(loginCtx, verificationURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	r.logger.Info("authoritative document captured", "bytes", len(document))
	return document, nil
}

// openLoginTab navigates to the verification URL and activates the login
// affordance, which opens the portal login page in a new browser target.
func (r *retriever) openLoginTab(browserCtx context.Context, verificationURL string) (context.Context, context.CancelFunc, error) {
	loginTarget := chromedp.WaitNewTarget(browserCtx, func(info *target.Info) bool {
		return info.OpenerID != "" && info.URL != ""
	})

	err := r.run(browserCtx,
		chromedp.Navigate(verificationURL),
		chromedp.Click(loginLinkExpr, chromedp.BySearch),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open login page: %w", err)
	}

	select {
	case id := <-loginTarget:
		loginCtx, cancel := chromedp.NewContext(browserCtx, chromedp.WithTargetID(id))
		return loginCtx, cancel, nil
	case <-time.After(r.config.NavTimeoutDuration()):
		return nil, nil, fmt.Errorf("login page never opened")
	}
}

func (r *retriever) authenticate(loginCtx context.Context) error {
	err := r.run(loginCtx,
		chromedp.WaitVisible(usernameSelector, chromedp.ByQuery),
		chromedp.SendKeys(usernameSelector, r.config.Username, chromedp.ByQuery),
		chromedp.SendKeys(passwordSelector, r.config.Password, chromedp.ByQuery),
		chromedp.Click(submitSelector, chromedp.ByQuery),
		chromedp.WaitVisible(memberMenuExpr, chromedp.BySearch),
	)
	if err != nil {
		return fmt.Errorf("portal login: %w", err)
	}
	return nil
}

// interceptDocument pauses the document-serving response, copies its body,
// and aborts the request so the browser never starts a native download.
func (r *retriever) interceptDocument(loginCtx context.Context, verificationURL string) ([]byte, error) {
	bodyCh := make(chan []byte, 1)
	errCh := make(chan error, 1)

	executor := cdp.WithExecutor(loginCtx, chromedp.FromContext(loginCtx).Target)

	chromedp.ListenTarget(loginCtx, func(ev any) {
		paused, ok := ev.(*fetch.EventRequestPaused)
		if !ok || paused.ResponseStatusCode == 0 {
			return
		}

		go func() {
			body, err := fetch.GetResponseBody(paused.RequestID).Do(executor)
			if err != nil {
				select {
				case errCh <- fmt.Errorf("read response body: %w", err):
				default:
				}
				return
			}

			select {
			case bodyCh <- body:
			default:
			}

			if err := fetch.FailRequest(paused.RequestID, network.ErrorReasonAborted).Do(executor); err != nil {
				r.logger.Warn("abort intercepted request failed", "error", err)
			}
		}()
	})

	err := r.run(loginCtx,
		fetch.Enable().WithPatterns([]*fetch.RequestPattern{{
			URLPattern:   documentURLPattern,
			RequestStage: fetch.RequestStageResponse,
		}}),
		chromedp.Navigate(verificationURL),
	)
	// The interception cancels the page load, which the browser reports as
	// an aborted navigation.
	if err != nil && !isExpectedAbort(err) {
		return nil, fmt.Errorf("trigger document request: %w", err)
	}

	select {
	case body := <-bodyCh:
		return body, nil
	case err := <-errCh:
		return nil, err
	case <-time.After(r.config.NavTimeoutDuration()):
		return nil, fmt.Errorf("document response never intercepted")
	case <-loginCtx.Done():
		return nil, loginCtx.Err()
	}
}

func (r *retriever) run(ctx context.Context, actions ...chromedp.Action) error {
	navCtx, cancel := context.WithTimeout(ctx, r.config.NavTimeoutDuration())
	defer cancel()
	return chromedp.Run(navCtx, actions...)
}

func isExpectedAbort(err error) bool {
	return strings.Contains(err.Error(), "net::ERR_ABORTED")
}
