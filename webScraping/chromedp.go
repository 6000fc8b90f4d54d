package webscraping

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

// ChromedpBrowser drives a local Chrome over the DevTools protocol, so no
// separate driver binary is needed.
type ChromedpBrowser struct {
	ctx          context.Context
	cancel       context.CancelFunc
	allocCancel  context.CancelFunc
	implicitWait time.Duration
	pollInterval time.Duration
}

type chromedpElement struct {
	browser *ChromedpBrowser
	node    *cdp.Node
}

// InitializeChromedp starts Chrome. DriverPath, when set, is the Chrome binary.
// The returned browser is never nil and is always safe to Close.
func InitializeChromedp(opts DriverOptions) (*ChromedpBrowser, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", opts.Headless),
	)
	if opts.DriverPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.DriverPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	b := &ChromedpBrowser{
		ctx:          ctx,
		cancel:       cancel,
		allocCancel:  allocCancel,
		pollInterval: opts.PollInterval,
	}
	if b.pollInterval <= 0 {
		b.pollInterval = defaultPollInterval
	}

	// An empty Run starts the browser process.
	if err := chromedp.Run(ctx); err != nil {
		b.Close()
		return b, fmt.Errorf("Error starting chrome: %w", err)
	}
	return b, nil
}

func xpathLiteral(value string) string {
	if !strings.Contains(value, `"`) {
		return `"` + value + `"`
	}
	if !strings.Contains(value, `'`) {
		return `'` + value + `'`
	}
	parts := strings.Split(value, `"`)
	return `concat("` + strings.Join(parts, `", '"', "`) + `")`
}

// query translates a WebDriver style selector into a chromedp query. Lookups
// below an element only support CSS based strategies.
func query(sel Selector, scoped bool) (string, chromedp.QueryOption, error) {
	switch sel.By {
	case ByName:
		return fmt.Sprintf(`[name=%q]`, sel.Value), chromedp.ByQueryAll, nil
	case ByTagName, ByCSSSelector:
		return sel.Value, chromedp.ByQueryAll, nil
	case ByLinkText:
		if scoped {
			break
		}
		return fmt.Sprintf(`//a[normalize-space(.)=%s]`, xpathLiteral(sel.Value)), chromedp.BySearch, nil
	case ByXPath:
		if scoped {
			break
		}
		return sel.Value, chromedp.BySearch, nil
	}
	return "", nil, fmt.Errorf("unsupported selector %s", sel)
}

func (b *ChromedpBrowser) nodes(sel Selector, from *cdp.Node, wait time.Duration) ([]*cdp.Node, error) {
	q, by, err := query(sel, from != nil)
	if err != nil {
		return nil, err
	}
	opts := []chromedp.QueryOption{by, chromedp.AtLeast(0)}
	if from != nil {
		opts = append(opts, chromedp.FromNode(from))
	}

	deadline := time.Now().Add(wait)
	for {
		var nodes []*cdp.Node
		if err := chromedp.Run(b.ctx, chromedp.Nodes(q, &nodes, opts...)); err != nil {
			return nil, fmt.Errorf("Error finding element %s: %w", sel, err)
		}
		if len(nodes) > 0 || !time.Now().Before(deadline) {
			return nodes, nil
		}
		time.Sleep(b.pollInterval)
	}
}

func (b *ChromedpBrowser) wrapNodes(nodes []*cdp.Node) []Element {
	elems := make([]Element, 0, len(nodes))
	for _, node := range nodes {
		elems = append(elems, &chromedpElement{browser: b, node: node})
	}
	return elems
}

// actionContext bounds single element actions by the implicit wait, since
// chromedp otherwise waits for visibility indefinitely.
func (b *ChromedpBrowser) actionContext() (context.Context, context.CancelFunc) {
	if b.implicitWait <= 0 {
		return context.WithCancel(b.ctx)
	}
	return context.WithTimeout(b.ctx, b.implicitWait)
}

func (b *ChromedpBrowser) GotoUrl(url string) error {
	return chromedp.Run(b.ctx, chromedp.Navigate(url))
}

func (b *ChromedpBrowser) CurrentURL() (string, error) {
	var url string
	if err := chromedp.Run(b.ctx, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

func (b *ChromedpBrowser) FindElement(sel Selector) (Element, error) {
	nodes, err := b.nodes(sel, nil, b.implicitWait)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, sel)
	}
	return &chromedpElement{browser: b, node: nodes[0]}, nil
}

func (b *ChromedpBrowser) FindElements(sel Selector) ([]Element, error) {
	nodes, err := b.nodes(sel, nil, b.implicitWait)
	if err != nil {
		return nil, err
	}
	return b.wrapNodes(nodes), nil
}

func (b *ChromedpBrowser) SetImplicitWait(timeout time.Duration) error {
	b.implicitWait = timeout
	return nil
}

func (b *ChromedpBrowser) Wait(cond Condition, timeout time.Duration) error {
	return PollUntil(b, cond, timeout, b.pollInterval)
}

func (b *ChromedpBrowser) Close() {
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	if b.allocCancel != nil {
		b.allocCancel()
		b.allocCancel = nil
	}
}

func (e *chromedpElement) ids() []cdp.NodeID {
	return []cdp.NodeID{e.node.NodeID}
}

func (e *chromedpElement) Click() error {
	ctx, cancel := e.browser.actionContext()
	defer cancel()
	return chromedp.Run(ctx, chromedp.Click(e.ids(), chromedp.ByNodeID))
}

func (e *chromedpElement) SendKeys(keys string) error {
	ctx, cancel := e.browser.actionContext()
	defer cancel()
	keys = strings.ReplaceAll(keys, EnterKey, kb.Enter)
	return chromedp.Run(ctx, chromedp.SendKeys(e.ids(), keys, chromedp.ByNodeID))
}

func (e *chromedpElement) Text() (string, error) {
	ctx, cancel := e.browser.actionContext()
	defer cancel()
	var text string
	if err := chromedp.Run(ctx, chromedp.Text(e.ids(), &text, chromedp.ByNodeID)); err != nil {
		return "", fmt.Errorf("Error getting text on element: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func (e *chromedpElement) FindElements(sel Selector) ([]Element, error) {
	nodes, err := e.browser.nodes(sel, e.node, 0)
	if err != nil {
		return nil, err
	}
	return e.browser.wrapNodes(nodes), nil
}
