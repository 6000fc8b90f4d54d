package webscraping

import (
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
)

const defaultPollInterval = 500 * time.Millisecond

type DriverOptions struct {
	Browser      string
	DriverPath   string
	Headless     bool
	PollInterval time.Duration
}

type WebDriverWrapper struct {
	driver       selenium.WebDriver
	service      *selenium.Service
	pollInterval time.Duration
}

type seleniumElement struct {
	elem selenium.WebElement
}

func getFreePort() (int, error) {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		return -1, err
	}
	defer listener.Close()

	port := listener.Addr().(*net.TCPAddr).Port
	return port, nil
}

func browserArgs(headless bool) []string {
	if headless {
		return []string{"--headless", "--disable-gpu"}
	}
	return []string{}
}

// InitializeDriver starts a chromedriver or geckodriver service on a free port
// and opens a session against it. The returned wrapper is never nil and is
// always safe to Close, also when an error is returned.
func InitializeDriver(opts DriverOptions) (*WebDriverWrapper, error) {
	wrapper := &WebDriverWrapper{pollInterval: opts.PollInterval}
	if wrapper.pollInterval <= 0 {
		wrapper.pollInterval = defaultPollInterval
	}

	port, err := getFreePort()
	if err != nil {
		return wrapper, fmt.Errorf("Error finding a free port: %w", err)
	}

	serviceOpts := []selenium.ServiceOption{selenium.Output(io.Discard)}
	var (
		service   *selenium.Service
		serverUrl string
	)
	caps := selenium.Capabilities{"browserName": opts.Browser}

	switch opts.Browser {
	case "firefox":
		path := opts.DriverPath
		if path == "" {
			path = "geckodriver"
		}
		service, err = selenium.NewGeckoDriverService(path, port, serviceOpts...)
		if err != nil {
			return wrapper, fmt.Errorf("Error starting geckodriver service: %w", err)
		}
		caps.AddFirefox(firefox.Capabilities{Args: browserArgs(opts.Headless)})
		serverUrl = fmt.Sprintf("http://localhost:%d", port)
	default:
		path := opts.DriverPath
		if path == "" {
			path = "chromedriver"
		}
		service, err = selenium.NewChromeDriverService(path, port, serviceOpts...)
		if err != nil {
			return wrapper, fmt.Errorf("Error starting chromedriver service: %w", err)
		}
		caps.AddChrome(chrome.Capabilities{Args: browserArgs(opts.Headless)})
		serverUrl = fmt.Sprintf("http://localhost:%d/wd/hub", port)
	}
	wrapper.service = service

	driver, err := selenium.NewRemote(caps, serverUrl)
	if err != nil {
		wrapper.Close()
		return wrapper, fmt.Errorf("Error connecting to remote server: %w", err)
	}
	wrapper.driver = driver

	return wrapper, nil
}

func notFound(sel Selector, err error) error {
	if strings.Contains(err.Error(), "no such element") {
		return fmt.Errorf("%w: %s", ErrElementNotFound, sel)
	}
	return fmt.Errorf("Error finding element %s: %w", sel, err)
}

func wrapElements(elems []selenium.WebElement) []Element {
	wrapped := make([]Element, 0, len(elems))
	for _, elem := range elems {
		wrapped = append(wrapped, &seleniumElement{elem: elem})
	}
	return wrapped
}

func (w *WebDriverWrapper) GotoUrl(url string) error {
	return w.driver.Get(url)
}

func (w *WebDriverWrapper) CurrentURL() (string, error) {
	return w.driver.CurrentURL()
}

func (w *WebDriverWrapper) FindElement(sel Selector) (Element, error) {
	elem, err := w.driver.FindElement(sel.By, sel.Value)
	if err != nil {
		return nil, notFound(sel, err)
	}
	return &seleniumElement{elem: elem}, nil
}

func (w *WebDriverWrapper) FindElements(sel Selector) ([]Element, error) {
	elems, err := w.driver.FindElements(sel.By, sel.Value)
	if err != nil {
		return nil, notFound(sel, err)
	}
	return wrapElements(elems), nil
}

func (w *WebDriverWrapper) SetImplicitWait(timeout time.Duration) error {
	return w.driver.SetImplicitWaitTimeout(timeout)
}

func (w *WebDriverWrapper) Wait(cond Condition, timeout time.Duration) error {
	var condErr error
	err := w.driver.WaitWithTimeoutAndInterval(func(selenium.WebDriver) (bool, error) {
		done, err := cond(w)
		condErr = err
		return done, err
	}, timeout, w.pollInterval)
	if condErr != nil {
		return condErr
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWaitTimeout, err)
	}
	return nil
}

func (w *WebDriverWrapper) Close() {
	if w.driver != nil {
		w.driver.Quit()
		w.driver = nil
	}
	if w.service != nil {
		w.service.Stop()
		w.service = nil
	}
}

func (e *seleniumElement) Click() error {
	return e.elem.Click()
}

func (e *seleniumElement) SendKeys(keys string) error {
	return e.elem.SendKeys(keys)
}

func (e *seleniumElement) Text() (string, error) {
	text, err := e.elem.Text()
	if err != nil {
		return "", fmt.Errorf("Error getting text on element: %w", err)
	}
	return text, nil
}

func (e *seleniumElement) FindElements(sel Selector) ([]Element, error) {
	elems, err := e.elem.FindElements(sel.By, sel.Value)
	if err != nil {
		return nil, notFound(sel, err)
	}
	return wrapElements(elems), nil
}
