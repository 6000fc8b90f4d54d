package belurk

import (
	"errors"
	"fmt"
	"io"

	"ProxyLeaseCheck/config"
	"ProxyLeaseCheck/source"
	"ProxyLeaseCheck/types"
	webscraping "ProxyLeaseCheck/webScraping"

	"go.uber.org/zap"
)

const (
	baseUrl           = "https://belurk.online/"
	proxiesUrl        = "https://belurk.online/my-proxies/ipv4-shared"
	loginLinkText     = "Вход"
	emailFieldName    = "email"
	passwordFieldName = "password"
	tableBodyXPath    = "//table//tbody"
	rowTag            = "tr"
	cellTag           = "td"
)

var (
	loginLinkSelector     = webscraping.Selector{By: webscraping.ByLinkText, Value: loginLinkText}
	emailFieldSelector    = webscraping.Selector{By: webscraping.ByName, Value: emailFieldName}
	passwordFieldSelector = webscraping.Selector{By: webscraping.ByName, Value: passwordFieldName}
	tableBodySelector     = webscraping.Selector{By: webscraping.ByXPath, Value: tableBodyXPath}
	rowSelector           = webscraping.Selector{By: webscraping.ByTagName, Value: rowTag}
	cellSelector          = webscraping.Selector{By: webscraping.ByTagName, Value: cellTag}
)

type BelurkSource struct {
	driver   webscraping.Browser
	timeouts config.TimeoutConfig
	logger   *zap.Logger
	out      io.Writer
}

var _ source.Source = (*BelurkSource)(nil)

// Initialize launches a browser, applies the implicit wait and opens the
// landing page. The returned source is never nil and Close is always safe;
// on error the caller must not use it for anything else.
func Initialize(launcher webscraping.Launcher, settings config.Settings, logger *zap.Logger, out io.Writer) (*BelurkSource, error) {
	s := &BelurkSource{
		timeouts: settings.Timeouts,
		logger:   logger.With(zap.String("source", "belurk")),
		out:      out,
	}

	driver, err := launcher.Launch()
	if err != nil {
		return s, s.fail(source.StepSetup, fmt.Errorf("%w: %w", source.ErrSetup, err))
	}
	s.driver = driver

	if err := driver.SetImplicitWait(s.timeouts.Implicit); err != nil {
		return s, s.fail(source.StepSetup, fmt.Errorf("%w: %w", source.ErrSetup, err))
	}
	if err := driver.GotoUrl(baseUrl); err != nil {
		return s, s.fail(source.StepSetup, fmt.Errorf("%w: opening %s: %w", source.ErrSetup, baseUrl, err))
	}
	return s, nil
}

func (s *BelurkSource) fail(step source.Step, err error) error {
	s.logger.Error(source.Describe(err), zap.String("step", string(step)), zap.Error(err))
	return err
}

func interactionError(err error) error {
	return fmt.Errorf("%w: %w", source.ErrInteraction, err)
}

// Login submits the credentials and treats any URL change within the login
// timeout as success. The site gives no stronger signal.
func (s *BelurkSource) Login(login, password string) bool {
	if err := s.login(types.Credentials{Login: login, Password: password}); err != nil {
		s.fail(source.StepLogin, err)
		return false
	}
	s.logger.Info("logged in", zap.String("step", string(source.StepLogin)))
	return true
}

func (s *BelurkSource) login(creds types.Credentials) error {
	link, err := s.driver.FindElement(loginLinkSelector)
	if err != nil {
		return interactionError(err)
	}
	if err := link.Click(); err != nil {
		return interactionError(err)
	}

	emailField, err := s.driver.FindElement(emailFieldSelector)
	if err != nil {
		return interactionError(err)
	}
	if err := emailField.SendKeys(creds.Login); err != nil {
		return interactionError(err)
	}

	passwordField, err := s.driver.FindElement(passwordFieldSelector)
	if err != nil {
		return interactionError(err)
	}
	formUrl, err := s.driver.CurrentURL()
	if err != nil {
		return interactionError(err)
	}
	if err := passwordField.SendKeys(creds.Password + webscraping.EnterKey); err != nil {
		return interactionError(err)
	}

	if err := s.driver.Wait(webscraping.URLChangedFrom(formUrl), s.timeouts.Login); err != nil {
		if errors.Is(err, webscraping.ErrWaitTimeout) {
			return fmt.Errorf("%w: still on %s: %w", source.ErrAuthentication, formUrl, err)
		}
		return interactionError(err)
	}
	return nil
}

// GetProxies opens the shared IPv4 listing and prints its table. Must only
// be called after a successful Login.
func (s *BelurkSource) GetProxies() bool {
	if err := s.openProxyList(); err != nil {
		s.fail(source.StepNavigation, err)
		return false
	}
	return s.ProcessTable()
}

func (s *BelurkSource) openProxyList() error {
	if err := s.driver.GotoUrl(proxiesUrl); err != nil {
		return interactionError(err)
	}
	if err := s.driver.Wait(webscraping.URLEquals(proxiesUrl), s.timeouts.Navigation); err != nil {
		if errors.Is(err, webscraping.ErrWaitTimeout) {
			return fmt.Errorf("%w: %s not reached: %w", source.ErrNavigation, proxiesUrl, err)
		}
		return interactionError(err)
	}
	return nil
}

func (s *BelurkSource) Close() {
	if s.driver != nil {
		s.driver.Close()
		s.driver = nil
	}
}

// Run drives one full scrape: setup, login and, only when login succeeded,
// the proxy list. The browser is closed exactly once on every path. Failures
// are reported through logger and never returned.
func Run(launcher webscraping.Launcher, creds types.Credentials, settings config.Settings, logger *zap.Logger, out io.Writer) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("unexpected failure", zap.String("step", string(source.StepRun)), zap.Any("panic", r))
		}
	}()

	src, err := Initialize(launcher, settings, logger, out)
	defer src.Close()
	if err != nil {
		return
	}

	scrape(src, creds)
}

func scrape(src source.Source, creds types.Credentials) {
	if !src.Login(creds.Login, creds.Password) {
		return
	}
	src.GetProxies()
}
