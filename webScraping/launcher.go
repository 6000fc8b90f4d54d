package webscraping

import "ProxyLeaseCheck/config"

type seleniumLauncher struct {
	opts DriverOptions
}

type chromedpLauncher struct {
	opts DriverOptions
}

func NewLauncher(settings config.Settings) Launcher {
	opts := DriverOptions{
		Browser:      settings.Browser,
		DriverPath:   settings.DriverPath,
		Headless:     settings.Headless,
		PollInterval: settings.Timeouts.PollInterval,
	}
	if settings.Backend == config.BackendChromedp {
		return chromedpLauncher{opts: opts}
	}
	return seleniumLauncher{opts: opts}
}

func (l seleniumLauncher) Launch() (Browser, error) {
	wrapper, err := InitializeDriver(l.opts)
	if err != nil {
		wrapper.Close()
		return nil, err
	}
	return wrapper, nil
}

func (l chromedpLauncher) Launch() (Browser, error) {
	browser, err := InitializeChromedp(l.opts)
	if err != nil {
		browser.Close()
		return nil, err
	}
	return browser, nil
}
