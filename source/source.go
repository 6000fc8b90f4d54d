package source

import "errors"

type Step string

const (
	StepSetup      Step = "setup"
	StepLogin      Step = "login"
	StepNavigation Step = "navigation"
	StepExtraction Step = "extraction"
	StepRun        Step = "run"
)

var (
	ErrSetup          = errors.New("browser setup failed")
	ErrAuthentication = errors.New("authentication failed")
	ErrNavigation     = errors.New("navigation failed")
	ErrExtraction     = errors.New("table extraction failed")
	ErrInteraction    = errors.New("browser interaction failed")
)

// Source is a site the scraper can log into and read the proxy list from.
// Each step reports its own failure and returns false instead of an error.
type Source interface {
	Login(login, password string) bool
	GetProxies() bool
	Close()
}

// Describe turns a step error into the message shown to the user.
func Describe(err error) string {
	switch {
	case errors.Is(err, ErrSetup):
		return "could not start the browser session"
	case errors.Is(err, ErrAuthentication):
		return "authentication failed, check LOGIN and PASSWORD"
	case errors.Is(err, ErrNavigation):
		return "could not open the proxy list"
	case errors.Is(err, ErrExtraction):
		return "proxy table did not load"
	default:
		return "browser interaction failed"
	}
}
