package webscraping

import (
	"errors"
	"fmt"
	"time"

	"github.com/tebeka/selenium"
)

// Lookup strategies. Values follow the WebDriver wire names so the selenium
// backend can pass them through unchanged.
const (
	ByLinkText    = selenium.ByLinkText
	ByName        = selenium.ByName
	ByXPath       = selenium.ByXPATH
	ByTagName     = selenium.ByTagName
	ByCSSSelector = selenium.ByCSSSelector
)

const EnterKey = selenium.EnterKey

var (
	ErrWaitTimeout     = errors.New("timed out waiting for condition")
	ErrElementNotFound = errors.New("no such element")
)

type Selector struct {
	By    string
	Value string
}

func (s Selector) String() string {
	return fmt.Sprintf("%s=%q", s.By, s.Value)
}

type Element interface {
	Click() error
	SendKeys(keys string) error
	Text() (string, error)
	FindElements(sel Selector) ([]Element, error)
}

// Condition is polled by Browser.Wait until it returns true. Returning an
// error stops the wait and hands the error back to the caller.
type Condition func(b Browser) (bool, error)

// Browser is one live controlled-browser session.
type Browser interface {
	GotoUrl(url string) error
	CurrentURL() (string, error)
	FindElement(sel Selector) (Element, error)
	FindElements(sel Selector) ([]Element, error)
	// Wait polls cond until it holds. Expiry returns an error wrapping
	// ErrWaitTimeout.
	Wait(cond Condition, timeout time.Duration) error
	// SetImplicitWait makes every element lookup retry for up to timeout.
	SetImplicitWait(timeout time.Duration) error
	Close()
}

// Launcher starts a browser session. A failed launch cleans up whatever it
// already started.
type Launcher interface {
	Launch() (Browser, error)
}

func URLChangedFrom(oldUrl string) Condition {
	return func(b Browser) (bool, error) {
		current, err := b.CurrentURL()
		if err != nil {
			return false, err
		}
		return current != oldUrl, nil
	}
}

func URLEquals(target string) Condition {
	return func(b Browser) (bool, error) {
		current, err := b.CurrentURL()
		if err != nil {
			return false, err
		}
		return current == target, nil
	}
}

// ElementPresent holds once sel matches an element; the element is stored in
// found. Lookup failures count as "not yet".
func ElementPresent(sel Selector, found *Element) Condition {
	return func(b Browser) (bool, error) {
		elem, err := b.FindElement(sel)
		if err != nil {
			return false, nil
		}
		*found = elem
		return true, nil
	}
}

// PollUntil evaluates cond every interval until it holds or timeout elapses.
// cond is always evaluated at least once.
func PollUntil(b Browser, cond Condition, timeout, interval time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		done, err := cond(b)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w after %v", ErrWaitTimeout, timeout)
		}
		time.Sleep(interval)
	}
}
