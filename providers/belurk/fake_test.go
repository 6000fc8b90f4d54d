package belurk

import (
	"errors"
	"strings"
	"time"

	webscraping "ProxyLeaseCheck/webScraping"
)

// fakeSite is a scripted stand-in for a browser session on the proxy site.
type fakeSite struct {
	url          string
	visits       []string
	closeCount   int
	implicitWait time.Duration

	validLogin    string
	validPassword string
	typedLogin    string
	typedPassword string

	missingLoginLink bool
	landingErr       error
	redirectListing  string
	noTable          bool
	rows             [][]string
	cellErr          error
	panicOnFind      bool
}

type fakeLauncher struct {
	site      *fakeSite
	err       error
	launchers int
}

func (l *fakeLauncher) Launch() (webscraping.Browser, error) {
	l.launchers++
	if l.err != nil {
		return nil, l.err
	}
	return l.site, nil
}

func newFakeSite() *fakeSite {
	return &fakeSite{
		validLogin:    "user@example.com",
		validPassword: "secret",
	}
}

func (f *fakeSite) GotoUrl(url string) error {
	f.visits = append(f.visits, url)
	if url == baseUrl && f.landingErr != nil {
		return f.landingErr
	}
	if url == proxiesUrl && f.redirectListing != "" {
		f.url = f.redirectListing
		return nil
	}
	f.url = url
	return nil
}

func (f *fakeSite) CurrentURL() (string, error) {
	return f.url, nil
}

func (f *fakeSite) FindElement(sel webscraping.Selector) (webscraping.Element, error) {
	if f.panicOnFind {
		panic("driver crashed")
	}
	switch sel {
	case loginLinkSelector:
		if f.missingLoginLink {
			return nil, webscraping.ErrElementNotFound
		}
		return &fakeElement{onClick: func() { f.url = baseUrl + "login" }}, nil
	case emailFieldSelector:
		return &fakeElement{onKeys: func(keys string) { f.typedLogin += keys }}, nil
	case passwordFieldSelector:
		return &fakeElement{onKeys: func(keys string) {
			f.typedPassword += keys
			if !strings.HasSuffix(keys, webscraping.EnterKey) {
				return
			}
			password := strings.TrimSuffix(f.typedPassword, webscraping.EnterKey)
			if f.typedLogin == f.validLogin && password == f.validPassword {
				f.url = baseUrl + "dashboard"
			}
		}}, nil
	case tableBodySelector:
		if f.noTable || f.url != proxiesUrl {
			return nil, webscraping.ErrElementNotFound
		}
		return f.tableBody(), nil
	}
	return nil, webscraping.ErrElementNotFound
}

func (f *fakeSite) FindElements(sel webscraping.Selector) ([]webscraping.Element, error) {
	elem, err := f.FindElement(sel)
	if err != nil {
		return nil, nil
	}
	return []webscraping.Element{elem}, nil
}

func (f *fakeSite) Wait(cond webscraping.Condition, timeout time.Duration) error {
	return webscraping.PollUntil(f, cond, timeout, time.Millisecond)
}

func (f *fakeSite) SetImplicitWait(timeout time.Duration) error {
	f.implicitWait = timeout
	return nil
}

func (f *fakeSite) Close() {
	f.closeCount++
}

func (f *fakeSite) tableBody() *fakeElement {
	var rows []webscraping.Element
	for _, cells := range f.rows {
		var cellElements []webscraping.Element
		for _, text := range cells {
			cellElements = append(cellElements, &fakeElement{text: text, textErr: f.cellErr})
		}
		rows = append(rows, &fakeElement{children: map[string][]webscraping.Element{cellTag: cellElements}})
	}
	return &fakeElement{children: map[string][]webscraping.Element{rowTag: rows}}
}

type fakeElement struct {
	text     string
	textErr  error
	onClick  func()
	onKeys   func(string)
	children map[string][]webscraping.Element
}

func (e *fakeElement) Click() error {
	if e.onClick == nil {
		return errors.New("element not interactable")
	}
	e.onClick()
	return nil
}

func (e *fakeElement) SendKeys(keys string) error {
	if e.onKeys == nil {
		return errors.New("element not interactable")
	}
	e.onKeys(keys)
	return nil
}

func (e *fakeElement) Text() (string, error) {
	return e.text, e.textErr
}

func (e *fakeElement) FindElements(sel webscraping.Selector) ([]webscraping.Element, error) {
	if sel.By != webscraping.ByTagName {
		return nil, errors.New("unsupported selector")
	}
	return e.children[sel.Value], nil
}
