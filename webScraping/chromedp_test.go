package webscraping

import (
	"testing"

	"ProxyLeaseCheck/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXpathLiteral(t *testing.T) {
	assert.Equal(t, `"Вход"`, xpathLiteral("Вход"))
	assert.Equal(t, `'say "hi"'`, xpathLiteral(`say "hi"`))
	assert.Equal(t, `concat("it's ", '"', "quoted", '"', "")`, xpathLiteral(`it's "quoted"`))
}

func TestQuery(t *testing.T) {
	t.Run("link text becomes an anchor xpath", func(t *testing.T) {
		q, by, err := query(Selector{By: ByLinkText, Value: "Вход"}, false)
		require.NoError(t, err)
		assert.NotNil(t, by)
		assert.Equal(t, `//a[normalize-space(.)="Вход"]`, q)
	})

	t.Run("name becomes an attribute selector", func(t *testing.T) {
		q, _, err := query(Selector{By: ByName, Value: "password"}, false)
		require.NoError(t, err)
		assert.Equal(t, `[name="password"]`, q)
	})

	t.Run("tag name works below an element", func(t *testing.T) {
		q, _, err := query(Selector{By: ByTagName, Value: "td"}, true)
		require.NoError(t, err)
		assert.Equal(t, "td", q)
	})

	t.Run("xpath is rejected below an element", func(t *testing.T) {
		_, _, err := query(Selector{By: ByXPath, Value: ".//td"}, true)
		assert.Error(t, err)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, _, err := query(Selector{By: "id", Value: "main"}, false)
		assert.Error(t, err)
	})
}

func TestNewLauncher(t *testing.T) {
	settings := config.DefaultSettings()
	assert.IsType(t, seleniumLauncher{}, NewLauncher(settings))

	settings.Backend = config.BackendChromedp
	launcher := NewLauncher(settings)
	require.IsType(t, chromedpLauncher{}, launcher)
	assert.Equal(t, settings.Timeouts.PollInterval, launcher.(chromedpLauncher).opts.PollInterval)
}

func TestClosedBrowsersAreSafeToClose(t *testing.T) {
	(&WebDriverWrapper{}).Close()
	(&ChromedpBrowser{}).Close()
}
