package cmd

import (
	"fmt"

	"ProxyLeaseCheck/config"
	"ProxyLeaseCheck/observability"
	"ProxyLeaseCheck/providers/belurk"
	webscraping "ProxyLeaseCheck/webScraping"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type launcherFactory func(config.Settings) webscraping.Launcher

func newRootCmd(newLauncher launcherFactory) *cobra.Command {
	v := config.NewViper()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "proxyscrape",
		Short:         "Log into belurk.online and list leased shared IPv4 proxies.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("failed to read config file: %w", err)
				}
			}
			settings, err := config.Load(v)
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			observability.InitializeLogger(settings.Log)
			defer observability.Sync()
			logger := observability.GetLogger()
			logger.Debug("starting scrape",
				zap.String("backend", settings.Backend),
				zap.String("browser", settings.Browser),
				zap.Bool("headless", settings.Headless))

			creds := config.GetCredentials()
			belurk.Run(newLauncher(settings), creds, settings, logger, cmd.OutOrStdout())
			return nil
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	flags.String("backend", config.BackendSelenium, "browser automation backend: selenium or chromedp")
	flags.String("browser", config.BrowserChrome, "browser for the selenium backend: chrome or firefox")
	flags.String("driver-path", "", "chromedriver/geckodriver path, or the Chrome binary for chromedp")
	flags.Bool("headless", false, "run the browser without a window")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-format", "console", "log format: console or json")
	flags.String("log-file", "", "also write JSON logs to this file")

	bindFlags(v, rootCmd, map[string]string{
		"backend":     "backend",
		"browser":     "browser",
		"driver_path": "driver-path",
		"headless":    "headless",
		"log.level":   "log-level",
		"log.format":  "log-format",
		"log.file":    "log-file",
	})

	return rootCmd
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			panic(fmt.Errorf("binding flag %s: %w", flag, err))
		}
	}
}

// Execute runs the root command. Scrape failures are only logged; an error
// is returned only for unusable configuration or flags.
func Execute() error {
	return newRootCmd(webscraping.NewLauncher).Execute()
}
