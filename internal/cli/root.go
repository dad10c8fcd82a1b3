package cli

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pavonify-live-client/internal/config"
	"pavonify-live-client/internal/transport/ws"
)

var (
	configPath string
	apiBase    string
	wsBase     string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}
	envAPI := os.Getenv("PAVONIFY_API_URL")

	cmd := &cobra.Command{
		Use:   "pavonify-live",
		Short: "Terminal client for Pavonify live games and reviews",
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&apiBase, "api", envAPI, "API base URL, e.g. https://pavonify.example")
	cmd.PersistentFlags().StringVar(&wsBase, "ws", os.Getenv("PAVONIFY_WS_URL"), "WebSocket base URL, derived from --api when empty")
	cmd.AddCommand(newHostCmd())
	cmd.AddCommand(newPlayCmd())
	cmd.AddCommand(newListenCmd())
	cmd.AddCommand(newReviewCmd())
	cmd.AddCommand(newEnrichCmd())
	return cmd
}

// settings is the flag-over-config resolution every subcommand shares.
type settings struct {
	cfg       config.Config
	apiBase   string
	wsBase    string
	reconnect time.Duration
	jar       http.CookieJar
}

func loadSettings() (settings, error) {
	s := settings{}
	if cfg, err := config.Load(configPath); err == nil {
		s.cfg = cfg
	} else if !os.IsNotExist(err) {
		return s, err
	}

	s.apiBase = apiBase
	if s.apiBase == "" {
		s.apiBase = s.cfg.API.BaseURL
	}
	if s.apiBase == "" {
		s.apiBase = "http://localhost:8000"
	}

	s.wsBase = wsBase
	if s.wsBase == "" {
		s.wsBase = s.cfg.WS.BaseURL
	}
	if s.wsBase == "" {
		derived, err := ws.BaseFromHTTP(s.apiBase)
		if err != nil {
			return s, err
		}
		s.wsBase = derived
	}

	s.reconnect = config.TTLDuration(s.cfg.WS.ReconnectInterval, 0)

	jar, err := cookiejar.New(nil)
	if err != nil {
		return s, err
	}
	s.jar = jar
	return s, nil
}

// httpClient builds the shared client so session cookies survive across
// REST calls within one command.
func (s settings) httpClient() *http.Client {
	return &http.Client{Jar: s.jar, Timeout: 30 * time.Second}
}

// csrfSource reads the CSRF cookie out of the shared jar.
func (s settings) csrfSource() func() string {
	name := s.cfg.API.CSRFCookie
	if name == "" {
		name = "csrftoken"
	}
	target, err := url.Parse(s.apiBase)
	if err != nil {
		return func() string { return "" }
	}
	return func() string {
		for _, cookie := range s.jar.Cookies(target) {
			if cookie.Name == name {
				return cookie.Value
			}
		}
		return ""
	}
}
