package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"pet-adoption-web/internal/adapters/restapi"
	"pet-adoption-web/internal/domain/session"
	"pet-adoption-web/internal/platform/config"
	"pet-adoption-web/internal/platform/logger"
	"pet-adoption-web/internal/tui"
)

var (
	apiURL   string
	email    string
	password string
	verbose  bool
)

// rootCmd es el cliente de terminal del marketplace de adopción.
var rootCmd = &cobra.Command{
	Use:   "adopt",
	Short: "Browse adoptable pets, apply and review applications from the terminal",
	Long: `adopt talks to the pet adoption REST API.

Public commands (pets, shelters) need no account. Commands that act on your
behalf (apply, applications, review) log in first with --email/--password
or ADOPT_EMAIL/ADOPT_PASSWORD.

  serve         - run the web BFF
  login         - check credentials and show the account
  pets          - list pets, or show one
  shelters      - list shelters, or show one
  apply         - fill in an adoption application interactively
  applications  - list your applications (or your shelter's)
  review        - approve or reject an application`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (default API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&email, "email", os.Getenv("ADOPT_EMAIL"), "account email")
	rootCmd.PersistentFlags().StringVar(&password, "password", os.Getenv("ADOPT_PASSWORD"), "account password")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stdout")

	rootCmd.AddCommand(serveCmd, loginCmd, petsCmd, sheltersCmd, applyCmd, applicationsCmd, reviewCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, tui.Failure(err.Error()))
		os.Exit(1)
	}
}

// client es lo que necesita cada comando: config, logger y el API REST.
type client struct {
	cfg *config.Config
	log logger.Logger
	api *restapi.API
}

func newClient() (*client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(apiURL) != "" {
		cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
	}

	log := logger.NewNop()
	if verbose {
		log = logger.New(logger.Options{Level: logger.Debug, Format: logger.ParseFormat(cfg.LogFormat), App: "adopt"})
	}

	api, err := restapi.New(restapi.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout})
	if err != nil {
		return nil, err
	}
	return &client{cfg: cfg, log: log, api: api}, nil
}

// login abre sesión con las credenciales de los flags; la cookie queda en el jar del API.
func (c *client) login(ctx context.Context) (*session.Slice, session.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, session.User{}, errors.New("credentials required: use --email/--password or ADOPT_EMAIL/ADOPT_PASSWORD")
	}
	auth := session.NewSlice(c.api.Auth, c.log)
	u, err := auth.Login(ctx, session.Credentials{Email: email, Password: password})
	if err != nil {
		var verr *session.ValidationError
		if errors.As(err, &verr) {
			return nil, session.User{}, fmt.Errorf("%w: %s", err, joinFieldErrors(verr.Fields))
		}
		return nil, session.User{}, err
	}
	return auth, u, nil
}

func joinFieldErrors(m map[string]string) string {
	parts := make([]string, 0, len(m))
	for k, v := range m {
		parts = append(parts, k+": "+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
