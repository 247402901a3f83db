package command

// root.go defines the root command of tastingctl and its global flags.

import (
	"fmt"
	"os"

	"blindtasting/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	apiURL      string // API server URL
	adminSecret string // shared admin secret
	noColor     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tastingctl",
	Short: "tastingctl - manage blind wine tastings",
	Long: `tastingctl talks to the tasting admin API. Use it to:
- Create a tasting with its criteria and wine slots
- Open, close and reveal a tasting
- Print the live report or the weighted ranking

The admin secret is read from --admin-secret or ADMIN_SECRET.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("TASTING_API_URL", "http://localhost:8080"), "API server URL")
	rootCmd.PersistentFlags().StringVar(&adminSecret, "admin-secret", os.Getenv("ADMIN_SECRET"), "admin secret")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newClient() (*client.HTTPClient, error) {
	if adminSecret == "" {
		return nil, fmt.Errorf("admin secret is required (--admin-secret or ADMIN_SECRET)")
	}
	return client.NewHTTPClient(apiURL, adminSecret), nil
}
