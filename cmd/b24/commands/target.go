package commands

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/b24io/bitrix24-client/internal/constants"
	"github.com/b24io/bitrix24-client/pkg/b24client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// fileConfig is the subset of settings persisted to ~/.b24/config.yml.
type fileConfig struct {
	Webhook string `yaml:"webhook"`
	Output  string `yaml:"output,omitempty"`
}

// NewTargetCommand creates the target command.
func NewTargetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "target [WEBHOOK_URL]",
		Short: "Set or show the targeted Bitrix24 webhook",
		Long: `Store an inbound webhook URL in the config file, or show the current
target when invoked without arguments. The webhook embeds a secret, so when
no URL is given on the command line it is read with a hidden prompt.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !cmd.Flags().Changed("webhook") {
				return showTarget()
			}

			webhook := viper.GetString("webhook")
			if len(args) == 1 {
				webhook = args[0]
			}

			if webhook == "" {
				fmt.Fprint(os.Stderr, "Webhook URL: ")

				raw, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read webhook URL: %w", err)
				}

				fmt.Fprintln(os.Stderr)

				webhook = strings.TrimSpace(string(raw))
			}

			if webhook == "" {
				return ErrInvalidWebhookInput
			}

			endpoint, err := b24client.NormalizeWebhookURL(webhook)
			if err != nil {
				return err
			}

			if err := saveTarget(webhook); err != nil {
				return err
			}

			fmt.Printf("Targeted %s\n", maskEndpoint(endpoint))

			return nil
		},
	}
}

func showTarget() error {
	webhook := viper.GetString("webhook")
	if webhook == "" {
		return ErrWebhookRequired
	}

	endpoint, err := b24client.NormalizeWebhookURL(webhook)
	if err != nil {
		return err
	}

	fmt.Printf("Target: %s\n", maskEndpoint(endpoint))

	return nil
}

func saveTarget(webhook string) error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}

		configDir := filepath.Join(home, ".b24")

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		configFile = filepath.Join(configDir, "config.yml")
	}

	cfg := fileConfig{
		Webhook: webhook,
		Output:  viper.GetString("output"),
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The webhook embeds a secret, keep the file private.
	if err := os.WriteFile(configFile, data, constants.ConfigFilePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// maskEndpoint hides the webhook secret in the canonical endpoint.
func maskEndpoint(endpoint string) string {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}

	segments := strings.Split(parsed.Path, "/")
	if len(segments) > 0 {
		segments[len(segments)-1] = "***"
	}

	parsed.Path = strings.Join(segments, "/")

	return parsed.String()
}
