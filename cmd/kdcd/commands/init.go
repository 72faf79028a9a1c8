package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dirsrv/kdc/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample kdcd configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/kdcd/config.yaml.
Use --config to specify a custom path.

Examples:
  # Initialize with default location
  kdcd init

  # Initialize with custom path
  kdcd init --config /etc/kdcd/config.yaml

  # Force overwrite an existing config file
  kdcd init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := GetConfigFile()
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
		}
	}

	cfg := config.GetDefaultConfig()
	if err := config.SaveConfig(cfg, path); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", path)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the configuration file: set kdc.primary_realm, kdc.service_principal, and keytab.path")
	fmt.Println("  2. Start the server with: kdcd start")
	fmt.Printf("  3. Or specify a custom config: kdcd start --config %s\n", path)

	return nil
}
