package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veristamp/veristamp/internal/config"
	"github.com/veristamp/veristamp/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new veristamp workspace",
	Long: `Initialize a new veristamp workspace in the current directory.
This creates a .veristamp directory holding the configuration and the
local vector database.`,
	Run: runInit,
}

var (
	initCreator string
	initGateway string
)

func init() {
	initCmd.Flags().StringVar(&initCreator, "creator", "", "Creator identity attributed to registrations (e.g. a wallet address)")
	initCmd.Flags().StringVar(&initGateway, "gateway", "", "Registry gateway URL")
}

func runInit(cmd *cobra.Command, args []string) {
	if _, err := config.FindRoot(); err == nil {
		exitError("veristamp workspace already exists")
	}

	cfg, err := config.Initialize(initCreator, initGateway)
	if err != nil {
		exitError("failed to initialize config: %v", err)
	}

	// Create the database up front so a backup of .veristamp is complete.
	blob, err := store.OpenSQLite(cfg.DatabasePath())
	if err != nil {
		exitError("failed to create vector database: %v", err)
	}
	blob.Close()

	fmt.Printf("Initialized veristamp workspace in %s/\n", config.Dir)
	if initCreator == "" {
		fmt.Println("\nSet your creator identity in .veristamp/config before registering.")
	}
	if initGateway == "" {
		fmt.Println("Set registry.gateway_url in .veristamp/config to enable register/verify.")
	}
}
