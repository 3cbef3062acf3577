//	@title			Extension Storage API
//	@version		1.0
//	@description	Stores extension files and namespace logos of the registry in Tencent COS.
//
//	@host		localhost:8080
//	@BasePath	/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: **Bearer {token}**

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ovsx/storage/internal/config"
	"github.com/ovsx/storage/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:          "storaged",
	Short:        "Extension file storage gateway backed by Tencent COS",
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, tokenCmd, janitorCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and initializes the global logger from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}
