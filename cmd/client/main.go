package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-vault-keeper/internal/config"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("go-vault-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	root := newRootCommand(*cfg, log)
	if err = root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(cfg config.ClientConfig, log *logger.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "go-vault-client",
		Short:         "Command line client for the go-vault-keeper daemon",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cli := &cliContext{cfg: cfg, logs: log}

	root.AddCommand(
		cli.pingCommand(),
		cli.statusCommand(),
		cli.createArchiveCommand(),
		cli.unlockCommand(),
		cli.lockCommand(),
		cli.saveCommand(),
		cli.infoCommand(),
		cli.validateCommand(),
		cli.listCommand(),
		cli.getCommand(),
		cli.addCommand(),
		cli.updateCommand(),
		cli.deleteCommand(),
		cli.searchCommand(),
		cli.templatesCommand(),
		cli.tuiCommand(),
	)

	return root
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
