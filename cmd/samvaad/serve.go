package main

import (
	"fmt"

	"github.com/HendryAvila/samvaad/internal/config"
	"github.com/HendryAvila/samvaad/internal/logging"
	sserver "github.com/HendryAvila/samvaad/internal/server"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	s, cleanup, err := sserver.New(cfg, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	if err := server.ServeStdio(s); err != nil {
		log.Error("stdio server stopped", zap.Error(err))
		return err
	}
	return nil
}
