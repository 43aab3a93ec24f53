package main

import (
	"github.com/jonathan/resume-analyzer/internal/extraction"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/jonathan/resume-analyzer/internal/server"
	"github.com/jonathan/resume-analyzer/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing /upload-resume, /analyze-text and /health.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8000, "Port to listen on (defaults to PORT when not set)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := appConfig
	port := cfg.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	gateway := llm.NewGateway(cmd.Context(), cfg.LLMConfig())
	defer gateway.Close()

	analyzer := pipeline.NewAnalyzer(extraction.New(), gateway)

	srv := server.New(server.Config{
		Port:           port,
		MaxUploadBytes: cfg.MaxUploadBytes,
		UploadDir:      cfg.UploadDir,
		Version:        version,
		RateLimit:      ratelimit.LoadConfig(),
	}, analyzer, gateway)

	return srv.Start()
}
