package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"loov.dev/evmlens/internal/bridge"
	"loov.dev/evmlens/internal/solc"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve editing sessions to editor front-ends over WebSocket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := effectiveConfig()
		if err != nil {
			return err
		}
		debounce, err := cfg.debounce()
		if err != nil {
			return err
		}
		if flagListen != "" {
			cfg.Listen = flagListen
		}

		client := solc.NewClient(cfg.Compiler.URL)
		client.EVMVersion = cfg.Compiler.EVMVersion

		srv := bridge.NewServer(client.Compile, nil)
		srv.Debounce = debounce
		srv.Context = cfg.Context

		mux := http.NewServeMux()
		mux.Handle("/session", srv)

		fmt.Printf("evmlens listening on %s (compiler %s)\n", cfg.Listen, cfg.Compiler.URL)
		return http.ListenAndServe(cfg.Listen, mux)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "listen address")
}
