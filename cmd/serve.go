package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chinmay1088/gasline/chains/aptos"
	"github.com/chinmay1088/gasline/config"
	"github.com/chinmay1088/gasline/flows"
	"github.com/chinmay1088/gasline/server"
	"github.com/chinmay1088/gasline/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sponsor backend",
	Long: `Run an HTTP backend that builds and sponsors transactions for frontends.

Routes:
  POST /buildAndSponsorTx    build a transfer and co-sign it as fee payer
  POST /sponsorTx            co-sign a transaction built by the caller
  POST /sponsorAndSubmitTx   sponsor and submit a sender-signed transaction
  POST /invisibleWalletTx    transfer from an invisible wallet
  POST /sui/sponsorTx        sponsor a Sui transaction kind
  POST /sui/executeTx        execute sponsor- and sender-signed Sui data
  POST /zklogin/salt         zkLogin salt and address for an id token
  POST /zklogin/proof        zkLogin proof
  GET  /healthz

The Aptos routes serve GASLINE_CHAIN (aptos or movement). The routes are
unauthenticated: anyone who can reach them spends your gas fund.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var addrFlag string

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "listen address (default GASLINE_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log.SetPrefix("[GASLINE] ")

	cfg, manager, err := setup()
	if err != nil {
		return err
	}
	if err := cfg.RequireGasKey(); err != nil {
		return err
	}
	if err := cfg.ValidateChain(); err != nil {
		return err
	}
	if cfg.WalletAccessKey == "" {
		log.Printf("SHINAMI_WALLET_ACCESS_KEY not set: invisible wallet and zkLogin routes will fail")
	}
	addr := cfg.Addr
	if addrFlag != "" {
		addr = addrFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, cfg.OTelEndpoint, "gasline")
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("trace shutdown: %v", err)
		}
	}()

	network := manager.GetCurrentNetwork()
	node, err := aptos.NewNodeClient(cfg.Chain, network)
	if err != nil {
		return err
	}
	client := newClient(cfg, manager)

	srv := server.New(server.Deps{
		Aptos:        flows.AptosDeps{Chain: cfg.Chain, Node: node, Gas: client},
		AptosWallets: client,
		Sui:          suiDeps(client),
		ZkLogin:      client,
		WalletSecret: cfg.WalletSecret,
	})
	log.Printf("serving %s %s (sui %s)", cfg.Chain, network, client.GetSuiRPC())
	if cfg.Chain == config.ChainMovement {
		log.Printf("/invisibleWalletTx is disabled on movement")
	}
	return server.ListenAndServe(ctx, addr, srv.Handler())
}
