package api

// API Client
//
// Files:
//   config.go  - service names, Shinami and full-node endpoints per chain/network
//   types.go   - JSON-RPC envelope and result types
//   base.go    - Client, options, the JSON-RPC call helper and typed errors
//   gas.go     - gas station: sponsor, sponsor-and-submit, fund balance (Aptos, Movement, Sui)
//   sui.go     - Sui full node: execute, fetch, balance, reference gas price
//   wallet.go  - key service sessions and invisible wallets (Sui and Aptos)
//   zklogin.go - zkLogin wallet salt and proof
//
// Usage:
//   client := api.NewClient(cfg, api.NetworkTestnet)
//   res, err := client.SponsorAptosTransaction(ctx, config.ChainAptos, txHex)   // from gas.go
//   resp, err := client.ExecuteSuiTransaction(ctx, txBytes, sigs)               // from sui.go
//   token, err := client.CreateSession(ctx, config.ChainSui, secret)           // from wallet.go
