package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tonlabs/ever-sdk-go/pkg/crypto"
)

var keypairCmd = &cobra.Command{
	Use:   "keypair",
	Short: "Generate local signing keys",
}

var keypairGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a fresh ed25519 signing keypair",
	RunE: func(cmd *cobra.Command, args []string) error {
		pair, err := crypto.GenerateSignKeyPair()
		if err != nil {
			return fmt.Errorf("generate keypair: %w", err)
		}
		fmt.Printf("public: %s\n", hex.EncodeToString(pair.Public))
		fmt.Printf("secret: %s\n", hex.EncodeToString(pair.Secret))
		return nil
	},
}

func init() {
	keypairCmd.AddCommand(keypairGenerateCmd)
}
