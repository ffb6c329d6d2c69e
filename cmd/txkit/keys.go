package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/strkey"
)

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "keys", Short: "Generate and inspect ed25519 key pairs"}
	cmd.AddCommand(&cobra.Command{
		Use:   "random",
		Short: "Print a new random key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kp, err := keypair.Random()
			if err != nil {
				return err
			}
			printLine(cmd, "Public:", kp.Address())
			printLine(cmd, "Secret:", kp.Seed())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "address [seed|-]",
		Short: "Print the address of a secret seed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := input(cmd, args)
			if err != nil {
				return err
			}
			kp, err := keypair.ParseFull(seed)
			if err != nil {
				return err
			}
			printLine(cmd, kp.Address())
			return nil
		},
	})
	return cmd
}

func newStrKeyCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "strkey", Short: "Encode and decode strkeys"}
	cmd.AddCommand(&cobra.Command{
		Use:   "encode <kind> <hex>",
		Short: "Encode hex bytes as a strkey of kind G, S, M, C, T, X, P, L or B",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strkey.ParseVersion(args[0])
			if err != nil {
				return err
			}
			raw, err := hex.DecodeString(args[1])
			if err != nil {
				return fmt.Errorf("payload is not hex: %w", err)
			}
			s, err := strkey.Encode(version, raw)
			if err != nil {
				return err
			}
			printLine(cmd, s)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "decode [strkey|-]",
		Short: "Decode a strkey into its kind and payload",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := input(cmd, args)
			if err != nil {
				return err
			}
			d, err := strkey.Describe(s)
			if err != nil {
				return err
			}
			return printJSON(cmd, d)
		},
	})
	return cmd
}
