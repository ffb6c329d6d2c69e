// Command txkit builds, inspects and signs Stellar transactions and serves
// the same tools over HTTP.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stellar-txkit/internal/config"
)

var version = "dev"

// app carries the configuration every subcommand shares. Flags override
// the environment.
type app struct {
	cfg       *config.Config
	overrides map[string]*string
	flags     *pflag.FlagSet
	lookuper  envconfig.Lookuper
}

func main() {
	if err := newRootCmd(envconfig.OsLookuper()).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "txkit:", err)
		os.Exit(1)
	}
}

func newRootCmd(lookuper envconfig.Lookuper) *cobra.Command {
	a := &app{lookuper: lookuper}
	root := &cobra.Command{
		Use:           "txkit",
		Short:         "Stellar transaction toolkit",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.Context())
		},
	}
	a.addFlags(root.PersistentFlags())

	root.AddCommand(
		newKeysCmd(),
		newStrKeyCmd(),
		newAccountCmd(a),
		newTxCmd(a),
		newAuthCmd(a),
		newXDRCmd(a),
		newURICmd(a),
		newTOMLCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) addFlags(fs *pflag.FlagSet) {
	a.flags = fs
	a.overrides = map[string]*string{
		"STELLAR_NETWORK":    fs.String("network", "", "testnet, mainnet, futurenet or custom (overrides STELLAR_NETWORK)"),
		"NETWORK_PASSPHRASE": fs.String("passphrase", "", "network passphrase for --network custom"),
		"HORIZON_URL":        fs.String("horizon-url", "", "Horizon server (overrides HORIZON_URL)"),
		"SOROBAN_RPC_URL":    fs.String("rpc-url", "", "Soroban RPC server (overrides SOROBAN_RPC_URL)"),
		"LOG_LEVEL":          fs.String("log-level", "", "trace, debug, info, warn or error"),
	}
}

// load reads the configuration from the environment and the set flags and
// sets up logging.
func (a *app) load(ctx context.Context) error {
	set := make(map[string]string)
	for env, value := range a.overrides {
		if *value != "" {
			set[env] = *value
		}
	}
	cfg, err := config.LoadFrom(ctx, envconfig.MultiLookuper(envconfig.MapLookuper(set), a.lookuper))
	if err != nil {
		return err
	}
	a.cfg = cfg

	zerolog.SetGlobalLevel(cfg.ParseLogLevel())
	if isatty.IsTerminal(os.Stderr.Fd()) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return nil
}

// input returns the first argument, or the whole of stdin when the
// argument is missing or "-".
func input(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	s := strings.TrimSpace(string(data))
	if s == "" {
		return "", fmt.Errorf("no input: pass an argument or pipe it on stdin")
	}
	return s, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printLine(cmd *cobra.Command, a ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), a...)
}
