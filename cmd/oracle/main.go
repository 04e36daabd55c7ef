// Command oracle generates committed seed batches and feeds them to a
// battlechain server's entropy pools.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/uzochukwuV/massabeam/internal/api"
	"github.com/uzochukwuV/massabeam/internal/constants"
	"github.com/uzochukwuV/massabeam/internal/oracle"
	"github.com/uzochukwuV/massabeam/internal/version"
)

type batchOutput struct {
	Seed       string `json:"seed"`
	Commitment string `json:"commitment"`
	StartIndex uint64 `json:"start_index"`
	Count      uint32 `json:"count"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var server, token string
	root := &cobra.Command{
		Use:          "oracle",
		Short:        "Seed batch oracle for battlechain entropy pools",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&server, "server", "http://127.0.0.1:8080", "battlechain base URL")
	root.PersistentFlags().StringVar(&token, "token", os.Getenv("ORACLE_TOKEN"), "session token of the pool oracle")

	root.AddCommand(
		newGenerateCmd(),
		newRefillCmd(&server, &token),
		newTokenCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print build metadata",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version.String())
			},
		},
	)
	return root
}

func newGenerateCmd() *cobra.Command {
	var start uint64
	var count uint32
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a seed batch and print it with its commitment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := oracle.NewBatch(start, count)
			if err != nil {
				return err
			}
			return printBatch(cmd.OutOrStdout(), b)
		},
	}
	cmd.Flags().Uint64Var(&start, "start", 0, "first global index covered by the batch")
	cmd.Flags().Uint32Var(&count, "count", 256, "number of entries in the batch")
	return cmd
}

func newRefillCmd(server, token *string) *cobra.Command {
	var poolID uint
	var start uint64
	var count uint32
	cmd := &cobra.Command{
		Use:   "refill",
		Short: "Generate a batch and submit it to a pool",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if poolID == 0 {
				return fmt.Errorf("--pool is required")
			}
			client := oracle.NewClient(*server, *token)
			ctx := cmd.Context()
			if !cmd.Flags().Changed("start") {
				st, err := client.Pool(ctx, poolID)
				if err != nil {
					return err
				}
				start = st.GlobalNextIndex
			}
			b, err := oracle.NewBatch(start, count)
			if err != nil {
				return err
			}
			st, err := client.Refill(ctx, poolID, b)
			if err != nil {
				return err
			}
			if err := printBatch(cmd.OutOrStdout(), b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pool %d: %d available, next index %d\n", st.ID, st.TotalAvailable, st.GlobalNextIndex)
			return nil
		},
	}
	cmd.Flags().UintVar(&poolID, "pool", 0, "entropy pool ID")
	cmd.Flags().Uint64Var(&start, "start", 0, "first global index (defaults to the pool watermark)")
	cmd.Flags().Uint32Var(&count, "count", 256, "number of entries in the batch")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var identity string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a session token signed with " + constants.EnvSessionSecret,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if os.Getenv(constants.EnvSessionSecret) == "" {
				return fmt.Errorf("%s must be set to mint a token the server accepts", constants.EnvSessionSecret)
			}
			tok, err := api.CreateSessionToken(identity, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&identity, "identity", "oracle", "identity carried by the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func printBatch(w io.Writer, b oracle.Batch) error {
	out, err := json.MarshalIndent(batchOutput{
		Seed:       b.SeedHex(),
		Commitment: b.Commitment(),
		StartIndex: b.Start,
		Count:      b.Count,
	}, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
