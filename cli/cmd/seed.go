package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/telhawk-crash/cli/internal/seeder"
	"github.com/telhawk-systems/telhawk-crash/protocol"
	"github.com/telhawk-systems/telhawk-crash/transport"
)

var (
	seedCount  int
	seedSpread string
	seedSend   bool
	seedSeed   int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate fake crash events",
	Long:  "Generate realistic fake crash events, printing them or sending them through the configured transport",
	Example: `  # Print 5 events to stdout
  tcrash seed --count 5

  # Send 100 events spread over the last hour
  tcrash seed --count 100 --spread 1h --send`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedSeed != 0 {
			seeder.Seed(seedSeed)
		}

		spread, err := time.ParseDuration(seedSpread)
		if err != nil {
			return fmt.Errorf("invalid --spread: %w", err)
		}

		var tr transport.Transport
		if seedSend {
			if tr, err = transport.New(cfg); err != nil {
				return err
			}
			defer tr.Close()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		for i := 0; i < seedCount; i++ {
			payload, err := protocol.Marshal(seeder.Generate(spread))
			if err != nil {
				return err
			}
			if tr != nil {
				if err := tr.Send(ctx, payload); err != nil {
					return fmt.Errorf("send event %d/%d: %w", i+1, seedCount, err)
				}
			} else {
				fmt.Println(string(payload))
			}
		}

		if seedSend {
			fmt.Printf("sent %d events\n", seedCount)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 10, "number of events to generate")
	seedCmd.Flags().StringVar(&seedSpread, "spread", "0s", "spread event timestamps over this window ending now")
	seedCmd.Flags().BoolVar(&seedSend, "send", false, "send events through the configured transport instead of printing")
	seedCmd.Flags().Int64Var(&seedSeed, "seed", 0, "seed for deterministic generation (0 = random)")
	rootCmd.AddCommand(seedCmd)
}
