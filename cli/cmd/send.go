package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/telhawk-crash/protocol"
	"github.com/telhawk-systems/telhawk-crash/transport"
)

var sendCmd = &cobra.Command{
	Use:   "send <file>",
	Short: "Send a stored event",
	Long:  "Validate a stored event document and send it through the configured transport",
	Example: `  tcrash send event.json
  tcrash send event.json --config ./crash.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read event file: %w", err)
		}

		// decode and re-encode so only the canonical wire form goes out
		event, err := protocol.Unmarshal(data)
		if err != nil {
			return err
		}
		payload, err := protocol.Marshal(event)
		if err != nil {
			return err
		}

		tr, err := transport.New(cfg)
		if err != nil {
			return err
		}
		defer tr.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := tr.Send(ctx, payload); err != nil {
			return fmt.Errorf("send event: %w", err)
		}

		if event.ID != nil {
			fmt.Printf("sent event %s (%d bytes)\n", event.ID.String(), len(payload))
		} else {
			fmt.Printf("sent event (%d bytes)\n", len(payload))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
