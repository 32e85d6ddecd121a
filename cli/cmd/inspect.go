package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/telhawk-systems/telhawk-crash/protocol"
)

var inspectReencode bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Inspect a serialized crash event",
	Long:  "Decode a stored event document and print a summary, or re-encode it to the canonical wire form",
	Example: `  tcrash inspect event.json
  tcrash inspect event.json --output yaml
  tcrash inspect event.json --reencode`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read event file: %w", err)
		}

		event, err := protocol.Unmarshal(data)
		if err != nil {
			return err
		}

		if inspectReencode {
			out, err := protocol.Marshal(event)
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		format, _ := cmd.Flags().GetString("output")
		return printResult(summarize(event), format)
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectReencode, "reencode", false, "print the canonical wire form instead of a summary")
	rootCmd.AddCommand(inspectCmd)
}

// summarize flattens an event into plain types for the output printers.
func summarize(e *protocol.Event) map[string]any {
	summary := map[string]any{}
	if e.ID != nil {
		summary["event_id"] = e.ID.String()
	}
	if e.Timestamp != nil {
		summary["timestamp"] = e.Timestamp.String()
	}
	if e.Release != "" {
		summary["release"] = e.Release
	}
	if e.Environment != "" {
		summary["environment"] = e.Environment
	}
	if e.Level != "" {
		summary["level"] = e.Level.String()
	}
	if len(e.Exceptions) > 0 {
		var exceptions []map[string]any
		for _, x := range e.Exceptions {
			exceptions = append(exceptions, map[string]any{
				"type":   x.Type,
				"value":  x.Value,
				"frames": len(x.Stacktrace),
			})
		}
		summary["exceptions"] = exceptions
	}
	if len(e.Threads) > 0 {
		summary["threads"] = len(e.Threads)
	}
	if e.User != nil {
		summary["user"] = e.User.Username
	}
	if e.Contexts.Len() > 0 {
		summary["contexts"] = protocol.MapValue(e.Contexts).Interface()
	}
	if e.Unknown.Len() > 0 {
		summary["unknown"] = protocol.MapValue(e.Unknown).Interface()
	}
	return summary
}

func printResult(v any, format string) error {
	switch format {
	case "yaml":
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}
