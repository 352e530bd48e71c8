package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/logicossoftware/go-rifx/xmed"
)

var XmedJSON bool

var xmedCmd = &cobra.Command{
	Use:   "xmed <file.xmed>",
	Short: "Decode a raw XMED payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		enc, err := textEncoding()
		if err != nil {
			return err
		}
		b, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		doc, err := xmed.NewReader(xmed.WithEncoding(enc)).Read(b)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		if XmedJSON {
			e := json.NewEncoder(cmd.OutOrStdout())
			e.SetIndent("", "  ")
			return e.Encode(doc)
		}
		ShowRuns = true
		printDocument(cmd.OutOrStdout(), doc)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(xmedCmd)
	xmedCmd.Flags().BoolVar(&XmedJSON, "json", false, "print the document as JSON")
}
