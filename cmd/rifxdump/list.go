package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/cobra"
)

var ListChecksums bool

var listCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "List the resource map",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, done, err := openArchive(args[0])
		if err != nil {
			return err
		}
		defer done()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTAG\tOFFSET\tSTORED\tSIZE\tCODEC\tSTORAGE\tPARENT\tXXH64")
		for _, e := range a.Resources().Entries() {
			parent := "-"
			if l, ok := a.Resources().Parent(e.ID); ok {
				parent = fmt.Sprint(l.ParentID)
			}
			sum := "-"
			if ListChecksums && !e.Free() {
				if b, err := a.LoadEntry(e); err == nil && len(b) > 0 {
					sum = fmt.Sprintf("%016x", xxhash.Sum64(b))
				}
			}
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%s\t%s\t%s\n",
				e.ID, e.Tag, e.Offset, e.CompressedSize, e.UncompressedSize,
				e.CompressionIndex, e.Storage, parent, sum)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&ListChecksums, "checksum", false, "load every resource and print its xxhash64")
}
