package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/logicossoftware/go-rifx"
	"github.com/logicossoftware/go-rifx/xmed"
)

var ShowRuns bool

func printDocument(out io.Writer, doc *xmed.Document) {
	fmt.Fprintf(out, "  %q\n", strings.ReplaceAll(doc.Text, "\r", "\n"))
	if !ShowRuns {
		return
	}
	for _, r := range doc.Runs {
		s := r.Style
		fmt.Fprintf(out, "    run %d+%d font=%q size=%d style=%d b=%t i=%t u=%t color=%d %q\n",
			r.Start, r.Length, r.FontName, r.FontSize, r.StyleIndex, s.Bold, s.Italic, s.Underline, s.ColorIndex, r.Text)
	}
}

func printText(out io.Writer, t rifx.Text, label string) {
	fmt.Fprintf(out, "%d %s%s (%d bytes)\n", t.ResourceID, t.Format, label, len(t.Bytes))
	doc, err := t.Document()
	if err != nil {
		glog.Warningf("resource %d: %v", t.ResourceID, err)
		return
	}
	printDocument(out, doc)
}

var textsCmd = &cobra.Command{
	Use:   "texts <file>",
	Short: "Print STXT and XMED resources that are not fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, done, err := openArchive(args[0])
		if err != nil {
			return err
		}
		defer done()
		for _, t := range a.ReadTexts() {
			printText(cmd.OutOrStdout(), t, "")
		}
		return nil
	},
}

var fieldsCmd = &cobra.Command{
	Use:   "fields <file>",
	Short: "Print field cast members and their text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, done, err := openArchive(args[0])
		if err != nil {
			return err
		}
		defer done()
		for _, f := range a.ReadFields() {
			printText(cmd.OutOrStdout(), f.Text, fmt.Sprintf(" member %d %q", f.CastMemberID, f.Name))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(textsCmd, fieldsCmd)
	textsCmd.Flags().BoolVar(&ShowRuns, "runs", false, "print style runs")
	fieldsCmd.Flags().BoolVar(&ShowRuns, "runs", false, "print style runs")
}
