package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var bitmapsCmd = &cobra.Command{
	Use:   "bitmaps <file>",
	Short: "List bitmap resources and their detected format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, done, err := openArchive(args[0])
		if err != nil {
			return err
		}
		defer done()
		for _, b := range a.ReadBitmaps() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s member=%d format=%s %d bytes\n",
				b.ResourceID, b.Tag, b.CastMemberID, b.Format, len(b.Bytes))
		}
		return nil
	},
}

var scriptsCmd = &cobra.Command{
	Use:   "scripts <file>",
	Short: "List compiled scripts and the members that own them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, done, err := openArchive(args[0])
		if err != nil {
			return err
		}
		defer done()
		for _, s := range a.ReadScripts() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d member=%d kind=%s %q %d bytes\n",
				s.ResourceID, s.CastMemberID, s.Kind, s.Name, len(s.Bytes))
		}
		return nil
	},
}

var shapesCmd = &cobra.Command{
	Use:   "shapes <file>",
	Short: "Dump the records of shape cast members",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, done, err := openArchive(args[0])
		if err != nil {
			return err
		}
		defer done()
		for _, s := range a.ReadShapes() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s % x\n", s.ResourceID, s.Format, s.Bytes)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bitmapsCmd, scriptsCmd, shapesCmd)
}
