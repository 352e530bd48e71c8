package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var soundsCmd = &cobra.Command{
	Use:   "sounds <file>",
	Short: "List sound resources and their sniffed format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, done, err := openArchive(args[0])
		if err != nil {
			return err
		}
		defer done()
		for _, s := range a.ReadSounds() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s member=%d format=%s %d bytes\n",
				s.ResourceID, s.Tag, s.CastMemberID, s.Format, len(s.Bytes))
		}
		return nil
	},
}

var castsCmd = &cobra.Command{
	Use:   "casts <file>",
	Short: "List cast libraries and members",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, done, err := openArchive(args[0])
		if err != nil {
			return err
		}
		defer done()
		for _, lib := range a.CastLibraries() {
			fmt.Fprintf(cmd.OutOrStdout(), "CAS* %d (%d members)\n", lib.ResourceID, len(lib.Members))
			for _, m := range lib.Members {
				fmt.Fprintf(cmd.OutOrStdout(), "  %4d %d %-12s %q\n", m.Slot, m.ResourceID, m.Type, m.Name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(soundsCmd, castsCmd)
}
