package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Print the container format and compression table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, done, err := openArchive(args[0])
		if err != nil {
			return err
		}
		defer done()

		f := a.Format()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "offset:        %d\n", f.RifxOffset)
		fmt.Fprintf(out, "codec:         %s\n", f.Codec)
		fmt.Fprintf(out, "little-endian: %t\n", f.LittleEndian)
		fmt.Fprintf(out, "afterburner:   %t\n", f.Afterburner)
		if f.Afterburner {
			fmt.Fprintf(out, "version:       %#x %s\n", f.Version, f.VersionString)
			fmt.Fprintf(out, "director:      %#x (imap %#x)\n", f.DirectorVersion, f.ImapVersion)
			if st, ok := a.AfterburnerState(); ok {
				fmt.Fprintf(out, "body offset:   %d\n", st.BodyOffset)
			}
		} else {
			fmt.Fprintf(out, "map version:   %d\n", f.MapVersion)
			fmt.Fprintf(out, "archive:       %#x\n", f.ArchiveVersion)
		}
		fmt.Fprintf(out, "resources:     %d\n", a.Resources().Len())
		for _, d := range a.Compressions().All() {
			fmt.Fprintf(out, "compression %d: %s %q (%s)\n", d.Index, d.ID, d.Name, d.Kind)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
