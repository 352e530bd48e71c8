package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

var ExtractDir string

var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Decode every resource and report failures",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, done, err := openArchive(args[0])
		if err != nil {
			return err
		}
		defer done()
		r := a.Scan()
		for _, f := range r.Failed {
			fmt.Fprintln(cmd.OutOrStdout(), f.Error())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d empty, %d failed)\n", r, r.Empty, len(r.Failed))
		return nil
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Write every resource payload to a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, done, err := openArchive(args[0])
		if err != nil {
			return err
		}
		defer done()
		if err := os.MkdirAll(ExtractDir, 0o755); err != nil {
			return err
		}
		for _, r := range a.ReadResources() {
			p := filepath.Join(ExtractDir, r.Name)
			if err := os.WriteFile(p, r.Bytes, 0o644); err != nil {
				return err
			}
			glog.V(1).Infof("wrote %s (%d bytes, %016x)", p, len(r.Bytes), r.Checksum)
		}
		return nil
	},
}

var catCmd = &cobra.Command{
	Use:   "cat <file> <id>",
	Short: "Write one decoded resource to stdout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("resource id %q: %w", args[1], err)
		}
		a, done, err := openArchive(args[0])
		if err != nil {
			return err
		}
		defer done()
		e, err := a.Entry(id)
		if err != nil {
			return err
		}
		b, err := a.LoadEntry(e)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

func init() {
	rootCmd.AddCommand(scanCmd, extractCmd, catCmd)
	extractCmd.Flags().StringVarP(&ExtractDir, "output", "o", "output", "output directory")
}
