package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/logicossoftware/go-rifx"
	"github.com/logicossoftware/go-rifx/logging"
)

var (
	Encoding  string
	CacheSize int
)

var rootCmd = &cobra.Command{
	Use:          "rifxdump",
	Short:        "Inspect RIFX/XFIR movie and cast files",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetLogger(slog.New(newGlogHandler()))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&Encoding, "encoding", "iso-8859-1", "text code page (IANA name, e.g. windows-1252, macintosh)")
	rootCmd.PersistentFlags().IntVar(&CacheSize, "cache", 0, "decoded payloads to keep in memory")
	// glog registers -v, -logtostderr and friends on the standard flag set.
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}

func textEncoding() (encoding.Encoding, error) {
	name := strings.TrimSpace(Encoding)
	if name == "" {
		return charmap.ISO8859_1, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("encoding %q is not supported", name)
	}
	return enc, nil
}

// openArchive opens path with the global flags applied. The returned close
// function releases the file.
func openArchive(path string) (*rifx.Archive, func(), error) {
	enc, err := textEncoding()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	a, err := rifx.Open(f, st.Size(),
		rifx.WithTextEncoding(enc),
		rifx.WithPayloadCache(CacheSize),
	)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, func() { f.Close() }, nil
}
