package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edumarques81/stellar-artbridge/internal/domain/player"
)

var resolveVerbose bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <media-ref>...",
	Short: "Print the artwork URI for media files or stream URLs",
	Long: "Resolve prints one line per reference: the artwork URI, or \"none\".\n" +
		"Relative paths are taken relative to music_dir.",
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().BoolVarP(&resolveVerbose, "verbose", "v", false, "also print the strategy that produced each result")
}

func runResolve(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	// Only MediaRef is used, so no status source is needed
	refs := player.NewService(nil, a.resolver, nil, cfg.MusicDir)
	out := cmd.OutOrStdout()

	for _, arg := range args {
		result := a.resolver.ResolveResult(refs.MediaRef(arg))

		uri := "none"
		if result.Found() {
			uri = result.URI
		}
		if resolveVerbose {
			fmt.Fprintf(out, "%s\t%s\t%s\n", arg, result.Source, uri)
		} else {
			fmt.Fprintln(out, uri)
		}
	}

	return nil
}
