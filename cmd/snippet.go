package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ikulkarni/portfolio/internal/render"
	"github.com/ikulkarni/portfolio/internal/server"
	"github.com/ikulkarni/portfolio/internal/snippet"
)

var (
	snippetCopy bool
	snippetRaw  bool
)

var snippetCmd = &cobra.Command{
	Use:   "snippet <path>",
	Short: "Print a code listing the way the code viewer loads it",
	Long: `Loads a listing such as all_codes/1/dag.cpp through the same loader the
site uses (public_dir, or asset_base_url when set) and prints it. Load
failures print the same message the viewer shows.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		p := args[0]
		code, err := server.NewLoader(cfg).Load(ctx, p)
		if err != nil {
			return errors.New(snippet.ErrorText(err))
		}

		if snippetCopy {
			var ack snippet.CopyAck
			if err := snippet.Copy(&ack, code, time.Now()); err != nil {
				log.Printf("Failed to copy code: %v", err)
			} else {
				fmt.Fprintln(os.Stderr, ack.Label(time.Now()))
			}
		}

		if snippetRaw {
			fmt.Print(code)
			return nil
		}
		out, err := render.Terminal(code, render.LangFor(p))
		if err != nil {
			return fmt.Errorf("highlighting %s: %w", p, err)
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	snippetCmd.Flags().BoolVar(&snippetCopy, "copy", false, "also copy the listing to the clipboard")
	snippetCmd.Flags().BoolVar(&snippetRaw, "raw", false, "print without syntax highlighting")
	rootCmd.AddCommand(snippetCmd)
}
