package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	gs1reader "github.com/wco1971/GS1CodeSymbolReader"

	// Register the codeword decoders.
	_ "github.com/wco1971/GS1CodeSymbolReader/datamatrix"
	_ "github.com/wco1971/GS1CodeSymbolReader/oned"
)

type app struct {
	configPath string
	verbose    bool
	asJSON     bool

	log  *logrus.Logger
	opts *gs1reader.DecodeOptions
}

func newRootCmd() *cobra.Command {
	a := &app{log: logrus.New()}

	root := &cobra.Command{
		Use:           "gs1scan",
		Short:         "Decode GS1 barcode data",
		Long:          "gs1scan turns GS1-128, GS1 DataMatrix and GS1 DataBar Limited symbols into Application Identifier records.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML options file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log decode steps")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print results as JSON")

	root.AddCommand(a.codewordsCmd(), a.textCmd(), a.tableCmd())
	return root
}

func (a *app) setup(stderr io.Writer) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	lvl, err := cfg.level(a.verbose)
	if err != nil {
		return err
	}
	a.log.SetOutput(stderr)
	a.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	a.log.SetLevel(lvl)

	a.opts, err = cfg.decodeOptions(a.log)
	return err
}

func (a *app) codewordsCmd() *cobra.Command {
	var (
		symbology string
		gs1       string
	)
	cmd := &cobra.Command{
		Use:   "codewords [hex...]",
		Short: "Decode a hex dump of symbol codewords",
		Long: "codewords decodes the raw codewords of one symbol. Bytes may be separated by " +
			"whitespace or commas and prefixed with 0x. Without arguments one dump is read per line from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := gs1reader.ParseSymbology(symbology)
			if err != nil {
				return err
			}
			hint, err := parseHint(gs1)
			if err != nil {
				return err
			}
			decode := func(dump string) error {
				cw, err := parseCodewords(dump)
				if err != nil {
					return err
				}
				return a.decode(cmd.OutOrStdout(), &gs1reader.Observation{Symbology: s, Codewords: cw, GS1Hint: hint})
			}
			if len(args) == 0 {
				return a.interactive(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), decode)
			}
			return decode(strings.Join(args, " "))
		},
	}
	cmd.Flags().StringVarP(&symbology, "symbology", "s", "datamatrix", "code128 or datamatrix")
	cmd.Flags().StringVar(&gs1, "gs1", "", "platform GS1 flag: true, false or empty for none")
	return cmd
}

func (a *app) textCmd() *cobra.Command {
	var (
		symbology   string
		description string
		gs1         string
	)
	cmd := &cobra.Command{
		Use:   "text payload",
		Short: "Parse a decoded payload string",
		Long:  `text parses the string a scanner reported. A group separator may be written as \x1d, <GS> or @.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := gs1reader.ParseSymbology(symbology)
			if err != nil {
				return err
			}
			hint, err := parseHint(gs1)
			if err != nil {
				return err
			}
			return a.decode(cmd.OutOrStdout(), &gs1reader.Observation{
				Symbology:   s,
				PayloadText: unescapePayload(args[0]),
				GS1Hint:     hint,
				Description: description,
			})
		},
	}
	cmd.Flags().StringVarP(&symbology, "symbology", "s", "databar-limited", "code128, datamatrix or databar-limited")
	cmd.Flags().StringVar(&gs1, "gs1", "true", "platform GS1 flag: true, false or empty for none")
	cmd.Flags().StringVar(&description, "description", "", "platform debug description of the symbol")
	return cmd
}

func (a *app) tableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "table [ai]",
		Short: "List the Application Identifier table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := ""
			if len(args) == 1 {
				code = args[0]
			}
			return printTable(cmd.OutOrStdout(), a.opts.Table, code, a.asJSON)
		},
	}
}

func (a *app) decode(w io.Writer, obs *gs1reader.Observation) error {
	res, err := gs1reader.Decode(obs, a.opts)
	if res != nil {
		if perr := printResult(w, res, a.asJSON); perr != nil {
			return perr
		}
	}
	return err
}

func (a *app) interactive(ctx context.Context, in io.Reader, out io.Writer, decode func(string) error) error {
	scanner := bufio.NewScanner(in)
	a.log.Info("gs1scan codeword mode. Paste a hex dump and press Enter (Ctrl+D to exit).")
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := decode(line); err != nil {
			a.log.WithError(err).Error("failed to decode codewords")
		}
	}
	return scanner.Err()
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "gs1scan: %v\n", err)
		os.Exit(1)
	}
}
