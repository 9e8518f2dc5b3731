package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/davecgh/go-spew/spew"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/dtobj"
	"github.com/reoring/dtobj/i18n"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	cfg    envConfig
	logger *slog.Logger

	schemaPath string
	lang       string
	driver     string
	verbose    bool
}

func newRootCmd(cfg envConfig) *cobra.Command {
	a := &app{cfg: cfg}
	root := &cobra.Command{
		Use:           "dtobj",
		Short:         "Validate and render data objects against declared schemas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.schemaPath, "schema", "s", cfg.Schema, "schema source: Go package dir, .go file, or .yaml file")
	pf.StringVar(&a.lang, "lang", cfg.Lang, "message language (BCP 47)")
	pf.StringVar(&a.driver, "json-driver", cfg.JSONDriver, "JSON driver: go-json or encoding/json")
	pf.BoolVarP(&a.verbose, "verbose", "v", cfg.Verbose, "enable debug logging")

	root.AddCommand(
		a.validateCmd(),
		a.inspectCmd(),
		a.schemaCmd(),
		a.typesCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	d, ok := dtobj.JSONDriverByName(a.driver)
	if !ok {
		return fmt.Errorf("unknown JSON driver %q", a.driver)
	}
	dtobj.SetJSONDriver(d)
	i18n.SetLanguage(a.lang)
	a.logger.Debug("configured", "json_driver", d.Name(), "lang", a.lang)
	return nil
}

func (a *app) registry() (*dtobj.Registry, schemaSource, error) {
	src, err := loadSchema(a.schemaPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load schema: %w", err)
	}
	a.logger.Debug("schema loaded", "path", a.schemaPath, "types", len(src.TypeNames()))
	return dtobj.NewRegistry(src), src, nil
}

// objectFlags are shared by the commands that construct an object.
type objectFlags struct {
	typeName    string
	input       string
	inputFormat string
}

func (f *objectFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.typeName, "type", "t", "", "declared type name")
	cmd.Flags().StringVarP(&f.input, "input", "i", "-", "input file, - for stdin")
	cmd.Flags().StringVar(&f.inputFormat, "input-format", "auto", "input format: auto, json or yaml")
	_ = cmd.MarkFlagRequired("type")
}

func (a *app) build(cmd *cobra.Command, f objectFlags) (*dtobj.Object, error) {
	reg, src, err := a.registry()
	if err != nil {
		return nil, err
	}
	if !slices.Contains(src.TypeNames(), f.typeName) {
		a.logger.Warn("type has no declaration; every key will be rejected", "type", f.typeName)
	}
	data, err := readInput(cmd.InOrStdin(), f.input)
	if err != nil {
		return nil, err
	}
	format, err := inputFormat(f.inputFormat, f.input)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("constructing", "type", f.typeName, "input", f.input, "format", format, "bytes", len(data))

	var o *dtobj.Object
	if format == "yaml" {
		o, err = reg.NewFromYAML(f.typeName, data)
	} else {
		o, err = reg.NewFromJSON(f.typeName, data)
	}
	if err != nil {
		if iss, ok := dtobj.AsIssues(err); ok {
			printIssues(cmd.ErrOrStderr(), iss)
		}
		return nil, err
	}
	return o, nil
}

func (a *app) validateCmd() *cobra.Command {
	var (
		of      objectFlags
		partial bool
		format  string
		indent  int
		quiet   bool
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Construct an object from JSON or YAML input and print its serialization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.build(cmd, of)
			if err != nil {
				return err
			}
			if quiet {
				return nil
			}
			if partial {
				o.Partial()
			}
			var enc dtobj.TextEncoder
			switch format {
			case "json":
				var opts []dtobj.JSONOption
				if indent > 0 {
					opts = append(opts, dtobj.WithIndent("", strings.Repeat(" ", indent)))
				}
				enc = dtobj.NewJSONEncoder(opts...)
			case "yaml":
				enc = dtobj.YAMLEncoder{Indent: indent}
			default:
				return fmt.Errorf("unknown output format %q", format)
			}
			out, err := o.Encode(enc)
			if err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(out), "\n"))
			return err
		},
	}
	of.bind(cmd)
	cmd.Flags().BoolVarP(&partial, "partial", "p", false, "emit only the properties present in the input")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	cmd.Flags().IntVar(&indent, "indent", 0, "indentation width (0 for compact JSON, default YAML)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "validate only, print nothing on success")
	return cmd
}

func (a *app) inspectCmd() *cobra.Command {
	var of objectFlags
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Dump the constructed object's values, initialized keys and presence flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.build(cmd, of)
			if err != nil {
				return err
			}
			cs := spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true, DisableCapacities: true}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "type: %s\n", o.Type())
			fmt.Fprintf(w, "initialized: %v\n", o.Initialized())
			fmt.Fprint(w, "values: ")
			cs.Fdump(w, o.MappingWithMode(dtobj.SerializeFull).Map())
			fmt.Fprint(w, "presence: ")
			cs.Fdump(w, o.Presence())
			return nil
		},
	}
	of.bind(cmd)
	return cmd
}

func (a *app) schemaCmd() *cobra.Command {
	var typeName string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of a declared type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, err := a.registry()
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(reg.Schema(typeName).JSONSchema(), "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "declared type name")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func (a *app) typesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the declared types and their properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, src, err := a.registry()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, name := range src.TypeNames() {
				ts := reg.Schema(name)
				fmt.Fprintf(w, "%s (snake=%t)\n", name, ts.Options.SnakeKeys)
				for _, p := range ts.Properties {
					req := ""
					if !p.Nullable {
						req = " required"
					}
					fmt.Fprintf(w, "  %s: %s%s\n", p.Name, p.TypeExpr(), req)
				}
			}
			return nil
		},
	}
}

func printIssues(w io.Writer, iss dtobj.Issues) {
	for _, it := range iss {
		fmt.Fprintf(w, "%s %s: %s\n", it.Code, it.Path, it.Message)
	}
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func inputFormat(flag, path string) (string, error) {
	switch flag {
	case "json", "yaml":
		return flag, nil
	case "", "auto":
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			return "yaml", nil
		}
		return "json", nil
	}
	return "", fmt.Errorf("unknown input format %q", flag)
}
