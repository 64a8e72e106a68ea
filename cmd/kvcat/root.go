package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"kvcatalog/internal/catalog"
	"kvcatalog/internal/description"
	"kvcatalog/internal/domain"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type cliOptions struct {
	dir           string
	defaultSchema string
	connectorID   string
	hideInternal  bool
	output        string
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:           "kvcat",
		Short:         "Inspect a key-value catalog description directory",
		Long:          "kvcat resolves table description documents the same way the catalog server does and prints the resulting schemas, tables, and columns.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	bindRootFlags(rootCmd.PersistentFlags(), opts)

	rootCmd.AddCommand(newSchemasCmd(opts))
	rootCmd.AddCommand(newTablesCmd(opts))
	rootCmd.AddCommand(newDescribeCmd(opts))
	return rootCmd
}

func bindRootFlags(fs *pflag.FlagSet, opts *cliOptions) {
	fs.StringVar(&opts.dir, "dir", "etc/kvcatalog", "table description directory")
	fs.StringVar(&opts.defaultSchema, "default-schema", "default", "schema for documents that omit one")
	fs.StringVar(&opts.connectorID, "connector-id", "kv", "connector identity stamped into handles")
	fs.BoolVar(&opts.hideInternal, "hide-internal", true, "hide internal columns from column listings")
	fs.StringVarP(&opts.output, "output", "o", "text", "output format: text or json")
}

func (o *cliOptions) resolver() *catalog.Resolver {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	source := description.NewFileSource(o.dir, o.defaultSchema, logger)
	return catalog.NewResolver(
		o.connectorID,
		description.NewSupplier(source),
		domain.InternalFields(),
		o.hideInternal,
		logger,
	)
}

func newSchemasCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List schema names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schemas, err := opts.resolver().ListSchemaNames(cmd.Context())
			if err != nil {
				return err
			}
			if opts.output == "json" {
				return printJSON(cmd, schemas)
			}
			for _, s := range schemas {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}

func newTablesCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables [schema]",
		Short: "List tables, optionally restricted to one schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema := ""
			if len(args) == 1 {
				schema = args[0]
			}
			tables, err := opts.resolver().ListTables(cmd.Context(), schema)
			if err != nil {
				return err
			}
			if opts.output == "json" {
				return printJSON(cmd, tables)
			}
			for _, t := range tables {
				fmt.Fprintln(cmd.OutOrStdout(), t.String())
			}
			return nil
		},
	}
}

func newDescribeCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <schema.table>",
		Short: "Show a table's handle and full column listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := parseQualifiedName(args[0])
			if err != nil {
				return err
			}

			resolver := opts.resolver()
			handle, err := resolver.GetTableHandle(cmd.Context(), name)
			if err != nil {
				return err
			}
			if handle == nil {
				return fmt.Errorf("table %s not found", name)
			}
			metadata, err := resolver.GetTableMetadata(cmd.Context(), handle)
			if err != nil {
				return err
			}

			if opts.output == "json" {
				return printJSON(cmd, map[string]any{
					"handle":  handle,
					"columns": metadata.Columns,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Table:        %s\n", name)
			fmt.Fprintf(out, "Key format:   %s\n", handle.KeyDataFormat)
			fmt.Fprintf(out, "Value format: %s\n", handle.ValueDataFormat)
			if handle.KeyName != "" {
				fmt.Fprintf(out, "Key name:     %s\n", handle.KeyName)
			}
			fmt.Fprintln(out)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ORDINAL\tNAME\tTYPE\tHIDDEN")
			for _, c := range metadata.Columns {
				fmt.Fprintf(w, "%d\t%s\t%s\t%v\n", c.Ordinal, c.Name, c.Type, c.Hidden)
			}
			return w.Flush()
		},
	}
}

func parseQualifiedName(s string) (domain.SchemaTableName, error) {
	schema, table, ok := strings.Cut(s, ".")
	if !ok || schema == "" || table == "" {
		return domain.SchemaTableName{}, fmt.Errorf("expected <schema.table>, got %q", s)
	}
	return domain.SchemaTableName{Schema: schema, Table: table}, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
