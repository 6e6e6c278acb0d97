// Command bqconvert converts values between Go-friendly JSON and the BigQuery REST wire
// format: it encodes query parameters and insertAll rows, and decodes tabledata.list or
// jobs.getQueryResults responses against a schema.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/apd/v3"
	"github.com/spf13/cobra"
	bq "google.golang.org/api/bigquery/v2"

	bigquery "github.com/bqdriver/gobigquery"
)

type options struct {
	profile  string
	logLevel string
	cfg      *bigquery.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "bqconvert",
		Short:        "bqconvert converts values to and from the BigQuery wire format.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}
	cmd.PersistentFlags().StringVar(&opts.profile, "profile", "", "config profile to load from $GOBIGQUERY_HOME/config.toml")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error, fatal or off")

	cmd.AddCommand(
		newEncodeCmd(),
		newInsertCmd(opts),
		newDecodeCmd(opts),
		newSchemaCmd(),
		newVersionCmd(),
	)
	return cmd
}

// load reads the config file when a profile is named and applies the log level.
func (o *options) load() error {
	o.cfg = bigquery.DefaultConfig()
	if o.profile != "" {
		os.Setenv("GOBIGQUERY_PROFILE", o.profile)
		cfg, err := bigquery.LoadConfig()
		if err != nil {
			return err
		}
		o.cfg = cfg
	}
	if o.logLevel != "" {
		o.cfg.LogLevel = o.logLevel
	}
	return o.cfg.ApplyLogLevel()
}

func newEncodeCmd() *cobra.Command {
	var name, typ string
	cmd := &cobra.Command{
		Use:   "encode [json value]",
		Short: "Encode a JSON value as a query parameter",
		Long: `Encode reads a JSON value from the argument, or from stdin when there is none,
and prints the query parameter in the REST wire shape. Without --type the wire
type is inferred: integers are INT64, other numbers NUMERIC, objects STRUCT.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var declared *bigquery.ParamType
			if typ != "" {
				pt, err := bigquery.ParseParamType(typ)
				if err != nil {
					return err
				}
				declared = pt
			}
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			v, err := decodeJSON(data)
			if err != nil {
				return err
			}
			p, err := bigquery.NewNamedQueryParameter(name, v, declared)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "parameter name; empty for a positional parameter")
	cmd.Flags().StringVar(&typ, "type", "", "declared type, e.g. ARRAY<INT64> or STRUCT<a STRING>")
	return cmd
}

func newInsertCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "insert [json rows]",
		Short: "Encode a JSON array of row objects as a tabledata.insertAll request",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			v, err := decodeJSON(data)
			if err != nil {
				return err
			}
			rows, ok := v.([]any)
			if !ok {
				return fmt.Errorf("expected a JSON array of rows, got %T", v)
			}
			req, err := bigquery.NewInsertAllRequest(rows, opts.cfg.InsertOptions())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), req)
		},
	}
}

func newDecodeCmd(opts *options) *cobra.Command {
	var schemaFile string
	cmd := &cobra.Command{
		Use:   "decode [response file]",
		Short: "Decode a tabledata.list or jobs.getQueryResults response into JSON rows",
		Long: `Decode reads a response from the file argument, or from stdin when there is
none. A jobs.getQueryResults response carries its schema; a tabledata.list
response needs --schema.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInputFile(cmd, args)
			if err != nil {
				return err
			}
			decoder := opts.cfg.NewDecoder()
			var page *bigquery.Page
			if schemaFile == "" {
				var resp bq.GetQueryResultsResponse
				if err = json.Unmarshal(data, &resp); err != nil {
					return err
				}
				page, err = decoder.DecodeQueryResults(cmd.Context(), &resp)
			} else {
				var schema bigquery.Schema
				if schema, err = readSchema(schemaFile); err != nil {
					return err
				}
				var list bq.TableDataList
				if err = json.Unmarshal(data, &list); err != nil {
					return err
				}
				page, err = decoder.DecodePage(cmd.Context(), schema, &list)
			}
			if err != nil {
				return err
			}
			rows := make([]map[string]any, len(page.Rows))
			for i, r := range page.Rows {
				rows[i] = r.Map()
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"rows":      rows,
				"pageToken": page.Token,
				"totalRows": page.Total,
			})
		},
	}
	cmd.Flags().StringVar(&schemaFile, "schema", "", "schema JSON file for tabledata.list responses")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <schema file>",
		Short: "Validate a schema JSON file and print it normalized",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := readSchema(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), schema.ToAPI())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "bqconvert", bigquery.Version)
		},
	}
}

func readSchema(file string) (bigquery.Schema, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return bigquery.SchemaFromJSON(data)
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 1 {
		return []byte(args[0]), nil
	}
	return io.ReadAll(cmd.InOrStdin())
}

func readInputFile(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 1 {
		return os.ReadFile(args[0])
	}
	return io.ReadAll(cmd.InOrStdin())
}

// decodeJSON decodes data keeping numbers exact, then maps them to native values.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return nativeValue(v)
}

// nativeValue turns integers into int64, other numbers into decimals and objects into records.
func nativeValue(v any) (any, error) {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		d, _, err := apd.NewFromString(v.String())
		if err != nil {
			return nil, err
		}
		return d, nil
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			nv, err := nativeValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	case map[string]any:
		rec := bigquery.RecordFromMap(v)
		for i := range rec {
			nv, err := nativeValue(rec[i].Value)
			if err != nil {
				return nil, err
			}
			rec[i].Value = nv
		}
		return rec, nil
	}
	return v, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
