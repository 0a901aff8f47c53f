// Package main contains the cli implementation of dbscribe. It uses cobra
// for cli implementation, per the teacher's own command layout.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"dbscribe/internal/compare"
	"dbscribe/internal/config"
	"dbscribe/internal/core"
	"dbscribe/internal/dependency"
	"dbscribe/internal/emit"
	"dbscribe/internal/introspect"
	"dbscribe/internal/legacy"
	"dbscribe/internal/render"
)

type rootFlags struct {
	configPath  string
	connection  string
	dsn         string
	dialect     string
	force       bool
	json        bool
	concurrency int
}

func main() {
	flags := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:   "dbscribe",
		Short: "Generate Laravel migrations and Eloquent models from a live database schema",
	}
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "dbscribe.toml", "Path to TOML configuration file")
	rootCmd.PersistentFlags().StringVar(&flags.connection, "connection", "", "Named connection from the config's [connections.NAME] table")
	rootCmd.PersistentFlags().StringVar(&flags.dsn, "dsn", "", "Database connection string (overrides --connection)")
	rootCmd.PersistentFlags().StringVar(&flags.dialect, "dialect", "", "Dialect for --dsn: mysql, mariadb, postgresql, sqlite, mssql")
	rootCmd.PersistentFlags().BoolVar(&flags.force, "force", false, "Overwrite files that already exist")
	rootCmd.PersistentFlags().BoolVar(&flags.json, "json", false, "Emit JSON output")
	rootCmd.PersistentFlags().IntVar(&flags.concurrency, "concurrency", 0, "Max tables introspected in parallel (0 = use config/default)")

	rootCmd.AddCommand(schemaCmd(flags))
	rootCmd.AddCommand(migrationsCmd(flags))
	rootCmd.AddCommand(modelsCmd(flags))
	rootCmd.AddCommand(previewCmd(flags))
	rootCmd.AddCommand(diffCmd(flags))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the TOML file at flags.configPath, falling back to
// Default() when the file does not exist so the CLI works with bare
// flags and no config file present.
func loadConfig(flags *rootFlags) (config.Config, error) {
	data, err := os.ReadFile(flags.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config.Default(), nil
		}
		return config.Config{}, fmt.Errorf("reading %s: %w", flags.configPath, err)
	}
	return config.Load(data)
}

// resolveDialectAndDSN applies the precedence fixed by the root flags:
// an explicit --dsn/--dialect pair wins outright; otherwise --connection
// (or the config's bare `connection` name) is looked up in
// [connections.NAME].
func resolveDialectAndDSN(cfg config.Config, flags *rootFlags) (core.Dialect, string, error) {
	if flags.dsn != "" {
		if flags.dialect == "" {
			return "", "", fmt.Errorf("--dialect is required alongside --dsn")
		}
		return core.Dialect(flags.dialect), flags.dsn, nil
	}
	name := flags.connection
	if name == "" {
		name = cfg.Connection
	}
	if name == "" {
		return "", "", fmt.Errorf("no connection specified: pass --connection, --dsn/--dialect, or set `connection` in config")
	}
	cc, ok := cfg.ResolveConnection(name)
	if !ok {
		return "", "", fmt.Errorf("connection %q not found in [connections.%s]", name, name)
	}
	return core.Dialect(cc.Dialect), cc.DSN, nil
}

func sqlDriverName(dialect core.Dialect) string {
	switch dialect {
	case core.DialectMySQL, core.DialectMariaDB:
		return "mysql"
	case core.DialectPostgreSQL:
		return "pgx"
	case core.DialectSQLite:
		return "sqlite"
	case core.DialectMSSQL:
		return "sqlserver"
	default:
		return string(dialect)
	}
}

func databaseNameFromDSN(dialect core.Dialect, dsn string) string {
	// Best-effort label for the Schema Model; Parsers query the catalog
	// for the authoritative name where the driver exposes one.
	trimmed := strings.TrimPrefix(dsn, "/")
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	if i := strings.IndexByte(trimmed, '?'); i >= 0 {
		trimmed = trimmed[:i]
	}
	if trimmed == "" {
		return string(dialect)
	}
	return trimmed
}

// loadTables opens the configured connection, introspects every table not
// excluded by the config, and returns them in dependency order. The
// second return value reports whether the FK graph contained a cycle; per
// §9's cyclic-FK-graph design note, cycle detection is non-fatal for
// batch emission, so callers that see it true must force
// SeparateForeignKeys so the cycle's closing edge goes out as a trailing
// FK-only migration rather than blocking table creation.
func loadTables(ctx context.Context, cfg config.Config, flags *rootFlags) ([]*core.Table, bool, error) {
	dialect, dsn, err := resolveDialectAndDSN(cfg, flags)
	if err != nil {
		return nil, false, err
	}
	db, err := sql.Open(sqlDriverName(dialect), dsn)
	if err != nil {
		return nil, false, fmt.Errorf("opening %s connection: %w", dialect, err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return nil, false, fmt.Errorf("connecting to %s: %w", dialect, err)
	}

	p, err := introspect.NewParser(dialect, db, databaseNameFromDSN(dialect, dsn))
	if err != nil {
		return nil, false, err
	}

	exclude := make(map[string]bool, len(cfg.ExcludeTables))
	for _, name := range cfg.ExcludeTables {
		exclude[name] = true
	}

	concurrency := flags.concurrency
	if concurrency <= 0 {
		concurrency = cfg.Concurrency()
	}
	database, err := introspect.ParseAll(ctx, p, dialect, exclude, concurrency)
	if err != nil {
		return nil, false, err
	}

	ordered, err := dependency.Resolve(database.Tables)
	if err != nil {
		var cycleErr *core.CircularDependencyError
		if errors.As(err, &cycleErr) {
			fmt.Fprintf(os.Stderr, "warning: dependency cycle detected (%v); emitting in input order with foreign keys separated\n", cycleErr.Cycle)
			return database.Tables, true, nil
		}
		return nil, false, err
	}
	return ordered, false, nil
}

// writeFiles persists generated files under dir, honoring --force; a file
// that already exists without --force is reported rather than written,
// per the core.ErrFileAlreadyExists taxonomy member.
func writeFiles(dir string, files []emit.File, force bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	for _, f := range files {
		path := filepath.Join(dir, f.Filename)
		if !force {
			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, core.ErrFileAlreadyExists)
				continue
			}
		}
		if err := os.WriteFile(path, []byte(f.Body), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

func outputFormat(flags *rootFlags, name string) render.Format {
	return render.ParseFormat(name, flags.json)
}

// schema

func schemaCmd(flags *rootFlags) *cobra.Command {
	var separateFK bool
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Generate creation-script migrations and Eloquent models for every introspected table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			tables, hadCycle, err := loadTables(ctx, cfg, flags)
			if err != nil {
				return err
			}

			migFiles := emit.GenerateCreationScripts(tables, emit.Options{
				SeparateForeignKeys: separateFK || cfg.Features.SeparateForeignKeys || hadCycle,
				StartTimestamp:      time.Now().Unix(),
			})
			if err := writeFiles(cfg.MigrationsPath, migFiles, flags.force); err != nil {
				return err
			}

			stubOpts := emit.StubOptions{
				Namespace:             cfg.Models.Namespace,
				BaseClass:             cfg.Models.BaseClass,
				GenerateRelationships: cfg.GenerateRelationships(),
				GenerateScopes:        cfg.GenerateScopes(),
				UseFillable:           cfg.UseFillable(),
				GuardedColumns:        cfg.Models.GuardedColumns,
			}
			var modelFiles []emit.File
			for _, t := range tables {
				modelFiles = append(modelFiles, emit.GenerateClassStub(t, tables, stubOpts))
			}
			return writeFiles(cfg.Models.Path, modelFiles, flags.force)
		},
	}
	cmd.Flags().BoolVar(&separateFK, "separate-fk", false, "Emit foreign keys as a trailing migration instead of inline")
	return cmd
}

// migrations

func migrationsCmd(flags *rootFlags) *cobra.Command {
	var tablesCSV string
	var diffMode bool
	var fresh bool
	var preview bool
	var separateFK bool
	cmd := &cobra.Command{
		Use:   "migrations",
		Short: "Generate creation-script migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			tables, hadCycle, err := loadTables(ctx, cfg, flags)
			if err != nil {
				return err
			}
			if tablesCSV != "" {
				tables = filterTables(tables, strings.Split(tablesCSV, ","))
			}

			if diffMode {
				return runMigrationsDiff(cfg, tables, outputFormat(flags, ""))
			}

			if fresh && !hadCycle {
				tables, err = dependency.Resolve(tables)
				if err != nil {
					return err
				}
			}

			files := emit.GenerateCreationScripts(tables, emit.Options{
				SeparateForeignKeys: separateFK || cfg.Features.SeparateForeignKeys || hadCycle,
				StartTimestamp:      time.Now().Unix(),
			})
			if preview {
				out, err := render.Preview(files, outputFormat(flags, ""))
				if err != nil {
					return err
				}
				fmt.Print(out)
				return nil
			}
			return writeFiles(cfg.MigrationsPath, files, flags.force)
		},
	}
	cmd.Flags().StringVar(&tablesCSV, "tables", "", "Comma-separated list of tables to restrict generation to")
	cmd.Flags().BoolVar(&diffMode, "diff", false, "Scan migrations_path for existing migrations and report drift instead of generating")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "Re-resolve dependency order before emission")
	cmd.Flags().BoolVar(&preview, "preview", false, "Print generated files instead of writing them")
	cmd.Flags().BoolVar(&separateFK, "separate-fk", false, "Emit foreign keys as a trailing migration instead of inline")
	return cmd
}

func filterTables(tables []*core.Table, names []string) []*core.Table {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[strings.TrimSpace(n)] = true
	}
	var out []*core.Table
	for _, t := range tables {
		if want[t.Name] {
			out = append(out, t)
		}
	}
	return out
}

func runMigrationsDiff(cfg config.Config, tables []*core.Table, format render.Format) error {
	scripts, err := readMigrationScripts(cfg.MigrationsPath)
	if err != nil {
		return err
	}
	extraction := legacy.Scan(scripts)
	d := compare.CompareWithMigrations(tables, extraction)
	out, err := renderMigrationDiff(d, format)
	if err != nil {
		return err
	}
	fmt.Print(out)
	if len(d.New) > 0 || len(d.Modified) > 0 || len(d.Removed) > 0 {
		os.Exit(1)
	}
	return nil
}

func readMigrationScripts(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	scripts := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".php" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		scripts[e.Name()] = string(data)
	}
	return scripts, nil
}

func renderMigrationDiff(d compare.MigrationDiff, format render.Format) (string, error) {
	if format == render.FormatJSON {
		return migrationDiffJSON(d)
	}
	var b strings.Builder
	if len(d.New) == 0 && len(d.Modified) == 0 && len(d.Removed) == 0 {
		b.WriteString("No drift between the schema and scanned migrations.\n")
		return b.String(), nil
	}
	writeSection(&b, "New tables", d.New)
	writeSection(&b, "Modified tables", d.Modified)
	writeSection(&b, "Removed tables", d.Removed)
	return b.String(), nil
}

func writeSection(b *strings.Builder, label string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(b, "%s (%d):\n", label, len(names))
	for _, n := range names {
		fmt.Fprintf(b, "  - %s\n", n)
	}
}

func migrationDiffJSON(d compare.MigrationDiff) (string, error) {
	payload := struct {
		New      []string `json:"new,omitempty"`
		Modified []string `json:"modified,omitempty"`
		Removed  []string `json:"removed,omitempty"`
	}{New: d.New, Modified: d.Modified, Removed: d.Removed}
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}

// models

func modelsCmd(flags *rootFlags) *cobra.Command {
	var tableNames []string
	var preview bool
	var noRelationships bool
	var noScopes bool
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Generate Eloquent model class stubs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			tables, _, err := loadTables(ctx, cfg, flags)
			if err != nil {
				return err
			}
			if len(tableNames) > 0 {
				tables = filterTables(tables, tableNames)
			}

			opts := emit.StubOptions{
				Namespace:             cfg.Models.Namespace,
				BaseClass:             cfg.Models.BaseClass,
				GenerateRelationships: cfg.GenerateRelationships() && !noRelationships,
				GenerateScopes:        cfg.GenerateScopes() && !noScopes,
				UseFillable:           cfg.UseFillable(),
				GuardedColumns:        cfg.Models.GuardedColumns,
			}
			var files []emit.File
			for _, t := range tables {
				files = append(files, emit.GenerateClassStub(t, tables, opts))
			}
			if preview {
				out, err := render.Preview(files, outputFormat(flags, ""))
				if err != nil {
					return err
				}
				fmt.Print(out)
				return nil
			}
			return writeFiles(cfg.Models.Path, files, flags.force)
		},
	}
	cmd.Flags().StringArrayVar(&tableNames, "table", nil, "Restrict generation to this table (repeatable)")
	cmd.Flags().BoolVar(&preview, "preview", false, "Print generated files instead of writing them")
	cmd.Flags().BoolVar(&noRelationships, "no-relationships", false, "Skip relationship methods")
	cmd.Flags().BoolVar(&noScopes, "no-scopes", false, "Skip the SoftDeletes trait for soft-deletable tables")
	return cmd
}

// preview

func previewCmd(flags *rootFlags) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Parse the configured connection and print what would be generated, without writing files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			tables, hadCycle, err := loadTables(ctx, cfg, flags)
			if err != nil {
				return err
			}

			var files []emit.File
			switch kind {
			case "models":
				opts := emit.StubOptions{
					Namespace:             cfg.Models.Namespace,
					BaseClass:             cfg.Models.BaseClass,
					GenerateRelationships: cfg.GenerateRelationships(),
					GenerateScopes:        cfg.GenerateScopes(),
					UseFillable:           cfg.UseFillable(),
					GuardedColumns:        cfg.Models.GuardedColumns,
				}
				for _, t := range tables {
					files = append(files, emit.GenerateClassStub(t, tables, opts))
				}
			default:
				files = emit.GenerateCreationScripts(tables, emit.Options{SeparateForeignKeys: cfg.Features.SeparateForeignKeys || hadCycle, StartTimestamp: time.Now().Unix()})
			}

			out, err := render.Preview(files, outputFormat(flags, ""))
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "migrations", "What to preview: migrations or models")
	return cmd
}

// diff

func diffCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare the live schema against the migrations on disk and report drift",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			current, _, err := loadTables(ctx, cfg, flags)
			if err != nil {
				return err
			}
			// diff reads the live schema against the migrations
			// already on disk.
			return runMigrationsDiff(cfg, current, outputFormat(flags, ""))
		},
	}
	return cmd
}
