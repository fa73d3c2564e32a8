// Command graphctl is a small operator CLI around the graphframe package:
// running schema batches, previewing or committing ad-hoc Cypher, and
// inspecting the local commit audit trail, all against the connection
// described by a graphframe.yaml.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nolanchai/graphframe"
	"github.com/nolanchai/graphframe/internal/auditlog"
	"github.com/nolanchai/graphframe/internal/graphconfig"
	"github.com/nolanchai/graphframe/internal/obslog"
	"gopkg.in/yaml.v3"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [args...]

Commands:
  preview <cypher>          compile and print a raw Cypher statement, uncommitted
  run <cypher>              compile and commit a raw Cypher statement
  schema apply <file.yaml>  apply a batch of schema operations
  audit recent [limit]      list the most recent committed write plans
  audit show <plan-id>      show one committed write plan's statements

Global flags (before the command):
  -config <path>   path to graphframe.yaml (default: discovered by walking up from .)
  -debug           enable debug-level logging
`, os.Args[0])
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "graphctl: internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	configPath := ""
	debug := false
	args := os.Args[1:]
	for len(args) > 0 {
		switch args[0] {
		case "-config":
			if len(args) < 2 {
				fmt.Fprintln(os.Stderr, "graphctl: -config requires a path")
				os.Exit(1)
			}
			configPath = args[1]
			args = args[2:]
		case "-debug", "--debug":
			debug = true
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	cfg, err := resolveConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "graphctl: %v\n", err)
		os.Exit(1)
	}

	log, err := obslog.New(debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "graphctl: building logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	switch args[0] {
	case "preview":
		runCypher(ctx, cfg, log, args[1:], false)
	case "run":
		runCypher(ctx, cfg, log, args[1:], true)
	case "schema":
		handleSchema(ctx, cfg, log, args[1:])
	case "audit":
		handleAudit(ctx, cfg, args[1:])
	case "-help", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "graphctl: unknown command %q\n", args[0])
		usage()
		os.Exit(1)
	}
}

func resolveConfig(explicitPath string) (*graphconfig.Config, error) {
	path := explicitPath
	if path == "" {
		found, err := graphconfig.FindConfig(".")
		if err != nil {
			return nil, fmt.Errorf("locating graphframe.yaml: %w", err)
		}
		if found == "" {
			return nil, fmt.Errorf("no graphframe.yaml found; pass -config <path>")
		}
		path = found
	}
	return graphconfig.LoadConfig(path)
}

func runCypher(ctx context.Context, cfg *graphconfig.Config, log obslog.Logger, args []string, commit bool) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "graphctl: cypher text required")
		os.Exit(1)
	}

	g, err := graphframe.Open(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "graphctl: connecting: %v\n", err)
		os.Exit(1)
	}
	defer g.Close(ctx)

	plan := g.Cypher(args[0], nil)
	stmts, err := plan.Compile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "graphctl: compiling: %v\n", err)
		os.Exit(1)
	}
	for _, s := range stmts {
		fmt.Println(s.Text)
	}

	if !commit {
		return
	}
	result, err := plan.Commit(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "graphctl: committing: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("committed: %+v\n", result)
}

func handleSchema(ctx context.Context, cfg *graphconfig.Config, log obslog.Logger, args []string) {
	if len(args) < 2 || args[0] != "apply" {
		fmt.Fprintln(os.Stderr, "graphctl: usage: schema apply <file.yaml>")
		os.Exit(1)
	}

	ops, err := loadSchemaFile(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "graphctl: loading schema file: %v\n", err)
		os.Exit(1)
	}

	g, err := graphframe.Open(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "graphctl: connecting: %v\n", err)
		os.Exit(1)
	}
	defer g.Close(ctx)

	plan := g.Schema(ops...)
	result, err := plan.Commit(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "graphctl: applying schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("applied %d schema statement(s)\n", result.StatementsRun)
}

func handleAudit(ctx context.Context, cfg *graphconfig.Config, args []string) {
	if !cfg.AuditLog.Enabled {
		fmt.Fprintln(os.Stderr, "graphctl: audit_log is not enabled in this configuration")
		os.Exit(1)
	}

	logDB, err := auditlog.Open(cfg.AuditLog.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "graphctl: opening audit log: %v\n", err)
		os.Exit(1)
	}
	defer logDB.Close()

	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "graphctl: usage: audit recent [limit] | audit show <plan-id>")
		os.Exit(1)
	}

	switch args[0] {
	case "recent":
		limit := 20
		if len(args) > 1 {
			fmt.Sscanf(args[1], "%d", &limit)
		}
		entries, err := logDB.RecentCommits(ctx, limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "graphctl: listing commits: %v\n", err)
			os.Exit(1)
		}
		for _, e := range entries {
			fmt.Printf("%s  %s  statements=%d nodes+%d rels+%d\n",
				e.PlanID, e.CommittedAt.Format("2006-01-02T15:04:05Z07:00"),
				e.StatementCount, e.NodesCreated, e.RelsCreated)
		}
	case "show":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "graphctl: usage: audit show <plan-id>")
			os.Exit(1)
		}
		entry, ok, err := logDB.Get(ctx, args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "graphctl: fetching commit: %v\n", err)
			os.Exit(1)
		}
		if !ok {
			fmt.Fprintf(os.Stderr, "graphctl: no commit found for plan %q\n", args[1])
			os.Exit(1)
		}
		for _, s := range entry.Statements {
			fmt.Println(s.Text)
		}
	default:
		fmt.Fprintf(os.Stderr, "graphctl: unknown audit subcommand %q\n", args[0])
		os.Exit(1)
	}
}

// schemaFile is the on-disk shape of a schema-apply YAML document.
type schemaFile struct {
	Ops []schemaOpDoc `yaml:"ops"`
}

type schemaOpDoc struct {
	Kind       string   `yaml:"kind"`
	Label      string   `yaml:"label"`
	Properties []string `yaml:"properties"`
	Name       string   `yaml:"name,omitempty"`
}

func loadSchemaFile(path string) ([]graphframe.SchemaOp, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc schemaFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	ops := make([]graphframe.SchemaOp, 0, len(doc.Ops))
	for _, o := range doc.Ops {
		kind, err := parseSchemaOpKind(o.Kind)
		if err != nil {
			return nil, err
		}
		op := graphframe.NewSchemaOp(kind, o.Label, o.Properties...)
		if o.Name != "" {
			op = op.WithName(o.Name)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func parseSchemaOpKind(s string) (graphframe.SchemaOpKind, error) {
	switch s {
	case "ensure_index":
		return graphframe.EnsureIndex, nil
	case "ensure_unique":
		return graphframe.EnsureUnique, nil
	case "ensure_node_key":
		return graphframe.EnsureNodeKey, nil
	case "drop_index":
		return graphframe.DropIndex, nil
	case "drop_unique":
		return graphframe.DropUnique, nil
	default:
		return "", fmt.Errorf("unknown schema op kind %q", s)
	}
}
