// Package mcpserver exposes the describer, the classifier and the class
// generator as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nabu-3/sdkgen/compiler/classify"
	"github.com/nabu-3/sdkgen/compiler/gen"
	"github.com/nabu-3/sdkgen/compiler/load"
	"github.com/nabu-3/sdkgen/internal/config"
	"github.com/nabu-3/sdkgen/internal/version"
	"github.com/nabu-3/sdkgen/schema"
)

// Name is the server name announced to clients.
const Name = "nabu-sdkgen"

// Server serves the nabu tools over MCP.
type Server struct {
	cfg       *config.Config
	describer schema.Describer
	generator *gen.Generator
	logger    *slog.Logger
	mcp       *server.MCPServer
}

// New returns a server describing tables through d. Classes are rendered
// in memory; nothing is written under the configured target.
func New(cfg *config.Config, d schema.Describer, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := *cfg
	if c.Target == "" {
		c.Target = "."
	}
	g, err := gen.NewGenerator(d, append(c.GenOptions(), gen.WithLogger(logger))...)
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:       &c,
		describer: d,
		generator: g,
		logger:    logger,
		mcp: server.NewMCPServer(
			Name,
			version.Short(),
			server.WithToolCapabilities(false),
			server.WithLogging(),
		),
	}
	s.registerTools()
	return s, nil
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves requests on stdin and stdout until the client leaves.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	describe := mcp.NewTool("describe_table",
		mcp.WithDescription("Describe the fields and constraints of a table as the JSON sidecar written next to generated classes"),
		mcp.WithString("table",
			mcp.Required(),
			mcp.Description("Name of the table, e.g. nb_site"),
		),
		mcp.WithString("schema",
			mcp.Description("Database schema; defaults to the configured one"),
		),
	)
	classifyTool := mcp.NewTool("classify_table",
		mcp.WithDescription("Report the parents, translation and hash/key/order traits detected for a table"),
		mcp.WithString("table",
			mcp.Required(),
			mcp.Description("Name of the table, e.g. nb_site_lang"),
		),
	)
	generate := mcp.NewTool("generate_class",
		mcp.WithDescription("Render the PHP classes generated for a table without writing them"),
		mcp.WithString("table",
			mcp.Required(),
			mcp.Description("Name of the table"),
		),
		mcp.WithString("class",
			mcp.Description("Class name; derived from the table when empty"),
		),
		mcp.WithString("namespace",
			mcp.Description("Namespace of the class; defaults to the configured one"),
		),
		mcp.WithString("label",
			mcp.Description("Human readable entity name used in comments"),
		),
	)

	s.mcp.AddTool(describe, s.DescribeTable)
	s.mcp.AddTool(classifyTool, s.ClassifyTable)
	s.mcp.AddTool(generate, s.GenerateClass)
}

// DescribeTable handles the describe_table tool.
func (s *Server) DescribeTable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table, err := request.RequireString("table")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Missing table parameter: %v", err)), nil
	}
	schemaName := optString(request, "schema", s.cfg.Schema)
	desc, err := s.describer.Describe(ctx, table, schemaName)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Describe failed: %v", err)), nil
	}
	data, err := schema.MarshalSidecar(desc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal descriptor: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Classification is the classify_table result.
type Classification struct {
	*classify.Result
	// ScopeParent is the parent scoping the finders, when any.
	ScopeParent string `json:"scope_parent,omitempty"`
	// Traits lists the fully qualified traits used by the class.
	Traits []string `json:"traits,omitempty"`
}

// ClassifyTable handles the classify_table tool.
func (s *Server) ClassifyTable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table, err := request.RequireString("table")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Missing table parameter: %v", err)), nil
	}
	desc, err := s.describer.Describe(ctx, table, s.cfg.Schema)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Describe failed: %v", err)), nil
	}
	reg := s.cfg.Registry()
	res, err := classify.ClassifyWithSiblings(ctx, desc, reg, s.describer)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Classify failed: %v", err)), nil
	}
	out := Classification{Result: res}
	if p, ok := res.ScopeParent(reg); ok {
		out.ScopeParent = p.Kind
	}
	for _, p := range res.Related(reg) {
		if t := p.QualifiedTrait(); t != "" {
			out.Traits = append(out.Traits, t)
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// GenerateClass handles the generate_class tool. Every rendered file is
// preceded by a comment line naming its path.
func (s *Server) GenerateClass(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table, err := request.RequireString("table")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Missing table parameter: %v", err)), nil
	}
	m := &load.Manifest{
		Schema:    s.cfg.Schema,
		Namespace: optString(request, "namespace", s.cfg.Namespace),
		Entities: []gen.Entity{{
			Table: table,
			Class: optString(request, "class", ""),
			Label: optString(request, "label", ""),
		}},
	}
	entities, err := m.Resolve(s.cfg.Dict())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid entity: %v", err)), nil
	}
	srcs, err := s.generator.Preview(ctx, entities[0])
	if err != nil {
		s.logger.Warn("mcp class generation failed", "table", table, "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("Generation failed: %v", err)), nil
	}
	var b strings.Builder
	for i, src := range srcs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "// %s (%s)\n", src.Path, src.Kind)
		b.Write(src.Content)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func optString(request mcp.CallToolRequest, key, def string) string {
	if args, ok := request.Params.Arguments.(map[string]any); ok {
		if v, ok := args[key].(string); ok && v != "" {
			return v
		}
	}
	return def
}
