package cmd

import (
	"context"
	"strconv"

	"github.com/agentic-research/shortcuts/api"
	"github.com/agentic-research/shortcuts/internal/props"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"
)

// Version is reported to MCP clients.
var Version = "dev"

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve node and property tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newMCPServer(a)
			a.log.Info("serving MCP on stdio", "version", Version)
			return server.NewStdioServer(s).Listen(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func newMCPServer(a *app) *server.MCPServer {
	s := server.NewMCPServer("shortcuts", Version, server.WithToolCapabilities(false))
	t := &tools{a: a}

	pathArg := mcp.WithString("path", mcp.Required(), mcp.Description("Library path, e.g. library://video/movies/"))

	s.AddTool(mcp.NewTool("list_nodes",
		mcp.WithDescription("List the resolved menu nodes below a library location, in display order"),
		pathArg,
		mcp.WithString("prefix", mcp.Description("Target prefix for the nodes, defaults to the location")),
	), t.listNodes)
	s.AddTool(mcp.NewTool("visibility",
		mcp.WithDescription("Return the visible condition of the view behind a library path"),
		pathArg,
	), t.visibility)
	s.AddTool(mcp.NewTool("media_type",
		mcp.WithDescription("Return the media type of the view behind a library path"),
		pathArg,
	), t.mediaType)
	s.AddTool(mcp.NewTool("is_grouped",
		mcp.WithDescription("Report whether a leaf view declares a <group>"),
		mcp.WithString("path", mcp.Required(), mcp.Description("View path, e.g. library://video/movies/genres.xml/")),
	), t.isGrouped)
	s.AddTool(mcp.NewTool("set_properties",
		mcp.WithDescription("Set |-separated properties on menu entries and prune unmet requirements"),
		mcp.WithString("properties", mcp.Required()),
		mcp.WithString("values", mcp.Required()),
		mcp.WithString("label_id", mcp.Required(), mcp.Description("One label id, or one per property")),
		mcp.WithString("group", mcp.Description("Menu group, defaults to mainmenu")),
	), t.setProperties)
	return s
}

type tools struct {
	a *app
}

var jsonOptions = &ojg.Options{Indent: 2, Sort: true}

func descriptorJSON(d *api.Descriptor) map[string]any {
	m := map[string]any{
		"ordinal":          d.Ordinal,
		"original_ordinal": d.OriginalOrdinal,
		"kind":             d.Kind.String(),
		"label":            d.Label,
		"icon":             d.Icon,
		"target":           d.Target,
	}
	if d.HasMediaType {
		m["media_type"] = d.MediaType
	}
	return m
}

func (t *tools) listNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	engine, dir, target, err := t.a.walker(p)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if prefix := req.GetString("prefix", ""); prefix != "" {
		target = prefix
	}
	set, err := engine.ListNodes(dir, target)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("list nodes", err), nil
	}

	list := make([]any, 0, set.Len())
	for _, d := range set.Descriptors() {
		list = append(list, descriptorJSON(d))
	}
	return mcp.NewToolResultText(oj.JSON(map[string]any{
		"nodes":   list,
		"skipped": len(set.Skipped()),
	}, jsonOptions)), nil
}

func (t *tools) visibility(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(t.a.resolver().Visibility(p)), nil
}

func (t *tools) mediaType(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(t.a.resolver().MediaType(p)), nil
}

func (t *tools) isGrouped(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(strconv.FormatBool(t.a.resolver().IsGrouped(p))), nil
}

func (t *tools) setProperties(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	change := props.ParseChange(
		req.GetString("properties", ""),
		req.GetString("values", ""),
		req.GetString("label_id", ""),
		req.GetString("group", ""),
	)
	s, err := t.a.openSession()
	if err != nil {
		return mcp.NewToolResultErrorFromErr("open property store", err), nil
	}
	defer func() { _ = s.Close() }() // ignore

	if err := s.merger.Apply(ctx, change); err != nil {
		return mcp.NewToolResultErrorFromErr("apply", err), nil
	}
	return mcp.NewToolResultText(oj.JSON(map[string]any{
		"applied":    len(change.Properties),
		"generation": s.ctl.Generation(),
	}, jsonOptions)), nil
}
