package tagcatalog

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Parameter structures for MCP tools
type CollectionParams struct {
	Collection string `json:"collection,omitempty"`
}

type QueryEntriesParams struct {
	Collection string `json:"collection,omitempty"`
	Query      string `json:"query"`
	MaxResults *int   `json:"max_results,omitempty"`
}

type ApplyChangesParams struct {
	Collection string   `json:"collection,omitempty"`
	Add        []string `json:"add,omitempty"`
	Remove     []string `json:"remove,omitempty"`
}

type CreateTagParams struct {
	Collection string `json:"collection,omitempty"`
	Name       string `json:"name"`
}

type TagEntriesParams struct {
	Collection string   `json:"collection,omitempty"`
	Tag        string   `json:"tag"`
	Paths      []string `json:"paths"`
}

type CreateTagResult struct {
	ID         TagID             `json:"id"`
	Created    bool              `json:"created"`
	Validation *ValidationResult `json:"validation"`
}

type TagEntriesResult struct {
	Tag     string `json:"tag"`
	Entries int    `json:"entries"`
}

// Tool handler functions
func QueryEntriesTool(ctx context.Context, req *mcp.CallToolRequest, args QueryEntriesParams, manager Manager) (*mcp.CallToolResult, any, error) {
	coll, err := manager.Open(ctx, args.Collection)
	if err != nil {
		return nil, nil, err
	}
	result, err := manager.Query(ctx, coll, args.Query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query entries: %w", err)
	}

	if args.MaxResults != nil {
		if n := *args.MaxResults; n >= 0 && len(result) > n {
			result = result[:n]
		}
	}

	return nil, result, nil
}

func ScanChangesTool(ctx context.Context, req *mcp.CallToolRequest, args CollectionParams, manager Manager) (*mcp.CallToolResult, any, error) {
	coll, err := manager.Open(ctx, args.Collection)
	if err != nil {
		return nil, nil, err
	}
	changes, err := manager.Scan(ctx, coll)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan: %w", err)
	}
	return nil, changes, nil
}

func ApplyChangesTool(ctx context.Context, req *mcp.CallToolRequest, args ApplyChangesParams, manager Manager) (*mcp.CallToolResult, any, error) {
	coll, err := manager.Open(ctx, args.Collection)
	if err != nil {
		return nil, nil, err
	}
	result, err := manager.Apply(ctx, coll, ChangeSet{Add: args.Add, Remove: args.Remove})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to apply changes: %w", err)
	}
	return nil, result, nil
}

func ListTagsTool(ctx context.Context, req *mcp.CallToolRequest, args CollectionParams, manager Manager) (*mcp.CallToolResult, any, error) {
	coll, err := manager.Open(ctx, args.Collection)
	if err != nil {
		return nil, nil, err
	}
	return nil, coll.Catalog.TagInfos(), nil
}

func CreateTagTool(ctx context.Context, req *mcp.CallToolRequest, args CreateTagParams, manager Manager, validator Validator) (*mcp.CallToolResult, any, error) {
	validation := validator.ValidateTagName(args.Name)
	if strings.TrimSpace(args.Name) == "" {
		return nil, nil, ErrEmptyName
	}
	coll, err := manager.Open(ctx, args.Collection)
	if err != nil {
		return nil, nil, err
	}
	id, created := coll.Catalog.CreateTag(coll.Uid(), args.Name)
	if created {
		if err := manager.Save(ctx, coll); err != nil {
			return nil, nil, err
		}
	}
	return nil, CreateTagResult{ID: id, Created: created, Validation: validation}, nil
}

func TagEntriesTool(ctx context.Context, req *mcp.CallToolRequest, args TagEntriesParams, manager Manager, add bool) (*mcp.CallToolResult, any, error) {
	coll, err := manager.Open(ctx, args.Collection)
	if err != nil {
		return nil, nil, err
	}
	entries, err := coll.ResolveEntries(args.Paths)
	if err != nil {
		return nil, nil, err
	}
	tags, err := coll.ResolveTags([]string{args.Tag}, add)
	if err != nil {
		return nil, nil, err
	}
	if add {
		coll.Catalog.AddTagToEntries(tags[0], entries)
	} else {
		coll.Catalog.RemoveTagFromEntries(tags[0], entries)
	}
	if err := manager.Save(ctx, coll); err != nil {
		return nil, nil, err
	}
	return nil, TagEntriesResult{Tag: normalizeTagName(args.Tag), Entries: len(entries)}, nil
}

func ListSequencesTool(ctx context.Context, req *mcp.CallToolRequest, args CollectionParams, manager Manager) (*mcp.CallToolResult, any, error) {
	coll, err := manager.Open(ctx, args.Collection)
	if err != nil {
		return nil, nil, err
	}
	return nil, coll.Catalog.SequenceInfos(), nil
}

// RunMCPServer starts the MCP server. If transport is nil, it will use stdio
// transport. Logs always go to stderr.
func RunMCPServer(configPath string, transport *mcp.InMemoryTransport) error {
	config, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, err := config.NewConfiguredLogger(os.Stderr, false)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	manager, err := NewDefaultManager(config, log)
	if err != nil {
		return fmt.Errorf("failed to create manager: %w", err)
	}
	validator := NewDefaultValidator()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "tag-catalog",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_entries",
		Description: "List catalog entries matching a tag query such as 'cat !dog @f[.jpg]'",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args QueryEntriesParams) (*mcp.CallToolResult, any, error) {
		return QueryEntriesTool(ctx, req, args, manager)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_changes",
		Description: "Compare the collection folder with the catalog and report added and removed files",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args CollectionParams) (*mcp.CallToolResult, any, error) {
		return ScanChangesTool(ctx, req, args, manager)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "apply_changes",
		Description: "Add and remove catalog entries, usually the result of scan_changes",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ApplyChangesParams) (*mcp.CallToolResult, any, error) {
		return ApplyChangesTool(ctx, req, args, manager)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tags",
		Description: "List all tags with aliases, implications and usage counts",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args CollectionParams) (*mcp.CallToolResult, any, error) {
		return ListTagsTool(ctx, req, args, manager)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_tag",
		Description: "Create a tag; reports whether it already existed",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args CreateTagParams) (*mcp.CallToolResult, any, error) {
		return CreateTagTool(ctx, req, args, manager, validator)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "tag_entries",
		Description: "Add a tag to entries, creating the tag if needed",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TagEntriesParams) (*mcp.CallToolResult, any, error) {
		return TagEntriesTool(ctx, req, args, manager, true)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "untag_entries",
		Description: "Remove a tag from entries",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TagEntriesParams) (*mcp.CallToolResult, any, error) {
		return TagEntriesTool(ctx, req, args, manager, false)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_sequences",
		Description: "List sequences with their ordered entries",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args CollectionParams) (*mcp.CallToolResult, any, error) {
		return ListSequencesTool(ctx, req, args, manager)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	log.Debug("mcp server starting", "data_dir", config.DataDir)
	if transport != nil {
		return server.Run(ctx, transport)
	}
	return server.Run(ctx, &mcp.StdioTransport{})
}
