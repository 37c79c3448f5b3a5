package tagcatalog

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// RunCmdOptions contains options for customizing RunCmd behavior
type RunCmdOptions struct {
	// MCPTransport allows providing a custom transport for MCP server (used for testing)
	MCPTransport *mcp.InMemoryTransport
	// Stdout writer for normal output (defaults to os.Stdout)
	Stdout io.Writer
	// Stderr writer for error and log output (defaults to os.Stderr)
	Stderr io.Writer
	// Stdin is read for confirmations (defaults to os.Stdin)
	Stdin io.Reader
}

// commandContext holds runtime context for command execution
type commandContext struct {
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader

	configPath    string
	collectionRef string
	verbose       bool
	jsonOutput    bool
	mcpMode       bool
	mcpTransport  *mcp.InMemoryTransport

	manager   Manager
	validator Validator
	log       Logger
}

func RunCmd(args []string, options *RunCmdOptions) error {
	cc := &commandContext{
		stdout: os.Stdout,
		stderr: os.Stderr,
		stdin:  os.Stdin,
	}
	if options != nil {
		if options.Stdout != nil {
			cc.stdout = options.Stdout
		}
		if options.Stderr != nil {
			cc.stderr = options.Stderr
		}
		if options.Stdin != nil {
			cc.stdin = options.Stdin
		}
		cc.mcpTransport = options.MCPTransport
	}

	if len(args) < 2 {
		return ShowHelp(cc.stdout)
	}

	root := newRootCmd(cc)
	root.SetArgs(args[1:])
	root.SetOut(cc.stdout)
	root.SetErr(cc.stderr)
	root.SetIn(cc.stdin)
	return root.ExecuteContext(context.Background())
}

func ShowHelp(w io.Writer) error {
	root := newRootCmd(&commandContext{stdout: w, stderr: w})
	root.SetOut(w)
	return root.Help()
}

func newRootCmd(cc *commandContext) *cobra.Command {
	root := &cobra.Command{
		Use:   "tag-catalog",
		Short: "Tag and query the files of a folder",
		Long: `tag-catalog keeps a catalog of the files below a root folder. Files are
tagged, grouped into ordered sequences and found again with queries.

Query syntax:
  cat dog          entries tagged cat and dog (or a tag implying them)
  $cat             entries tagged exactly cat
  !cat             entries not tagged cat
  @any[a b]        at least one of a, b
  @none[a b]       none of a, b
  @f[.jpg]         file name contains .jpg
  @seq             entries that are part of a sequence
  @untagged        entries with no tags
  @ntags[2]        entries with exactly two tags`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cc.mcpMode {
				return nil
			}
			return cc.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if cc.mcpMode {
				return RunMCPServer(cc.configPath, cc.mcpTransport)
			}
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cc.configPath, "config", "", "Path to configuration file")
	flags.StringVarP(&cc.collectionRef, "collection", "c", "", "Collection id, id prefix or root path (defaults to the most recent)")
	flags.BoolVarP(&cc.verbose, "verbose", "v", false, "Enable verbose output")
	flags.BoolVar(&cc.jsonOutput, "json", false, "Output as JSON")
	root.Flags().BoolVar(&cc.mcpMode, "mcp", false, "Run as MCP server")

	root.AddCommand(
		newInitCmd(cc),
		newCollectionsCmd(cc),
		newScanCmd(cc),
		newQueryCmd(cc),
		newTagCmd(cc),
		newMoveCmd(cc),
		newRemoveCmd(cc),
		newSeqCmd(cc),
		newIgnoreCmd(cc),
		newAppCmd(cc),
		newBackupCmd(cc),
		newRestoreCmd(cc),
	)
	return root
}

func (cc *commandContext) setup() error {
	config, err := LoadConfig(cc.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cc.log, err = config.NewConfiguredLogger(cc.stderr, cc.verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	manager, err := NewDefaultManager(config, cc.log)
	if err != nil {
		return fmt.Errorf("failed to create manager: %w", err)
	}
	cc.manager = manager
	cc.validator = NewDefaultValidator()
	return nil
}

// withCollection opens the selected collection, runs fn and saves the
// catalog afterwards when save is set.
func (cc *commandContext) withCollection(ctx context.Context, save bool, fn func(*Collection) error) error {
	coll, err := cc.manager.Open(ctx, cc.collectionRef)
	if err != nil {
		return err
	}
	if err := fn(coll); err != nil {
		return err
	}
	if !save {
		return nil
	}
	return cc.manager.Save(ctx, coll)
}

func (cc *commandContext) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(cc.stdout, format, args...)
}

// interactive reports whether confirmations can be asked on stdin.
func (cc *commandContext) interactive() bool {
	f, ok := cc.stdin.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (cc *commandContext) confirm(question string) bool {
	cc.printf("%s [y/N] ", question)
	line, _ := bufio.NewReader(cc.stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func newInitCmd(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init [root]",
		Short: "Register a folder as a collection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			coll, err := cc.manager.Init(cmd.Context(), root)
			if err != nil {
				return err
			}
			if cc.jsonOutput {
				return writeJSON(cc.stdout, CollectionInfo{ID: coll.ID, Root: coll.Root, Recent: true})
			}
			cc.printf("Initialized collection %s at %s\n", coll.ID, coll.Root)
			return nil
		},
	}
}

func newCollectionsCmd(cc *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "List registered collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := cc.manager.Collections(cmd.Context())
			if err != nil {
				return err
			}
			if cc.jsonOutput {
				return writeJSON(cc.stdout, infos)
			}
			printCollections(cc.stdout, infos)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "forget <collection>",
		Short: "Unregister a collection, keeping its catalog files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cc.manager.Forget(cmd.Context(), args[0]); err != nil {
				return err
			}
			cc.printf("Forgot collection %s\n", args[0])
			return nil
		},
	})
	return cmd
}

func newScanCmd(cc *commandContext) *cobra.Command {
	var dryRun, yes bool
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Find added and removed files and update the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return cc.withCollection(ctx, false, func(coll *Collection) error {
				changes, err := cc.manager.Scan(ctx, coll)
				if err != nil {
					return err
				}
				if dryRun {
					if cc.jsonOutput {
						return writeJSON(cc.stdout, changes)
					}
					printChanges(cc.stdout, changes)
					return nil
				}
				if changes.Empty() {
					if cc.jsonOutput {
						return writeJSON(cc.stdout, &ApplyResult{Added: map[string]EntryID{}, Removed: []string{}})
					}
					printChanges(cc.stdout, changes)
					return nil
				}
				if !cc.jsonOutput {
					printChanges(cc.stdout, changes)
				}
				if !yes && cc.interactive() && !cc.confirm("Apply these changes?") {
					cc.printf("Aborted\n")
					return nil
				}
				result, err := cc.manager.Apply(ctx, coll, changes)
				if err != nil {
					return err
				}
				if cc.jsonOutput {
					return writeJSON(cc.stdout, result)
				}
				cc.printf("Added %d, removed %d\n", len(result.Added), len(result.Removed))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the changes without applying them")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Apply without asking for confirmation")
	return cmd
}

func newQueryCmd(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "query [terms...]",
		Short: "List entries matching a query (all entries when empty)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return cc.withCollection(ctx, false, func(coll *Collection) error {
				entries, err := cc.manager.Query(ctx, coll, strings.Join(args, " "))
				if err != nil {
					return err
				}
				if cc.jsonOutput {
					return writeJSON(cc.stdout, entries)
				}
				printEntries(cc.stdout, entries)
				return nil
			})
		},
	}
}

func newTagCmd(cc *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>...",
		Short: "Create tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCollection(cmd.Context(), true, func(coll *Collection) error {
				for _, name := range args {
					check := cc.validator.ValidateTagName(name)
					if normalizeTagName(name) == "" {
						return fmt.Errorf("invalid tag name %q: %w", name, ErrEmptyName)
					}
					for _, issue := range check.Issues {
						cc.log.Warn("tag name needs quoting in queries", "tag", name, "issue", issue)
					}
					id, created := coll.Catalog.CreateTag(coll.Uid(), name)
					if created {
						cc.printf("Created tag %s (%d)\n", normalizeTagName(name), id)
					} else {
						cc.printf("Tag %s already exists (%d)\n", normalizeTagName(name), id)
					}
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <name>...",
		Short: "Delete tags and strip them from every entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCollection(cmd.Context(), true, func(coll *Collection) error {
				ids, err := coll.ResolveTags(args, false)
				if err != nil {
					return err
				}
				coll.Catalog.RemoveTags(ids)
				cc.printf("Removed %d tag(s)\n", len(ids))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <tag> <path>...",
		Short: "Tag entries, creating the tag if needed",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCollection(cmd.Context(), true, func(coll *Collection) error {
				entries, err := coll.ResolveEntries(args[1:])
				if err != nil {
					return err
				}
				tags, err := coll.ResolveTags(args[:1], true)
				if err != nil {
					return err
				}
				coll.Catalog.AddTagToEntries(tags[0], entries)
				cc.printf("Tagged %d entries with %s\n", len(entries), normalizeTagName(args[0]))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <tag> <path>...",
		Short: "Untag entries",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCollection(cmd.Context(), true, func(coll *Collection) error {
				tags, err := coll.ResolveTags(args[:1], false)
				if err != nil {
					return err
				}
				entries, err := coll.ResolveEntries(args[1:])
				if err != nil {
					return err
				}
				coll.Catalog.RemoveTagFromEntries(tags[0], entries)
				cc.printf("Untagged %d entries\n", len(entries))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List tags with usage counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCollection(cmd.Context(), false, func(coll *Collection) error {
				infos := coll.Catalog.TagInfos()
				if cc.jsonOutput {
					return writeJSON(cc.stdout, infos)
				}
				printTags(cc.stdout, infos)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "imply <tag> <implied>",
		Short: "Make entries tagged <tag> also satisfy <implied>",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCollection(cmd.Context(), true, func(coll *Collection) error {
				ids, err := coll.ResolveTags(args, false)
				if err != nil {
					return err
				}
				return coll.Catalog.AddImplication(ids[0], ids[1])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "unimply <tag> <implied>",
		Short: "Remove an implication",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCollection(cmd.Context(), true, func(coll *Collection) error {
				ids, err := coll.ResolveTags(args, false)
				if err != nil {
					return err
				}
				coll.Catalog.RemoveImplication(ids[0], ids[1])
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "alias <tag> <name>",
		Short: "Add another name for a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCollection(cmd.Context(), true, func(coll *Collection) error {
				ids, err := coll.ResolveTags(args[:1], false)
				if err != nil {
					return err
				}
				return coll.Catalog.AddTagName(ids[0], args[1])
			})
		},
	})

	var clearApp bool
	appCmd := &cobra.Command{
		Use:   "app <tag> [application]",
		Short: "Set the application used to open entries with this tag",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCollection(cmd.Context(), true, func(coll *Collection) error {
				ids, err := coll.ResolveTags(args[:1], false)
				if err != nil {
					return err
				}
				if clearApp {
					coll.Catalog.ClearTagApp(ids[0])
					return nil
				}
				if len(args) < 2 {
					return fmt.Errorf("application required unless --clear is given")
				}
				return coll.Catalog.SetTagApp(ids[0], args[1])
			})
		},
	}
	appCmd.Flags().BoolVar(&clearApp, "clear", false, "Remove the application override")
	cmd.AddCommand(appCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "tree [tag]...",
		Short: "Show tags and what they imply",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCollection(cmd.Context(), false, func(coll *Collection) error {
				var roots []TagID
				if len(args) > 0 {
					ids, err := coll.ResolveTags(args, false)
					if err != nil {
						return err
					}
					roots = ids
				} else {
					for _, info := range coll.Catalog.TagInfos() {
						roots = append(roots, info.ID)
					}
				}
				cc.printf("%s", renderImplicationTree(coll.Catalog, roots))
				return nil
			})
		},
	})

	return cmd
}

func newMoveCmd(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <path> <new-path>",
		Short: "Rename an entry and its file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCollection(cmd.Context(), true, func(coll *Collection) error {
				ids, err := coll.ResolveEntries(args[:1])
				if err != nil {
					return err
				}
				return coll.Catalog.RenameEntry(coll.Root, ids[0], args[1])
			})
		},
	}
}

func newRemoveCmd(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>...",
		Short: "Drop entries from the catalog (files are kept)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCollection(cmd.Context(), true, func(coll *Collection) error {
				ids, err := coll.ResolveEntries(args)
				if err != nil {
					return err
				}
				coll.Catalog.RemoveEntries(ids)
				cc.printf("Removed %d entries\n", len(ids))
				return nil
			})
		},
	}
}

func sequenceArg(coll *Collection, name string) (SequenceID, error) {
	id, ok := coll.Catalog.SequenceByName(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoSuchSequence, name)
	}
	return id, nil
}

func newSeqCmd(cc *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seq",
		Short: "Manage ordered sequences of entries",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCollection(cmd.Context(), true, func(coll *Collection) error {
				id := coll.Catalog.CreateSequence(coll.Uid(), args[0])
				cc.printf("Created sequence %s (%d)\n", args[0], id)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCollection(cmd.Context(), true, func(coll *Collection) error {
				id, err := sequenceArg(coll, args[0])
				if err != nil {
					return err
				}
				coll.Catalog.RemoveSequence(id)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <path>...",
		Short: "Append entries to a sequence",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCollection(cmd.Context(), true, func(coll *Collection) error {
				id, err := sequenceArg(coll, args[0])
				if err != nil {
					return err
				}
				entries, err := coll.ResolveEntries(args[1:])
				if err != nil {
					return err
				}
				return coll.Catalog.AddToSequence(id, entries)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <name> <path>",
		Short: "Take an entry out of a sequence",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCollection(cmd.Context(), true, func(coll *Collection) error {
				id, err := sequenceArg(coll, args[0])
				if err != nil {
					return err
				}
				entries, err := coll.ResolveEntries(args[1:])
				if err != nil {
					return err
				}
				return coll.Catalog.RemoveFromSequence(id, entries[0])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "move <name> <path> <first|last|left|right|index>",
		Short: "Reposition an entry within a sequence",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCollection(cmd.Context(), true, func(coll *Collection) error {
				id, err := sequenceArg(coll, args[0])
				if err != nil {
					return err
				}
				entries, err := coll.ResolveEntries(args[1:2])
				if err != nil {
					return err
				}
				cat, entry := coll.Catalog, entries[0]
				switch args[2] {
				case "first":
					return cat.MoveFirst(id, entry)
				case "last":
					return cat.MoveLast(id, entry)
				case "left":
					return cat.SwapLeft(id, entry)
				case "right":
					return cat.SwapRight(id, entry)
				}
				index, err := strconv.Atoi(args[2])
				if err != nil {
					return fmt.Errorf("invalid position %q", args[2])
				}
				return cat.MoveTo(id, entry, index)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List sequences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCollection(cmd.Context(), false, func(coll *Collection) error {
				infos := coll.Catalog.SequenceInfos()
				if cc.jsonOutput {
					return writeJSON(cc.stdout, infos)
				}
				printSequences(cc.stdout, infos)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Show the entries of a sequence in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCollection(cmd.Context(), false, func(coll *Collection) error {
				id, err := sequenceArg(coll, args[0])
				if err != nil {
					return err
				}
				info := coll.Catalog.SequenceInfo(id)
				if cc.jsonOutput {
					return writeJSON(cc.stdout, info)
				}
				printSequence(cc.stdout, info)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "related <path>...",
		Short: "List sequences containing any of the entries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCollection(cmd.Context(), false, func(coll *Collection) error {
				entries, err := coll.ResolveEntries(args)
				if err != nil {
					return err
				}
				infos := []SequenceInfo{}
				for _, id := range coll.Catalog.RelatedSequences(entries) {
					infos = append(infos, coll.Catalog.SequenceInfo(id))
				}
				if cc.jsonOutput {
					return writeJSON(cc.stdout, infos)
				}
				printSequences(cc.stdout, infos)
				return nil
			})
		},
	})

	return cmd
}

func newIgnoreCmd(cc *commandContext) *cobra.Command {
	var remove bool
	cmd := &cobra.Command{
		Use:   "ignore [extension]...",
		Short: "List, add or remove file extensions skipped by scan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCollection(cmd.Context(), len(args) > 0, func(coll *Collection) error {
				for _, ext := range args {
					if remove {
						coll.Catalog.RemoveIgnoredExtension(ext)
					} else {
						coll.Catalog.AddIgnoredExtension(ext)
					}
				}
				exts := append([]string{}, coll.Catalog.IgnoredExtensions...)
				if cc.jsonOutput {
					return writeJSON(cc.stdout, exts)
				}
				for _, ext := range exts {
					cc.printf("%s\n", ext)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&remove, "remove", false, "Stop ignoring the given extensions")
	return cmd
}

func newAppCmd(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "app <path>",
		Short: "Print the command that opens an entry with its tag application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withCollection(cmd.Context(), false, func(coll *Collection) error {
				ids, err := coll.ResolveEntries(args)
				if err != nil {
					return err
				}
				app, ok := coll.Catalog.AppForEntry(ids[0])
				if !ok {
					cc.printf("%s\n", dimStyle.Render("No application override"))
					return nil
				}
				path, err := coll.Path(ids[0])
				if err != nil {
					return err
				}
				cc.printf("%s %q\n", app, path)
				return nil
			})
		},
	}
}

func newBackupCmd(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Write a backup of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return cc.withCollection(ctx, false, func(coll *Collection) error {
				path, err := cc.manager.Backup(ctx, coll)
				if err != nil {
					return err
				}
				cc.printf("Backup written to %s\n", path)
				return nil
			})
		},
	}
}

func newRestoreCmd(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Replace the catalog with its backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return cc.withCollection(ctx, false, func(coll *Collection) error {
				if err := cc.manager.Restore(ctx, coll); err != nil {
					return err
				}
				cc.printf("Catalog restored from backup\n")
				return nil
			})
		},
	}
}
