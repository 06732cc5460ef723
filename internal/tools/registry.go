package tools

import (
	"github.com/ChamsBouzaiene/magpie/internal/config"
	"github.com/ChamsBouzaiene/magpie/internal/engine"
	"github.com/ChamsBouzaiene/magpie/internal/sandbox"
	"github.com/ChamsBouzaiene/magpie/internal/session"
	"github.com/ChamsBouzaiene/magpie/internal/tools/editing"
	"github.com/ChamsBouzaiene/magpie/internal/tools/execution"
	"github.com/ChamsBouzaiene/magpie/internal/tools/filesystem"
	"github.com/ChamsBouzaiene/magpie/internal/tools/reasoning"
	"github.com/ChamsBouzaiene/magpie/internal/tools/search"
)

// ToolSet specifies which categories of tools to include in the
// registry.
type ToolSet struct {
	Filesystem bool // read_file, list_files, write_file, move_file, delete_file
	Editing    bool // edit_file
	Search     bool // find_files, grep
	Execution  bool // run_cmd
	Meta       bool // think, ask_user
}

// AllTools enables every category.
func AllTools() ToolSet {
	return ToolSet{Filesystem: true, Editing: true, Search: true, Execution: true, Meta: true}
}

// Deps carries the collaborators the tools are built over.
type Deps struct {
	FS     filesystem.FileSystem
	Paths  *session.Paths
	Runner sandbox.Runner
	Probe  *search.ProbeCache
	Config *config.Config
}

func (d *Deps) fillDefaults() {
	if d.FS == nil {
		d.FS = filesystem.NewOSFileSystem()
	}
	if d.Paths == nil {
		d.Paths = session.NewPaths()
	}
	if d.Runner == nil {
		d.Runner = sandbox.NewDefaultRunner()
	}
	if d.Probe == nil {
		d.Probe = search.NewProbeCache()
	}
	if d.Config == nil {
		d.Config = config.Defaults()
	}
}

// NewRegistry builds the engine.Registry for the given ToolSet. Tools
// come in two shapes: plain visible tools, and approval pairs whose
// hidden commit half is registered alongside the proposal.
func NewRegistry(deps Deps, set ToolSet) *engine.Registry {
	deps.fillDefaults()
	reg := engine.NewRegistry()

	register := func(category string, ts ...engine.Tool) {
		for _, t := range ts {
			reg.Register(t, category)
		}
	}

	if set.Filesystem {
		reg.RegisterCategory(engine.Category{ID: "filesystem", Description: "Reading, writing and reorganizing files"})
		register("filesystem",
			filesystem.NewReadFileTool(deps.FS, deps.Paths),
			filesystem.NewListFilesTool(deps.FS, deps.Paths),
		)
		register("filesystem", filesystem.NewWriteFileTools(deps.FS, deps.Paths)...)
		register("filesystem", filesystem.NewMoveFileTools(deps.FS, deps.Paths)...)
		register("filesystem", filesystem.NewDeleteFileTools(deps.FS, deps.Paths)...)
	}

	if set.Editing {
		reg.RegisterCategory(engine.Category{ID: "editing", Description: "Structured text edits"})
		limits := editing.Limits{MaxPatternIterations: deps.Config.MaxPatternIterations}
		register("editing", editing.NewEditFileTools(deps.FS, deps.Paths, limits)...)
	}

	if set.Search {
		reg.RegisterCategory(engine.Category{ID: "search", Description: "Name and content search"})
		eng := search.NewEngine(deps.FS, deps.Runner, deps.Probe)
		eng.MinSmartResults = deps.Config.MinSmartResults
		register("search",
			search.NewFindFilesTool(eng, deps.Paths, deps.Config.MaxSearchResults),
			search.NewGrepTool(deps.Runner, deps.Probe, deps.Paths, deps.Config.MaxSearchResults),
		)
	}

	if set.Execution {
		reg.RegisterCategory(engine.Category{ID: "execution", Description: "External command execution"})
		register("execution", execution.NewRunCmdTools(deps.Runner, deps.Paths, deps.Config.CmdTimeout())...)
	}

	if set.Meta {
		reg.RegisterCategory(engine.Category{ID: "meta", Description: "Reasoning and user interaction"})
		register("meta",
			reasoning.NewThinkTool(),
			reasoning.NewAskUserTool(),
		)
	}

	return reg
}
