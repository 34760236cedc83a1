package builtins

import (
	"os"
	"path/filepath"

	"github.com/phillarmonic/crush/internal/cmdctx"
	"github.com/phillarmonic/crush/internal/crusherrors"
	"github.com/phillarmonic/crush/internal/fileops"
	"github.com/phillarmonic/crush/internal/registry"
	"github.com/phillarmonic/crush/internal/value"
)

func readDir(dir string) ([]os.DirEntry, error) { return os.ReadDir(dir) }

func registerFile(reg *registry.Registry) {
	reg.Register(lsCommand())
	reg.Register(mkdirCommand())
	reg.Register(rmCommand())
	reg.Register(cpCommand())
	reg.Register(globCommand())
}

var dirEntryColumns = []value.ColumnType{
	{Name: "name", Type: value.Simple(value.KindFile)},
	{Name: "size", Type: value.Simple(value.KindInt)},
	{Name: "is_dir", Type: value.Simple(value.KindBool)},
}

// ls lists the directory named by its single positional argument (the
// current directory if omitted) as a table. It does not use the
// fileops package: directory listing is stdlib os.ReadDir, which
// fileops.go never wraps.
func lsCommand() *registry.Command {
	return &registry.Command{
		Name_: "ls",
		Short: "List a directory's entries",
		Params: []registry.Parameter{
			{Name: "path", Type: value.Simple(value.KindFile), Optional: true},
		},
		Output:   registry.Known(value.TableType(dirEntryColumns)),
		CanBlock: false,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			dir := "."
			if p, ok := ctx.Arg("path"); ok {
				dir = p.AsString()
			}
			entries, err := readDir(dir)
			if err != nil {
				return crusherrors.NewIOError("ls: %v", err)
			}
			for _, e := range entries {
				info, err := e.Info()
				if err != nil {
					continue
				}
				row := value.NewRow(
					value.File(filepath.Join(dir, e.Name())),
					value.Int(info.Size()),
					value.Bool(e.IsDir()),
				)
				if err := ctx.Output.Table.Send(row); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func mkdirCommand() *registry.Command {
	return &registry.Command{
		Name_: "mkdir",
		Short: "Create a directory",
		Params: []registry.Parameter{
			{Name: "path", Type: value.Simple(value.KindFile)},
		},
		Output:   registry.Unknown(),
		CanBlock: false,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			p, _ := ctx.Arg("path")
			if _, err := fileops.CreateDir(p.AsString()); err != nil {
				return crusherrors.NewIOError("mkdir: %v", err)
			}
			return ctx.Output.Value.Close()
		},
	}
}

func rmCommand() *registry.Command {
	return &registry.Command{
		Name_: "rm",
		Short: "Delete a file",
		Params: []registry.Parameter{
			{Name: "path", Type: value.Simple(value.KindFile)},
		},
		Output:   registry.Unknown(),
		CanBlock: false,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			p, _ := ctx.Arg("path")
			if _, err := fileops.DeleteFile(p.AsString()); err != nil {
				return crusherrors.NewIOError("rm: %v", err)
			}
			return ctx.Output.Value.Close()
		},
	}
}

func cpCommand() *registry.Command {
	return &registry.Command{
		Name_: "cp",
		Short: "Copy a file",
		Params: []registry.Parameter{
			{Name: "src", Type: value.Simple(value.KindFile)},
			{Name: "dst", Type: value.Simple(value.KindFile)},
		},
		Output:   registry.Unknown(),
		CanBlock: false,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			src, _ := ctx.Arg("src")
			dst, _ := ctx.Arg("dst")
			if _, err := fileops.CopyFile(src.AsString(), dst.AsString()); err != nil {
				return crusherrors.NewIOError("cp: %v", err)
			}
			return ctx.Output.Value.Close()
		},
	}
}

// glob expands its pattern argument into a table of matching paths.
func globCommand() *registry.Command {
	return &registry.Command{
		Name_: "glob",
		Short: "Expand a glob pattern",
		Params: []registry.Parameter{
			{Name: "pattern"},
		},
		Output:   registry.Known(value.TableType([]value.ColumnType{{Name: "path", Type: value.Simple(value.KindFile)}})),
		CanBlock: false,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			p, _ := ctx.Arg("pattern")
			matches, err := filepath.Glob(p.AsString())
			if err != nil {
				return crusherrors.NewInvalidData("glob: %v", err)
			}
			for _, m := range matches {
				if err := ctx.Output.Table.Send(value.NewRow(value.File(m))); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
