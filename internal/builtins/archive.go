package builtins

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/mholt/archives"

	"github.com/phillarmonic/crush/internal/cmdctx"
	"github.com/phillarmonic/crush/internal/crusherrors"
	"github.com/phillarmonic/crush/internal/registry"
	"github.com/phillarmonic/crush/internal/value"
)

func registerArchive(reg *registry.Registry) {
	reg.Register(unpackCommand())
}

// unpack extracts an archive to a destination directory, grounded on the
// teacher's internal/engine/helpers_download.go archive-extraction flow
// (identify format, assert Extractor, walk entries) stripped of its
// download-progress reporting.
func unpackCommand() *registry.Command {
	return &registry.Command{
		Name_: "unpack",
		Short: "Extract an archive",
		Params: []registry.Parameter{
			{Name: "archive", Type: value.Simple(value.KindFile)},
			{Name: "to", Type: value.Simple(value.KindFile)},
		},
		Output:   registry.Unknown(),
		CanBlock: true,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			archiveV, _ := ctx.Arg("archive")
			toV, _ := ctx.Arg("to")
			archivePath := archiveV.AsString()
			extractTo := toV.AsString()

			f, err := os.Open(archivePath)
			if err != nil {
				return crusherrors.NewIOError("unpack: %v", err)
			}
			defer f.Close()

			ctxBg := context.Background()
			format, reader, err := archives.Identify(ctxBg, archivePath, f)
			if err != nil {
				return crusherrors.NewInvalidData("unpack: %v", err)
			}

			extractor, ok := format.(archives.Extractor)
			if !ok {
				return crusherrors.NewInvalidData("unpack: %s is not an archive format", archivePath)
			}

			if err := os.MkdirAll(extractTo, 0o755); err != nil {
				return crusherrors.NewIOError("unpack: %v", err)
			}

			handler := func(ctx context.Context, fi archives.FileInfo) error {
				outPath := filepath.Join(extractTo, fi.NameInArchive)
				if fi.IsDir() {
					return os.MkdirAll(outPath, 0o755)
				}
				if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
					return err
				}
				src, err := fi.Open()
				if err != nil {
					return err
				}
				defer src.Close()
				dst, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer dst.Close()
				_, err = io.Copy(dst, src)
				return err
			}

			if err := extractor.Extract(ctxBg, reader, handler); err != nil {
				return crusherrors.NewIOError("unpack: %v", err)
			}
			return ctx.Output.Value.Close()
		},
	}
}
