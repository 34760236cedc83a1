package builtins

import (
	"os"
	"path/filepath"

	"github.com/phillarmonic/crush/internal/cmdctx"
	"github.com/phillarmonic/crush/internal/crusherrors"
	"github.com/phillarmonic/crush/internal/history"
	"github.com/phillarmonic/crush/internal/registry"
	"github.com/phillarmonic/crush/internal/value"
)

var historyStore *history.History

func getHistoryStore() (*history.History, error) {
	if historyStore != nil {
		return historyStore, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	h, err := history.Open(filepath.Join(home, ".crush"))
	if err != nil {
		return nil, err
	}
	historyStore = h
	return h, nil
}

func registerHistory(reg *registry.Registry) {
	reg.Register(historyRecentCommand())
}

var historyColumns = []value.ColumnType{
	{Name: "line", Type: value.Simple(value.KindString)},
}

// history.recent lists the most recently executed job source lines.
func historyRecentCommand() *registry.Command {
	return &registry.Command{
		Name_: "history.recent",
		Short: "List recently executed jobs",
		Params: []registry.Parameter{
			{Name: "count", Type: value.Simple(value.KindInt), Optional: true},
		},
		Output:   registry.Known(value.TableType(historyColumns)),
		CanBlock: true,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			n := 20
			if cv, ok := ctx.Arg("count"); ok {
				n = int(cv.AsInt().Int64())
			}
			h, err := getHistoryStore()
			if err != nil {
				return crusherrors.NewIOError("history.recent: %v", err)
			}
			lines, err := h.Recent(n)
			if err != nil {
				return crusherrors.NewIOError("history.recent: %v", err)
			}
			for _, line := range lines {
				if err := ctx.Output.Table.Send(value.NewRow(value.String(line))); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
