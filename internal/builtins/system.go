package builtins

import (
	"context"
	"os"
	"os/user"

	"github.com/phillarmonic/figlet/figletlib"

	"github.com/phillarmonic/crush/internal/cmdctx"
	"github.com/phillarmonic/crush/internal/crusherrors"
	httpclient "github.com/phillarmonic/crush/internal/http"
	"github.com/phillarmonic/crush/internal/registry"
	"github.com/phillarmonic/crush/internal/shell"
	"github.com/phillarmonic/crush/internal/value"
)

func registerSystem(reg *registry.Registry) {
	reg.Register(pwdCommand())
	reg.Register(envCommand())
	reg.Register(userListCommand())
	reg.Register(execCommand())
	reg.Register(httpGetCommand())
	reg.Register(bannerCommand())
}

func pwdCommand() *registry.Command {
	return &registry.Command{
		Name_:    "pwd",
		Short:    "Print the working directory",
		Output:   registry.Known(value.Simple(value.KindFile)),
		CanBlock: false,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			dir, err := os.Getwd()
			if err != nil {
				return crusherrors.NewIOError("pwd: %v", err)
			}
			return ctx.Output.Value.Send(value.File(dir))
		},
	}
}

func envCommand() *registry.Command {
	return &registry.Command{
		Name_: "env",
		Short: "Read an environment variable",
		Params: []registry.Parameter{
			{Name: "name"},
		},
		Output:   registry.Known(value.Simple(value.KindString)),
		CanBlock: false,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			name, _ := ctx.Arg("name")
			return ctx.Output.Value.Send(value.String(os.Getenv(name.AsString())))
		},
	}
}

var userColumns = []value.ColumnType{
	{Name: "username", Type: value.Simple(value.KindString)},
	{Name: "uid", Type: value.Simple(value.KindString)},
	{Name: "home", Type: value.Simple(value.KindFile)},
}

func userListCommand() *registry.Command {
	return &registry.Command{
		Name_:    "user.list",
		Short:    "List the current OS user",
		Output:   registry.Known(value.TableType(userColumns)),
		CanBlock: false,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			u, err := user.Current()
			if err != nil {
				return crusherrors.NewIOError("user.list: %v", err)
			}
			row := value.NewRow(value.String(u.Username), value.String(u.Uid), value.File(u.HomeDir))
			return ctx.Output.Table.Send(row)
		},
	}
}

// exec runs a subprocess and captures its standard output as a single
// string value. Grounded on the teacher's internal/shell.Execute, which
// already wraps os/exec with timeout, shell-selection and output
// capture — reused verbatim here rather than reimplemented.
func execCommand() *registry.Command {
	return &registry.Command{
		Name_: "exec",
		Short: "Run a shell command",
		Params: []registry.Parameter{
			{Name: "command"},
		},
		Output:   registry.Known(value.Simple(value.KindString)),
		CanBlock: true,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			cmdV, _ := ctx.Arg("command")
			result, err := shell.Execute(cmdV.AsString(), shell.DefaultOptions())
			if err != nil {
				return crusherrors.NewIOError("exec: %v", err)
			}
			return ctx.Output.Value.Send(value.String(result.Stdout))
		},
	}
}

// http.get fetches a URL and returns its body as a string. Grounded on
// the teacher's internal/http.Client, stripped of the model-keyed
// template layer (internal/http/template.go, which the teacher built
// against its task/project domain model) but keeping the client itself.
func httpGetCommand() *registry.Command {
	return &registry.Command{
		Name_: "http.get",
		Short: "Issue an HTTP GET request",
		Params: []registry.Parameter{
			{Name: "url"},
		},
		Output:   registry.Known(value.Simple(value.KindString)),
		CanBlock: true,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			urlV, _ := ctx.Arg("url")
			resp, err := httpclient.NewClient().GET(urlV.AsString()).Context(context.Background()).Send()
			if err != nil {
				return crusherrors.NewIOError("http.get: %v", err)
			}
			if !resp.IsSuccess() {
				return crusherrors.NewIOError("http.get: %s returned %d", urlV.AsString(), resp.StatusCode)
			}
			return ctx.Output.Value.Send(value.String(resp.String()))
		},
	}
}

// banner prints its argument as colored ASCII art, grounded on the
// teacher's cmd/drun/app/version.go ShowVersion, which uses the same
// figletlib loader/gradient pattern for its own startup banner.
func bannerCommand() *registry.Command {
	return &registry.Command{
		Name_: "banner",
		Short: "Print a string as ASCII art",
		Params: []registry.Parameter{
			{Name: "text"},
		},
		Output:   registry.Unknown(),
		CanBlock: false,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			text, _ := ctx.Arg("text")
			loader := figletlib.NewEmbededLoader()
			font, err := loader.GetFontByName("standard")
			if err != nil {
				return crusherrors.NewIOError("banner: %v", err)
			}
			startColor, _ := figletlib.ParseColor("#00FF95")
			endColor, _ := figletlib.ParseColor("#00C2FF")
			cfg := figletlib.ColorConfig{
				Mode:       figletlib.ColorModeGradient,
				StartColor: startColor,
				EndColor:   endColor,
			}
			figletlib.PrintColoredMsg(text.AsString(), font, 80, font.Settings(), "left", cfg)
			return ctx.Output.Value.Close()
		},
	}
}
