package builtins

import (
	"github.com/phillarmonic/crush/internal/cmdctx"
	"github.com/phillarmonic/crush/internal/crusherrors"
	"github.com/phillarmonic/crush/internal/registry"
	"github.com/phillarmonic/crush/internal/secrets"
	"github.com/phillarmonic/crush/internal/value"
)

// secretManager is created lazily and shared across invocations within a
// process: opening a platform keychain handle is not free, and the
// manager itself is already safe for concurrent use (its Backend
// implementations serialize their own access).
var secretManager secrets.Manager

func getSecretManager() (secrets.Manager, error) {
	if secretManager != nil {
		return secretManager, nil
	}
	m, err := secrets.NewManager(secrets.WithFallback())
	if err != nil {
		return nil, err
	}
	secretManager = m
	return m, nil
}

func registerSecret(reg *registry.Registry) {
	reg.Register(secretGetCommand())
	reg.Register(secretSetCommand())
	reg.Register(secretDeleteCommand())
}

func secretGetCommand() *registry.Command {
	return &registry.Command{
		Name_: "secret.get",
		Short: "Retrieve a stored secret",
		Params: []registry.Parameter{
			{Name: "namespace"},
			{Name: "key"},
		},
		Output:   registry.Known(value.Simple(value.KindString)),
		CanBlock: true,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			ns, _ := ctx.Arg("namespace")
			key, _ := ctx.Arg("key")
			m, err := getSecretManager()
			if err != nil {
				return crusherrors.NewIOError("secret.get: %v", err)
			}
			v, err := m.Get(ns.AsString(), key.AsString())
			if err != nil {
				return crusherrors.NewIOError("secret.get: %v", err)
			}
			return ctx.Output.Value.Send(value.String(v))
		},
	}
}

func secretSetCommand() *registry.Command {
	return &registry.Command{
		Name_: "secret.set",
		Short: "Store a secret",
		Params: []registry.Parameter{
			{Name: "namespace"},
			{Name: "key"},
			{Name: "value"},
		},
		Output:   registry.Unknown(),
		CanBlock: true,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			ns, _ := ctx.Arg("namespace")
			key, _ := ctx.Arg("key")
			val, _ := ctx.Arg("value")
			m, err := getSecretManager()
			if err != nil {
				return crusherrors.NewIOError("secret.set: %v", err)
			}
			if err := m.Set(ns.AsString(), key.AsString(), val.AsString()); err != nil {
				return crusherrors.NewIOError("secret.set: %v", err)
			}
			return ctx.Output.Value.Close()
		},
	}
}

func secretDeleteCommand() *registry.Command {
	return &registry.Command{
		Name_: "secret.delete",
		Short: "Delete a stored secret",
		Params: []registry.Parameter{
			{Name: "namespace"},
			{Name: "key"},
		},
		Output:   registry.Unknown(),
		CanBlock: true,
		Invoke: func(ctx *cmdctx.CommandContext) error {
			ns, _ := ctx.Arg("namespace")
			key, _ := ctx.Arg("key")
			m, err := getSecretManager()
			if err != nil {
				return crusherrors.NewIOError("secret.delete: %v", err)
			}
			if err := m.Delete(ns.AsString(), key.AsString()); err != nil {
				return crusherrors.NewIOError("secret.delete: %v", err)
			}
			return ctx.Output.Value.Close()
		},
	}
}
