package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-erp-dashboard/components/dashboard/commands"
)

// Executor runs the write side of the dashboard for transports.
type Executor interface {
	ApplyFilter(ctx context.Context, input commands.ApplyFilterInput) error
	ResetFilter(ctx context.Context, input commands.ResetFilterInput) error
	Assign(ctx context.Context, input commands.AssignWidgetInput) error
	Remove(ctx context.Context, input commands.RemoveWidgetInput) error
	Move(ctx context.Context, input commands.MoveWidgetInput) error
	Refresh(ctx context.Context, input commands.RefreshWidgetInput) error
}

// CommandExecutor adapts go-command commanders to the Executor interface.
// A nil commander makes its operation fail with ErrUnsupported.
type CommandExecutor struct {
	ApplyFilterCommander gocommand.Commander[commands.ApplyFilterInput]
	ResetFilterCommander gocommand.Commander[commands.ResetFilterInput]
	AssignCommander      gocommand.Commander[commands.AssignWidgetInput]
	RemoveCommander      gocommand.Commander[commands.RemoveWidgetInput]
	MoveCommander        gocommand.Commander[commands.MoveWidgetInput]
	RefreshCommander     gocommand.Commander[commands.RefreshWidgetInput]
}

// ErrUnsupported is returned for operations the executor was not wired with.
var ErrUnsupported = errors.New("httpapi: operation not supported")

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) ApplyFilter(ctx context.Context, input commands.ApplyFilterInput) error {
	return run(ctx, e.ApplyFilterCommander, input)
}

func (e *CommandExecutor) ResetFilter(ctx context.Context, input commands.ResetFilterInput) error {
	return run(ctx, e.ResetFilterCommander, input)
}

func (e *CommandExecutor) Assign(ctx context.Context, input commands.AssignWidgetInput) error {
	return run(ctx, e.AssignCommander, input)
}

func (e *CommandExecutor) Remove(ctx context.Context, input commands.RemoveWidgetInput) error {
	return run(ctx, e.RemoveCommander, input)
}

func (e *CommandExecutor) Move(ctx context.Context, input commands.MoveWidgetInput) error {
	return run(ctx, e.MoveCommander, input)
}

func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshWidgetInput) error {
	return run(ctx, e.RefreshCommander, input)
}

func run[T any](ctx context.Context, cmd gocommand.Commander[T], msg T) error {
	if cmd == nil {
		return ErrUnsupported
	}
	return cmd.Execute(ctx, msg)
}
