package collab

import (
	"context"
	"errors"
	"fmt"

	"github.com/BaSui01/conclave/types"
)

// 运行级错误统一走 types.Error，错误种类由 Code 显式携带，
// 不做字符串比较。

func errDeadline() *types.Error {
	return types.NewError(types.ErrDeadlineExceeded, "run deadline exceeded")
}

func errBudget() *types.Error {
	return types.NewError(types.ErrBudgetExceeded, "run budget exhausted")
}

func errAllFailed(phase string) *types.Error {
	return types.NewError(types.ErrAllAgentsFailed,
		fmt.Sprintf("all agents failed in phase %s", phase))
}

func errTooFewAgents(mode Mode, have int) *types.Error {
	return types.NewError(types.ErrNoAgentsAvailable,
		fmt.Sprintf("mode %s requires at least %d agents, %d available", mode, mode.MinAgents(), have))
}

func errAgentCall(agent string, cause error) *types.Error {
	return types.NewError(types.ErrAgentCall, "agent call failed").
		WithProvider(agent).
		WithCause(cause).
		WithRetryable(true)
}

// isFatal reports whether err must abort the whole run rather than a
// single agent call. Deadline and budget errors propagate; everything
// else is recovered locally as an error artifact.
func isFatal(err error) bool {
	switch types.GetErrorCode(err) {
	case types.ErrDeadlineExceeded, types.ErrBudgetExceeded:
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// normalizeFatal 把 context 错误归一化为引擎错误码。
func normalizeFatal(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errDeadline().WithCause(err)
	}
	return err
}
