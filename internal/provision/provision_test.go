package provision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []string
}

func (r *recorder) step(name string, applyErr, rollbackErr error) Step {
	return Step{
		Name: name,
		Apply: func(context.Context) error {
			r.calls = append(r.calls, "apply:"+name)
			return applyErr
		},
		Rollback: func(context.Context) error {
			r.calls = append(r.calls, "rollback:"+name)
			return rollbackErr
		},
	}
}

func TestRun_AllStepsSucceed(t *testing.T) {
	r := &recorder{}
	err := Run(context.Background(), "test", r.step("a", nil, nil), r.step("b", nil, nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"apply:a", "apply:b"}, r.calls)
}

func TestRun_RollsBackAppliedStepsInReverse(t *testing.T) {
	r := &recorder{}
	boom := errors.New("boom")

	err := Run(context.Background(), "test",
		r.step("a", nil, nil),
		r.step("b", nil, nil),
		r.step("c", boom, nil),
		r.step("d", nil, nil),
	)

	require.ErrorIs(t, err, boom)
	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "c", failure.Step)
	assert.Equal(t, []string{"b", "a"}, failure.RolledBack)
	assert.Equal(t, []string{"apply:a", "apply:b", "apply:c", "rollback:b", "rollback:a"}, r.calls)
}

func TestRun_RollbackErrorsAreSwallowed(t *testing.T) {
	r := &recorder{}
	boom := errors.New("boom")

	err := Run(context.Background(), "test",
		r.step("a", nil, nil),
		r.step("b", nil, errors.New("cleanup failed")),
		r.step("c", boom, nil),
	)

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a"}, failure.RolledBack)
}

func TestRun_RollbackIgnoresCancelledRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var rollbackCtxErr error = errors.New("not called")

	err := Run(ctx, "test",
		Step{
			Name:  "create",
			Apply: func(context.Context) error { return nil },
			Rollback: func(rctx context.Context) error {
				rollbackCtxErr = rctx.Err()
				return nil
			},
		},
		Step{
			Name: "claims",
			Apply: func(context.Context) error {
				cancel()
				return context.Canceled
			},
		},
	)

	require.Error(t, err)
	assert.NoError(t, rollbackCtxErr)
}

func TestRun_FirstStepFailureHasNothingToUndo(t *testing.T) {
	r := &recorder{}
	err := Run(context.Background(), "test", r.step("a", errors.New("taken"), nil))

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Empty(t, failure.RolledBack)
	assert.Equal(t, []string{"apply:a"}, r.calls)
}
