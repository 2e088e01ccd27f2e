package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbot/core/telegram/state"
)

const operator = int64(42)

func newEngine() *Engine {
	return New(ProductFlow, state.NewMemoryManager())
}

func TestWalkThroughAllSteps(t *testing.T) {
	e := newEngine()

	step := e.Start(operator)
	assert.Equal(t, StateProductName, step.State)
	assert.True(t, e.Active(operator))

	answers := map[string]string{
		FieldName:        "Pizza",
		FieldDescription: "hot",
		FieldCategory:    "1",
		FieldPrice:       "500",
		FieldQuantity:    "3",
		FieldImage:       "file-1",
	}

	for i := range ProductFlow.Steps {
		cur, ok := e.Current(operator)
		require.True(t, ok)
		e.SetValue(operator, cur.Field, answers[cur.Field])

		next, done := e.Advance(operator)
		if i == len(ProductFlow.Steps)-1 {
			assert.True(t, done)
		} else {
			require.False(t, done)
			assert.Equal(t, ProductFlow.Steps[i+1].State, next.State)
		}
	}

	assert.Equal(t, answers, e.Values(operator))

	e.Finish(operator)
	assert.False(t, e.Active(operator))
	assert.Empty(t, e.Values(operator))
}

func TestBackFromFirstStepStaysPut(t *testing.T) {
	e := newEngine()
	e.Start(operator)

	step, moved := e.Back(operator)
	assert.False(t, moved)
	assert.Equal(t, StateProductName, step.State)

	cur, ok := e.Current(operator)
	require.True(t, ok)
	assert.Equal(t, StateProductName, cur.State)
}

func TestBackReturnsToPreviousStep(t *testing.T) {
	e := newEngine()
	e.Start(operator)
	e.SetValue(operator, FieldName, "Pizza")
	e.Advance(operator)
	e.SetValue(operator, FieldDescription, "hot")
	e.Advance(operator)

	step, moved := e.Back(operator)
	assert.True(t, moved)
	assert.Equal(t, StateProductDescription, step.State)

	// the earlier answer survives until re-entered
	v, ok := e.Value(operator, FieldName)
	require.True(t, ok)
	assert.Equal(t, "Pizza", v)
}

func TestResolveKeepCurrent(t *testing.T) {
	e := newEngine()

	// without a target the sentinel is rejected
	e.Start(operator)
	_, err := e.Resolve(operator, FieldName, KeepCurrent)
	assert.ErrorIs(t, err, ErrNoDefault)

	// with a target it yields the stored value
	e.SetTarget(operator, 7, map[string]string{FieldName: "Old name", FieldPrice: "100"})
	e.Start(operator)

	got, err := e.Resolve(operator, FieldName, KeepCurrent)
	require.NoError(t, err)
	assert.Equal(t, "Old name", got)

	// ordinary input passes through
	got, err = e.Resolve(operator, FieldName, "New name")
	require.NoError(t, err)
	assert.Equal(t, "New name", got)

	id, ok := e.Target(operator)
	require.True(t, ok)
	assert.EqualValues(t, 7, id)
}

func TestStartKeepsTargetDropsStaleAnswers(t *testing.T) {
	e := newEngine()
	e.Start(operator)
	e.SetValue(operator, FieldName, "stale")
	e.SetTarget(operator, 7, map[string]string{FieldName: "Old name"})

	e.Start(operator)

	_, ok := e.Value(operator, FieldName)
	assert.False(t, ok, "stale answer must be dropped")
	_, ok = e.Target(operator)
	assert.True(t, ok, "edit target must survive a restart")
}

func TestCancelClearsEverything(t *testing.T) {
	e := newEngine()
	e.SetTarget(operator, 7, map[string]string{FieldName: "Old name"})
	e.Start(operator)
	e.SetValue(operator, FieldName, "Pizza")

	e.Cancel(operator)

	assert.False(t, e.Active(operator))
	_, ok := e.Value(operator, FieldName)
	assert.False(t, ok)
	_, ok = e.Target(operator)
	assert.False(t, ok)
	_, ok = e.TargetDefault(operator, FieldName)
	assert.False(t, ok)
}

func TestBannerFlowSingleStep(t *testing.T) {
	e := New(BannerFlow, state.NewMemoryManager())

	step := e.Start(operator)
	assert.Equal(t, StateBannerImage, step.State)

	_, done := e.Advance(operator)
	assert.True(t, done)
}
