package nibel

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/nibel/pkg/errors"
	nibeltest "github.com/go-drift/nibel/pkg/testing"
)

type harness struct {
	rt        *Runtime
	ctrl      *Controller
	fragments *fakeFragments
	graph     *fakeGraph
	back      *backCounter
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		rt:        configured(t, opts...),
		fragments: &fakeFragments{},
		graph:     newFakeGraph(),
		back:      &backCounter{},
	}
	ctrl, err := NewController(h.rt, Host{Fragments: h.fragments, Graph: h.graph, Back: h.back})
	require.NoError(t, err)
	keys := 0
	ctrl.newKey = func() string {
		keys++
		return fmt.Sprintf("key-%d", keys)
	}
	h.ctrl = ctrl
	return h
}

func (h *harness) pending(t *testing.T) int {
	t.Helper()
	reg, err := h.rt.Results()
	require.NoError(t, err)
	return reg.Len()
}

func TestNavigateToTransactionEntry(t *testing.T) {
	h := newHarness(t)
	frag := &settingsFragment{}

	require.NoError(t, h.ctrl.NavigateTo(NewTransactionEntry(frag)))

	require.Len(t, h.fragments.committed, 1)
	tx := h.fragments.committed[0]
	assert.Equal(t, []fakeOp{{"replace", DefaultContainerID, frag}}, tx.ops)
	assert.True(t, tx.backStack)
	assert.Empty(t, h.graph.navigated)
	assert.Equal(t, StateIdle, h.ctrl.State())
}

func TestNavigateToTransactionEntryWithSpecOverride(t *testing.T) {
	h := newHarness(t)
	frag := &settingsFragment{}

	spec := FragmentTransactionSpec{ContainerID: "sheet"}
	require.NoError(t, h.ctrl.NavigateTo(NewTransactionEntry(frag), WithTransaction(spec)))

	tx := h.fragments.committed[0]
	assert.Equal(t, []fakeOp{{"add", "sheet", frag}}, tx.ops)
	assert.False(t, tx.backStack)
}

func TestNavigateToComposableRegistersNodeOnce(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.NavigateTo(newHomeScreenEntry()))
	require.NoError(t, h.ctrl.NavigateTo(newHomeScreenEntry()))

	name := "com.example.generated.HomeScreenEntry"
	assert.Equal(t, 1, h.graph.registrations[name])
	assert.Equal(t, []string{name, name}, h.graph.navigated)
	assert.Equal(t, []string{name}, h.ctrl.Host().Explored.Names())
	assert.Empty(t, h.fragments.committed)
}

func TestNavigateToComposableWithArgs(t *testing.T) {
	h := newHarness(t)
	entry := newProfileScreenEntry(profileArgs{ID: 7, Tab: "posts"})

	require.NoError(t, h.ctrl.NavigateTo(entry))
	require.NoError(t, h.ctrl.NavigateTo(newProfileScreenEntry(profileArgs{ID: 7, Tab: "posts"})))

	encoded, err := JSONSerializer{}.Serialize(profileArgs{ID: 7, Tab: "posts"})
	require.NoError(t, err)
	pattern := entry.Name() + "/{nibel_args}"
	assert.Equal(t, 1, h.graph.registrations[pattern])
	assert.Equal(t, entry.Name()+"/"+encoded, h.graph.navigated[0])
	assert.Len(t, h.graph.navigated, 2)
}

func TestNavigateToDestination(t *testing.T) {
	factory := ComposableFactory(func(d ProfileDestination) *profileScreenEntry {
		return newProfileScreenEntry(d.Args)
	})
	h := newHarness(t, WithDestination(ProfileDestination{}, factory))

	require.NoError(t, h.ctrl.NavigateToDestination(ProfileDestination{WithArgs(profileArgs{ID: 1})}))
	assert.Len(t, h.graph.navigated, 1)
}

func TestNavigateToUnknownDestinationFails(t *testing.T) {
	h := newHarness(t, WithLocator(StaticLocator{Table: NewProviderTable()}))
	err := h.ctrl.NavigateToDestination(D{})
	require.ErrorIs(t, err, errors.ErrNotAssociated)
	assert.Contains(t, err.Error(), "D is not associated")
}

func TestResultRoundTrip(t *testing.T) {
	h := newHarness(t)
	rec := nibeltest.NewResultRecorder()
	entry := newProfileScreenEntry(profileArgs{ID: 1})

	require.NoError(t, h.ctrl.NavigateForResult(entry, rec.Callback()))
	assert.Equal(t, "key-1", entry.RequestKey())
	assert.Equal(t, StateAwaitingResult, h.ctrl.State())
	assert.Equal(t, 1, h.pending(t))

	require.NoError(t, h.ctrl.SetResultAndNavigateBack(profileResult{Name: "ada"}))
	assert.Equal(t, []any{profileResult{Name: "ada"}}, rec.Results())
	assert.Equal(t, 1, h.back.n)
	assert.Equal(t, StateIdle, h.ctrl.State())
	assert.Zero(t, h.pending(t))

	err := h.ctrl.SetResultAndNavigateBack(profileResult{Name: "again"})
	require.ErrorIs(t, err, errors.ErrNoPendingResult)
	assert.Equal(t, 1, rec.Calls())
}

func TestCancelResult(t *testing.T) {
	h := newHarness(t)
	rec := nibeltest.NewResultRecorder()

	require.NoError(t, h.ctrl.NavigateForResult(newProfileScreenEntry(profileArgs{}), rec.Callback()))
	h.ctrl.CancelResultAndNavigateBack()
	h.ctrl.CancelResultAndNavigateBack()

	assert.Equal(t, []any{nil}, rec.Results())
	assert.Equal(t, 2, h.back.n, "cancel always navigates back")
}

func TestSetResultWithoutPendingRequest(t *testing.T) {
	h := newHarness(t)
	err := h.ctrl.SetResultAndNavigateBack("x")
	require.ErrorIs(t, err, errors.ErrNoPendingResult)
	assert.Equal(t, errors.KindProtocol, errors.KindOf(err))
	assert.Zero(t, h.back.n)
}

func TestSetResultWrongType(t *testing.T) {
	h := newHarness(t)
	rec := nibeltest.NewResultRecorder()
	require.NoError(t, h.ctrl.NavigateForResult(newProfileScreenEntry(profileArgs{}), rec.Callback()))

	err := h.ctrl.SetResultAndNavigateBack("not a profile result")
	require.ErrorIs(t, err, errors.ErrResultType)
	assert.Zero(t, rec.Calls())
	assert.Equal(t, StateAwaitingResult, h.ctrl.State(), "a rejected result keeps the request pending")
}

func TestNavigationFailureDropsCallback(t *testing.T) {
	h := newHarness(t)
	h.graph.navigateErr = stderrors.New("graph offline")
	rec := nibeltest.NewResultRecorder()
	entry := newProfileScreenEntry(profileArgs{})

	err := h.ctrl.NavigateForResult(entry, rec.Callback())
	require.Error(t, err)
	assert.Equal(t, errors.KindBackend, errors.KindOf(err))

	reg, _ := h.rt.Results()
	assert.False(t, reg.Has("key-1"))
	assert.Zero(t, reg.Len())
	assert.Empty(t, entry.RequestKey())
	assert.Equal(t, StateIdle, h.ctrl.State())
	assert.Zero(t, rec.Calls())
}

func TestNavigationFailureRestoresPreviousRequest(t *testing.T) {
	h := newHarness(t)
	first := nibeltest.NewResultRecorder()
	require.NoError(t, h.ctrl.NavigateForResult(newHomeScreenEntry(), first.Callback()))

	h.fragments.err = stderrors.New("commit refused")
	err := h.ctrl.NavigateForResult(NewTransactionEntry(&pickerFragment{}), func(any) {})
	require.Error(t, err)
	assert.Equal(t, "key-1", h.ctrl.RequestKey())

	require.NoError(t, h.ctrl.SetResultAndNavigateBack("done"))
	assert.Equal(t, []any{"done"}, first.Results())
}

func TestNavigateForResultAttachesKeyToFragment(t *testing.T) {
	h := newHarness(t)
	frag := &pickerFragment{}
	frag.SetArguments(Arguments{Args: profileArgs{ID: 3}})

	require.NoError(t, h.ctrl.NavigateForResult(NewTransactionEntry(frag), nil))
	assert.Equal(t, Arguments{Args: profileArgs{ID: 3}, RequestKey: "key-1"}, frag.Arguments())
}

func TestNavigateBackDoesNotResolve(t *testing.T) {
	h := newHarness(t)
	rec := nibeltest.NewResultRecorder()
	require.NoError(t, h.ctrl.NavigateForResult(newHomeScreenEntry(), rec.Callback()))

	h.ctrl.NavigateBack()
	assert.Equal(t, 1, h.back.n)
	assert.Zero(t, rec.Calls())
	assert.Equal(t, 1, h.pending(t))
}

func TestTypedNavigateForResult(t *testing.T) {
	h := newHarness(t)
	var got profileResult
	var calls int

	err := NavigateForResult(h.ctrl, newProfileScreenEntry(profileArgs{}), func(r profileResult, ok bool) {
		calls++
		if ok {
			got = r
		}
	})
	require.NoError(t, err)
	require.NoError(t, h.ctrl.SetResultAndNavigateBack(profileResult{Name: "grace"}))
	assert.Equal(t, profileResult{Name: "grace"}, got)
	assert.Equal(t, 1, calls)

	err = NavigateForResult(h.ctrl, newProfileScreenEntry(profileArgs{}), func(string, bool) {})
	require.ErrorIs(t, err, errors.ErrResultType)
}

func TestTypedNavigateToDestinationForResultCancelled(t *testing.T) {
	factory := TransactionFactory(func(SettingsDestination) TransactionEntry {
		return NewTransactionEntry(&pickerFragment{})
	})
	h := newHarness(t, WithDestination(SettingsDestination{}, factory))

	var ok = true
	require.NoError(t, NavigateToDestinationForResult(h.ctrl, SettingsDestination{}, func(_ profileResult, delivered bool) {
		ok = delivered
	}))
	h.ctrl.CancelResultAndNavigateBack()
	assert.False(t, ok)
}

func TestSetRequestKeySeedsPendingState(t *testing.T) {
	h := newHarness(t)
	reg, _ := h.rt.Results()
	rec := nibeltest.NewResultRecorder()
	reg.Store("from-fragment", rec.Callback())

	h.ctrl.SetRequestKey("from-fragment")
	assert.Equal(t, StateAwaitingResult, h.ctrl.State())
	require.NoError(t, h.ctrl.SetResultAndNavigateBack(42))
	assert.Equal(t, []any{42}, rec.Results())

	h.ctrl.SetRequestKey("x")
	h.ctrl.SetRequestKey("")
	assert.Equal(t, StateIdle, h.ctrl.State())
}

func TestControllerStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "navigating", StateNavigating.String())
	assert.Equal(t, "awaiting-result", StateAwaitingResult.String())
}
