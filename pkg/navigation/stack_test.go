package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/nibel/pkg/nibel"
)

func TestFragmentStackReplaceAndPop(t *testing.T) {
	log := &eventLog{}
	s := NewFragmentStack(log.observer())
	home := newScreenFragment("home")
	detail := newScreenFragment("detail")

	require.NoError(t, s.BeginTransaction().Replace("content", home).Commit())
	require.NoError(t, s.BeginTransaction().Replace("content", detail).AddToBackStack("detail").Commit())

	top, ok := s.Top("content")
	require.True(t, ok)
	assert.Same(t, detail, top)
	assert.Equal(t, 1, s.BackStackDepth())

	require.True(t, s.PopBackStack())
	top, _ = s.Top("content")
	assert.Same(t, home, top)
	assert.False(t, s.PopBackStack())

	assert.Equal(t, []string{
		"push home over <nil>",
		"replace home with detail",
		"pop detail to home",
	}, log.events)
}

func TestFragmentStackAdd(t *testing.T) {
	s := NewFragmentStack()
	a, b := newScreenFragment("a"), newScreenFragment("b")
	require.NoError(t, s.BeginTransaction().Add("c", a).Commit())
	require.NoError(t, s.BeginTransaction().Add("c", b).AddToBackStack("").Commit())
	assert.Equal(t, []nibel.Fragment{a, b}, s.Fragments("c"))

	require.True(t, s.PopBackStack())
	assert.Equal(t, []nibel.Fragment{a}, s.Fragments("c"))
}

func TestFragmentStackWithoutBackStackIsNotRevertible(t *testing.T) {
	s := NewFragmentStack()
	require.NoError(t, s.BeginTransaction().Replace("c", newScreenFragment("a")).Commit())
	assert.False(t, s.CanPop())
	assert.False(t, s.PopBackStack())
	_, ok := s.Top("other")
	assert.False(t, ok)
}

func TestFragmentTransactionCommitTwice(t *testing.T) {
	s := NewFragmentStack()
	tx := s.BeginTransaction().Replace("c", newScreenFragment("a"))
	require.NoError(t, tx.Commit())
	assert.Error(t, tx.Commit())
	assert.Len(t, s.Fragments("c"), 1)
}

func TestFragmentTransactionRejectsNilFragment(t *testing.T) {
	s := NewFragmentStack()
	err := s.BeginTransaction().Replace("c", nil).Commit()
	assert.Error(t, err)
	assert.Empty(t, s.Fragments("c"))
}

func TestFragmentStackServesTransactionSpec(t *testing.T) {
	s := NewFragmentStack()
	f := newScreenFragment("settings")
	entry := nibel.NewTransactionEntry(f)

	err := nibel.DefaultTransactionSpec().NavigateTransaction(nibel.TransactionContext{Fragments: s}, entry)
	require.NoError(t, err)
	top, ok := s.Top(nibel.DefaultContainerID)
	require.True(t, ok)
	assert.Same(t, f, top)
	assert.Equal(t, 1, s.BackStackDepth())
}
