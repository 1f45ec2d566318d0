package purge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeleter struct {
	deleted []string
	failOn  string
}

func (f *fakeDeleter) DeleteEntry(ctx context.Context, id string) error {
	if id == f.failOn {
		return errors.New("store unavailable")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func armed(t *testing.T, ids []string, pick ...string) *Machine {
	t.Helper()
	m := NewMachine(ids)
	for _, id := range pick {
		require.NoError(t, m.Toggle(id))
	}
	require.NoError(t, m.Initiate())
	require.NoError(t, m.ConfirmMethod())
	require.NoError(t, m.SubmitToken("purge"))
	require.NoError(t, m.SetEpitaph("goodbye"))
	require.NoError(t, m.Ignite())
	return m
}

func TestInitiate_NothingSelected(t *testing.T) {
	m := NewMachine([]string{"a", "b"})
	assert.ErrorIs(t, m.Initiate(), ErrNothingSelected)
	assert.Equal(t, PhaseSelect, m.Phase())
}

func TestToggle(t *testing.T) {
	m := NewMachine([]string{"a", "b"})
	require.NoError(t, m.Toggle("b"))
	require.NoError(t, m.Toggle("a"))
	assert.Equal(t, []string{"a", "b"}, m.Selected())
	require.NoError(t, m.Toggle("a"))
	assert.Equal(t, []string{"b"}, m.Selected())
	assert.Error(t, m.Toggle("zzz"))
}

func TestSubmitToken(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"PURGE", true},
		{"purge", true},
		{"PuRgE", true},
		{" PURGE", false},
		{"PURGED", false},
		{"", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			m := NewMachine([]string{"a"})
			require.NoError(t, m.Toggle("a"))
			require.NoError(t, m.Initiate())
			require.NoError(t, m.ConfirmMethod())
			err := m.SubmitToken(tc.in)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, PhaseLastWords, m.Phase())
			} else {
				assert.ErrorIs(t, err, ErrTokenMismatch)
				assert.Equal(t, PhaseTyping, m.Phase())
			}
		})
	}
}

func TestDefaultMethodIsFirst(t *testing.T) {
	m := NewMachine([]string{"a"})
	assert.Equal(t, Incinerate, m.Method())
	require.NoError(t, m.SetMethod(Dissolve))
	assert.Equal(t, Dissolve, m.Method())
}

func TestPurgeDrainsSelection(t *testing.T) {
	m := armed(t, []string{"a", "b", "c", "d"}, "b", "d", "a")
	assert.Equal(t, PhasePurging, m.Phase())
	assert.Equal(t, "a", m.Current())

	d := &fakeDeleter{}
	ctx := context.Background()

	res, err := m.AnimationDone(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, Result{Deleted: "a", Next: "b"}, res)

	res, err = m.AnimationDone(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, "d", res.Next)

	res, err = m.AnimationDone(ctx, d)
	require.NoError(t, err)
	assert.True(t, res.Finished)

	assert.Equal(t, []string{"a", "b", "d"}, d.deleted)
	assert.Equal(t, PhaseSelect, m.Phase())
	assert.Empty(t, m.Selected())
	assert.Empty(t, m.Epitaph())
	assert.Empty(t, m.Current())
	assert.Equal(t, []string{"c"}, m.Entries())
}

func TestPurgeFailureAbortsQueue(t *testing.T) {
	m := armed(t, []string{"a", "b", "c"}, "a", "b", "c")
	d := &fakeDeleter{failOn: "b"}
	ctx := context.Background()

	_, err := m.AnimationDone(ctx, d)
	require.NoError(t, err)

	_, err = m.AnimationDone(ctx, d)
	require.Error(t, err)
	assert.Equal(t, PhaseSelect, m.Phase())
	assert.Equal(t, []string{"a"}, d.deleted)
	assert.Equal(t, []string{"b", "c"}, m.Entries())

	_, err = m.AnimationDone(ctx, d)
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestCancel(t *testing.T) {
	m := NewMachine([]string{"a"})
	assert.ErrorIs(t, m.Cancel(), ErrWrongPhase)

	require.NoError(t, m.Toggle("a"))
	require.NoError(t, m.Initiate())
	require.NoError(t, m.ConfirmMethod())
	require.NoError(t, m.Cancel())

	assert.Equal(t, PhaseSelect, m.Phase())
	assert.Equal(t, []string{"a"}, m.Selected())
}

func TestSetEntriesDropsStaleSelection(t *testing.T) {
	m := NewMachine([]string{"a", "b"})
	require.NoError(t, m.Toggle("a"))
	require.NoError(t, m.Toggle("b"))
	m.SetEntries([]string{"b", "c"})
	assert.Equal(t, []string{"b"}, m.Selected())
}
