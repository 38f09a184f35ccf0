package selection

import (
	"testing"

	"github.com/jonathan/portfolio/internal/scrolllock"
	"github.com/jonathan/portfolio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelection_LastSelectWins(t *testing.T) {
	s := New[types.Certificate]()

	s.Select(types.Certificate{ID: 1})
	s.Select(types.Certificate{ID: 2})
	s.Select(types.Certificate{ID: 3})

	got, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, 3, got.ID)
}

func TestSelection_ClearEmpties(t *testing.T) {
	s := New[types.Project]()
	s.Select(types.Project{ID: 7})

	s.Clear()

	_, ok := s.Current()
	assert.False(t, ok)
	assert.False(t, s.Open())
}

func TestSelection_HoldsScrollLockWhileOpen(t *testing.T) {
	lock := scrolllock.New()
	s := New(WithScrollLock[types.Project](lock, "modal:project"))

	s.Select(types.Project{ID: 1})
	s.Select(types.Project{ID: 2})
	assert.True(t, lock.Locked())

	s.Clear()
	assert.False(t, lock.Locked())

	// Clearing an already-closed view must not release someone else's lock.
	lock.Acquire("intro")
	s.Clear()
	assert.True(t, lock.Locked())
}

func TestSelection_OnChange(t *testing.T) {
	var seen []int
	s := New(WithOnChange(func(cur *types.Project) {
		if cur == nil {
			seen = append(seen, 0)
			return
		}
		seen = append(seen, cur.ID)
	}))

	s.Select(types.Project{ID: 4})
	s.Select(types.Project{ID: 5})
	s.Clear()
	s.Clear()

	assert.Equal(t, []int{4, 5, 0}, seen)
}

func TestSelectByID(t *testing.T) {
	items := []types.Project{{ID: 1, Title: "one"}, {ID: 2, Title: "two"}}
	s := New[types.Project]()
	idOf := func(p types.Project) int { return p.ID }

	require.True(t, SelectByID(s, items, 2, idOf))
	got, _ := s.Current()
	assert.Equal(t, "two", got.Title)

	assert.False(t, SelectByID(s, items, 99, idOf))
	got, _ = s.Current()
	assert.Equal(t, "two", got.Title)
}
