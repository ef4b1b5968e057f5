package branch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gaerrors "github.com/mrz1836/gitassist/internal/errors"
)

func TestResolveBase(t *testing.T) {
	candidates := DefaultBaseCandidates()

	tests := []struct {
		name     string
		branches []string
		want     string
	}{
		{"develop preferred over main", []string{"main", "feature-a", "develop"}, "develop"},
		{"dev before main", []string{"master", "dev", "main"}, "dev"},
		{"main before master", []string{"master", "main"}, "main"},
		{"master last", []string{"feature-x", "master"}, "master"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveBase(tt.branches, candidates)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveBase_NoneFound(t *testing.T) {
	_, err := ResolveBase([]string{"feature-a", "trunk"}, DefaultBaseCandidates())
	require.ErrorIs(t, err, gaerrors.ErrNoBaseBranchFound)

	_, err = ResolveBase(nil, DefaultBaseCandidates())
	require.ErrorIs(t, err, gaerrors.ErrNoBaseBranchFound)
}

func TestFilterMerged(t *testing.T) {
	candidates := DefaultBaseCandidates()

	t.Run("resolver example", func(t *testing.T) {
		got := FilterMerged([]string{"origin/develop", "origin/feature-a"}, candidates, "origin")
		assert.Equal(t, []string{"feature-a"}, got)
	})

	t.Run("suffix heuristic", func(t *testing.T) {
		got := FilterMerged([]string{
			"  origin/release/main",
			"origin/my-main-feature",
			"origin/hotfix-dev",
			"origin/master",
			"",
			"   ",
			"origin/feature-b",
		}, candidates, "origin")
		assert.Equal(t, []string{"my-main-feature", "feature-b"}, got)
	})

	t.Run("other remote name", func(t *testing.T) {
		got := FilterMerged([]string{"upstream/fix-1", "upstream/main"}, candidates, "upstream")
		assert.Equal(t, []string{"fix-1"}, got)
	})

	t.Run("branches of another remote are dropped", func(t *testing.T) {
		got := FilterMerged([]string{"origin/feature-a", "upstream/foo", "upstream/origin/x", "feature-local"}, candidates, "origin")
		assert.Equal(t, []string{"feature-a"}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, FilterMerged(nil, candidates, "origin"))
	})
}

func TestDescribe(t *testing.T) {
	got := Describe([]string{"origin/develop", "origin/feature-a", ""}, DefaultBaseCandidates(), "origin")
	assert.Equal(t, []Descriptor{
		{Name: "develop", IsBaseCandidate: true},
		{Name: "feature-a", IsBaseCandidate: false},
	}, got)
}
