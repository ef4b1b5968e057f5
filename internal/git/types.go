package git

// Status represents the current state of a Git working tree.
type Status struct {
	Staged    []FileChange // Files staged for commit
	Unstaged  []FileChange // Modified but not staged
	Untracked []string     // Untracked files
	Branch    string       // Current branch name
	Ahead     int          // Commits ahead of upstream
	Behind    int          // Commits behind upstream
}

// FileChange represents a changed file in the working tree.
type FileChange struct {
	Path    string     // File path relative to repo root
	Status  ChangeType // Type of change
	OldPath string     // For renames, the original path
}

// ChangeType represents the type of change for a file.
type ChangeType string

// Change type constants for git status.
const (
	ChangeAdded    ChangeType = "A"
	ChangeModified ChangeType = "M"
	ChangeDeleted  ChangeType = "D"
	ChangeRenamed  ChangeType = "R"
	ChangeCopied   ChangeType = "C"
	ChangeUnmerged ChangeType = "U"
)

// IsClean returns true if the working tree has no changes.
func (s *Status) IsClean() bool {
	return len(s.Staged) == 0 && len(s.Unstaged) == 0 && len(s.Untracked) == 0
}

// HasStagedChanges returns true if there are staged changes ready to commit.
func (s *Status) HasStagedChanges() bool {
	return len(s.Staged) > 0
}

// Candidates returns the paths an operator may choose to stage: untracked
// files first, then modified tracked files, without duplicates.
func (s *Status) Candidates() []string {
	seen := make(map[string]struct{}, len(s.Untracked)+len(s.Unstaged))
	out := make([]string, 0, len(s.Untracked)+len(s.Unstaged))
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, p := range s.Untracked {
		add(p)
	}
	for _, fc := range s.Unstaged {
		add(fc.Path)
	}
	return out
}
