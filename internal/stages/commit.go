package stages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrz1836/gitassist/internal/constants"
	"github.com/mrz1836/gitassist/internal/ctxutil"
	gaerrors "github.com/mrz1836/gitassist/internal/errors"
	"github.com/mrz1836/gitassist/internal/pipeline"
)

// Commit lets the operator pick files to stage and records a commit whose
// message starts with a ticket id.
type Commit struct {
	deps Deps
}

var _ pipeline.Stage = (*Commit)(nil)

// NewCommit creates the commit stage.
func NewCommit(d Deps) *Commit {
	return &Commit{deps: d}
}

// Name returns "commit".
func (s *Commit) Name() string { return constants.StageCommit }

// Run asks about every untracked and modified file, stages the chosen ones,
// and commits as "<TICKET>: <message>". With nothing staged it succeeds
// without committing.
func (s *Commit) Run(ctx context.Context) (*pipeline.StageResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	log := s.deps.logger(s.Name())

	status, err := s.deps.Git.Status(ctx)
	if err != nil {
		return nil, err
	}

	chosen, err := s.chooseFiles(ctx, status.Candidates(), status.Untracked)
	if err != nil {
		return nil, err
	}
	if len(chosen) > 0 {
		if err := s.deps.Git.Add(ctx, chosen); err != nil {
			return nil, err
		}
		s.deps.Out.Success(fmt.Sprintf("Staged %d file(s)", len(chosen)))
	} else {
		s.deps.Out.Info("No new files staged")
	}

	status, err = s.deps.Git.Status(ctx)
	if err != nil {
		return nil, err
	}
	if !status.HasStagedChanges() {
		s.deps.Out.Success("No staged changes to commit")
		return pipeline.Success("nothing to commit"), nil
	}

	ticket, err := s.askTicket()
	if err != nil {
		return nil, err
	}
	message, err := s.deps.Decision.Input("Enter commit message:")
	if err != nil {
		return nil, promptError(err)
	}
	if message = strings.TrimSpace(message); message == "" {
		return nil, fmt.Errorf("commit message: %w", gaerrors.ErrEmptyValue)
	}

	full := ticket + ": " + message
	if err := s.deps.Git.Commit(ctx, full); err != nil {
		return nil, err
	}

	log.Info().Str("ticket", ticket).Int("staged", len(status.Staged)).Msg("commit created")
	s.deps.Out.Success("Commit successful")
	return pipeline.Success("committed " + ticket), nil
}

func (s *Commit) chooseFiles(ctx context.Context, candidates, untracked []string) ([]string, error) {
	isUntracked := make(map[string]bool, len(untracked))
	for _, p := range untracked {
		isUntracked[p] = true
	}

	var chosen []string
	for _, path := range candidates {
		ignored, err := s.deps.Git.IsIgnored(ctx, path)
		if err != nil {
			return nil, err
		}
		if ignored {
			continue
		}
		kind := "modified"
		if isUntracked[path] {
			kind = "untracked"
		}
		if s.deps.Decision.Ask(fmt.Sprintf("Add %s file '%s'? (y/n)", kind, path)) {
			chosen = append(chosen, path)
		}
	}
	return chosen, nil
}

// askTicket prompts until the answer starts with the configured prefix,
// giving up after MaxTicketAttempts.
func (s *Commit) askTicket() (string, error) {
	prefix := s.deps.Config.Git.TicketPrefix
	prompt := fmt.Sprintf("Enter Jira Ticket (e.g., %s123):", prefix)

	for attempt := 1; attempt <= constants.MaxTicketAttempts; attempt++ {
		ticket, err := s.deps.Decision.Input(prompt)
		if err != nil {
			return "", promptError(err)
		}
		ticket = strings.TrimSpace(ticket)
		if validTicket(ticket, prefix) {
			return ticket, nil
		}
		s.deps.Out.Warning(fmt.Sprintf("Invalid ticket %q. Must start with %s", ticket, prefix))
		prompt = "Try again:"
	}
	return "", fmt.Errorf("%d attempts: %w", constants.MaxTicketAttempts, gaerrors.ErrInvalidTicket)
}

func validTicket(ticket, prefix string) bool {
	return strings.HasPrefix(ticket, prefix) && len(ticket) > len(prefix) && !strings.ContainsAny(ticket, " \t")
}

// promptError maps a canceled prompt to ErrOperationCanceled.
func promptError(err error) error {
	if errors.Is(err, gaerrors.ErrMenuCanceled) {
		return fmt.Errorf("%w: %w", gaerrors.ErrOperationCanceled, err)
	}
	return err
}
