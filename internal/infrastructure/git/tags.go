package git

import (
	"context"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/relicta-tech/resolvo/internal/domain/version"
	rerrors "github.com/relicta-tech/resolvo/internal/errors"
)

// LatestTag returns the name of the highest version tag, or "" when the
// repository carries no version tags.
func (s *Source) LatestTag(ctx context.Context) (string, error) {
	const op = "git.LatestTag"

	ctx, cancel := withLocalTimeout(ctx)
	defer cancel()

	iter, err := s.repo.Tags()
	if err != nil {
		return "", rerrors.GitWrap(err, op, "failed to get tags iterator")
	}
	defer iter.Close()

	var (
		bestName string
		best     version.Version
		found    bool
	)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		name := ref.Name().Short()
		if s.tagPrefix != "" && !strings.HasPrefix(name, s.tagPrefix) {
			return nil
		}
		v, parseErr := version.Parse(strings.TrimPrefix(name, s.tagPrefix))
		if parseErr != nil {
			return nil
		}

		if !found || v.GreaterThan(best) {
			bestName = name
			best = v
			found = true
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", rerrors.GitWrap(ctx.Err(), op, "operation canceled")
		}
		return "", rerrors.GitWrap(err, op, "failed to iterate tags")
	}

	return bestName, nil
}
