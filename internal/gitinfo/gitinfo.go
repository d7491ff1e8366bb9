// Package gitinfo resolves per-file modification times from git history.
// When the content tree lives in a repository, templates can show the time
// of the newest commit touching each source file.
package gitinfo

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"

	"github.com/eightytwo/idspispopd/internal/logfields"
)

// ErrNoRepository is returned when the content tree is not inside a git
// work tree.
var ErrNoRepository = errors.New("no git repository found")

// Lookup answers last-modified queries against one repository's history.
// Results are cached for the lookup's lifetime, so a lookup should live for
// exactly one build.
type Lookup struct {
	repo *git.Repository
	root string

	mu    sync.Mutex
	cache map[string]time.Time
}

// Open finds the repository containing dir, searching parent directories
// the way the git CLI does.
func Open(dir string) (*Lookup, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNoRepository
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("resolve worktree: %w", err)
	}
	root, err := filepath.Abs(wt.Filesystem.Root())
	if err != nil {
		return nil, fmt.Errorf("resolve worktree root: %w", err)
	}

	return &Lookup{repo: repo, root: root, cache: make(map[string]time.Time)}, nil
}

// LastModified returns the author time of the newest commit touching path.
// Untracked paths and paths outside the work tree report ok=false.
func (l *Lookup) LastModified(path string) (time.Time, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return time.Time{}, false
	}
	rel, err := filepath.Rel(l.root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return time.Time{}, false
	}
	rel = filepath.ToSlash(rel)

	l.mu.Lock()
	if t, ok := l.cache[rel]; ok {
		l.mu.Unlock()
		return t, !t.IsZero()
	}
	l.mu.Unlock()

	t, ok := l.logLookup(rel)

	l.mu.Lock()
	// A zero time caches the miss too.
	l.cache[rel] = t
	l.mu.Unlock()

	return t, ok
}

func (l *Lookup) logLookup(rel string) (time.Time, bool) {
	iter, err := l.repo.Log(&git.LogOptions{
		FileName: &rel,
		Order:    git.LogOrderCommitterTime,
	})
	if err != nil {
		slog.Debug("git log failed", logfields.Path(rel), logfields.Error(err))
		return time.Time{}, false
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		// io.EOF: no commit touches the path.
		return time.Time{}, false
	}
	return commit.Author.When, true
}
