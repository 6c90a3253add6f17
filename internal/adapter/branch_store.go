package adapter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

// NewTokenAuth builds the HTTP auth for pushing with a GitHub token. Returns
// nil for an empty token so local file remotes keep working unauthenticated.
func NewTokenAuth(token string) transport.AuthMethod {
	if token == "" {
		return nil
	}

	return &githttp.BasicAuth{Username: "x-access-token", Password: token}
}

// BranchStoreOpener clones the storage branch into a temporary work tree for
// one update run. The branch is created as an orphan when the remote does not
// have it yet.
type BranchStoreOpener struct {
	remote      string
	branch      string
	auth        transport.AuthMethod
	authorName  string
	authorEmail string
}

// NewBranchStoreOpener creates a BranchStoreOpener for remote pinned to branch.
func NewBranchStoreOpener(remote, branch string, auth transport.AuthMethod, authorName, authorEmail string) *BranchStoreOpener {
	return &BranchStoreOpener{
		remote:      remote,
		branch:      branch,
		auth:        auth,
		authorName:  authorName,
		authorEmail: authorEmail,
	}
}

// Open clones the remote and leaves the work tree on the storage branch.
func (o *BranchStoreOpener) Open(ctx context.Context) (ObjectStore, error) {
	dir, err := os.MkdirTemp("", "coverage-store-*")
	if err != nil {
		return nil, fmt.Errorf("create store work dir: %w", err)
	}

	store := &branchStore{
		dir:         dir,
		branch:      o.branch,
		auth:        o.auth,
		authorName:  o.authorName,
		authorEmail: o.authorEmail,
	}

	if err := store.clone(ctx, o.remote); err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}

	return store, nil
}

type branchStore struct {
	repo     *git.Repository
	worktree *git.Worktree
	dir      string
	branch   string

	auth        transport.AuthMethod
	authorName  string
	authorEmail string
}

func (s *branchStore) clone(ctx context.Context, remote string) error {
	branchRef := plumbing.NewBranchReferenceName(s.branch)

	repo, err := git.PlainCloneContext(ctx, s.dir, false, &git.CloneOptions{
		URL:           remote,
		Auth:          s.auth,
		ReferenceName: branchRef,
		SingleBranch:  true,
	})
	if err == nil {
		// The storage branch exists and is checked out.
		return s.attach(repo)
	}

	if errors.Is(err, transport.ErrEmptyRemoteRepository) {
		// Brand new repository with no commits at all. Initialize locally and
		// let the first push create everything.
		repo, err = git.PlainInit(s.dir, false)
		if err != nil {
			return fmt.Errorf("init store repository: %w", err)
		}

		_, err = repo.CreateRemote(&config.RemoteConfig{Name: git.DefaultRemoteName, URLs: []string{remote}})
		if err != nil {
			return fmt.Errorf("configure store remote: %w", err)
		}

		if err := s.attach(repo); err != nil {
			return err
		}

		return s.pointHeadAt(branchRef)
	}

	// The remote exists but the storage branch does not yet. Clone the
	// default branch and turn the work tree into an orphan.
	if err := s.resetDir(); err != nil {
		return err
	}

	repo, err = git.PlainCloneContext(ctx, s.dir, false, &git.CloneOptions{
		URL:  remote,
		Auth: s.auth,
	})
	if err != nil {
		return fmt.Errorf("clone %s: %w", remote, err)
	}

	if err := s.attach(repo); err != nil {
		return err
	}

	if err := s.pointHeadAt(branchRef); err != nil {
		return err
	}

	return s.clearWorktree()
}

func (s *branchStore) attach(repo *git.Repository) error {
	s.repo = repo

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open store work tree: %w", err)
	}

	s.worktree = worktree

	return nil
}

// pointHeadAt repoints HEAD at the unborn storage branch so the next commit
// starts the branch without a parent.
func (s *branchStore) pointHeadAt(branchRef plumbing.ReferenceName) error {
	head := plumbing.NewSymbolicReference(plumbing.HEAD, branchRef)
	if err := s.repo.Storer.SetReference(head); err != nil {
		return fmt.Errorf("create orphan branch %s: %w", s.branch, err)
	}

	return nil
}

// resetDir wipes the work dir between clone attempts.
func (s *branchStore) resetDir() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("reset store work dir: %w", err)
	}

	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(s.dir, entry.Name())); err != nil {
			return fmt.Errorf("reset store work dir: %w", err)
		}
	}

	return nil
}

func (s *branchStore) clearWorktree() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("list store work tree: %w", err)
	}

	for _, entry := range entries {
		if entry.Name() == git.GitDirName {
			continue
		}

		if err := os.RemoveAll(filepath.Join(s.dir, entry.Name())); err != nil {
			return fmt.Errorf("clear store work tree: %w", err)
		}
	}

	if err := s.worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("stage cleared work tree: %w", err)
	}

	return nil
}

// Get reads the object under key from the checked-out work tree.
func (s *branchStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s@%s", ErrObjectNotFound, key, s.branch)
	}

	if err != nil {
		return nil, fmt.Errorf("read %s from store: %w", key, err)
	}

	return data, nil
}

// Put writes the object under key and stages it.
func (s *branchStore) Put(_ context.Context, key string, data []byte) error {
	path := filepath.Join(s.dir, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare store path %s: %w", key, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s to store: %w", key, err)
	}

	if _, err := s.worktree.Add(key); err != nil {
		return fmt.Errorf("stage %s: %w", key, err)
	}

	return nil
}

// CommitAndPush publishes everything staged since Open as a single commit on
// the storage branch. An empty commit is allowed so update runs always leave
// a mark in the branch history.
func (s *branchStore) CommitAndPush(ctx context.Context, message string) error {
	_, err := s.worktree.Commit(message, &git.CommitOptions{
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  s.authorName,
			Email: s.authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("commit to branch %s: %w", s.branch, err)
	}

	refSpec := config.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", s.branch, s.branch))

	err = s.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: git.DefaultRemoteName,
		RefSpecs:   []config.RefSpec{refSpec},
		Auth:       s.auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("push branch %s: %w", s.branch, err)
	}

	return nil
}

// Close removes the temporary work tree.
func (s *branchStore) Close() error {
	return os.RemoveAll(s.dir)
}
