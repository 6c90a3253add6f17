package adapter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v29/github"
)

// ContentsStore reads objects from the storage branch through the GitHub
// contents API. It is the read side used by check and history runs, which
// never clone the repository.
type ContentsStore struct {
	client *github.Client
	owner  string
	name   string
	branch string
}

// NewContentsStore creates a ContentsStore for owner/name pinned to branch.
func NewContentsStore(client *github.Client, owner, name, branch string) *ContentsStore {
	return &ContentsStore{
		client: client,
		owner:  owner,
		name:   name,
		branch: branch,
	}
}

// Get fetches the object stored under key on the storage branch. A 404 from
// the API maps to ErrObjectNotFound; anything else is a real failure.
func (s *ContentsStore) Get(ctx context.Context, key string) ([]byte, error) {
	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.name, key, &github.RepositoryContentGetOptions{
		Ref: s.branch,
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s@%s", ErrObjectNotFound, key, s.branch)
		}

		return nil, fmt.Errorf("fetch %s from branch %s: %w", key, s.branch, err)
	}

	if file == nil {
		return nil, fmt.Errorf("fetch %s from branch %s: key is a directory", key, s.branch)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode %s from branch %s: %w", key, s.branch, err)
	}

	return []byte(content), nil
}
