package deploy

import (
	"context"
	"fmt"
	"os"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/yi-nology/page_harbor/pkg/config"
)

// GitHubDeployer pushes site files into a pages-enabled repository through
// the contents API, one commit per file.
type GitHubDeployer struct {
	client *github.Client
	owner  string
	repo   string
	branch string
}

// NewGitHubDeployer builds a deployer from git-hosting credentials.
func NewGitHubDeployer(cfg config.GitHubConfig) *GitHubDeployer {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	tc := oauth2.NewClient(context.Background(), ts)

	branch := cfg.Branch
	if branch == "" {
		branch = "main"
	}

	return &GitHubDeployer{
		client: github.NewClient(tc),
		owner:  cfg.Owner,
		repo:   cfg.Repo,
		branch: branch,
	}
}

// PushFiles uploads every entry under prefix/ in the repository, creating or
// updating as needed. Per-file failures are recorded and the loop continues,
// mirroring the object-storage bulk uploader.
func (d *GitHubDeployer) PushFiles(ctx context.Context, prefix string, entries []FileEntry) (*UploadOutcome, error) {
	outcome := &UploadOutcome{
		PerFileErrors: make(map[string]string),
	}

	for _, entry := range entries {
		outcome.FilesAttempted++

		if err := d.pushOne(ctx, prefix, entry); err != nil {
			outcome.FilesFailed++
			outcome.PerFileErrors[entry.StorageRelativePath] = err.Error()
			hlog.CtxWarnf(ctx, "push failed for %s/%s: %v", prefix, entry.StorageRelativePath, err)
			continue
		}
		outcome.FilesSucceeded++
	}

	if outcome.FilesAttempted > 0 && outcome.FilesSucceeded == 0 {
		return outcome, fmt.Errorf("%w: %d files attempted", ErrNothingUploaded, outcome.FilesAttempted)
	}

	return outcome, nil
}

func (d *GitHubDeployer) pushOne(ctx context.Context, prefix string, entry FileEntry) error {
	data, err := os.ReadFile(entry.AbsolutePath)
	if err != nil {
		return fmt.Errorf("read source file: %w", err)
	}

	path := prefix + "/" + entry.StorageRelativePath
	opts := &github.RepositoryContentFileOptions{
		Message: github.String("deploy " + path),
		Content: data,
		Branch:  github.String(d.branch),
	}

	// The contents API requires the current blob SHA to overwrite a file.
	current, _, _, err := d.client.Repositories.GetContents(ctx, d.owner, d.repo, path,
		&github.RepositoryContentGetOptions{Ref: d.branch})
	if err == nil && current != nil {
		opts.SHA = current.SHA
		_, _, err = d.client.Repositories.UpdateFile(ctx, d.owner, d.repo, path, opts)
	} else {
		_, _, err = d.client.Repositories.CreateFile(ctx, d.owner, d.repo, path, opts)
	}
	if err != nil {
		return fmt.Errorf("push file: %w", err)
	}

	return nil
}

// PagesURL returns the public pages URL for a deployed prefix.
func (d *GitHubDeployer) PagesURL(prefix string) string {
	return fmt.Sprintf("https://%s.github.io/%s/%s/", d.owner, d.repo, prefix)
}
