package build

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/postbuilder/internal/gitsource"
	"git.home.luguber.info/inful/postbuilder/internal/logfields"
	"git.home.luguber.info/inful/postbuilder/internal/posts"
	"git.home.luguber.info/inful/postbuilder/internal/render"
	"git.home.luguber.info/inful/postbuilder/internal/site"
)

// stageFetch clones the content repository when one was requested and points
// the content dir into the checkout. A plain local build is a no-op.
func stageFetch(ctx context.Context, st *State) error {
	if st.RepoURL == "" {
		return nil
	}

	checkout, err := gitsource.NewFetcher("").Fetch(ctx, st.RepoURL, st.RepoBranch)
	if err != nil {
		return err
	}
	st.workspace = checkout

	contentDir := filepath.Join(checkout, st.Cfg.Content.Dir)
	slog.Info("Using fetched content",
		logfields.URL(st.RepoURL), logfields.Path(contentDir))
	st.Cfg.Content.Dir = contentDir
	return nil
}

// stageLoad discovers and parses all posts. Malformed documents are isolated
// into report issues; only environmental failures are fatal.
func stageLoad(ctx context.Context, st *State) error {
	result, err := posts.NewLoader(st.Cfg.Content).Load(ctx)
	if err != nil {
		return err
	}
	st.Loaded = result
	st.Report.PostCount = len(result.Posts)

	for _, failure := range result.Failures {
		st.Report.AddIssue(StageLoad, failure.Path, failure)
	}
	return nil
}

// stageRender converts every loaded post to HTML, unpublished ones included
// (they get a standalone page, just no index entry). A structurally
// malformed body becomes a placeholder page plus a report issue.
func stageRender(_ context.Context, st *State) error {
	renderer := render.New()
	pages := make([]site.Page, 0, len(st.Loaded.Posts))

	for _, post := range st.Loaded.Posts {
		html, err := renderer.Render(post.RelativePath, post.Body)
		if err != nil {
			var re *render.RenderError
			if !errors.As(err, &re) {
				return err
			}
			slog.Warn("Render failed, emitting placeholder",
				logfields.File(post.RelativePath), logfields.Error(re.Err))
			st.Report.AddIssue(StageRender, post.RelativePath, re)
			html = render.Placeholder(post.Meta.Title)
		}
		pages = append(pages, site.Page{Post: post, HTML: html})
	}

	st.Pages = pages
	st.Report.PageCount = len(pages)
	return nil
}

// stageIndexes derives the chronological and tag indexes.
func stageIndexes(_ context.Context, st *State) error {
	st.Indexes = site.BuildIndexes(st.Loaded.Posts)
	st.Report.TagCount = len(st.Indexes.TagNames)
	return nil
}

// stageEmit writes pages and listings. Emit errors are fatal.
func stageEmit(_ context.Context, st *State) error {
	emitter, err := site.NewEmitter(st.Cfg)
	if err != nil {
		return err
	}
	return emitter.Emit(st.Pages, st.Indexes)
}
