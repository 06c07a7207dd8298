package diff

import (
	"context"
	"fmt"

	"github.com/gh-nvat/attrdiff/src/pkg/evaluate"
	"github.com/gh-nvat/attrdiff/src/pkg/fetch"
	"github.com/gh-nvat/attrdiff/src/pkg/models"
	"github.com/gh-nvat/attrdiff/src/pkg/reference"
	"github.com/gh-nvat/attrdiff/src/pkg/trace"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

var logger = log.WithField("package", "diff")

// Engine resolves two references, lists the attributes of both trees in
// parallel and reports the attributes that changed.
type Engine struct {
	Resolver     reference.LocationResolver
	Materializer fetch.TreeMaterializer
	Enumerator   evaluate.AttributeEnumerator
	Differ       ListingDiffer
}

// NewEngine creates a new diff engine
func NewEngine(
	resolver reference.LocationResolver,
	materializer fetch.TreeMaterializer,
	enumerator evaluate.AttributeEnumerator,
) *Engine {
	return &Engine{
		Resolver:     resolver,
		Materializer: materializer,
		Enumerator:   enumerator,
		Differ:       NewDiffer(),
	}
}

// Diff returns the attributes of expr that are absent, as a complete listing
// line, from against.
func (e *Engine) Diff(ctx context.Context, expr, against string) (*models.DiffResult, error) {
	ctx, span := trace.StartSpan(ctx, "diff", attribute.String("expr", expr), attribute.String("against", against))
	result, err := e.diff(ctx, expr, against)
	trace.EndSpan(span, err)
	return result, err
}

func (e *Engine) diff(ctx context.Context, expr, against string) (*models.DiffResult, error) {
	logger.Info("Resolve: starting...")
	exprLoc, err := e.Resolve(ctx, expr)
	if err != nil {
		return nil, err
	}
	againstLoc, err := e.Resolve(ctx, against)
	if err != nil {
		return nil, err
	}
	logger.Info("Resolve: done.")

	result, err := e.DiffLocations(ctx, exprLoc, againstLoc)
	if err != nil {
		return nil, err
	}
	result.Expr = expr
	result.Against = against
	return result, nil
}

// DiffLocations lists both locations concurrently and subtracts the listing of
// against from the listing of expr. A failure in either branch cancels the
// other and fails the whole diff.
func (e *Engine) DiffLocations(ctx context.Context, expr, against models.Location) (*models.DiffResult, error) {
	logger.WithField("expr", expr.String()).WithField("against", against.String()).Info("DiffLocations: starting...")

	var exprListing, againstListing *models.PackageListing
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		listing, err := e.List(gctx, "expr", expr)
		exprListing = listing
		return err
	})
	g.Go(func() error {
		listing, err := e.List(gctx, "against", against)
		againstListing = listing
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	attrs := e.Differ.Diff(exprListing, againstListing)
	logger.WithField("expr", len(exprListing.Lines)).
		WithField("against", len(againstListing.Lines)).
		WithField("changed", len(attrs)).
		Info("DiffLocations: done.")

	return &models.DiffResult{
		Expr:       expr.String(),
		Against:    against.String(),
		Attributes: attrs,
	}, nil
}

// Resolve turns a raw reference into a location
func (e *Engine) Resolve(ctx context.Context, raw string) (models.Location, error) {
	ctx, span := trace.StartSpan(ctx, "resolve", attribute.String("reference", raw))
	location, err := e.Resolver.Resolve(ctx, raw)
	trace.EndSpan(span, err)
	if err != nil {
		return models.Location{}, fmt.Errorf("failed to resolve %q: %w", raw, err)
	}
	return location, nil
}

// Materialize returns the local tree path behind location
func (e *Engine) Materialize(ctx context.Context, location models.Location) (string, error) {
	ctx, span := trace.StartSpan(ctx, "materialize", attribute.String("location", location.String()))
	tree, err := e.Materializer.Materialize(ctx, location)
	trace.EndSpan(span, err)
	if err != nil {
		return "", fmt.Errorf("failed to materialize %s: %w", location, err)
	}
	return tree, nil
}

// List materializes location and enumerates its attributes
func (e *Engine) List(ctx context.Context, branch string, location models.Location) (*models.PackageListing, error) {
	ctx, span := trace.StartSpan(ctx, "list", attribute.String("branch", branch))
	defer span.End()

	tree, err := e.Materialize(ctx, location)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	ctx, enumSpan := trace.StartSpan(ctx, "enumerate", attribute.String("tree", tree))
	listing, err := e.Enumerator.Enumerate(ctx, tree)
	trace.EndSpan(enumSpan, err)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to enumerate %s: %w", tree, err)
	}
	return listing, nil
}

// DiffPullRequest diffs the head of a pull request against its base.
// id may be bare ("28167") or prefixed ("pr://28167").
func (e *Engine) DiffPullRequest(ctx context.Context, prs reference.PullRequestResolver, id string) (*models.DiffResult, error) {
	ctx, span := trace.StartSpan(ctx, "pr", attribute.String("id", id))
	result, err := e.diffPullRequest(ctx, prs, id)
	trace.EndSpan(span, err)
	return result, err
}

func (e *Engine) diffPullRequest(ctx context.Context, prs reference.PullRequestResolver, id string) (*models.DiffResult, error) {
	number, err := reference.ParsePullRequestID(id)
	if err != nil {
		return nil, err
	}

	logger.WithField("number", number).Info("Resolving pull request...")
	head, base, err := prs.ResolvePR(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve pull request %d: %w", number, err)
	}

	result, err := e.DiffLocations(ctx, head, base)
	if err != nil {
		return nil, err
	}
	result.Expr = fmt.Sprintf("pr://%d (head)", number)
	result.Against = fmt.Sprintf("pr://%d (base)", number)
	return result, nil
}
