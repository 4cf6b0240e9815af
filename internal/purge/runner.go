// Package purge implements the decision-and-orchestration engine of the
// registry cleanup job: one sequential pass that enumerates the configured
// scope, selects qualifying tags, deletes them, and optionally removes
// namespaces left empty.
package purge

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bnema/regsweep/internal/config"
	"github.com/bnema/regsweep/internal/registry"
)

// Runner executes one full purge pass. It holds no state between runs;
// every Run re-enumerates the live registry.
type Runner struct {
	client   registry.Client
	criteria config.Criteria
	now      func() time.Time
}

// NewRunner builds a runner for one resolved criteria set.
func NewRunner(client registry.Client, criteria config.Criteria) *Runner {
	return &Runner{
		client:   client,
		criteria: criteria,
		now:      time.Now,
	}
}

// Run performs the full pass and returns the report. The only error it
// returns is a fatal *EnumerationError; isolated per-item failures are
// recorded as error outcomes and never abort the batch.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	images, err := r.enumerateImages(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("enumerated images to analyze", "count", len(images))

	var (
		outcomes  []Outcome
		tagsFound int
	)
	now := r.now()

	for _, image := range images {
		tags, err := r.client.ListTags(ctx, image.ID)
		if err != nil {
			log.Error("failed to list tags", "image", image.Name, "error", err)
			outcomes = append(outcomes, TagOutcome{
				ImageName: image.Name,
				Status:    StatusError,
				Error:     err.Error(),
			})
			continue
		}
		tagsFound += len(tags)

		for _, tag := range tags {
			tag.ImageName = image.Name
			tag.NamespaceID = image.NamespaceID

			reasons := Evaluate(tag, r.criteria, now)
			if len(reasons) == 0 {
				continue
			}
			outcomes = append(outcomes, r.deleteTag(ctx, tag, reasons))
		}
	}

	if r.criteria.DeleteUnusedNamespaces {
		outcomes = append(outcomes, r.cleanupNamespaces(ctx, images)...)
	}

	return BuildReport(outcomes, len(images), tagsFound, r.criteria), nil
}

// enumerateImages resolves the run scope: a single image, a single
// namespace, or everything visible to the credentials. Image scope takes
// precedence over namespace scope. A failure here is fatal.
func (r *Runner) enumerateImages(ctx context.Context) ([]registry.Image, error) {
	switch {
	case r.criteria.TargetImageID != "":
		image, err := r.client.GetImage(ctx, r.criteria.TargetImageID)
		if err != nil {
			return nil, &EnumerationError{Scope: "image", Err: err}
		}
		return []registry.Image{image}, nil

	case r.criteria.TargetNamespaceID != "":
		images, err := r.client.ListImages(ctx, r.criteria.TargetNamespaceID)
		if err != nil {
			return nil, &EnumerationError{Scope: "namespace", Err: err}
		}
		return images, nil

	default:
		images, err := r.client.ListImages(ctx, "")
		if err != nil {
			return nil, &EnumerationError{Scope: "registry", Err: err}
		}
		return images, nil
	}
}

// deleteTag issues a single delete call and converts the result into an
// outcome. In dry-run mode no call is made.
func (r *Runner) deleteTag(ctx context.Context, tag registry.Tag, reasons []Reason) TagOutcome {
	outcome := TagOutcome{
		TagID:     tag.ID,
		TagName:   tag.Name,
		ImageName: tag.ImageName,
		Reasons:   reasons,
		CreatedAt: timePtr(tag.CreatedAt),
		UpdatedAt: timePtr(tag.UpdatedAt),
	}

	if r.criteria.DryRun {
		log.Info("would delete tag", "tag", tag.Name, "image", tag.ImageName, "reasons", reasons)
		outcome.Status = StatusDryRun
		return outcome
	}

	if err := r.client.DeleteTag(ctx, tag.ID); err != nil {
		log.Error("failed to delete tag", "tag", tag.Name, "image", tag.ImageName, "error", err)
		outcome.Status = StatusError
		outcome.Error = err.Error()
		return outcome
	}

	log.Info("deleted tag", "tag", tag.Name, "image", tag.ImageName, "reasons", reasons)
	outcome.Status = StatusDeleted
	return outcome
}

// cleanupNamespaces deletes the namespaces of the current scope that hold
// zero images after tag deletion. The image count is re-read from the
// registry so that images removed during this run are reflected.
func (r *Runner) cleanupNamespaces(ctx context.Context, images []registry.Image) []Outcome {
	candidates, ok := r.namespaceCandidates(ctx, images)
	if !ok {
		// Candidate enumeration failed; recorded as a single error
		// outcome so namespace_errors reflects it.
		return []Outcome{NamespaceOutcome{
			Type:   "namespace",
			Status: StatusError,
			Reason: ReasonEmptyNamespace,
			Error:  "failed to enumerate namespace candidates",
		}}
	}

	var outcomes []Outcome
	for _, ns := range candidates {
		count, err := r.client.CountImages(ctx, ns.ID)
		if err != nil {
			log.Error("failed to count images in namespace", "namespace", ns.Name, "error", err)
			outcomes = append(outcomes, NamespaceOutcome{
				NamespaceID:   ns.ID,
				NamespaceName: ns.Name,
				Type:          "namespace",
				Status:        StatusError,
				Reason:        ReasonEmptyNamespace,
				Error:         err.Error(),
			})
			continue
		}
		if count > 0 {
			continue
		}
		outcomes = append(outcomes, r.deleteNamespace(ctx, ns))
	}
	return outcomes
}

// namespaceCandidates returns the namespaces covered by the run scope:
// all of them, the targeted one, or the one implied by the targeted image.
func (r *Runner) namespaceCandidates(ctx context.Context, images []registry.Image) ([]registry.Namespace, bool) {
	switch {
	case r.criteria.TargetImageID != "":
		if len(images) == 0 {
			return nil, true
		}
		ns, err := r.client.GetNamespace(ctx, images[0].NamespaceID)
		if err != nil {
			log.Error("failed to get namespace of target image", "error", err)
			return nil, false
		}
		return []registry.Namespace{ns}, true

	case r.criteria.TargetNamespaceID != "":
		ns, err := r.client.GetNamespace(ctx, r.criteria.TargetNamespaceID)
		if err != nil {
			log.Error("failed to get target namespace", "error", err)
			return nil, false
		}
		return []registry.Namespace{ns}, true

	default:
		namespaces, err := r.client.ListNamespaces(ctx)
		if err != nil {
			log.Error("failed to list namespaces", "error", err)
			return nil, false
		}
		return namespaces, true
	}
}

func (r *Runner) deleteNamespace(ctx context.Context, ns registry.Namespace) NamespaceOutcome {
	outcome := NamespaceOutcome{
		NamespaceID:   ns.ID,
		NamespaceName: ns.Name,
		Type:          "namespace",
		Reason:        ReasonEmptyNamespace,
	}

	if r.criteria.DryRun {
		log.Info("would delete empty namespace", "namespace", ns.Name)
		outcome.Status = StatusDryRun
		return outcome
	}

	if err := r.client.DeleteNamespace(ctx, ns.ID); err != nil {
		log.Error("failed to delete namespace", "namespace", ns.Name, "error", err)
		outcome.Status = StatusError
		outcome.Error = err.Error()
		return outcome
	}

	log.Info("deleted empty namespace", "namespace", ns.Name)
	outcome.Status = StatusDeleted
	return outcome
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
