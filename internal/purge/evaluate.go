package purge

import (
	"time"

	"github.com/bnema/regsweep/internal/config"
	"github.com/bnema/regsweep/internal/registry"
)

// Reason identifies why an entity was selected for deletion.
type Reason string

const (
	// ReasonOld marks a tag older than the age threshold.
	ReasonOld Reason = "old"
	// ReasonNameMatch marks a tag whose name matches the configured pattern.
	ReasonNameMatch Reason = "name_match"
	// ReasonEmptyNamespace marks a namespace left without images.
	ReasonEmptyNamespace Reason = "empty_namespace"
)

// Evaluate applies the criteria to a single tag and returns every reason
// that qualifies it for deletion. An empty result means the tag is kept.
// Age is measured strictly from the creation time: a tag created exactly
// at the threshold is kept. The name pattern is matched as written, with
// no implicit anchoring.
func Evaluate(tag registry.Tag, criteria config.Criteria, now time.Time) []Reason {
	var reasons []Reason

	if criteria.DeleteOldTags && now.Sub(tag.CreatedAt) > config.AgeThreshold {
		reasons = append(reasons, ReasonOld)
	}

	if criteria.NamePattern != nil && criteria.NamePattern.MatchString(tag.Name) {
		reasons = append(reasons, ReasonNameMatch)
	}

	return reasons
}
