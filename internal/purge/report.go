package purge

import (
	"time"

	"github.com/bnema/regsweep/internal/config"
)

// Status is the terminal state of one deletion attempt.
type Status string

const (
	StatusDeleted Status = "deleted"
	StatusError   Status = "error"
	StatusDryRun  Status = "dry_run"
)

// Outcome is one entry of the run report, either a TagOutcome or a
// NamespaceOutcome.
type Outcome interface {
	outcome()
	failed() bool
}

// TagOutcome records the result of one tag deletion attempt, or an
// isolated fetch failure attributed to an image (tag fields empty then).
type TagOutcome struct {
	TagID     string     `json:"tag_id,omitempty"`
	TagName   string     `json:"tag_name,omitempty"`
	ImageName string     `json:"image_name"`
	Status    Status     `json:"status"`
	Reasons   []Reason   `json:"deletion_reasons,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Error     string     `json:"error,omitempty"`
}

func (TagOutcome) outcome()       {}
func (o TagOutcome) failed() bool { return o.Status == StatusError }

// NamespaceOutcome records the result of one namespace deletion attempt.
type NamespaceOutcome struct {
	NamespaceID   string `json:"namespace_id,omitempty"`
	NamespaceName string `json:"namespace_name,omitempty"`
	Type          string `json:"type"`
	Status        Status `json:"status"`
	Reason        Reason `json:"reason"`
	Error         string `json:"error,omitempty"`
}

func (NamespaceOutcome) outcome()       {}
func (o NamespaceOutcome) failed() bool { return o.Status == StatusError }

// CriteriaUsed echoes the resolved criteria in the summary. Optional
// values serialize as null when unset, the pattern as its source string.
type CriteriaUsed struct {
	DeleteOldTags          bool    `json:"delete_old_tags"`
	TagNamePattern         *string `json:"tag_name_pattern"`
	DeleteUnusedNamespaces bool    `json:"delete_unused_namespaces"`
	TargetNamespaceID      *string `json:"target_namespace_id"`
	TargetImageID          *string `json:"target_image_id"`
	DryRun                 bool    `json:"dry_run"`
}

// Summary carries the run counters. Tag counters and namespace counters
// never overlap.
type Summary struct {
	TotalImagesAnalyzed int          `json:"total_images_analyzed"`
	TotalTagsFound      int          `json:"total_tags_found"`
	SuccessfullyDeleted int          `json:"successfully_deleted"`
	Errors              int          `json:"errors"`
	NamespacesDeleted   int          `json:"namespaces_deleted"`
	NamespaceErrors     int          `json:"namespace_errors"`
	CriteriaUsed        CriteriaUsed `json:"criteria_used"`
}

// Report is the complete result of one run: tag outcomes in enumeration
// order, namespace outcomes appended after, plus the summary.
type Report struct {
	Message []Outcome `json:"message"`
	Summary Summary   `json:"summary"`
}

// BuildReport folds the collected outcomes and enumeration statistics into
// the final report. It is a pure function of its inputs.
func BuildReport(outcomes []Outcome, imagesAnalyzed, tagsFound int, criteria config.Criteria) *Report {
	summary := Summary{
		TotalImagesAnalyzed: imagesAnalyzed,
		TotalTagsFound:      tagsFound,
		CriteriaUsed:        echoCriteria(criteria),
	}

	for _, outcome := range outcomes {
		switch o := outcome.(type) {
		case TagOutcome:
			if o.failed() {
				summary.Errors++
			} else {
				summary.SuccessfullyDeleted++
			}
		case NamespaceOutcome:
			if o.failed() {
				summary.NamespaceErrors++
			} else {
				summary.NamespacesDeleted++
			}
		}
	}

	if outcomes == nil {
		outcomes = []Outcome{}
	}
	return &Report{Message: outcomes, Summary: summary}
}

func echoCriteria(criteria config.Criteria) CriteriaUsed {
	return CriteriaUsed{
		DeleteOldTags:          criteria.DeleteOldTags,
		TagNamePattern:         nullable(criteria.NamePatternSource),
		DeleteUnusedNamespaces: criteria.DeleteUnusedNamespaces,
		TargetNamespaceID:      nullable(criteria.TargetNamespaceID),
		TargetImageID:          nullable(criteria.TargetImageID),
		DryRun:                 criteria.DryRun,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
