// Package registry defines the snapshot model of the remote container
// registry and the client boundary used to read and mutate it.
package registry

import "time"

// Tag is an immutable snapshot of a registry tag, fetched once per run.
// ImageName and NamespaceID are derived from the parent image during
// enumeration; the remote API does not return them on the tag itself.
type Tag struct {
	ID          string
	Name        string
	ImageID     string
	ImageName   string
	NamespaceID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Image is a named collection of tags within a namespace.
type Image struct {
	ID          string
	Name        string
	NamespaceID string
}

// Namespace is a top-level grouping of images.
type Namespace struct {
	ID   string
	Name string
}
