package registry

import "context"

// Client is the boundary to the registry management API. Every call is a
// single blocking request; failures are returned to the caller, which
// decides whether they are fatal or isolated.
type Client interface {
	// ListNamespaces returns all namespaces visible to the credentials.
	ListNamespaces(ctx context.Context) ([]Namespace, error)

	// ListImages returns images ordered by creation time ascending.
	// An empty namespaceID lists images across all namespaces.
	ListImages(ctx context.Context, namespaceID string) ([]Image, error)

	// GetImage fetches a single image by id.
	GetImage(ctx context.Context, imageID string) (Image, error)

	// GetNamespace fetches a single namespace by id.
	GetNamespace(ctx context.Context, namespaceID string) (Namespace, error)

	// ListTags returns the tags of an image ordered by creation time
	// descending.
	ListTags(ctx context.Context, imageID string) ([]Tag, error)

	// DeleteTag deletes a single tag.
	DeleteTag(ctx context.Context, tagID string) error

	// DeleteNamespace deletes a namespace. The remote API rejects the
	// call if the namespace still contains images.
	DeleteNamespace(ctx context.Context, namespaceID string) error

	// CountImages reports how many images a namespace currently holds.
	CountImages(ctx context.Context, namespaceID string) (int, error)
}
