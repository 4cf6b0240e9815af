// Package registrytest provides an in-memory registry.Client for tests.
package registrytest

import (
	"context"
	"fmt"

	"github.com/bnema/regsweep/internal/registry"
)

// Fake is a configurable in-memory registry. Deleting the last tag of an
// image removes the image from its namespace, mirroring how the real
// registry garbage-collects untagged images.
type Fake struct {
	Namespaces []registry.Namespace
	Images     []registry.Image
	Tags       map[string][]registry.Tag // keyed by image id

	ListNamespacesErr  error
	ListImagesErr      error
	GetImageErr        error
	GetNamespaceErr    error
	ListTagsErr        map[string]error // keyed by image id
	DeleteTagErr       map[string]error // keyed by tag id
	DeleteNamespaceErr map[string]error // keyed by namespace id
	CountImagesErr     map[string]error // keyed by namespace id

	DeletedTags       []string
	DeletedNamespaces []string
}

var _ registry.Client = (*Fake)(nil)

func (f *Fake) ListNamespaces(ctx context.Context) ([]registry.Namespace, error) {
	if f.ListNamespacesErr != nil {
		return nil, f.ListNamespacesErr
	}
	return append([]registry.Namespace(nil), f.Namespaces...), nil
}

func (f *Fake) ListImages(ctx context.Context, namespaceID string) ([]registry.Image, error) {
	if f.ListImagesErr != nil {
		return nil, f.ListImagesErr
	}
	var images []registry.Image
	for _, img := range f.Images {
		if namespaceID == "" || img.NamespaceID == namespaceID {
			images = append(images, img)
		}
	}
	return images, nil
}

func (f *Fake) GetImage(ctx context.Context, imageID string) (registry.Image, error) {
	if f.GetImageErr != nil {
		return registry.Image{}, f.GetImageErr
	}
	for _, img := range f.Images {
		if img.ID == imageID {
			return img, nil
		}
	}
	return registry.Image{}, fmt.Errorf("image %s not found", imageID)
}

func (f *Fake) GetNamespace(ctx context.Context, namespaceID string) (registry.Namespace, error) {
	if f.GetNamespaceErr != nil {
		return registry.Namespace{}, f.GetNamespaceErr
	}
	for _, ns := range f.Namespaces {
		if ns.ID == namespaceID {
			return ns, nil
		}
	}
	return registry.Namespace{}, fmt.Errorf("namespace %s not found", namespaceID)
}

func (f *Fake) ListTags(ctx context.Context, imageID string) ([]registry.Tag, error) {
	if err := f.ListTagsErr[imageID]; err != nil {
		return nil, err
	}
	return append([]registry.Tag(nil), f.Tags[imageID]...), nil
}

func (f *Fake) DeleteTag(ctx context.Context, tagID string) error {
	if err := f.DeleteTagErr[tagID]; err != nil {
		return err
	}
	f.DeletedTags = append(f.DeletedTags, tagID)
	for imageID, tags := range f.Tags {
		remaining := tags[:0]
		for _, tag := range tags {
			if tag.ID != tagID {
				remaining = append(remaining, tag)
			}
		}
		f.Tags[imageID] = remaining
	}
	return nil
}

func (f *Fake) DeleteNamespace(ctx context.Context, namespaceID string) error {
	if err := f.DeleteNamespaceErr[namespaceID]; err != nil {
		return err
	}
	f.DeletedNamespaces = append(f.DeletedNamespaces, namespaceID)
	return nil
}

// CountImages counts the namespace's images that still carry at least one
// tag; an image whose last tag was deleted no longer counts.
func (f *Fake) CountImages(ctx context.Context, namespaceID string) (int, error) {
	if err := f.CountImagesErr[namespaceID]; err != nil {
		return 0, err
	}
	count := 0
	for _, img := range f.Images {
		if img.NamespaceID == namespaceID && len(f.Tags[img.ID]) > 0 {
			count++
		}
	}
	return count, nil
}
