package registry

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/scaleway/scaleway-sdk-go/api/registry/v1"
	"github.com/scaleway/scaleway-sdk-go/scw"
)

// ScalewayClient implements Client against the Scaleway Container Registry
// API (registry v1). One instance is scoped to a single region.
type ScalewayClient struct {
	api    *sdk.API
	region scw.Region
}

// NewScalewayClient builds a region-scoped registry client from explicit
// credentials. Region validity is expected to have been checked by the
// configuration layer.
func NewScalewayClient(accessKey, secretKey string, region scw.Region) (*ScalewayClient, error) {
	client, err := scw.NewClient(
		scw.WithAuth(accessKey, secretKey),
		scw.WithDefaultRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scaleway client: %w", err)
	}

	return &ScalewayClient{
		api:    sdk.NewAPI(client),
		region: region,
	}, nil
}

func (c *ScalewayClient) ListNamespaces(ctx context.Context) ([]Namespace, error) {
	resp, err := c.api.ListNamespaces(&sdk.ListNamespacesRequest{
		Region: c.region,
	}, scw.WithAllPages(), scw.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}

	namespaces := make([]Namespace, 0, len(resp.Namespaces))
	for _, ns := range resp.Namespaces {
		namespaces = append(namespaces, Namespace{ID: ns.ID, Name: ns.Name})
	}
	return namespaces, nil
}

func (c *ScalewayClient) ListImages(ctx context.Context, namespaceID string) ([]Image, error) {
	req := &sdk.ListImagesRequest{
		Region:  c.region,
		OrderBy: sdk.ListImagesRequestOrderByCreatedAtAsc,
	}
	if namespaceID != "" {
		req.NamespaceID = scw.StringPtr(namespaceID)
	}

	resp, err := c.api.ListImages(req, scw.WithAllPages(), scw.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	images := make([]Image, 0, len(resp.Images))
	for _, img := range resp.Images {
		images = append(images, Image{
			ID:          img.ID,
			Name:        img.Name,
			NamespaceID: img.NamespaceID,
		})
	}
	return images, nil
}

func (c *ScalewayClient) GetImage(ctx context.Context, imageID string) (Image, error) {
	img, err := c.api.GetImage(&sdk.GetImageRequest{
		Region:  c.region,
		ImageID: imageID,
	}, scw.WithContext(ctx))
	if err != nil {
		return Image{}, fmt.Errorf("failed to get image %s: %w", imageID, err)
	}

	return Image{ID: img.ID, Name: img.Name, NamespaceID: img.NamespaceID}, nil
}

func (c *ScalewayClient) GetNamespace(ctx context.Context, namespaceID string) (Namespace, error) {
	ns, err := c.api.GetNamespace(&sdk.GetNamespaceRequest{
		Region:      c.region,
		NamespaceID: namespaceID,
	}, scw.WithContext(ctx))
	if err != nil {
		return Namespace{}, fmt.Errorf("failed to get namespace %s: %w", namespaceID, err)
	}

	return Namespace{ID: ns.ID, Name: ns.Name}, nil
}

func (c *ScalewayClient) ListTags(ctx context.Context, imageID string) ([]Tag, error) {
	resp, err := c.api.ListTags(&sdk.ListTagsRequest{
		Region:  c.region,
		ImageID: imageID,
		OrderBy: sdk.ListTagsRequestOrderByCreatedAtDesc,
	}, scw.WithAllPages(), scw.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list tags for image %s: %w", imageID, err)
	}

	tags := make([]Tag, 0, len(resp.Tags))
	for _, tag := range resp.Tags {
		tags = append(tags, Tag{
			ID:        tag.ID,
			Name:      tag.Name,
			ImageID:   tag.ImageID,
			CreatedAt: derefTime(tag.CreatedAt),
			UpdatedAt: derefTime(tag.UpdatedAt),
		})
	}
	return tags, nil
}

func (c *ScalewayClient) DeleteTag(ctx context.Context, tagID string) error {
	_, err := c.api.DeleteTag(&sdk.DeleteTagRequest{
		Region: c.region,
		TagID:  tagID,
	}, scw.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to delete tag %s: %w", tagID, err)
	}
	return nil
}

func (c *ScalewayClient) DeleteNamespace(ctx context.Context, namespaceID string) error {
	_, err := c.api.DeleteNamespace(&sdk.DeleteNamespaceRequest{
		Region:      c.region,
		NamespaceID: namespaceID,
	}, scw.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to delete namespace %s: %w", namespaceID, err)
	}
	return nil
}

// CountImages recomputes the live image count of a namespace. The count is
// read fresh from the API rather than from any earlier snapshot so that
// tags deleted during the current run are reflected.
func (c *ScalewayClient) CountImages(ctx context.Context, namespaceID string) (int, error) {
	resp, err := c.api.ListImages(&sdk.ListImagesRequest{
		Region:      c.region,
		NamespaceID: scw.StringPtr(namespaceID),
	}, scw.WithAllPages(), scw.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to count images in namespace %s: %w", namespaceID, err)
	}
	return len(resp.Images), nil
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
