package gateway

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
)

// resourceAPI is the slice of the API Gateway client the resolver needs.
type resourceAPI interface {
	apigateway.GetResourcesAPIClient
	CreateResource(ctx context.Context, params *apigateway.CreateResourceInput, optFns ...func(*apigateway.Options)) (*apigateway.CreateResourceOutput, error)
}

// Resolver maps gateway paths onto resource IDs for one REST API and creates
// the segments that do not exist yet.
type Resolver struct {
	client resourceAPI
	apiID  string
	byPath map[string]string
	rootID string
}

func newResolver(client resourceAPI, apiID string) *Resolver {
	return &Resolver{
		client: client,
		apiID:  apiID,
		byPath: make(map[string]string),
	}
}

// Resolve scans the API's resource tree and rebuilds the path to ID map.
func (r *Resolver) Resolve(ctx context.Context) error {
	byPath := make(map[string]string)

	paginator := apigateway.NewGetResourcesPaginator(r.client, &apigateway.GetResourcesInput{
		RestApiId: aws.String(r.apiID),
		Limit:     aws.Int32(500),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			if IsNotFound(err) {
				return fmt.Errorf("REST API %s not found: %w", r.apiID, err)
			}
			return fmt.Errorf("listing resources of API %s: %w", r.apiID, err)
		}
		for _, resource := range page.Items {
			if resource.Path != nil && resource.Id != nil {
				byPath[*resource.Path] = *resource.Id
			}
		}
	}

	rootID, ok := byPath["/"]
	if !ok {
		return fmt.Errorf("API %s has no root resource", r.apiID)
	}

	r.byPath = byPath
	r.rootID = rootID
	return nil
}

func (r *Resolver) RootID() string {
	return r.rootID
}

// FindByPath looks up a gateway path, e.g. "/users/{user_id}".
func (r *Resolver) FindByPath(path string) (string, bool) {
	id, ok := r.byPath[path]
	return id, ok
}

// EnsureRecord describes one segment of an ensured hierarchy.
type EnsureRecord struct {
	Path       string `json:"path"`
	ResourceID string `json:"resource_id"`
	Created    bool   `json:"created"`
}

// EnsureReport summarizes an EnsureHierarchy run.
type EnsureReport struct {
	Created int            `json:"created"`
	Reused  int            `json:"reused"`
	Records []EnsureRecord `json:"records"`
}

// EnsureHierarchy walks the gateway-side segments of a path in order,
// creating every missing resource under its parent. It returns the leaf
// resource ID. Creation conflicts mean someone else created the segment
// first; the tree is re-resolved and the existing resource reused.
func (r *Resolver) EnsureHierarchy(ctx context.Context, p Path) (string, EnsureReport, error) {
	var report EnsureReport

	if r.rootID == "" {
		if err := r.Resolve(ctx); err != nil {
			return "", report, err
		}
	}

	parentID := r.rootID
	currentPath := ""
	for _, segment := range p.GatewaySegments() {
		currentPath += "/" + segment

		if id, ok := r.byPath[currentPath]; ok {
			report.Reused++
			report.Records = append(report.Records, EnsureRecord{Path: currentPath, ResourceID: id})
			parentID = id
			continue
		}

		created, err := r.client.CreateResource(ctx, &apigateway.CreateResourceInput{
			RestApiId: aws.String(r.apiID),
			ParentId:  aws.String(parentID),
			PathPart:  aws.String(segment),
		})
		if err != nil {
			if !IsConflict(err) {
				return "", report, fmt.Errorf("creating resource %s: %w", currentPath, err)
			}
			// Created concurrently or present under a stale map; rescan.
			if err := r.Resolve(ctx); err != nil {
				return "", report, err
			}
			id, ok := r.byPath[currentPath]
			if !ok {
				return "", report, fmt.Errorf("resource %s conflicted but cannot be found", currentPath)
			}
			report.Reused++
			report.Records = append(report.Records, EnsureRecord{Path: currentPath, ResourceID: id})
			parentID = id
			continue
		}

		id := aws.ToString(created.Id)
		r.byPath[currentPath] = id
		report.Created++
		report.Records = append(report.Records, EnsureRecord{Path: currentPath, ResourceID: id, Created: true})
		parentID = id
	}

	return parentID, report, nil
}
