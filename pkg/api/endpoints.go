package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/hazyhaar/covidgraph/pkg/kit"
	"github.com/hazyhaar/covidgraph/pkg/region"
)

// Source provides the currently published catalog (see loader.Registry).
type Source interface {
	Catalog() *region.Catalog
}

// Shared request/response types used by both HTTP and MCP transports.

type regionInfo struct {
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Country string   `json:"country,omitempty"`
	Kind    string   `json:"kind"`
	Aliases []string `json:"aliases,omitempty"`
	Dates   int      `json:"dates"`
	First   string   `json:"first,omitempty"`
	Last    string   `json:"last,omitempty"`
}

type regionsResponse struct {
	Regions []regionInfo `json:"regions"`
}

type seriesResponse struct {
	Region regionInfo     `json:"region"`
	Points []region.Point `json:"points"`
}

type listRegionsReq struct {
	Kind string
}

type searchRegionsReq struct {
	Query string
}

type seriesReq struct {
	Query  string
	Choice int
}

func newRegionInfo(r *region.Region) regionInfo {
	info := regionInfo{
		Key:     r.Key(),
		Name:    r.Name(),
		Kind:    r.Kind().String(),
		Aliases: r.Aliases(),
	}
	if r.Kind() == region.State {
		info.Country = r.Country()
	}
	dates := r.Dates()
	info.Dates = len(dates)
	if len(dates) > 0 {
		info.First = region.FormatDate(dates[0])
		info.Last = region.FormatDate(dates[len(dates)-1])
	}
	return info
}

func newRegionsResponse(regions []*region.Region) regionsResponse {
	resp := regionsResponse{Regions: make([]regionInfo, 0, len(regions))}
	for _, r := range regions {
		resp.Regions = append(resp.Regions, newRegionInfo(r))
	}
	return resp
}

func listRegionsEndpoint(src Source) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*listRegionsReq)
		cat := src.Catalog()
		if req.Kind == "" {
			return newRegionsResponse(append(cat.Sorted(region.Country), cat.Sorted(region.State)...)), nil
		}
		kind, err := region.ParseKind(req.Kind)
		if err != nil {
			return nil, err
		}
		return newRegionsResponse(cat.Sorted(kind)), nil
	}
}

func searchRegionsEndpoint(src Source) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*searchRegionsReq)
		if strings.TrimSpace(req.Query) == "" {
			return nil, fmt.Errorf("query is empty")
		}
		return newRegionsResponse(src.Catalog().Find(req.Query)), nil
	}
}

func seriesEndpoint(src Source) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*seriesReq)
		if strings.TrimSpace(req.Query) == "" {
			return nil, fmt.Errorf("query is empty")
		}
		r, err := src.Catalog().Select(req.Query, req.Choice)
		if err != nil {
			return nil, err
		}
		return seriesResponse{Region: newRegionInfo(r), Points: r.Points()}, nil
	}
}
