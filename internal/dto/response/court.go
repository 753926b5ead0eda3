package response

import "court-booking/internal/data/entity"

type CourtResponse struct {
	ID       string `json:"id"`
	AreaID   string `json:"area_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	IsActive bool   `json:"is_active"`
}

type CourtAreaResponse struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Courts []CourtResponse `json:"courts"`
}

func CourtToResponse(c *entity.Court) CourtResponse {
	return CourtResponse{
		ID:       c.ID.String(),
		AreaID:   c.AreaID.String(),
		Name:     c.Name,
		Position: c.Position,
		IsActive: c.IsActive,
	}
}

func CourtAreaToResponse(a *entity.CourtArea) CourtAreaResponse {
	resp := CourtAreaResponse{
		ID:     a.ID.String(),
		Name:   a.Name,
		Courts: make([]CourtResponse, 0, len(a.Courts)),
	}
	for i := range a.Courts {
		resp.Courts = append(resp.Courts, CourtToResponse(&a.Courts[i]))
	}
	return resp
}
