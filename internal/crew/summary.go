package crew

import (
	"context"

	"studio-hub/internal/models"
)

type RoleSummary struct {
	Role      models.CrewRole `json:"role"`
	Internal  int             `json:"internal"`
	Freelance int             `json:"freelance"`
	Cost      float64         `json:"cost"`
}

// Summary: сводка по составу для отчёта по съёмке.
type Summary struct {
	ShootingID uint          `json:"shooting_id"`
	Roles      []RoleSummary `json:"roles"`
	HeadCount  int           `json:"head_count"`
	TotalCost  float64       `json:"total_cost"`
}

func (r *Reconciler) Summary(ctx context.Context, shootingID uint) (Summary, error) {
	rows, err := r.Crew(ctx, shootingID)
	if err != nil {
		return Summary{}, err
	}
	return summarize(shootingID, rows), nil
}

func summarize(shootingID uint, rows []models.CrewAssignment) Summary {
	byRole := make(map[models.CrewRole]*RoleSummary, len(models.CrewRoles))
	for _, role := range models.CrewRoles {
		byRole[role] = &RoleSummary{Role: role}
	}

	s := Summary{ShootingID: shootingID}
	for _, row := range rows {
		rs, ok := byRole[row.Role]
		if !ok {
			continue
		}
		switch row.Kind {
		case models.KindInternal:
			rs.Internal++
		case models.KindFreelance:
			rs.Freelance++
			rs.Cost += row.Cost
			s.TotalCost += row.Cost
		}
		s.HeadCount++
	}

	for _, role := range models.CrewRoles {
		s.Roles = append(s.Roles, *byRole[role])
	}
	return s
}
