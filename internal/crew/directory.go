package crew

import (
	"context"
	"fmt"
	"strings"

	"studio-hub/internal/models"
)

const defaultDirectoryLimit = 20

// Directory ищет фрилансеров по началу имени для автозаполнения формы.
func (r *Reconciler) Directory(ctx context.Context, prefix string, limit int) ([]models.Freelancer, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultDirectoryLimit
	}

	q := r.db.WithContext(ctx).Order("name asc").Limit(limit)
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likeEscaper.Replace(strings.ToLower(prefix))+"%")
	}

	var out []models.Freelancer
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("freelancer directory: %w", err)
	}
	return out, nil
}

// likeEscaper экранирует спецсимволы LIKE, чтобы префикс искался буквально.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
