package access

import (
	"context"

	"github.com/magabrotheeeer/movie-access/internal/metrics"
	"github.com/magabrotheeeer/movie-access/internal/models"
)

// Guard — один шаг проверки доступа.
type Guard interface {
	Check(ctx context.Context, p *models.Principal) (Decision, error)
	Name() string
}

// Pipeline выполняет guard-ы по порядку. Первый отказ или ошибка прекращает проверку.
type Pipeline struct {
	guards  []Guard
	metrics *metrics.Metrics
}

// NewPipeline создаёт конвейер. m может быть nil.
func NewPipeline(m *metrics.Metrics, guards ...Guard) *Pipeline {
	return &Pipeline{guards: guards, metrics: m}
}

// Check реализует Guard, поэтому конвейеры можно вкладывать.
func (p *Pipeline) Check(ctx context.Context, principal *models.Principal) (Decision, error) {
	for _, g := range p.guards {
		d, err := g.Check(ctx, principal)
		if err != nil {
			return Decision{}, err
		}
		p.metrics.AccessDecision(g.Name(), d.Allowed, string(d.Reason))
		if !d.Allowed {
			return d, nil
		}
	}
	return Allow(), nil
}

// Name реализует Guard.
func (*Pipeline) Name() string { return "pipeline" }
