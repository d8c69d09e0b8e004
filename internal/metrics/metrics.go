package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Metrics struct {
	Registry *prometheus.Registry

	RelationAttempts     *prometheus.CounterVec
	RecipeCompositions   *prometheus.CounterVec
	ShoppingListExported *prometheus.CounterVec
}

// New builds an isolated registry so tests can create as many as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		RelationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodgram_relation_attempts_total",
			Help: "Favorite, shopping cart and subscription attempts by outcome.",
		}, []string{"kind", "outcome"}),
		RecipeCompositions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodgram_recipe_compositions_total",
			Help: "Recipe ingredient/tag set writes by operation and result.",
		}, []string{"operation", "result"}),
		ShoppingListExported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodgram_shopping_list_exports_total",
			Help: "Shopping list downloads by format.",
		}, []string{"format"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RelationAttempts,
		m.RecipeCompositions,
		m.ShoppingListExported,
	)
	return m
}
