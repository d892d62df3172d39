package query

import (
	"fmt"

	"SupplierScout/internal/domain"
)

// TemplateSet holds the phrase templates one strategy combines with the
// product text and location. Phrases sit between the product text and the
// location name; Delivery is a full-sentence template used only when a
// delivery date is present.
type TemplateSet struct {
	Phrases  []string
	Delivery string
}

// Registry keeps a mapping from (strategy, language) to template sets.
type Registry struct {
	sets map[domain.Strategy]map[string]TemplateSet
}

// NewRegistry builds a registry preloaded with the default strategies.
func NewRegistry() *Registry {
	r := &Registry{sets: map[domain.Strategy]map[string]TemplateSet{}}
	for strategy, byLang := range defaultTemplates {
		for lang, set := range byLang {
			r.Register(strategy, lang, set)
		}
	}
	return r
}

// Register adds or replaces the template set for a strategy/language pair.
func (r *Registry) Register(strategy domain.Strategy, language string, set TemplateSet) {
	if r.sets == nil {
		r.sets = map[domain.Strategy]map[string]TemplateSet{}
	}
	if r.sets[strategy] == nil {
		r.sets[strategy] = map[string]TemplateSet{}
	}
	r.sets[strategy][language] = set
}

// Resolve returns the template set for a strategy in the given language,
// falling back to English templates for languages without their own set.
func (r *Registry) Resolve(strategy domain.Strategy, language string) (TemplateSet, error) {
	byLang, ok := r.sets[strategy]
	if !ok {
		return TemplateSet{}, fmt.Errorf("strategy %s is not registered", strategy)
	}
	if set, ok := byLang[language]; ok {
		return set, nil
	}
	if set, ok := byLang["en"]; ok {
		return set, nil
	}
	return TemplateSet{}, fmt.Errorf("strategy %s has no templates for %s", strategy, language)
}

// Delivery templates read "buy <amount> <product> in <location> deliver by
// <date>"; %s slots are amount-with-product, location, date.
var defaultTemplates = map[domain.Strategy]map[string]TemplateSet{
	domain.StrategyDirect: {
		"en": {
			Phrases:  []string{"supplier", "buy wholesale", "suppliers"},
			Delivery: "buy %s in %s deliver by %s",
		},
		"ru": {
			Phrases:  []string{"поставщик", "купить оптом", "поставщики"},
			Delivery: "купить %s в %s доставка к %s",
		},
	},
	domain.StrategyCatalog: {
		"en": {
			Phrases:  []string{"supplier catalog", "wholesale price list", "wholesale suppliers"},
			Delivery: "buy %s in %s deliver by %s",
		},
		"ru": {
			Phrases:  []string{"каталог поставщиков", "прайс-лист поставщики", "оптовые поставщики"},
			Delivery: "купить %s в %s доставка к %s",
		},
	},
	domain.StrategyTrusted: {
		"en": {
			Phrases:  []string{"verified suppliers", "reliable suppliers", "official suppliers"},
			Delivery: "buy %s in %s deliver by %s",
		},
		"ru": {
			Phrases:  []string{"проверенные поставщики", "надежные поставщики", "официальные поставщики"},
			Delivery: "купить %s в %s доставка к %s",
		},
	},
	domain.StrategyLocal: {
		"en": {
			Phrases:  []string{"local suppliers", "regional suppliers", "suppliers near"},
			Delivery: "buy %s in %s deliver by %s",
		},
		"ru": {
			Phrases:  []string{"местные поставщики", "региональные поставщики", "поставщики рядом"},
			Delivery: "купить %s в %s доставка к %s",
		},
	},
}
