package serp

import (
	"fmt"
	"strings"
)

// contactKeywords steers search results toward pages that actually list
// phone numbers and emails, per search language.
var contactKeywords = map[string][]string{
	"en": {"contact", "phone", "email", "address", "contact us"},
	"ru": {"контакты", "телефон", "email", "адрес", "связаться"},
	"uk": {"контакти", "телефон", "email", "адреса", "зв'язатися"},
	"kk": {"байланыс", "телефон", "email", "мекенжай"},
	"de": {"kontakt", "telefon", "email", "adresse", "impressum"},
	"fr": {"contact", "téléphone", "email", "adresse", "nous contacter"},
	"it": {"contatti", "telefono", "email", "indirizzo"},
	"es": {"contacto", "teléfono", "email", "dirección"},
	"pt": {"contato", "telefone", "email", "endereço"},
	"pl": {"kontakt", "telefon", "email", "adres"},
	"tr": {"iletişim", "telefon", "email", "adres"},
	"zh": {"联系", "电话", "邮箱", "地址"},
}

// supplierTerms narrows results to organizations that sell, in any
// language the engine understands alongside the query.
var supplierTerms = []string{
	"supplier", "manufacturer", "wholesale", "distributor", "contact",
}

// EnhanceForContactPages rewrites a query so the engine prefers supplier
// pages carrying contact details. Unknown languages get the English
// keyword set.
func EnhanceForContactPages(query, language string) string {
	keywords, ok := contactKeywords[language]
	if !ok {
		keywords = contactKeywords["en"]
	}

	enhanced := fmt.Sprintf("(%s) AND (%s)", query, strings.Join(keywords, " OR "))
	return fmt.Sprintf("(%s) AND (%s)", enhanced, strings.Join(supplierTerms, " OR "))
}

// applySiteFilter restricts a query to the given domains.
func applySiteFilter(query string, domains []string) string {
	sites := make([]string, 0, len(domains))
	for _, d := range domains {
		sites = append(sites, "site:"+d)
	}
	return fmt.Sprintf("(%s) (%s)", query, strings.Join(sites, " OR "))
}
