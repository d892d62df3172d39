// Package aggregate deduplicates supplier candidates collected across
// queries, languages and result sources.
package aggregate

import "SupplierScout/internal/domain"

// Deduplicate collapses candidates sharing an identity key, keeping the
// first occurrence in input order. Later duplicates only contribute
// contact data the first occurrence lacked.
func Deduplicate(candidates []domain.SupplierCandidate) []domain.SupplierCandidate {
	index := make(map[string]int, len(candidates))
	out := make([]domain.SupplierCandidate, 0, len(candidates))

	for _, c := range candidates {
		key := c.Key()
		if key == "" {
			continue
		}
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, c)
			continue
		}
		merge(&out[i], c)
	}
	return out
}

// merge backfills fields the kept candidate is missing. The kept
// candidate's own data always wins.
func merge(kept *domain.SupplierCandidate, dup domain.SupplierCandidate) {
	if kept.Website == "" {
		kept.Website = dup.Website
	}
	if kept.ContactInfo == "" {
		kept.ContactInfo = dup.ContactInfo
	}
	if len(kept.Phones) == 0 {
		kept.Phones = dup.Phones
	}
	if len(kept.Emails) == 0 {
		kept.Emails = dup.Emails
	}
}
