package entity

// Opportunity - сделка, оценка которой превышает цену минимум на порог.
// Хранится в памяти бессрочно, ключ дедупликации Deal.URL.
type Opportunity struct {
	Deal     Deal
	Estimate float64
	Discount float64
}

// URLs returns the dedup key set of a memory snapshot.
func URLs(opportunities []Opportunity) map[string]struct{} {
	urls := make(map[string]struct{}, len(opportunities))
	for _, o := range opportunities {
		urls[o.Deal.URL] = struct{}{}
	}
	return urls
}
