package client

// Keep reports whether r carries identity evidence: an entity type or at
// least one name.
func Keep(r Record) bool {
	for _, v := range []any{r.EntityType, r.Name, r.Forename, r.Surname, r.CompanyName} {
		if !IsEmpty(v) {
			return true
		}
	}
	return false
}

// Filter returns the records Keep accepts, in their original order.
func Filter(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if Keep(r) {
			out = append(out, r)
		}
	}
	return out
}
