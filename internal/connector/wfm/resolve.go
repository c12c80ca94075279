package wfm

// Catalogs holds the fetched report, period and hyperfind catalogs for one
// run. Lookups are exact-match linear scans; catalogs hold tens of entries.
type Catalogs struct {
	Reports    []Report
	Periods    []SymbolicPeriod
	Hyperfinds []HyperfindQuery
}

// Report resolves a report name to its descriptor.
func (c *Catalogs) Report(name string) (Report, error) {
	for _, r := range c.Reports {
		if r.Name() == name {
			return r, nil
		}
	}
	return nil, &ResolutionError{Kind: "report", Name: name}
}

// Period resolves a symbolic period id to its descriptor.
func (c *Catalogs) Period(symbolicID string) (SymbolicPeriod, error) {
	for _, p := range c.Periods {
		if p.SymbolicID() == symbolicID {
			return p, nil
		}
	}
	return nil, &ResolutionError{Kind: "symbolic period", Name: symbolicID}
}

// Hyperfind resolves a hyperfind name to its descriptor.
func (c *Catalogs) Hyperfind(name string) (HyperfindQuery, error) {
	for _, q := range c.Hyperfinds {
		if q.Name() == name {
			return q, nil
		}
	}
	return nil, &ResolutionError{Kind: "hyperfind", Name: name}
}
