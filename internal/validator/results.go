package validator

// Keys for non-field result entries.
const (
	KeyStructure = "structure"
	KeyAssembly  = "assembly"
)

// Entry is one validation failure, keyed by row and by field name (or by
// KeyStructure / KeyAssembly for grid-level outcomes). Every published entry
// is blocking; warnings are escalated before entries are built.
type Entry struct {
	RowID          string `json:"row_id"`
	Key            string `json:"key"`
	Rule           string `json:"rule"`
	Message        string `json:"message"`
	ExpectedFormat string `json:"expected_format,omitempty"`
	Value          string `json:"value,omitempty"`
}

// RowOutcome is the per-row classification published alongside entries.
type RowOutcome struct {
	Empty            bool               `json:"empty"`
	PricingAllowed   bool               `json:"pricing_allowed"`
	VisibleInPreview bool               `json:"visible_in_preview"`
	IncompleteFields []string           `json:"incomplete_fields,omitempty"`
	Derived          map[string]float64 `json:"derived,omitempty"`
}

// Aggregates are grid-wide facts computed from every row's derived values.
type Aggregates struct {
	TotalWattage float64 `json:"total_wattage"`
	NeedsUL      bool    `json:"needs_ul"`
	RowCount     int     `json:"row_count"`
}

// ResultSet is the immutable outcome of one validation pass. It is rebuilt
// from scratch every run; callers own storing and publishing it.
type ResultSet struct {
	Entries           []Entry               `json:"entries"`
	Rows              map[string]RowOutcome `json:"rows"`
	Assignments       []Assignment          `json:"assignments"`
	Aggregates        Aggregates            `json:"aggregates"`
	HasBlockingErrors bool                  `json:"has_blocking_errors"`
}

func newResultSet() *ResultSet {
	return &ResultSet{
		Entries: []Entry{},
		Rows:    make(map[string]RowOutcome),
	}
}

func (rs *ResultSet) add(entries ...Entry) {
	rs.Entries = append(rs.Entries, entries...)
}

// ErrorsFor returns all entries for one row, in publication order.
func (rs *ResultSet) ErrorsFor(rowID string) []Entry {
	var out []Entry
	for _, e := range rs.Entries {
		if e.RowID == rowID {
			out = append(out, e)
		}
	}
	return out
}

// FieldErrors returns entries for one (row, key) pair.
func (rs *ResultSet) FieldErrors(rowID, key string) []Entry {
	var out []Entry
	for _, e := range rs.Entries {
		if e.RowID == rowID && e.Key == key {
			out = append(out, e)
		}
	}
	return out
}

// Outcome returns the classification for a row.
func (rs *ResultSet) Outcome(rowID string) (RowOutcome, bool) {
	o, ok := rs.Rows[rowID]
	return o, ok
}
