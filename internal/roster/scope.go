package roster

import "errors"

// ScopeKind names the shape of a division scope.
type ScopeKind string

const (
	ScopeAllDivisions ScopeKind = "all"
	ScopeOneDivision  ScopeKind = "division"
	ScopeOneBatch     ScopeKind = "batch"
	ScopeDivisions    ScopeKind = "divisions"
)

// DivisionScope says which divisions of a class a subject or practical is
// taught to. It is resolved and validated once when the record is written,
// never inferred again at read time.
type DivisionScope struct {
	Kind        ScopeKind `json:"kind"`
	DivisionID  string    `json:"division_id,omitempty"`
	BatchID     string    `json:"batch_id,omitempty"`
	DivisionIDs []string  `json:"division_ids,omitempty"`
}

// AllDivisions scopes an offering to every division of its class.
func AllDivisions() DivisionScope {
	return DivisionScope{Kind: ScopeAllDivisions}
}

// OneDivision scopes an offering to a single division.
func OneDivision(divisionID string) DivisionScope {
	return DivisionScope{Kind: ScopeOneDivision, DivisionID: divisionID}
}

// OneBatch scopes an offering to one lab batch within a division.
func OneBatch(divisionID, batchID string) DivisionScope {
	return DivisionScope{Kind: ScopeOneBatch, DivisionID: divisionID, BatchID: batchID}
}

// SpecificDivisions scopes an offering to an explicit list of divisions.
func SpecificDivisions(ids ...string) DivisionScope {
	return DivisionScope{Kind: ScopeDivisions, DivisionIDs: ids}
}

// Includes reports whether the scope covers the given division.
func (s DivisionScope) Includes(divisionID string) bool {
	switch s.Kind {
	case ScopeAllDivisions:
		return true
	case ScopeOneDivision, ScopeOneBatch:
		return s.DivisionID == divisionID
	case ScopeDivisions:
		for _, id := range s.DivisionIDs {
			if id == divisionID {
				return true
			}
		}
	}
	return false
}

// Validate checks the scope's kind and that the ids it requires are present.
func (s DivisionScope) Validate() error {
	switch s.Kind {
	case ScopeAllDivisions:
		return nil
	case ScopeOneDivision:
		if s.DivisionID == "" {
			return errors.New("division scope requires a division id")
		}
		return nil
	case ScopeOneBatch:
		if s.DivisionID == "" || s.BatchID == "" {
			return errors.New("batch scope requires division and batch ids")
		}
		return nil
	case ScopeDivisions:
		if len(s.DivisionIDs) == 0 {
			return errors.New("divisions scope requires at least one division id")
		}
		return nil
	default:
		return errors.New("unknown division scope kind")
	}
}

// divisionIDs lists every division id the scope names explicitly.
func (s DivisionScope) divisionIDs() []string {
	switch s.Kind {
	case ScopeOneDivision, ScopeOneBatch:
		return []string{s.DivisionID}
	case ScopeDivisions:
		return s.DivisionIDs
	}
	return nil
}
