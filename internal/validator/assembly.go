package validator

import (
	"fmt"
	"sort"

	"signquote/internal/domain"
)

// Fields a primary row uses to declare its assembly membership.
const (
	FieldAssemblyID    = "assembly_id"
	FieldAssemblyGroup = "assembly_group"
)

// Assignment is a derived per-row assembly annotation. It is recomputed from
// row order on every pass and never persisted on its own.
type Assignment struct {
	RowID                 string `json:"row_id"`
	AssemblyID            string `json:"assembly_id,omitempty"`
	AssemblyGroupID       string `json:"assembly_group_id,omitempty"`
	InheritedFromParentID string `json:"inherited_from_parent_id,omitempty"`
}

// ParentIndex resolves positional parenthood once for the whole grid:
// out[i] is the index of the nearest preceding primary row, or -1. Computing
// it up front keeps the backward scans out of every rule and makes the
// relation testable on its own.
func ParentIndex(rows []domain.Row) []int {
	out := make([]int, len(rows))
	last := -1
	for i := range rows {
		if rows[i].Kind == domain.RowKindPrimary {
			out[i] = -1
			last = i
			continue
		}
		out[i] = last
	}
	return out
}

// Assign propagates assembly identity. Pass one reads each primary row's own
// explicit selection; pass two copies the resolved parent's identity onto
// dependent rows, recording where it came from.
func Assign(rows []domain.Row, parents []int) []Assignment {
	type selection struct{ id, group string }
	own := make([]selection, len(rows))
	for i := range rows {
		if rows[i].Kind == domain.RowKindPrimary {
			own[i] = selection{
				id:    rows[i].Field(FieldAssemblyID),
				group: rows[i].Field(FieldAssemblyGroup),
			}
		}
	}

	out := make([]Assignment, len(rows))
	for i := range rows {
		a := Assignment{RowID: rows[i].ID}
		if rows[i].Kind == domain.RowKindPrimary {
			a.AssemblyID = own[i].id
			a.AssemblyGroupID = own[i].group
		} else if p := parents[i]; p >= 0 {
			a.AssemblyID = own[p].id
			a.AssemblyGroupID = own[p].group
			a.InheritedFromParentID = rows[p].ID
		}
		out[i] = a
	}
	return out
}

// ValidateAssignments flags inherited-group mismatches and groups with no
// primary member. A dependent row's own recorded group must exactly equal
// its parent's, and absence must match absence: a stale selection left on a
// reordered sub-item is an inconsistency, not a fallback.
func ValidateAssignments(rows []domain.Row, parents []int, assignments []Assignment) []Entry {
	var entries []Entry

	for i := range rows {
		if !rows[i].Kind.IsDependent() || parents[i] < 0 {
			continue
		}
		ownGroup := rows[i].Field(FieldAssemblyGroup)
		parentGroup := rows[parents[i]].Field(FieldAssemblyGroup)
		if ownGroup != parentGroup {
			entries = append(entries, Entry{
				RowID: rows[i].ID,
				Key:   KeyAssembly,
				Rule:  "assembly_inheritance_mismatch",
				Message: fmt.Sprintf("row records assembly group %q but its parent %s records %q",
					ownGroup, rows[parents[i]].ID, parentGroup),
				Value: ownGroup,
			})
		}
	}

	// Every non-empty group needs at least one primary member.
	groupHasPrimary := make(map[string]bool)
	groupFirstRow := make(map[string]string)
	groupOrder := []string{}
	for i := range rows {
		group := rows[i].Field(FieldAssemblyGroup)
		if group == "" {
			continue
		}
		if _, seen := groupHasPrimary[group]; !seen {
			groupHasPrimary[group] = false
			groupFirstRow[group] = rows[i].ID
			groupOrder = append(groupOrder, group)
		}
		if rows[i].Kind == domain.RowKindPrimary {
			groupHasPrimary[group] = true
		}
	}
	for _, group := range groupOrder {
		if !groupHasPrimary[group] {
			entries = append(entries, Entry{
				RowID:   groupFirstRow[group],
				Key:     KeyAssembly,
				Rule:    "assembly_group_without_primary",
				Message: fmt.Sprintf("assembly group %q has no primary member", group),
				Value:   group,
			})
		}
	}

	return entries
}

// GroupSummary is the downstream-facing rollup of one assembly group.
type GroupSummary struct {
	Members []string `json:"members"`
	MainIDs []string `json:"main_ids"`
	SubIDs  []string `json:"sub_ids"`
}

// Summarize rolls any assignment set (not just valid ones) up by group for
// downstream consumers.
func Summarize(rows []domain.Row, assignments []Assignment) map[string]GroupSummary {
	byID := make(map[string]domain.RowKind, len(rows))
	for i := range rows {
		byID[rows[i].ID] = rows[i].Kind
	}

	out := make(map[string]GroupSummary)
	for _, a := range assignments {
		if a.AssemblyGroupID == "" {
			continue
		}
		s := out[a.AssemblyGroupID]
		s.Members = append(s.Members, a.RowID)
		if byID[a.RowID] == domain.RowKindPrimary {
			s.MainIDs = append(s.MainIDs, a.RowID)
		} else {
			s.SubIDs = append(s.SubIDs, a.RowID)
		}
		out[a.AssemblyGroupID] = s
	}
	return out
}

// AssemblyGroup is a discovered group: its id plus the member indices of the
// primary rows that selected it, in grid order.
type AssemblyGroup struct {
	ID        string
	MemberIdx []int
}

// IdentifyGroups discovers assembly groups from each primary row's explicit
// selection. Grids with no selections yield no groups, and the structural
// assembly rules then have nothing to check.
func IdentifyGroups(rows []domain.Row) []AssemblyGroup {
	byID := make(map[string][]int)
	for i := range rows {
		if rows[i].Kind != domain.RowKindPrimary {
			continue
		}
		group := rows[i].Field(FieldAssemblyGroup)
		if group == "" {
			continue
		}
		byID[group] = append(byID[group], i)
	}

	groups := make([]AssemblyGroup, 0, len(byID))
	for id, idx := range byID {
		groups = append(groups, AssemblyGroup{ID: id, MemberIdx: idx})
	}
	sort.Slice(groups, func(a, b int) bool {
		return groups[a].MemberIdx[0] < groups[b].MemberIdx[0]
	})
	return groups
}
