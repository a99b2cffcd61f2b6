package validator

import (
	"fmt"

	"signquote/internal/domain"
	"signquote/internal/ruleset"
)

// Structural rule names, surfaced on entries keyed by KeyStructure.
const (
	RuleLeadingSubItem       = "leading_sub_item"
	RuleMissingParent        = "missing_parent"
	RuleContinuationGap      = "continuation_gap"
	RuleSpecialParent        = "special_parent_sub_item"
	RuleProductTypeMissing   = "product_type_missing"
	RuleAssemblyContiguity   = "assembly_not_contiguous"
	RuleAssemblyNonPrimary   = "assembly_non_primary_member"
	RuleAssemblyMarkerPlace  = "assembly_marker_placement"
	RuleAssemblyTooLarge     = "assembly_too_large"
	RuleAssemblyDividerSplit = "assembly_divider_inside"
)

// Assembly groups may not exceed nine members.
const maxAssemblyMembers = 9

// ValidateStructure runs every grid-wide placement rule over the full row
// ordering. Placement validity is a property of the whole ordering, so there
// is no incremental variant; each rule is checked independently.
func ValidateStructure(rows []domain.Row, parents []int, cfg *ruleset.Config) []Entry {
	var entries []Entry

	add := func(rowID, rule, message string) {
		entries = append(entries, Entry{
			RowID:   rowID,
			Key:     KeyStructure,
			Rule:    rule,
			Message: message,
		})
	}

	for i := range rows {
		row := &rows[i]

		// A row carrying data but no product type selection cannot be
		// validated against any rule pack.
		if row.HasData() && row.ProductTypeID == 0 {
			add(row.ID, RuleProductTypeMissing, "product type must be selected")
		}

		switch row.Kind {
		case domain.RowKindSubItem:
			if i == 0 {
				add(row.ID, RuleLeadingSubItem, "sub-item rows cannot be first in the grid")
			}
			if parents[i] < 0 {
				add(row.ID, RuleMissingParent, "sub-item rows cannot exist without a parent product")
			} else if cfg.Category(rows[parents[i]].ProductTypeID) == domain.ProductCategorySpecial {
				add(row.ID, RuleSpecialParent, "special product types cannot own sub-items")
			}

		case domain.RowKindContinuation:
			if parents[i] < 0 {
				add(row.ID, RuleMissingParent, "continuation rows cannot exist without a parent product")
			} else {
				// Only the parent's own sub-items may sit between a
				// continuation and its parent.
				for j := parents[i] + 1; j < i; j++ {
					if rows[j].Kind != domain.RowKindSubItem {
						add(row.ID, RuleContinuationGap, "continuation rows must directly follow their parent and its sub-items")
						break
					}
				}
			}
		}
	}

	entries = append(entries, validateAssemblyPlacement(rows, cfg)...)
	return entries
}

// validateAssemblyPlacement checks the contiguity, ownership, cardinality and
// marker-placement invariants of discovered assembly groups.
func validateAssemblyPlacement(rows []domain.Row, cfg *ruleset.Config) []Entry {
	var entries []Entry
	record := func(rowID, rule, message string) {
		entries = append(entries, Entry{RowID: rowID, Key: KeyStructure, Rule: rule, Message: message})
	}

	// Only primary rows may declare membership.
	for i := range rows {
		if rows[i].Kind != domain.RowKindPrimary && rows[i].Field(FieldAssemblyGroup) != "" {
			record(rows[i].ID, RuleAssemblyNonPrimary, "only primary rows may be assembly members")
		}
	}

	for _, group := range IdentifyGroups(rows) {
		// Marker rows close a group; divider rows split the grid. Neither
		// counts as a member.
		var members, markers []int
		for _, idx := range group.MemberIdx {
			switch cfg.Category(rows[idx].ProductTypeID) {
			case domain.ProductCategoryAssembly:
				markers = append(markers, idx)
			default:
				members = append(members, idx)
			}
		}
		if len(members) == 0 {
			continue
		}

		if len(members) > maxAssemblyMembers {
			record(rows[members[0]].ID, RuleAssemblyTooLarge,
				fmt.Sprintf("assembly group %q cannot exceed %d members", group.ID, maxAssemblyMembers))
		}

		first, last := members[0], members[len(members)-1]

		// Between the first and last member, every primary row must belong
		// to the group (dependents of members are allowed in the span).
		for i := first + 1; i < last; i++ {
			if rows[i].Kind != domain.RowKindPrimary {
				continue
			}
			if rows[i].Field(FieldAssemblyGroup) != group.ID {
				record(rows[i].ID, RuleAssemblyContiguity,
					fmt.Sprintf("assembly group %q members must be contiguous", group.ID))
			}
		}

		// A trailing marker must sit strictly after all member indices.
		for _, m := range markers {
			if m <= last {
				record(rows[m].ID, RuleAssemblyMarkerPlace,
					fmt.Sprintf("assembly marker for group %q must follow all group members", group.ID))
			}
		}

		// Subtotal/divider rows may not fall inside the group's span.
		for i := first + 1; i < last; i++ {
			if cfg.Category(rows[i].ProductTypeID) == domain.ProductCategoryDivider {
				record(rows[i].ID, RuleAssemblyDividerSplit,
					fmt.Sprintf("subtotal rows cannot fall inside assembly group %q", group.ID))
			}
		}
	}

	return entries
}
