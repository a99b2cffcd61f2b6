package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signquote/internal/domain"
)

func TestParentIndex(t *testing.T) {
	rows := []domain.Row{
		row("p1", domain.RowKindPrimary, 1, nil),
		row("s1", domain.RowKindSubItem, 0, nil),
		row("c1", domain.RowKindContinuation, 0, nil),
		row("p2", domain.RowKindPrimary, 1, nil),
		row("s2", domain.RowKindSubItem, 0, nil),
	}
	assert.Equal(t, []int{-1, 0, 0, -1, 3}, ParentIndex(rows))
}

func TestParentIndex_LeadingDependents(t *testing.T) {
	rows := []domain.Row{
		row("s1", domain.RowKindSubItem, 0, nil),
		row("c1", domain.RowKindContinuation, 0, nil),
		row("p1", domain.RowKindPrimary, 1, nil),
	}
	assert.Equal(t, []int{-1, -1, -1}, ParentIndex(rows))
}

func TestAssign_PropagatesParentIdentity(t *testing.T) {
	rows := []domain.Row{
		row("p1", domain.RowKindPrimary, 1, map[string]string{
			FieldAssemblyID:    "asm-7",
			FieldAssemblyGroup: "A",
		}),
		row("s1", domain.RowKindSubItem, 0, nil),
		row("p2", domain.RowKindPrimary, 1, nil),
		row("s2", domain.RowKindSubItem, 0, nil),
	}

	out := Assign(rows, ParentIndex(rows))
	require.Len(t, out, 4)

	assert.Equal(t, Assignment{RowID: "p1", AssemblyID: "asm-7", AssemblyGroupID: "A"}, out[0])
	assert.Equal(t, Assignment{RowID: "s1", AssemblyID: "asm-7", AssemblyGroupID: "A", InheritedFromParentID: "p1"}, out[1])
	assert.Equal(t, Assignment{RowID: "p2"}, out[2])
	assert.Equal(t, Assignment{RowID: "s2", InheritedFromParentID: "p2"}, out[3])
}

func TestAssign_OrphanDependentGetsNothing(t *testing.T) {
	rows := []domain.Row{row("s1", domain.RowKindSubItem, 0, nil)}
	out := Assign(rows, ParentIndex(rows))
	assert.Equal(t, Assignment{RowID: "s1"}, out[0])
}

func TestValidateAssignments_InheritanceMismatch(t *testing.T) {
	// The sub-item still records a group from before the grid was reordered.
	rows := []domain.Row{
		row("p1", domain.RowKindPrimary, 1, map[string]string{FieldAssemblyGroup: "A"}),
		row("s1", domain.RowKindSubItem, 0, map[string]string{FieldAssemblyGroup: "B"}),
	}
	parents := ParentIndex(rows)

	entries := ValidateAssignments(rows, parents, Assign(rows, parents))
	require.Len(t, entries, 1)
	assert.Equal(t, "s1", entries[0].RowID)
	assert.Equal(t, KeyAssembly, entries[0].Key)
	assert.Equal(t, "assembly_inheritance_mismatch", entries[0].Rule)
}

func TestValidateAssignments_AbsenceMustMatchAbsence(t *testing.T) {
	// Parent has no group but the sub-item records one: mismatch.
	rows := []domain.Row{
		row("p1", domain.RowKindPrimary, 1, nil),
		row("s1", domain.RowKindSubItem, 0, map[string]string{FieldAssemblyGroup: "A"}),
	}
	parents := ParentIndex(rows)
	entries := ValidateAssignments(rows, parents, Assign(rows, parents))
	require.Len(t, entries, 2)
	assert.Equal(t, "assembly_inheritance_mismatch", entries[0].Rule)
	// The stray group also has no primary member.
	assert.Equal(t, "assembly_group_without_primary", entries[1].Rule)
}

func TestValidateAssignments_MatchingGroupsClean(t *testing.T) {
	rows := []domain.Row{
		row("p1", domain.RowKindPrimary, 1, map[string]string{FieldAssemblyGroup: "A"}),
		row("s1", domain.RowKindSubItem, 0, map[string]string{FieldAssemblyGroup: "A"}),
		row("p2", domain.RowKindPrimary, 1, nil),
		row("s2", domain.RowKindSubItem, 0, nil),
	}
	parents := ParentIndex(rows)
	assert.Empty(t, ValidateAssignments(rows, parents, Assign(rows, parents)))
}

func TestSummarize(t *testing.T) {
	rows := []domain.Row{
		row("p1", domain.RowKindPrimary, 1, map[string]string{FieldAssemblyGroup: "A"}),
		row("s1", domain.RowKindSubItem, 0, nil),
		row("p2", domain.RowKindPrimary, 1, map[string]string{FieldAssemblyGroup: "A"}),
		row("p3", domain.RowKindPrimary, 1, nil),
	}
	assignments := Assign(rows, ParentIndex(rows))

	groups := Summarize(rows, assignments)
	require.Len(t, groups, 1)
	a := groups["A"]
	assert.Equal(t, []string{"p1", "s1", "p2"}, a.Members)
	assert.Equal(t, []string{"p1", "p2"}, a.MainIDs)
	assert.Equal(t, []string{"s1"}, a.SubIDs)
}

func TestIdentifyGroups(t *testing.T) {
	rows := []domain.Row{
		row("p1", domain.RowKindPrimary, 1, map[string]string{FieldAssemblyGroup: "B"}),
		row("s1", domain.RowKindSubItem, 0, map[string]string{FieldAssemblyGroup: "B"}),
		row("p2", domain.RowKindPrimary, 1, map[string]string{FieldAssemblyGroup: "A"}),
		row("p3", domain.RowKindPrimary, 1, map[string]string{FieldAssemblyGroup: "B"}),
	}

	groups := IdentifyGroups(rows)
	require.Len(t, groups, 2)
	// Ordered by first member index; sub-item selections are ignored.
	assert.Equal(t, "B", groups[0].ID)
	assert.Equal(t, []int{0, 3}, groups[0].MemberIdx)
	assert.Equal(t, "A", groups[1].ID)
	assert.Equal(t, []int{2}, groups[1].MemberIdx)
}

func TestIdentifyGroups_NoSelections(t *testing.T) {
	rows := []domain.Row{row("p1", domain.RowKindPrimary, 1, nil)}
	assert.Empty(t, IdentifyGroups(rows))
}
