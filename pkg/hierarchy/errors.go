package hierarchy

import (
	"fmt"
	"strconv"
	"strings"

	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
)

// NoRootError is returned by [Build] when no record lacks a parent.
// Records is the number of input records (0 for empty input).
type NoRootError struct {
	Records int
}

func (e *NoRootError) Error() string {
	if e.Records == 0 {
		return "hierarchy has no root: no records"
	}
	return fmt.Sprintf("hierarchy has no root: all %d records have a parent", e.Records)
}

// Code returns [terrors.ErrCodeNoRoot].
func (e *NoRootError) Code() terrors.Code { return terrors.ErrCodeNoRoot }

// AmbiguousRootError is returned by [Build] when more than one record lacks
// a parent. IDs lists the candidate roots in input order.
type AmbiguousRootError struct {
	IDs []int
}

func (e *AmbiguousRootError) Error() string {
	return fmt.Sprintf("hierarchy has %d roots: %s", len(e.IDs), joinIDs(e.IDs))
}

// Code returns [terrors.ErrCodeAmbiguousRoot].
func (e *AmbiguousRootError) Code() terrors.Code { return terrors.ErrCodeAmbiguousRoot }

// CyclicHierarchyError is returned by [Build] when following parent links
// from some record returns to a record already on the chain. Cycle lists the
// IDs on the loop, starting from the first one encountered.
type CyclicHierarchyError struct {
	Cycle []int
}

func (e *CyclicHierarchyError) Error() string {
	ids := append(append([]int(nil), e.Cycle...), e.Cycle[0])
	return "hierarchy contains a cycle: " + strings.ReplaceAll(joinIDs(ids), ", ", " -> ")
}

// Code returns [terrors.ErrCodeCyclicHierarchy].
func (e *CyclicHierarchyError) Code() terrors.Code { return terrors.ErrCodeCyclicHierarchy }

// DuplicateIDError is returned by [Build] when two records share an ID.
type DuplicateIDError struct {
	ID int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate record id %d", e.ID)
}

// Code returns [terrors.ErrCodeDuplicateID].
func (e *DuplicateIDError) Code() terrors.Code { return terrors.ErrCodeDuplicateID }

// OrphanRecordWarning describes a record whose parent does not exist.
// It is collected in [Tree.Orphans] and, with [WithStrictOrphans], returned
// as an error.
type OrphanRecordWarning struct {
	ID       int
	ParentID int
}

func (w OrphanRecordWarning) Error() string {
	return fmt.Sprintf("record %d references missing parent %d", w.ID, w.ParentID)
}

// Code returns [terrors.ErrCodeOrphanRecord].
func (w OrphanRecordWarning) Code() terrors.Code { return terrors.ErrCodeOrphanRecord }

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
