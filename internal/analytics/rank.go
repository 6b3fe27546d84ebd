package analytics

import (
	"net/http"
	"sort"

	"github.com/wms-platform/productivity-service/pkg/errors"
)

// Direction is the sort direction for ranking. It is always explicit; there
// is no default.
type Direction string

const (
	DirectionAsc  Direction = "asc"
	DirectionDesc Direction = "desc"
)

// IsValid checks if the direction is a member of the closed set
func (d Direction) IsValid() bool {
	return d == DirectionAsc || d == DirectionDesc
}

// String returns the string representation of the direction
func (d Direction) String() string {
	return string(d)
}

// RankPolicy selects how tied groups are numbered.
type RankPolicy string

const (
	// RankPolicyGapped gives tied groups the same rank; the next distinct
	// value's rank is one plus the number of groups strictly ahead, so
	// ties consume rank numbers (1,2,2,4).
	RankPolicyGapped RankPolicy = "gapped"
	// RankPolicyDense gives tied groups the same rank; the next distinct
	// value's rank is the previous distinct rank plus one (1,2,2,3).
	RankPolicyDense RankPolicy = "dense"
	// RankPolicyOrdinal gives every group a unique strictly increasing
	// rank; ties are broken by input sequence order, first seen first.
	RankPolicyOrdinal RankPolicy = "ordinal"
)

// IsValid checks if the policy is a member of the closed set
func (p RankPolicy) IsValid() bool {
	switch p {
	case RankPolicyGapped, RankPolicyDense, RankPolicyOrdinal:
		return true
	default:
		return false
	}
}

// String returns the string representation of the policy
func (p RankPolicy) String() string {
	return string(p)
}

// NewRankPolicy creates a RankPolicy from a string with validation
func NewRankPolicy(s string) (RankPolicy, error) {
	policy := RankPolicy(s)
	if !policy.IsValid() {
		return "", errors.ErrValidationField("policy", s)
	}
	return policy, nil
}

// RankedGroup pairs a group with its computed rank.
type RankedGroup[T any] struct {
	Group T
	Rank  int
}

// RankOptions configures one ranking computation.
type RankOptions[T any] struct {
	// Key extracts the sort key. Multi-component keys compare
	// lexicographically, so later components act as tie-breaks; a tie is
	// exact numeric equality on every component.
	Key func(T) []float64

	// Direction orders the sort key, ascending or descending.
	Direction Direction

	// Policy numbers tied groups.
	Policy RankPolicy

	// PartitionBy, when set, computes ranks independently within each
	// distinct partition key, each partition restarting at rank 1.
	// Partitions are defined solely by key equality.
	PartitionBy func(T) string

	// RequireInput makes an empty input an EMPTY_INPUT error instead of
	// an empty output.
	RequireInput bool
}

// Rank orders groups by the sort key and annotates each with its rank. It
// is a pure function: the input slice is never mutated and the result is a
// fresh slice. Groups are returned partition by partition in first-seen
// order, sorted by the key within each partition; equal keys keep their
// input order, which makes re-ranking an already ranked, unmodified
// sequence with identical options idempotent.
func Rank[T any](groups []T, opts RankOptions[T]) ([]RankedGroup[T], error) {
	if opts.Key == nil {
		return nil, errors.ErrValidation("rank requires a sort key extractor")
	}
	if !opts.Direction.IsValid() {
		return nil, errors.ErrValidationField("direction", opts.Direction.String())
	}
	if !opts.Policy.IsValid() {
		return nil, errors.ErrValidationField("policy", opts.Policy.String())
	}

	if len(groups) == 0 {
		if opts.RequireInput {
			return nil, errors.NewAppError(errors.CodeEmptyInput,
				"ranking requires at least one group", http.StatusUnprocessableEntity)
		}
		return []RankedGroup[T]{}, nil
	}

	keys := make([][]float64, len(groups))
	for i, group := range groups {
		keys[i] = opts.Key(group)
	}

	partitions := make([]string, len(groups))
	partitionOrder := make(map[string]int)
	if opts.PartitionBy != nil {
		for i, group := range groups {
			p := opts.PartitionBy(group)
			partitions[i] = p
			if _, seen := partitionOrder[p]; !seen {
				partitionOrder[p] = len(partitionOrder)
			}
		}
	}

	order := make([]int, len(groups))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if pa, pb := partitionOrder[partitions[ia]], partitionOrder[partitions[ib]]; pa != pb {
			return pa < pb
		}
		cmp := compareKeys(keys[ia], keys[ib])
		if opts.Direction == DirectionDesc {
			cmp = -cmp
		}
		return cmp < 0
	})

	ranked := make([]RankedGroup[T], 0, len(groups))
	var (
		position      int
		rank          int
		prevKey       []float64
		prevPartition string
		started       bool
	)
	for _, idx := range order {
		partition := partitions[idx]
		if !started || partition != prevPartition {
			position = 1
			rank = 1
			prevKey = keys[idx]
			prevPartition = partition
			started = true
		} else {
			position++
			if !keysEqual(keys[idx], prevKey) {
				switch opts.Policy {
				case RankPolicyGapped:
					rank = position
				case RankPolicyDense:
					rank++
				}
				prevKey = keys[idx]
			}
		}
		if opts.Policy == RankPolicyOrdinal {
			rank = position
		}

		ranked = append(ranked, RankedGroup[T]{Group: groups[idx], Rank: rank})
	}

	return ranked, nil
}

// compareKeys compares sort keys lexicographically.
func compareKeys(a, b []float64) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

func keysEqual(a, b []float64) bool {
	return compareKeys(a, b) == 0
}
