package core

import (
	"fmt"
	"strconv"
)

type ChunkMode string

const (
	ModePerPage ChunkMode = "per-page"
	ModeGrouped ChunkMode = "grouped"
)

// perPageLimit is the largest document that is summarized page by page.
const perPageLimit = 20

// PageRange is a contiguous inclusive span of document pages summarized
// together.
type PageRange struct {
	Start int
	End   int
}

// Label renders the range the way section headings expect it: a bare page
// number for a single page, "A-B" for a group.
func (r PageRange) Label() string {
	if r.Start == r.End {
		return strconv.Itoa(r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

type ChunkPlan struct {
	Mode   ChunkMode
	Ranges []PageRange
}

// groupSize picks the group width for documents past the per-page limit.
func groupSize(totalPages int) int {
	switch {
	case totalPages <= 40:
		return 5
	case totalPages <= 75:
		return 10
	case totalPages <= 150:
		return 20
	case totalPages <= 300:
		return 25
	default:
		return 50
	}
}

// PlanChunks partitions a document into the ranges each section summary will
// cover. Documents of up to 20 pages get one range per page; larger documents
// are split into fixed-size groups, the last group truncated to the page
// count. Every page lands in exactly one range and ranges come out in
// ascending order.
func PlanChunks(totalPages int) ChunkPlan {
	if totalPages <= 0 {
		totalPages = 1
	}

	if totalPages <= perPageLimit {
		ranges := make([]PageRange, 0, totalPages)
		for p := 1; p <= totalPages; p++ {
			ranges = append(ranges, PageRange{Start: p, End: p})
		}
		return ChunkPlan{Mode: ModePerPage, Ranges: ranges}
	}

	size := groupSize(totalPages)
	ranges := make([]PageRange, 0, totalPages/size+1)
	for start := 1; start <= totalPages; start += size {
		end := start + size - 1
		if end > totalPages {
			end = totalPages
		}
		ranges = append(ranges, PageRange{Start: start, End: end})
	}
	return ChunkPlan{Mode: ModeGrouped, Ranges: ranges}
}
