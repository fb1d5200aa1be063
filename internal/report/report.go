package report

import (
	"sort"

	"personmerge/internal/merge"
)

// SizeBucket is one bucket in the group size histogram
type SizeBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// PersonSummary describes one merged person in the report
type PersonSummary struct {
	Name         string `json:"name"`
	Accounts     int    `json:"accounts"`
	Applications int    `json:"applications"`
	Emails       int    `json:"emails"`
	Fingerprint  string `json:"fingerprint"`
}

// Report summarises the outcome of one merge
type Report struct {
	TotalAccounts  int             `json:"total_accounts"`
	TotalPersons   int             `json:"total_persons"`
	MergedAccounts int             `json:"merged_accounts"`
	MergeRatio     float64         `json:"merge_ratio"`
	LargestGroup   int             `json:"largest_group"`
	SmallestGroup  int             `json:"smallest_group"`
	Singletons     int             `json:"singletons"`
	NoEmail        int             `json:"no_email"`
	SizeHistogram  []SizeBucket    `json:"size_histogram"`
	Largest        []PersonSummary `json:"largest"`
	Linchpins      []Linchpin      `json:"linchpins,omitempty"`
}

// Compute builds a report from merged persons, listing the topN largest.
// A negative topN lists none.
func Compute[ID comparable](persons []merge.Person[ID], topN int) (*Report, error) {
	topN = max(topN, 0)
	if len(persons) == 0 {
		return &Report{SizeHistogram: defaultHistogram()}, nil
	}

	r := &Report{
		TotalPersons:  len(persons),
		SmallestGroup: -1,
		SizeHistogram: defaultHistogram(),
	}
	for _, p := range persons {
		size := len(p.Accounts)
		r.TotalAccounts += size
		if size > r.LargestGroup {
			r.LargestGroup = size
		}
		if r.SmallestGroup < 0 || size < r.SmallestGroup {
			r.SmallestGroup = size
		}
		if size == 1 {
			r.Singletons++
		}
		if len(p.Emails) == 0 {
			r.NoEmail++
		}
		r.SizeHistogram[sizeBucket(size)].Count++
	}
	r.MergedAccounts = r.TotalAccounts - r.TotalPersons
	if r.TotalAccounts > 0 {
		r.MergeRatio = float64(r.MergedAccounts) / float64(r.TotalAccounts)
	}

	// Largest groups first; earlier persons win ties.
	order := make([]int, len(persons))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return len(persons[order[a]].Accounts) > len(persons[order[b]].Accounts)
	})
	if len(order) > topN {
		order = order[:topN]
	}
	for _, i := range order {
		p := persons[i]
		fp, err := Fingerprint(p)
		if err != nil {
			return nil, err
		}
		r.Largest = append(r.Largest, PersonSummary{
			Name:         p.Name,
			Accounts:     len(p.Accounts),
			Applications: len(p.Applications),
			Emails:       len(p.Emails),
			Fingerprint:  fp,
		})
	}
	return r, nil
}

func defaultHistogram() []SizeBucket {
	return []SizeBucket{
		{Label: "1"}, {Label: "2"}, {Label: "3-4"},
		{Label: "5-8"}, {Label: "9-16"}, {Label: "17-32"}, {Label: "33+"},
	}
}

func sizeBucket(size int) int {
	switch {
	case size <= 1:
		return 0
	case size == 2:
		return 1
	case size <= 4:
		return 2
	case size <= 8:
		return 3
	case size <= 16:
		return 4
	case size <= 32:
		return 5
	default:
		return 6
	}
}
