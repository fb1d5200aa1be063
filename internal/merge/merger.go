// Package merge groups accounts into persons by transitively merging
// accounts that share an email address.
package merge

import (
	"sort"

	"personmerge/internal/apperror"
)

// group is the person-in-progress for one live canonical id.
type group[ID comparable] struct {
	applications *orderedSet[ID, ID]
	emails       *orderedSet[string, string]
	members      []int
	name         string
	namedAt      int // input position that supplied name, -1 if unset
}

func newGroup[ID comparable]() *group[ID] {
	return &group[ID]{
		applications: newOrderedSet[ID, ID](),
		emails:       newOrderedSet[string, string](),
		namedAt:      -1,
	}
}

func (g *group[ID]) absorb(other *group[ID], policy NamePolicy) {
	g.applications.absorb(other.applications)
	g.emails.absorb(other.emails)
	g.members = append(g.members, other.members...)
	if other.namedAt >= 0 && policy.prefers(other.namedAt, g.namedAt) {
		g.name = other.name
		g.namedAt = other.namedAt
	}
}

func (g *group[ID]) fold(pos int, a Account[ID], keys []string, policy NamePolicy) {
	g.applications.add(a.Application, a.Application)
	for i, email := range a.Emails {
		g.emails.add(keys[i], email)
	}
	g.members = append(g.members, pos)
	if policy.prefers(pos, g.namedAt) {
		g.name = a.Name
		g.namedAt = pos
	}
}

func (g *group[ID]) person() Person[ID] {
	members := append([]int(nil), g.members...)
	sort.Ints(members)
	return Person[ID]{
		Applications: g.applications.list(),
		Emails:       g.emails.list(),
		Name:         g.name,
		Accounts:     members,
	}
}

// merger holds the grouping state of one Merge call.
type merger[ID comparable] struct {
	cfg          config
	uf           *UnionFind
	emailToGroup map[string]int     // email key -> group id, possibly stale
	groups       map[int]*group[ID] // live canonical id -> accumulated person

	keys  []string
	roots []int
	seen  map[int]struct{}
}

func newMerger[ID comparable](cfg config, n int) *merger[ID] {
	return &merger[ID]{
		cfg:          cfg,
		uf:           NewUnionFind(),
		emailToGroup: make(map[string]int, n),
		groups:       make(map[int]*group[ID], n),
		seen:         make(map[int]struct{}),
	}
}

// add merges the account at input position pos into the grouping.
func (m *merger[ID]) add(pos int, a Account[ID]) {
	m.keys = m.keys[:0]
	m.roots = m.roots[:0]
	clear(m.seen)

	// Live groups already referenced by any of the account's emails.
	for _, email := range a.Emails {
		key := m.cfg.emailKey(email)
		m.keys = append(m.keys, key)
		id, ok := m.emailToGroup[key]
		if !ok {
			continue
		}
		root := m.uf.Find(id)
		if _, dup := m.seen[root]; dup {
			continue
		}
		m.seen[root] = struct{}{}
		m.roots = append(m.roots, root)
	}

	target := pos
	if len(m.roots) == 0 {
		m.uf.Add(pos)
		m.groups[pos] = newGroup[ID]()
	} else {
		target = m.roots[0]
		for _, root := range m.roots[1:] {
			if root < target {
				target = root
			}
		}
	}

	into := m.groups[target]
	for _, root := range m.roots {
		if root == target {
			continue
		}
		m.uf.Union(target, root)
		into.absorb(m.groups[root], m.cfg.namePolicy)
		delete(m.groups, root)
	}

	into.fold(pos, a, m.keys, m.cfg.namePolicy)
	for _, key := range m.keys {
		m.emailToGroup[key] = target
	}
}

func (m *merger[ID]) persons() []Person[ID] {
	ids := make([]int, 0, len(m.groups))
	for id := range m.groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	persons := make([]Person[ID], 0, len(ids))
	for _, id := range ids {
		persons = append(persons, m.groups[id].person())
	}
	return persons
}

// Merge groups accounts into persons. Two accounts end up in the same person
// if and only if they are linked by a chain of accounts in which neighbours
// share at least one email.
//
// Persons come back ordered by their earliest account. An empty account list
// yields an ErrEmptyInput error and no persons.
func Merge[ID comparable](accounts []Account[ID], opts ...Option) ([]Person[ID], error) {
	if len(accounts) == 0 {
		return nil, apperror.EmptyInput()
	}

	m := newMerger[ID](newConfig(opts), len(accounts))
	for i, a := range accounts {
		m.add(i, a)
	}
	return m.persons(), nil
}
