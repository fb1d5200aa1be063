package merge

// Account is one input record. It has no identity beyond its position in
// the input sequence.
type Account[ID comparable] struct {
	Application ID       `json:"application"`
	Emails      []string `json:"emails"`
	Name        string   `json:"name"`
}

// Person aggregates every account transitively connected by shared emails.
// Applications and Emails are sets, listed in first-seen order.
type Person[ID comparable] struct {
	Applications []ID     `json:"applications"`
	Emails       []string `json:"emails"`
	Name         string   `json:"name"`
	Accounts     []int    `json:"-"` // input positions of the member accounts, ascending
}

// orderedSet is an insertion-ordered set of values keyed by K.
type orderedSet[K comparable, V any] struct {
	order  []K
	values map[K]V
}

func newOrderedSet[K comparable, V any]() *orderedSet[K, V] {
	return &orderedSet[K, V]{values: make(map[K]V)}
}

func (s *orderedSet[K, V]) add(key K, value V) {
	if _, ok := s.values[key]; ok {
		return
	}
	s.order = append(s.order, key)
	s.values[key] = value
}

func (s *orderedSet[K, V]) absorb(other *orderedSet[K, V]) {
	for _, key := range other.order {
		s.add(key, other.values[key])
	}
}

func (s *orderedSet[K, V]) list() []V {
	out := make([]V, len(s.order))
	for i, key := range s.order {
		out[i] = s.values[key]
	}
	return out
}
