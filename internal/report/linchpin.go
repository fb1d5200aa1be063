package report

import (
	"sort"

	"personmerge/internal/merge"
)

// Linchpin is an account whose removal would split its person apart
type Linchpin struct {
	Account   int    `json:"account"`
	Name      string `json:"name"`
	Person    string `json:"person"`
	Fragments int    `json:"fragments_if_removed"`
}

// Linchpins finds, for every person, the member accounts that are the only
// link between otherwise separate parts of it. key must be the email key the
// persons were merged with; nil means exact matching.
//
// Each person is searched as a bipartite graph of accounts and email keys.
// An account is a linchpin when it is an articulation point separating at
// least two parts that still hold accounts.
func Linchpins[ID comparable](accounts []merge.Account[ID], persons []merge.Person[ID], key func(string) string) ([]Linchpin, error) {
	if key == nil {
		key = merge.ExactEmail
	}

	var out []Linchpin
	for _, p := range persons {
		if len(p.Accounts) < 3 {
			continue
		}
		found := personLinchpins(accounts, p.Accounts, key)
		if len(found) == 0 {
			continue
		}
		fp, err := Fingerprint(p)
		if err != nil {
			return nil, err
		}
		for _, l := range found {
			l.Person = fp
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Account < out[j].Account })
	return out, nil
}

func personLinchpins[ID comparable](accounts []merge.Account[ID], members []int, key func(string) string) []Linchpin {
	// Nodes 0..len(members)-1 are accounts, the rest are email keys.
	n := len(members)
	emailNode := make(map[string]int)
	adj := make([][]int, n)
	for i, pos := range members {
		for _, email := range accounts[pos].Emails {
			k := key(email)
			node, ok := emailNode[k]
			if !ok {
				node = len(adj)
				emailNode[k] = node
				adj = append(adj, nil)
			}
			if len(adj[i]) > 0 && adj[i][len(adj[i])-1] == node {
				continue
			}
			adj[i] = append(adj[i], node)
			adj[node] = append(adj[node], i)
		}
	}
	dedupe(adj)

	total := len(adj)
	disc := make([]int, total)
	low := make([]int, total)
	held := make([]int, total) // accounts in the DFS subtree
	split := make([]int, n)    // child subtrees cut off with accounts in them
	counter := 1

	const noParent = -1
	type frame struct {
		node, parent, ni int
	}

	const start = 0
	disc[start] = counter
	low[start] = counter
	held[start] = 1
	counter++
	stack := []frame{{start, noParent, 0}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		node := top.node

		if top.ni < len(adj[node]) {
			child := adj[node][top.ni]
			top.ni++
			if child == top.parent {
				continue
			}
			if disc[child] != 0 {
				low[node] = min(low[node], disc[child])
				continue
			}
			disc[child] = counter
			low[child] = counter
			if child < n {
				held[child] = 1
			}
			counter++
			stack = append(stack, frame{child, node, 0})
			continue
		}

		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			break
		}
		pn := stack[len(stack)-1].node
		low[pn] = min(low[pn], low[node])
		held[pn] += held[node]
		if pn < n && low[node] >= disc[pn] && held[node] > 0 {
			split[pn]++
		}
	}

	var out []Linchpin
	for i := 0; i < n; i++ {
		fragments := split[i]
		if i != start {
			// The side holding the DFS root always keeps the root account.
			fragments++
		}
		if fragments < 2 {
			continue
		}
		out = append(out, Linchpin{
			Account:   members[i],
			Name:      accounts[members[i]].Name,
			Fragments: fragments,
		})
	}
	return out
}

// dedupe removes repeated neighbours, e.g. an account listing an email twice.
func dedupe(adj [][]int) {
	for i, list := range adj {
		if len(list) < 2 {
			continue
		}
		sort.Ints(list)
		w := 1
		for r := 1; r < len(list); r++ {
			if list[r] != list[w-1] {
				list[w] = list[r]
				w++
			}
		}
		adj[i] = list[:w]
	}
}
