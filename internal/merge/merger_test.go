package merge

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personmerge/internal/apperror"
)

func acct(app int, name string, emails ...string) Account[int] {
	return Account[int]{Application: app, Emails: emails, Name: name}
}

// signature renders a person with sorted fields so group sets can be compared
// regardless of output and insertion order.
func signature(p Person[int]) string {
	apps := append([]int(nil), p.Applications...)
	sort.Ints(apps)
	emails := append([]string(nil), p.Emails...)
	sort.Strings(emails)
	return fmt.Sprintf("%v|%s", apps, strings.Join(emails, ","))
}

func signatures(persons []Person[int]) []string {
	out := make([]string, len(persons))
	for i, p := range persons {
		out[i] = signature(p)
	}
	sort.Strings(out)
	return out
}

func mustMerge(t *testing.T, accounts []Account[int], opts ...Option) []Person[int] {
	t.Helper()
	persons, err := Merge(accounts, opts...)
	require.NoError(t, err)
	return persons
}

func TestMerge_ConcreteScenario(t *testing.T) {
	persons := mustMerge(t, []Account[int]{
		acct(1, "A", "a@x.com", "b@x.com"),
		acct(2, "B", "b@x.com", "c@x.com"),
		acct(3, "C", "d@x.com"),
	})

	require.Len(t, persons, 2)
	assert.Equal(t, []int{1, 2}, persons[0].Applications)
	assert.Equal(t, []string{"a@x.com", "b@x.com", "c@x.com"}, persons[0].Emails)
	assert.Equal(t, "B", persons[0].Name)
	assert.Equal(t, []int{0, 1}, persons[0].Accounts)

	assert.Equal(t, []int{3}, persons[1].Applications)
	assert.Equal(t, []string{"d@x.com"}, persons[1].Emails)
	assert.Equal(t, "C", persons[1].Name)
}

func TestMerge_EmptyInput(t *testing.T) {
	for _, in := range [][]Account[int]{nil, {}} {
		persons, err := Merge(in)
		assert.Nil(t, persons)
		assert.ErrorIs(t, err, apperror.ErrEmptyInput)
		assert.True(t, apperror.IsNoop(err))
	}
}

func TestMerge_Transitivity(t *testing.T) {
	a := acct(1, "A", "x")
	b := acct(2, "B", "x", "y")
	c := acct(3, "C", "y")

	orders := [][]Account[int]{
		{a, b, c}, {a, c, b}, {b, a, c}, {b, c, a}, {c, a, b}, {c, b, a},
	}
	for _, order := range orders {
		persons := mustMerge(t, order)
		require.Len(t, persons, 1, "order %v", order)
		assert.Equal(t, "[1 2 3]|x,y", signature(persons[0]))
	}
}

func TestMerge_DisjointPairOrderIndependent(t *testing.T) {
	a := acct(1, "A", "a@x.com")
	b := acct(2, "B", "b@x.com")
	assert.Equal(t,
		signatures(mustMerge(t, []Account[int]{a, b})),
		signatures(mustMerge(t, []Account[int]{b, a})),
	)
}

func TestMerge_NonMerge(t *testing.T) {
	in := []Account[int]{
		acct(1, "A", "a", "a"),
		acct(2, "B", "b"),
		acct(3, "C", "c1", "c2"),
		acct(4, "D"),
	}
	persons := mustMerge(t, in)
	require.Len(t, persons, len(in))
	for i, p := range persons {
		assert.Equal(t, []int{in[i].Application}, p.Applications)
		assert.Equal(t, in[i].Name, p.Name)
		assert.Equal(t, []int{i}, p.Accounts)
	}
	assert.Equal(t, []string{"a"}, persons[0].Emails)
	assert.Empty(t, persons[3].Emails)
}

func TestMerge_EmptyEmailAccountStaysSingleton(t *testing.T) {
	persons := mustMerge(t, []Account[int]{
		acct(1, "A", "a"),
		acct(2, "NoMail"),
		acct(3, "B", "a"),
		acct(2, "NoMailAgain", []string{}...),
	})
	require.Len(t, persons, 3)
	assert.Equal(t, "[1 3]|a", signature(persons[0]))
	assert.Equal(t, []int{1}, persons[1].Accounts)
	assert.Equal(t, "NoMail", persons[1].Name)
	assert.Equal(t, []int{3}, persons[2].Accounts)
	assert.Equal(t, "NoMailAgain", persons[2].Name)
}

func TestMerge_IdempotentFieldUnion(t *testing.T) {
	persons := mustMerge(t, []Account[int]{
		acct(7, "A", "a", "b", "a"),
		acct(7, "B", "b", "a"),
		acct(8, "C", "a", "c"),
		acct(7, "D", "c", "c"),
	})
	require.Len(t, persons, 1)
	assert.Equal(t, []int{7, 8}, persons[0].Applications)
	assert.Equal(t, []string{"a", "b", "c"}, persons[0].Emails)
	assert.Equal(t, "D", persons[0].Name)
}

func TestMerge_BridgeUnifiesThreeGroups(t *testing.T) {
	persons := mustMerge(t, []Account[int]{
		acct(1, "A", "a"),
		acct(2, "B", "b"),
		acct(3, "C", "c"),
		acct(4, "Bridge", "c", "b", "a", "z"),
	})
	require.Len(t, persons, 1)
	assert.Equal(t, []int{0, 1, 2, 3}, persons[0].Accounts)
	assert.Equal(t, "[1 2 3 4]|a,b,c,z", signature(persons[0]))
	assert.Equal(t, "Bridge", persons[0].Name)
}

func TestMerge_DeadGroupRedirect(t *testing.T) {
	// Account 2 folds group 1 into group 0. Account 3 only knows "b2", whose
	// mapping still points at the dead group 1.
	persons := mustMerge(t, []Account[int]{
		acct(1, "A", "a"),
		acct(2, "B", "b", "b2"),
		acct(3, "AB", "b", "a"),
		acct(4, "Late", "b2"),
	})
	require.Len(t, persons, 1)
	assert.Equal(t, []int{0, 1, 2, 3}, persons[0].Accounts)
	assert.Equal(t, "[1 2 3 4]|a,b,b2", signature(persons[0]))
	assert.Equal(t, "Late", persons[0].Name)
}

func TestMerge_SeparateGroupsStaySeparate(t *testing.T) {
	persons := mustMerge(t, []Account[int]{
		acct(1, "A", "a"),
		acct(2, "B", "b"),
		acct(3, "A2", "a", "a2"),
		acct(4, "A3", "a2"),
		acct(5, "B2", "b"),
	})
	require.Len(t, persons, 2)
	assert.Equal(t, "[1 3 4]|a,a2", signature(persons[0]))
	assert.Equal(t, "[2 5]|b", signature(persons[1]))
}

func TestMerge_TieBreakUsesSmallestGroup(t *testing.T) {
	persons := mustMerge(t, []Account[int]{
		acct(1, "A", "a"),
		acct(2, "B", "b"),
		acct(3, "C", "b", "a"),
	})
	require.Len(t, persons, 1)
	// Group 0 is canonical, so its fields come first.
	assert.Equal(t, []int{1, 2, 3}, persons[0].Applications)
	assert.Equal(t, []string{"a", "b"}, persons[0].Emails)
}

func TestMerge_NamePolicy(t *testing.T) {
	in := []Account[int]{
		acct(1, "First", "a"),
		acct(2, "Other", "b"),
		acct(3, "Middle", "b", "a"),
		acct(4, "Last", "a"),
	}

	last := mustMerge(t, in)
	require.Len(t, last, 1)
	assert.Equal(t, "Last", last[0].Name)

	first := mustMerge(t, in, WithNamePolicy(NameFirst))
	require.Len(t, first, 1)
	assert.Equal(t, "First", first[0].Name)
}

func TestMerge_EmailKey(t *testing.T) {
	in := []Account[int]{
		acct(1, "A", "Alice@X.com"),
		acct(2, "B", " alice@x.com"),
	}

	exact := mustMerge(t, in)
	assert.Len(t, exact, 2)

	folded := mustMerge(t, in, WithEmailKey(FoldEmail))
	require.Len(t, folded, 1)
	assert.Equal(t, []string{"Alice@X.com"}, folded[0].Emails)
}

func TestParseNamePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    NamePolicy
		wantErr bool
	}{
		{"", NameLast, false},
		{"last", NameLast, false},
		{"FIRST", NameFirst, false},
		{" first ", NameFirst, false},
		{"oldest", NameLast, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNamePolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, must(ParseNamePolicy(got.String())))
		})
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// naiveGroups groups accounts by BFS over pairwise email overlap.
func naiveGroups(accounts []Account[int]) []string {
	n := len(accounts)
	shares := func(a, b Account[int]) bool {
		for _, x := range a.Emails {
			for _, y := range b.Emails {
				if x == y {
					return true
				}
			}
		}
		return false
	}
	visited := make([]bool, n)
	var out []string
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		queue := []int{i}
		visited[i] = true
		p := Person[int]{}
		apps := map[int]bool{}
		emails := map[string]bool{}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if !apps[accounts[cur].Application] {
				apps[accounts[cur].Application] = true
				p.Applications = append(p.Applications, accounts[cur].Application)
			}
			for _, e := range accounts[cur].Emails {
				if !emails[e] {
					emails[e] = true
					p.Emails = append(p.Emails, e)
				}
			}
			for j := 0; j < n; j++ {
				if !visited[j] && shares(accounts[cur], accounts[j]) {
					visited[j] = true
					queue = append(queue, j)
				}
			}
		}
		out = append(out, signature(p))
	}
	sort.Strings(out)
	return out
}

func TestMerge_MatchesPairwiseGrouping(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		n := 1 + rng.Intn(25)
		accounts := make([]Account[int], n)
		for i := range accounts {
			k := rng.Intn(4)
			emails := make([]string, k)
			for j := range emails {
				emails[j] = fmt.Sprintf("e%d", rng.Intn(30))
			}
			accounts[i] = acct(rng.Intn(10), fmt.Sprintf("n%d", i), emails...)
		}

		persons := mustMerge(t, accounts)
		require.Equal(t, naiveGroups(accounts), signatures(persons), "round %d", round)

		// Name is the member with the highest input position; members partition the input.
		covered := 0
		for _, p := range persons {
			covered += len(p.Accounts)
			assert.Equal(t, accounts[p.Accounts[len(p.Accounts)-1]].Name, p.Name)
		}
		assert.Equal(t, n, covered)
	}
}

func TestMerge_StringApplications(t *testing.T) {
	persons, err := Merge([]Account[string]{
		{Application: "app-1", Emails: []string{"a"}, Name: "A"},
		{Application: "app-1", Emails: []string{"a"}, Name: "B"},
	})
	require.NoError(t, err)
	require.Len(t, persons, 1)
	assert.Equal(t, []string{"app-1"}, persons[0].Applications)
}
