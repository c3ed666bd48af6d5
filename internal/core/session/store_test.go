package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newClockedStore returns a store whose clock advances one second per Create.
func newClockedStore() *Store {
	s := NewStore()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func create(t *testing.T, s *Store, rawURL string) *Session {
	t.Helper()
	sess, err := s.Create(context.Background(), NewSession{URL: rawURL, Domain: DomainOf(rawURL), Options: DefaultOptions()})
	require.NoError(t, err)
	return sess
}

func TestStore_CreateAssignsIncreasingIDs(t *testing.T) {
	s := newClockedStore()
	a := create(t, s, "https://a.example/")
	b := create(t, s, "https://b.example/")

	assert.Equal(t, 1, a.ID)
	assert.Equal(t, 2, b.ID)
	assert.Equal(t, StatusPending, a.Status)
	assert.Equal(t, "a.example", a.Domain)
	assert.False(t, a.ScrapedAt.IsZero())

	ok, err := s.Delete(context.Background(), b.ID)
	require.NoError(t, err)
	require.True(t, ok)

	c := create(t, s, "https://c.example/")
	assert.Equal(t, 3, c.ID, "ids are never reused")
}

func TestStore_GetMissing(t *testing.T) {
	s := NewStore()
	_, err := s.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_AllSortedNewestFirstAndIdempotent(t *testing.T) {
	s := newClockedStore()
	for _, u := range []string{"https://1.example", "https://2.example", "https://3.example", "https://4.example"} {
		create(t, s, u)
	}

	first, err := s.All(context.Background())
	require.NoError(t, err)
	second, err := s.All(context.Background())
	require.NoError(t, err)

	require.Len(t, first, 4)
	assert.Equal(t, first, second)
	for i := 1; i < len(first); i++ {
		assert.False(t, first[i].ScrapedAt.After(first[i-1].ScrapedAt))
	}
	assert.Equal(t, 4, first[0].ID)
}

func TestStore_ZeroTimestampsSortLast(t *testing.T) {
	s := NewStore()
	zero := true
	s.now = func() time.Time {
		if zero {
			zero = false
			return time.Time{}
		}
		return time.Now()
	}
	old := create(t, s, "https://undated.example")
	fresh := create(t, s, "https://dated.example")

	all, err := s.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{fresh.ID, old.ID}, []int{all[0].ID, all[1].ID})
}

func TestStore_RecentIsPrefixOfAll(t *testing.T) {
	s := newClockedStore()
	for i := 0; i < 5; i++ {
		create(t, s, "https://site.example")
	}
	all, err := s.All(context.Background())
	require.NoError(t, err)

	recent, err := s.Recent(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, all[:3], recent)

	def, err := s.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, def, 5)
}

func TestStore_RecentDefaultLimit(t *testing.T) {
	s := newClockedStore()
	for i := 0; i < 12; i++ {
		create(t, s, "https://site.example")
	}
	recent, err := s.Recent(context.Background(), -1)
	require.NoError(t, err)
	assert.Len(t, recent, DefaultRecentLimit)
}

func TestStore_UpdateMergesPartialFields(t *testing.T) {
	s := NewStore()
	sess := create(t, s, "https://site.example/page")

	completed := StatusCompleted
	res := &Results{Colors: []Color{{Hex: "#fff", Usage: "unknown"}}}
	updated, err := s.Update(context.Background(), sess.ID, Update{Status: &completed, Results: res})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, updated.Status)
	assert.Equal(t, sess.URL, updated.URL)
	assert.Equal(t, sess.ScrapedAt, updated.ScrapedAt)
	assert.Nil(t, updated.ErrorMessage)
	require.NotNil(t, updated.Results)
	assert.Len(t, updated.Results.Colors, 1)

	_, err = s.Update(context.Background(), 999, Update{Status: &completed})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := NewStore()
	sess := create(t, s, "https://site.example")
	sess.URL = "mutated"

	completed := StatusCompleted
	res := &Results{Images: []Image{{Src: "https://site.example/a.png"}}}
	_, err := s.Update(context.Background(), sess.ID, Update{Status: &completed, Results: res})
	require.NoError(t, err)
	res.Images[0].Src = "mutated"

	got, err := s.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://site.example", got.URL)
	assert.Equal(t, "https://site.example/a.png", got.Results.Images[0].Src)
}

func TestStore_Delete(t *testing.T) {
	s := NewStore()
	sess := create(t, s, "https://site.example")

	ok, err := s.Delete(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Delete(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_StatisticsEmpty(t *testing.T) {
	st, err := NewStore().Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Statistics{}, st)
}

func TestStore_StatisticsCountsCompletedOnly(t *testing.T) {
	s := NewStore()
	ok := create(t, s, "https://ok.example")
	bad := create(t, s, "https://bad.example")

	completed, failed := StatusCompleted, StatusFailed
	msg := "HTTP 500: Internal Server Error"
	_, err := s.Update(context.Background(), ok.ID, Update{Status: &completed, Results: &Results{
		Images:     []Image{{Src: "a"}, {Src: "b"}},
		Colors:     []Color{{Hex: "#000"}},
		Typography: []Typography{{Element: "p"}, {Element: "h1"}, {Element: "span"}},
	}})
	require.NoError(t, err)
	_, err = s.Update(context.Background(), bad.ID, Update{Status: &failed, ErrorMessage: &msg, Results: &Results{Images: []Image{{Src: "ignored"}}}})
	require.NoError(t, err)

	st, err := s.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalScrapes)
	assert.Equal(t, 2, st.TotalImages)
	assert.Equal(t, 1, st.TotalColors)
	assert.Equal(t, 3, st.TotalTypography)
	assert.InDelta(t, 50.0, st.SuccessRate, 0.0001)
}

func TestStore_ConcurrentCreateAndUpdate(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, err := s.Create(context.Background(), NewSession{URL: "https://x.example"})
			if err != nil {
				t.Error(err)
				return
			}
			completed := StatusCompleted
			if _, err := s.Update(context.Background(), sess.ID, Update{Status: &completed, Results: &Results{}}); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	all, err := s.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 50)
	seen := map[int]bool{}
	for _, sess := range all {
		assert.False(t, seen[sess.ID])
		seen[sess.ID] = true
		assert.Equal(t, StatusCompleted, sess.Status)
	}
}

func TestDomainOf(t *testing.T) {
	assert.Equal(t, "site.example", DomainOf("https://site.example:8443/p?q=1"))
	assert.Equal(t, "", DomainOf("::not a url"))
}
