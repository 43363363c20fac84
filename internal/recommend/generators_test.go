package recommend

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/user/reelmate/internal/model"
)

func fixtureProfile() *Profile {
	return &Profile{
		UserID: 1,
		FavoriteMovies: []model.Movie{
			movie(1, "One"), movie(5, "Five"), movie(4, "Four"), movie(3, "Three"), movie(2, "Two"),
		},
		TopGenres: []GenreCount{
			{GenreID: 28, Name: "Action", Count: 4},
			{GenreID: 18, Name: "Drama", Count: 2},
			{GenreID: 35, Name: "Comedy", Count: 1},
			{GenreID: 99, Name: "Documentary", Count: 1},
		},
		TopPeople: []PersonCount{
			{PersonID: 100, Name: "Nolan", Role: RoleDirector, Count: 2},
			{PersonID: 200, Name: "A", Role: RoleActor, Count: 2},
			{PersonID: 201, Name: "B", Role: RoleActor, Count: 1},
		},
	}
}

func fixtureExcluded() map[string]struct{} {
	return excludeSet([]string{"1", "2", "3", "4", "5", "107"})
}

func ids(candidates []Candidate) []int {
	out := make([]int, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Movie.ID)
	}
	return out
}

func TestGeneratorsHonorExclusion(t *testing.T) {
	_, catalog := newFixture()
	// 相似影片中混入已看影片
	catalog.similar["1"] = movies(2, 150, 4)
	opts := DefaultOptions()
	excluded := fixtureExcluded()

	generators := []Generator{
		NewGenreGenerator(catalog, opts),
		NewPersonGenerator(catalog, opts),
		NewSimilarGenerator(catalog, opts),
	}
	for _, g := range generators {
		got, err := g.Generate(context.Background(), fixtureProfile(), excluded, opts.GeneratorLimit)
		if err != nil {
			t.Fatalf("%s: %v", g.Name(), err)
		}
		for _, c := range got {
			if _, ok := excluded[c.Movie.Key()]; ok {
				t.Errorf("%s produced excluded movie %s", g.Name(), c.Movie.Key())
			}
		}
	}
}

func TestGenreGenerator(t *testing.T) {
	_, catalog := newFixture()
	g := NewGenreGenerator(catalog, DefaultOptions())

	got, err := g.Generate(context.Background(), fixtureProfile(), fixtureExcluded(), 15)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	want := []int{101, 102, 103, 104, 105, 110, 111, 112, 120}
	if gotIDs := ids(got); len(gotIDs) != len(want) {
		t.Fatalf("ids = %v, want %v", gotIDs, want)
	}
	for i, id := range want {
		if got[i].Movie.ID != id {
			t.Errorf("[%d] = %d, want %d", i, got[i].Movie.ID, id)
		}
	}
	if got[0].Reason != "genre match: Action" || got[0].Category != CategoryGenre {
		t.Errorf("first candidate = %+v", got[0])
	}
	if catalog.callCount("genre:99") != 0 {
		t.Error("only the top 3 genres should be queried")
	}
}

func TestGenreGeneratorCap(t *testing.T) {
	_, catalog := newFixture()
	g := NewGenreGenerator(catalog, DefaultOptions())

	got, err := g.Generate(context.Background(), fixtureProfile(), fixtureExcluded(), 4)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(got) != 4 {
		t.Errorf("len = %d, want 4", len(got))
	}
	if catalog.callCount("genre") != 1 {
		t.Errorf("genre calls = %d, want 1 once the cap is reached", catalog.callCount("genre"))
	}
}

func TestPersonGenerator(t *testing.T) {
	_, catalog := newFixture()
	g := NewPersonGenerator(catalog, DefaultOptions())

	got, err := g.Generate(context.Background(), fixtureProfile(), fixtureExcluded(), 15)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// B 只出现一次，不参与召回
	want := []struct {
		id       int
		reason   string
		category Category
	}{
		{130, "Director: work of Nolan", CategoryDirector},
		{131, "Director: work of Nolan", CategoryDirector},
		{132, "Director: work of Nolan", CategoryDirector},
		{140, "Actor: work of A", CategoryActor},
		{141, "Actor: work of A", CategoryActor},
		{101, "Actor: work of A", CategoryActor},
	}
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %d candidates", ids(got), len(want))
	}
	for i, w := range want {
		if got[i].Movie.ID != w.id || got[i].Reason != w.reason || got[i].Category != w.category {
			t.Errorf("[%d] = %d %q %v, want %d %q %v", i, got[i].Movie.ID, got[i].Reason, got[i].Category, w.id, w.reason, w.category)
		}
	}
}

func TestPersonGeneratorFallback(t *testing.T) {
	_, catalog := newFixture()
	catalog.byPerson[201] = movies(170)
	profile := fixtureProfile()
	profile.TopPeople = []PersonCount{
		{PersonID: 200, Name: "A", Role: RoleActor, Count: 1},
		{PersonID: 201, Name: "B", Role: RoleActor, Count: 1},
		{PersonID: 100, Name: "Nolan", Role: RoleDirector, Count: 1},
	}
	g := NewPersonGenerator(catalog, DefaultOptions())

	got, err := g.Generate(context.Background(), profile, fixtureExcluded(), 15)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if catalog.callCount("person") != 2 {
		t.Errorf("person calls = %d, want 2 (fallback to top 2)", catalog.callCount("person"))
	}
	if last := got[len(got)-1]; last.Movie.ID != 170 {
		t.Errorf("last = %d, want 170", last.Movie.ID)
	}
}

func TestSimilarGenerator(t *testing.T) {
	_, catalog := newFixture()
	for i := 2; i <= 5; i++ {
		id := strconv.Itoa(i)
		if _, ok := catalog.similar[id]; !ok {
			catalog.similar[id] = movies(180 + i)
		}
	}
	g := NewSimilarGenerator(catalog, DefaultOptions())

	got, err := g.Generate(context.Background(), fixtureProfile(), fixtureExcluded(), 15)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	// 只取前 4 部喜欢的影片，第 5 部（id 2）不参与
	want := []int{150, 151, 152, 160, 184, 183}
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("ids = %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("ids = %v, want %v", gotIDs, want)
		}
	}
	if got[0].Reason != "similar to: One" || got[0].Category != CategorySimilar {
		t.Errorf("first = %+v", got[0])
	}
}

func TestGeneratorsPropagateCatalogErrors(t *testing.T) {
	_, catalog := newFixture()
	boom := errors.New("tmdb unavailable")
	catalog.genreErr, catalog.personErr, catalog.similarErr = boom, boom, boom
	opts := DefaultOptions()

	for _, g := range []Generator{NewGenreGenerator(catalog, opts), NewPersonGenerator(catalog, opts), NewSimilarGenerator(catalog, opts)} {
		got, err := g.Generate(context.Background(), fixtureProfile(), fixtureExcluded(), 15)
		if !errors.Is(err, boom) {
			t.Errorf("%s: err = %v, want %v", g.Name(), err, boom)
		}
		if len(got) != 0 {
			t.Errorf("%s: got %d candidates on failure", g.Name(), len(got))
		}
	}
}
