package filter

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/universal-tool-calling-protocol/go-toolgrid/src/catalog"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/repository"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/tools"
)

func named(id, name, desc, category string) tools.Tool {
	t := tools.Tool{ID: id, Name: name, Description: desc}
	if category != "" {
		t.Metadata = tools.Metadata{tools.MetaCategory: category}
	}
	return t
}

func names(ts []tools.Tool) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Name
	}
	return out
}

func sample() catalog.CategoryMap {
	bundle := named("b", "All Search", "Search anything", "Search")
	return catalog.CategoryMap{
		catalog.YourToolsCategory: {Tools: []tools.Tool{
			named("t1", "beta", "", ""),
			named("t2", "alpha", "", ""),
		}},
		"Search": {
			Tools:      []tools.Tool{named("t3", "web", "Search the web", "")},
			BundleTool: &bundle,
		},
	}
}

func TestCategoriesScenario(t *testing.T) {
	out := Categories(sample(), "sea")

	require.Len(t, out, 1)
	assert.NotContains(t, out, catalog.YourToolsCategory)
	search := out["Search"]
	assert.Equal(t, []string{"All Search", "web"}, names(search.Tools))
	require.NotNil(t, search.BundleTool)
	assert.Equal(t, "b", search.BundleTool.ID)
}

func TestEmptyQueryKeepsEverything(t *testing.T) {
	in := sample()
	out := Categories(in, "")
	require.Len(t, out, 2)
	assert.Equal(t, []string{"alpha", "beta"}, names(out[catalog.YourToolsCategory].Tools))
	assert.Equal(t, []string{"All Search", "web"}, names(out["Search"].Tools))
	assert.Equal(t, in.Len()+1, out.Len(), "bundle is prepended to the list")
}

func TestInputIsNotMutated(t *testing.T) {
	in := sample()
	before := in.Clone()
	_ = Categories(in, "a")
	if !reflect.DeepEqual(before, in) {
		t.Fatalf("input was mutated:\nbefore %+v\nafter  %+v", before, in)
	}
}

func TestIdempotent(t *testing.T) {
	for _, q := range []string{"", "a", "sea", "WEB", "zzz"} {
		once := Categories(sample(), q)
		twice := Categories(once, q)
		assert.Equal(t, once, twice, "query %q", q)
	}
}

func TestEveryResultMatches(t *testing.T) {
	for _, q := range []string{"a", "Search", "the", "ALP"} {
		out := Categories(sample(), q)
		for name, entry := range out {
			require.NotEmpty(t, entry.Tools, "category %s", name)
			for _, tl := range entry.Tools {
				assert.True(t, Matches(tl, q), "%s does not match %q", tl.Name, q)
			}
		}
	}
}

func TestBundleKeptWhenItDoesNotMatch(t *testing.T) {
	out := Categories(sample(), "web")
	search := out["Search"]
	assert.Equal(t, []string{"web"}, names(search.Tools))
	require.NotNil(t, search.BundleTool)
	assert.Equal(t, "All Search", search.BundleTool.Name)
}

func TestBundleAlwaysFirst(t *testing.T) {
	bundle := named("z", "zzz bundle", "", "")
	m := catalog.CategoryMap{"C": {
		Tools:      []tools.Tool{named("1", "b", "", ""), named("2", "a", "", "")},
		BundleTool: &bundle,
	}}
	out := Categories(m, "")
	assert.Equal(t, []string{"zzz bundle", "a", "b"}, names(out["C"].Tools))
}

func TestSortIsCaseSensitiveAndStable(t *testing.T) {
	m := catalog.CategoryMap{"C": {Tools: []tools.Tool{
		named("1", "b", "", ""),
		named("2", "B", "", ""),
		named("3", "a", "first", ""),
		named("4", "a", "second", ""),
	}}}
	out := Categories(m, "")["C"].Tools
	assert.Equal(t, []string{"B", "a", "a", "b"}, names(out))
	assert.Equal(t, "first", out[1].Description)
	assert.Equal(t, "second", out[2].Description)
}

func TestSearchTextSkipsEmptyFields(t *testing.T) {
	assert.Equal(t, "web|Search|desc", SearchText(named("", "web", "desc", "Search")))
	assert.Equal(t, "web", SearchText(named("", "web", "", "")))
	// the separator is part of the searchable text
	assert.True(t, Matches(named("", "web", "desc", ""), "b|d"))
	assert.False(t, Matches(named("", "web", "", ""), "|"))
}

func TestSubstringSearchStrategy(t *testing.T) {
	repo := repository.NewInMemoryToolRepositoryFrom(sample())
	strat := NewSubstringSearchStrategy(repo)

	res, err := strat.SearchTools(context.Background(), "al", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"All Search", "alpha"}, names(res))

	res, err = strat.SearchTools(context.Background(), "a", 2)
	require.NoError(t, err)
	assert.Len(t, res, 2)

	res, err = strat.SearchTools(context.Background(), "nothing", 5)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestIDLessBundleDedup(t *testing.T) {
	bundle := named("", "All Search", "Search anything", "Search")
	bundle.Metadata[tools.MetaBundle] = true
	twin := named("", "All Search", "Search anything", "Search")
	m := catalog.CategoryMap{"Search": {
		Tools:      []tools.Tool{twin, named("", "web", "", "Search")},
		BundleTool: &bundle,
	}}

	once := Categories(m, "")
	assert.Equal(t, []string{"All Search", "All Search", "web"}, names(once["Search"].Tools))
	assert.True(t, once["Search"].Tools[0].IsBundle(), "bundle leads the list")
	assert.False(t, once["Search"].Tools[1].IsBundle(), "regular twin is kept")
	assert.Equal(t, once, Categories(once, ""))
}
