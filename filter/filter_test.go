package filter

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-actions/pkg/testsupport"
)

func seededDB(t *testing.T) (*bun.DB, []testsupport.User) {
	t.Helper()
	db := testsupport.NewDB(t)
	users := testsupport.SeedUsers(t, db, testsupport.DefaultUsers())
	return db, users
}

func runQuery(t *testing.T, db *bun.DB, comp *Compositor, bag Bag) []testsupport.User {
	t.Helper()
	var users []testsupport.User
	q := comp.Apply(db.NewSelect().Model(&users), bag)
	if err := q.Scan(context.Background()); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return users
}

func names(users []testsupport.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Name
	}
	return out
}

func TestCompositor_Search(t *testing.T) {
	db, _ := seededDB(t)
	comp := New(Config{
		SearchColumns:    []string{"name", "email"},
		DefaultSort:      "name",
		DefaultDirection: "asc",
	})

	t.Run("matches across columns", func(t *testing.T) {
		got := runQuery(t, db, comp, Bag{"search": "john"})
		// "john" hits John Doe by name and email, Bob Johnson by name.
		want := []string{"Bob Johnson", "John Doe"}
		if !reflect.DeepEqual(names(got), want) {
			t.Errorf("expected %v but got: %v", want, names(got))
		}
	})

	t.Run("q is a synonym", func(t *testing.T) {
		got := runQuery(t, db, comp, Bag{"q": "jane"})
		if len(got) != 1 || got[0].Name != "Jane Smith" {
			t.Errorf("expected Jane Smith but got: %v", names(got))
		}
	})

	t.Run("first synonym wins", func(t *testing.T) {
		got := runQuery(t, db, comp, Bag{"search": "jane", "q": "bob"})
		if len(got) != 1 || got[0].Name != "Jane Smith" {
			t.Errorf("search must shadow q, got: %v", names(got))
		}
	})

	t.Run("empty term is absent", func(t *testing.T) {
		got := runQuery(t, db, comp, Bag{"search": ""})
		if len(got) != 3 {
			t.Errorf("empty search must not filter, got: %v", names(got))
		}
	})
}

func TestCompositor_RelationSearch(t *testing.T) {
	db, users := seededDB(t)
	testsupport.SeedProfiles(t, db, []testsupport.Profile{
		{UserID: users[0].ID, Bio: "Writes Go services"},
		{UserID: users[1].ID, Bio: "Designs schemas"},
	})

	comp := New(Config{
		SearchColumns: []string{"profile.bio"},
		Relations: map[string]Relation{
			"profile": {Table: "profiles", ForeignColumn: "user_id"},
		},
		DefaultSort: "id",
	})

	got := runQuery(t, db, comp, Bag{"search": "go services"})
	if len(got) != 1 || got[0].Name != "John Doe" {
		t.Errorf("expected the user whose profile matches, got: %v", names(got))
	}

	t.Run("unknown relation is skipped", func(t *testing.T) {
		broken := New(Config{SearchColumns: []string{"account.name"}, DefaultSort: "id"})
		got := runQuery(t, db, broken, Bag{"search": "anything"})
		if len(got) != 3 {
			t.Errorf("an unresolvable search column must not filter, got: %v", names(got))
		}
	})
}

func TestCompositor_Sort(t *testing.T) {
	db, _ := seededDB(t)
	comp := New(Config{DefaultSort: "id"})

	t.Run("bag sort and direction", func(t *testing.T) {
		got := runQuery(t, db, comp, Bag{"sort": "name", "direction": "asc"})
		want := []string{"Bob Johnson", "Jane Smith", "John Doe"}
		if !reflect.DeepEqual(names(got), want) {
			t.Errorf("expected %v but got: %v", want, names(got))
		}
	})

	t.Run("order_by and order_dir synonyms", func(t *testing.T) {
		got := runQuery(t, db, comp, Bag{"order_by": "name", "order_dir": "desc"})
		want := []string{"John Doe", "Jane Smith", "Bob Johnson"}
		if !reflect.DeepEqual(names(got), want) {
			t.Errorf("expected %v but got: %v", want, names(got))
		}
	})

	t.Run("default sort descending", func(t *testing.T) {
		got := runQuery(t, db, comp, Bag{})
		want := []string{"Bob Johnson", "Jane Smith", "John Doe"}
		if !reflect.DeepEqual(names(got), want) {
			t.Errorf("expected id desc %v but got: %v", want, names(got))
		}
	})

	t.Run("garbage direction collapses to default", func(t *testing.T) {
		got := runQuery(t, db, comp, Bag{"sort": "id", "direction": "sideways; DROP"})
		if got[0].Name != "Bob Johnson" {
			t.Errorf("expected desc fallback, got first: %s", got[0].Name)
		}
	})

	t.Run("unsafe sort column is ignored", func(t *testing.T) {
		got := runQuery(t, db, comp, Bag{"sort": "name; DROP TABLE users"})
		if len(got) != 3 {
			t.Errorf("unsafe sort must be dropped, got: %v", names(got))
		}
	})
}

func TestCompositor_DateRange(t *testing.T) {
	db, _ := seededDB(t)
	comp := New(Config{DefaultSort: "id", DefaultDirection: "asc"})

	from := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	t.Run("from only", func(t *testing.T) {
		got := runQuery(t, db, comp, Bag{"date_from": from})
		want := []string{"Jane Smith", "Bob Johnson"}
		if !reflect.DeepEqual(names(got), want) {
			t.Errorf("expected %v but got: %v", want, names(got))
		}
	})

	t.Run("bounded range with synonyms", func(t *testing.T) {
		got := runQuery(t, db, comp, Bag{"from": from, "to": to})
		if len(got) != 1 || got[0].Name != "Jane Smith" {
			t.Errorf("expected Jane Smith but got: %v", names(got))
		}
	})
}

func TestCompositor_OpenFilters(t *testing.T) {
	db, _ := seededDB(t)
	comp := New(Config{DefaultSort: "id", DefaultDirection: "asc"})

	t.Run("equality", func(t *testing.T) {
		got := runQuery(t, db, comp, Bag{"status": "active"})
		if len(got) != 2 {
			t.Errorf("expected 2 active users but got: %v", names(got))
		}
	})

	t.Run("list value becomes IN", func(t *testing.T) {
		got := runQuery(t, db, comp, Bag{"role": []string{"admin", "viewer"}})
		want := []string{"John Doe", "Bob Johnson"}
		if !reflect.DeepEqual(names(got), want) {
			t.Errorf("expected %v but got: %v", want, names(got))
		}
	})

	t.Run("reserved keys stay out of the open channel", func(t *testing.T) {
		// No column is named "sort"; if the key leaked it would error or
		// filter everything out.
		got := runQuery(t, db, comp, Bag{"sort": "name", "status": "active"})
		if len(got) != 2 {
			t.Errorf("expected 2 active users but got: %v", names(got))
		}
	})

	t.Run("unsafe keys are skipped", func(t *testing.T) {
		got := runQuery(t, db, comp, Bag{"status = 'x' OR 1=1; --": "boom"})
		if len(got) != 3 {
			t.Errorf("unsafe key must apply nothing, got: %v", names(got))
		}
	})

	t.Run("absent values are skipped", func(t *testing.T) {
		got := runQuery(t, db, comp, Bag{"status": "", "role": []string{}})
		if len(got) != 3 {
			t.Errorf("absent values must not filter, got: %v", names(got))
		}
	})
}

func TestCompositor_ComposedQuery(t *testing.T) {
	db, _ := seededDB(t)
	comp := New(Config{
		SearchColumns: []string{"name", "email"},
		DefaultSort:   "id",
	})

	got := runQuery(t, db, comp, Bag{
		"q":         "john",
		"sort":      "name",
		"direction": "asc",
		"status":    "active",
	})
	if len(got) != 1 || got[0].Name != "John Doe" {
		t.Errorf("expected search AND status to compose, got: %v", names(got))
	}
}

func TestDirection(t *testing.T) {
	tests := []struct {
		value    string
		fallback string
		want     string
	}{
		{"asc", "", "ASC"},
		{" DESC ", "", "DESC"},
		{"", "asc", "ASC"},
		{"", "", "DESC"},
		{"sideways", "asc", "ASC"},
		{"sideways", "bogus", "DESC"},
	}
	for _, tt := range tests {
		if got := Direction(tt.value, tt.fallback); got != tt.want {
			t.Errorf("Direction(%q, %q) = %q, want %q", tt.value, tt.fallback, got, tt.want)
		}
	}
}

func TestAbsent(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"empty slice", []int{}, true},
		{"nil pointer", (*int)(nil), true},
		{"zero int", 0, false},
		{"false", false, false},
		{"string", "x", false},
		{"slice with values", []int{1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Absent(tt.value); got != tt.want {
				t.Errorf("Absent(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		DefaultDirection: "asc",
		Relations: map[string]Relation{
			"profile": {Table: "profiles", ForeignColumn: "user_id"},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected no error but got: %v", err)
	}

	if err := (Config{DefaultDirection: "sideways"}).Validate(); err == nil {
		t.Error("expected error for bad direction")
	}

	incomplete := Config{
		Relations: map[string]Relation{"profile": {Table: "profiles"}},
	}
	if err := incomplete.Validate(); err == nil {
		t.Error("expected error for relation without a foreign column")
	}
}
