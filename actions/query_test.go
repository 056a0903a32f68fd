package actions

import (
	"testing"

	"github.com/goliatone/go-actions/pkg/testsupport"
)

func TestNormalizeOperator(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		want    string
		wantErr bool
	}{
		{name: "empty defaults to equals", op: "", want: "="},
		{name: "equals", op: "=", want: "="},
		{name: "not equals", op: "!=", want: "!="},
		{name: "angle not equals", op: "<>", want: "<>"},
		{name: "greater or equal", op: ">=", want: ">="},
		{name: "like lowercased", op: "like", want: "LIKE"},
		{name: "ilike with spaces", op: " ilike ", want: "ILIKE"},
		{name: "injection rejected", op: "= 1; DROP TABLE users; --", wantErr: true},
		{name: "unknown rejected", op: "BETWEEN", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeOperator(tt.op, "test")
			if tt.wantErr {
				if !IsConfiguration(err) {
					t.Errorf("expected ConfigurationError but got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error but got: %v", err)
			}
			if got != tt.want {
				t.Errorf("normalizeOperator(%q) = %q, want %q", tt.op, got, tt.want)
			}
		})
	}
}

func TestSelection_KeyDefaultsToID(t *testing.T) {
	if got := (Selection{}).key(); got != "id" {
		t.Errorf("zero Selection key = %q, want id", got)
	}
	if got := (Selection{Key: "email"}).key(); got != "email" {
		t.Errorf("Selection key = %q, want email", got)
	}
}

func TestEntityName(t *testing.T) {
	if got := entityName[testsupport.User](); got != "user" {
		t.Errorf("entityName[User] = %q, want user", got)
	}
	if got := entityName[*testsupport.Profile](); got != "profile" {
		t.Errorf("entityName[*Profile] = %q, want profile", got)
	}
}

func TestToSnake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ListAction", "list_action"},
		{"GetAction[User]", "get_action_user"},
		{"HTTPServer", "http_server"},
		{"userID", "user_id"},
		{"Cached[*Page[User]]", "cached_page_user"},
		{"simple", "simple"},
	}

	for _, tt := range tests {
		if got := toSnake(tt.in); got != tt.want {
			t.Errorf("toSnake(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
