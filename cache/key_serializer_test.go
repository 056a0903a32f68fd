package cache

import (
	"strings"
	"testing"
)

func joinWithSeparator(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}

func TestDefaultKeySerializer_BasicTypes(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	tests := []struct {
		name  string
		scope string
		args  []any
		want  string
	}{
		{
			name:  "no args",
			scope: "list_action",
			want:  "list_action",
		},
		{
			name:  "single int",
			scope: "get_action",
			args:  []any{42},
			want:  joinWithSeparator("get_action", "42"),
		},
		{
			name:  "multiple basic types",
			scope: "get_action",
			args:  []any{1, "hello", true, 3.14},
			want:  joinWithSeparator("get_action", "1", "hello", "true", "3.14"),
		},
		{
			name:  "string with separator chars",
			scope: "search",
			args:  []any{"hello:world"},
			want:  joinWithSeparator("search", "hello:world"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serializer.SerializeKey(tt.scope, tt.args...)
			if got != tt.want {
				t.Errorf("SerializeKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultKeySerializer_NilValues(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	tests := []struct {
		name string
		arg  any
		want string
	}{
		{name: "nil interface", arg: nil, want: "nil"},
		{name: "nil pointer", arg: (*int)(nil), want: "nil"},
		{name: "nil slice", arg: ([]int)(nil), want: "slice:nil"},
		{name: "nil map", arg: (map[string]int)(nil), want: "map:nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serializer.SerializeKey("scope", tt.arg)
			if got != joinWithSeparator("scope", tt.want) {
				t.Errorf("SerializeKey() = %v, want suffix %v", got, tt.want)
			}
		})
	}
}

func TestDefaultKeySerializer_Collections(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	t.Run("slice", func(t *testing.T) {
		got := serializer.SerializeKey("scope", []int{1, 2, 3})
		want := joinWithSeparator("scope", "slice[3]:{1,2,3}")
		if got != want {
			t.Errorf("SerializeKey() = %v, want %v", got, want)
		}
	})

	t.Run("map order never leaks", func(t *testing.T) {
		a := map[string]any{"status": "active", "role": "admin", "page": 2}
		b := map[string]any{"page": 2, "role": "admin", "status": "active"}
		if serializer.SerializeKey("scope", a) != serializer.SerializeKey("scope", b) {
			t.Error("maps with identical content must serialize identically")
		}
	})

	t.Run("struct exported fields only", func(t *testing.T) {
		type params struct {
			Page   int
			Status string
			secret string
		}
		got := serializer.SerializeKey("scope", params{Page: 1, Status: "active", secret: "x"})
		want := joinWithSeparator("scope", "struct:{Page:1,Status:active}")
		if got != want {
			t.Errorf("SerializeKey() = %v, want %v", got, want)
		}
	})

	t.Run("pointer dereferences to value", func(t *testing.T) {
		n := 42
		got := serializer.SerializeKey("scope", &n)
		if got != joinWithSeparator("scope", "42") {
			t.Errorf("SerializeKey() = %v, want pointer to serialize as its value", got)
		}
	})
}

func TestDefaultKeySerializer_FuncStableWithinProcess(t *testing.T) {
	serializer := NewDefaultKeySerializer()
	fn := func() {}

	first := serializer.SerializeKey("scope", fn)
	second := serializer.SerializeKey("scope", fn)
	if first != second {
		t.Errorf("same function value must serialize identically: %v vs %v", first, second)
	}
	if !strings.Contains(first, "func:") {
		t.Errorf("expected pointer-form serialization, got: %v", first)
	}
}

func TestDigest(t *testing.T) {
	a := Digest("list_action::struct:{Page:1}")
	b := Digest("list_action::struct:{Page:1}")
	c := Digest("list_action::struct:{Page:2}")

	if a != b {
		t.Errorf("identical input must digest identically: %v vs %v", a, b)
	}
	if a == c {
		t.Error("different input must not collide on these values")
	}
	if strings.Contains(a, KeySeparator) {
		t.Errorf("digest must be a single key segment, got: %v", a)
	}
}
