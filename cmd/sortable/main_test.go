package main

import (
	"reflect"
	"testing"
)

func TestRewriteItemShortcut(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"sortable"},
			want: []string{"sortable"},
		},
		{
			name: "item id first token",
			in:   []string{"sortable", "item-3"},
			want: []string{"sortable", "items", "show", "item-3"},
		},
		{
			name: "item id after value flag",
			in:   []string{"sortable", "--dir", "./tmp", "item-3"},
			want: []string{"sortable", "--dir", "./tmp", "items", "show", "item-3"},
		},
		{
			name: "item id after equals flag",
			in:   []string{"sortable", "--config=./c.toml", "item-3"},
			want: []string{"sortable", "--config=./c.toml", "items", "show", "item-3"},
		},
		{
			name: "item id after bool flag",
			in:   []string{"sortable", "--pretty", "item-12"},
			want: []string{"sortable", "--pretty", "items", "show", "item-12"},
		},
		{
			name: "item id after double dash",
			in:   []string{"sortable", "--", "item-3"},
			want: []string{"sortable", "--", "items", "show", "item-3"},
		},
		{
			name: "non-numeric suffix not rewritten",
			in:   []string{"sortable", "item-abc"},
			want: []string{"sortable", "item-abc"},
		},
		{
			name: "subcommand not rewritten",
			in:   []string{"sortable", "items", "show", "item-3"},
			want: []string{"sortable", "items", "show", "item-3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteItemShortcut(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteItemShortcut:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
