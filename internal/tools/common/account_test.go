package common

import (
	"context"
	"testing"
)

func TestGetAccountFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"nil args", nil, "default"},
		{"empty args", map[string]interface{}{}, "default"},
		{"explicit account", map[string]interface{}{"account": "work"}, "work"},
		{"empty account falls back", map[string]interface{}{"account": ""}, "default"},
		{"non-string account", map[string]interface{}{"account": 42}, "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetAccountFromArgs(context.Background(), tt.args); got != tt.want {
				t.Errorf("GetAccountFromArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}
