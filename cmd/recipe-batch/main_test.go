package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCatalogPath(t *testing.T) {
	tests := []struct {
		name    string
		dbFlag  string
		inmem   bool
		envPath string
		want    string
	}{
		{name: "db flag overrides env", dbFlag: "/tmp/jobs.db", envPath: "/var/catalog.db", want: "/tmp/jobs.db"},
		{name: "env path when no flag", envPath: "/var/catalog.db", want: "/var/catalog.db"},
		{name: "inmem beats db flag", dbFlag: "/tmp/jobs.db", inmem: true, want: ""},
		{name: "inmem beats env path", envPath: "/var/catalog.db", inmem: true, want: ""},
		{name: "nothing set means in-memory", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveCatalogPath(tt.dbFlag, tt.inmem, tt.envPath))
		})
	}
}
