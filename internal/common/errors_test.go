package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "empty input", err: &EmptyInputError{Source: "a.pdf"}, want: KindEmptyInput},
		{name: "service", err: &ServiceUnavailableError{Cause: errors.New("503")}, want: KindServiceUnavailable},
		{name: "malformed", err: &MalformedResponseError{Raw: "prose"}, want: KindMalformedResponse},
		{name: "schema", err: &SchemaViolationError{Path: "/chef", Cause: errors.New("expected string")}, want: KindSchemaViolation},
		{name: "persistence", err: &PersistenceError{Path: "/out/x.json", Cause: errors.New("read-only")}, want: KindPersistence},
		{name: "wrapped still matches", err: fmt.Errorf("stage: %w", &SchemaViolationError{Path: "/x", Cause: errors.New("bad")}), want: KindSchemaViolation},
		{name: "unknown", err: errors.New("something else"), want: "UNKNOWN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorKind(tt.err))
		})
	}
}

func TestErrorMessagesCarryDiagnostics(t *testing.T) {
	assert.Contains(t, (&EmptyInputError{Source: "menu.pdf"}).Error(), "menu.pdf")
	assert.Contains(t, (&SchemaViolationError{Path: "/components/0/type", Cause: errors.New("not in enum")}).Error(), "/components/0/type")
	assert.Contains(t, (&PersistenceError{Path: "/out/x.json", Cause: errors.New("denied")}).Error(), "/out/x.json")
}
