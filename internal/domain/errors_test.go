package domain

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestDefineError(t *testing.T) {
	err := &DefineError{Node: "n1", Name: "score"}
	if !errors.Is(err, ErrDefineConflict) {
		t.Fatal("DefineError should unwrap to ErrDefineConflict")
	}
	if !strings.Contains(err.Error(), `"score" already exists`) {
		t.Errorf("unexpected message %q", err.Error())
	}

	reserved := &DefineError{Node: "n1", Name: "start", Reserved: true}
	if !strings.Contains(reserved.Error(), "reserved lifecycle key") {
		t.Errorf("unexpected message %q", reserved.Error())
	}
}

func TestMemberError(t *testing.T) {
	err := &MemberError{Node: "n1", Name: "jump", Err: ErrNotCallable}
	if !errors.Is(err, ErrNotCallable) {
		t.Fatal("MemberError should unwrap to its cause")
	}
	if errors.Is(err, ErrReadOnly) {
		t.Fatal("MemberError should not match unrelated sentinels")
	}
}

func TestHookError_Unwrap(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  error
	}{
		{"error value", io.EOF, io.EOF},
		{"string value", "boom", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &HookError{Node: "n1", Hook: "update", Value: tt.value}
			if got := err.Unwrap(); got != tt.want {
				t.Errorf("Unwrap() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(err.Error(), "update") {
				t.Errorf("message %q should name the hook", err.Error())
			}
		})
	}
}
