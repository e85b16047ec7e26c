package checkpoint

import (
	"errors"
	"io"
	"strings"
	"testing"
)

var (
	errStage = errors.New("stage failed")
	errCause = errors.New("the cause")
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name    string
		prev    error
		err     error
		wantNil bool
		wantIs  []error
	}{
		{
			name:    "nil stays nil",
			prev:    nil,
			err:     errStage,
			wantNil: true,
		},
		{
			name:   "stage and cause are both matched",
			prev:   errCause,
			err:    errStage,
			wantIs: []error{errStage, errCause},
		},
		{
			name:   "nested checkpoints keep all errors",
			prev:   Wrap(errCause, errStage),
			err:    io.ErrUnexpectedEOF,
			wantIs: []error{errStage, errCause, io.ErrUnexpectedEOF},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.prev, tt.err)
			if (got == nil) != tt.wantNil {
				t.Fatalf("Wrap() = %v, wantNil %v", got, tt.wantNil)
			}

			for _, want := range tt.wantIs {
				if !errors.Is(got, want) {
					t.Errorf("errors.Is(Wrap(), %v) = false, want true", want)
				}
			}
		})
	}
}

func TestWrap_EOF(t *testing.T) {
	if got := Wrap(io.EOF, errStage); got != io.EOF {
		t.Errorf("Wrap(io.EOF) = %v, want io.EOF", got)
	}
	if got := From(io.EOF); got != io.EOF {
		t.Errorf("From(io.EOF) = %v, want io.EOF", got)
	}
}

func TestFrom(t *testing.T) {
	if got := From(nil); got != nil {
		t.Errorf("From(nil) = %v, want nil", got)
	}

	got := From(errCause)
	if !errors.Is(got, errCause) {
		t.Errorf("errors.Is(From(), errCause) = false, want true")
	}

	if !strings.Contains(got.Error(), "checkpoint_test.go:") {
		t.Errorf("From().Error() = %q, want caller location", got.Error())
	}
}

func TestCheckpoint_Error(t *testing.T) {
	got := Wrap(errCause, errStage).Error()

	for _, want := range []string{"checkpoint_test.go:", errStage.Error(), errCause.Error()} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, want it to contain %q", got, want)
		}
	}
}
