package trade

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodes(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrTradeDisabled, CodeNoPermission},
		{ErrSessionOpen, CodeConflict},
		{ErrCommitInFlight, CodeConflict},
		{ErrNotTradeable, CodeBadRequest},
		{ErrNotConfirmable, CodeBadRequest},
		{fmt.Errorf("wrapped: %w", ErrInsufficient), CodeNoResource},
		{&CommitError{Step: "update currency", Err: errors.New("io")}, CodeInternal},
	}
	for _, c := range cases {
		if got := ErrorCode(c.err); got != c.want {
			t.Fatalf("ErrorCode(%v)=%s want %s", c.err, got, c.want)
		}
		if !IsKnownCode(ErrorCode(c.err)) {
			t.Fatalf("code for %v not in known set", c.err)
		}
	}
}

func TestCommitErrorUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := &CommitError{Step: "create item", Err: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("CommitError must unwrap to its cause")
	}
	if err.Error() != "commit failed at create item: disk full" {
		t.Fatalf("message %q", err.Error())
	}
}
