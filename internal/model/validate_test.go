package model

import (
	"errors"
	"strings"
	"testing"
)

func validItem() *Item {
	return &Item{
		ItemID:   "td-1",
		Body:     "buy milk",
		Status:   StatusOpen,
		Priority: 2,
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	out := make(map[string]string, len(ve.Errors))
	for _, fe := range ve.Errors {
		out[fe.Field] = fe.Message
	}
	return out
}

func TestValidateItem_Valid(t *testing.T) {
	if err := ValidateItem(validItem()); err != nil {
		t.Errorf("ValidateItem returned unexpected error: %v", err)
	}

	done := validItem()
	done.IsDone = true
	done.Status = StatusDone
	if err := ValidateItem(done); err != nil {
		t.Errorf("ValidateItem(done) returned unexpected error: %v", err)
	}
}

func TestValidateItem_BodyRequired(t *testing.T) {
	i := validItem()
	i.Body = "   "
	fe := fieldErrors(t, ValidateItem(i))
	if fe["body"] != "is required" {
		t.Errorf("body error = %q, want is required", fe["body"])
	}
}

func TestValidateItem_BodyTooLong(t *testing.T) {
	i := validItem()
	i.Body = strings.Repeat("x", 1001)
	fe := fieldErrors(t, ValidateItem(i))
	if _, ok := fe["body"]; !ok {
		t.Error("expected body length error")
	}
}

func TestValidateItem_PriorityRange(t *testing.T) {
	for _, p := range []int64{-1, 5} {
		i := validItem()
		i.Priority = p
		fe := fieldErrors(t, ValidateItem(i))
		if _, ok := fe["priority"]; !ok {
			t.Errorf("priority %d: expected error", p)
		}
	}
}

func TestValidateItem_StatusEnum(t *testing.T) {
	i := validItem()
	i.Status = "paused"
	fe := fieldErrors(t, ValidateItem(i))
	if _, ok := fe["status"]; !ok {
		t.Error("expected status error")
	}
}

func TestValidateItem_DoneConsistency(t *testing.T) {
	i := validItem()
	i.IsDone = true // still open
	fe := fieldErrors(t, ValidateItem(i))
	if _, ok := fe["status"]; !ok {
		t.Error("expected status/is_done consistency error")
	}

	j := validItem()
	j.Status = StatusDone // is_done unset
	fe = fieldErrors(t, ValidateItem(j))
	if _, ok := fe["status"]; !ok {
		t.Error("expected status/is_done consistency error")
	}
}

func TestValidateItem_Tags(t *testing.T) {
	i := validItem()
	i.Tags = []string{"a", ""}
	fe := fieldErrors(t, ValidateItem(i))
	if _, ok := fe["tags"]; !ok {
		t.Error("expected empty tag error")
	}

	j := validItem()
	j.Tags = []string{"a", "a"}
	fe = fieldErrors(t, ValidateItem(j))
	if _, ok := fe["tags"]; !ok {
		t.Error("expected duplicate tag error")
	}
}

func TestStatus_IsValid(t *testing.T) {
	for _, s := range []Status{StatusOpen, StatusDone, StatusArchived} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("bogus").IsValid() {
		t.Error("bogus should be invalid")
	}
}
