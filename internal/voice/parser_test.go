package voice

import (
	"reflect"
	"testing"
)

func TestParseTaskListWellFormed(t *testing.T) {
	got := ParseTaskList("1. Buy milk\n2. Call mom\n")
	want := []string{"Buy milk", "Call mom"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseTaskList=%v, want %v", got, want)
	}
}

func TestParseTaskListTrimsAndPreservesOrder(t *testing.T) {
	got := ParseTaskList("1.   Buy milk  \n2.\tCall mom\n3. Walk the dog")
	want := []string{"Buy milk", "Call mom", "Walk the dog"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseTaskList=%v, want %v", got, want)
	}
}

func TestParseTaskListInternalPeriodPreserved(t *testing.T) {
	got := ParseTaskList("1. Meet Ken at 5.30pm")
	want := []string{"Meet Ken at 5.30pm"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseTaskList=%v, want %v", got, want)
	}
}

func TestParseTaskListBilingual(t *testing.T) {
	got := ParseTaskList("1. 牛乳を買う\n2. Call mom")
	want := []string{"牛乳を買う", "Call mom"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseTaskList=%v, want %v", got, want)
	}
}

func TestParseTaskListRejectsMalformedLines(t *testing.T) {
	completion := "1. Buy milk\n\nBuy bread\n- Call mom\n1) Walk the dog\n2. Pay rent"
	got := ParseTaskList(completion)
	want := []string{"Buy milk", "Pay rent"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseTaskList=%v, want %v", got, want)
	}
}

func TestParseTaskListNoValidLines(t *testing.T) {
	for _, completion := range []string{
		"",
		"   \n \n",
		"Buy milk and call mom",
		"- one\n- two",
	} {
		if got := ParseTaskList(completion); len(got) != 0 {
			t.Fatalf("ParseTaskList(%q)=%v, want empty", completion, got)
		}
	}
}

func TestParseTaskListIdempotent(t *testing.T) {
	completion := "1. Buy milk\nnope\n2. Call mom"
	first := ParseTaskList(completion)
	second := ParseTaskList(completion)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("parse not idempotent: %v vs %v", first, second)
	}
}

func TestParseTaskListOutputNeverExceedsLineCount(t *testing.T) {
	completion := "1. a\n2. b\nc\n\n3. d"
	if got := ParseTaskList(completion); len(got) > 5 {
		t.Fatalf("output count %d exceeds line count 5", len(got))
	}
}

func TestClassifyLine(t *testing.T) {
	cases := []struct {
		line   string
		name   string
		reject RejectReason
	}{
		{"1. Buy milk", "Buy milk", RejectNone},
		{"12. Buy milk", "Buy milk", RejectNone},
		{"", "", RejectBlank},
		{"   ", "", RejectBlank},
		{"Buy milk", "", RejectNoSeparator},
		{"- Buy milk", "", RejectNoSeparator},
		{"1) Buy milk", "", RejectNoSeparator},
		{". Buy milk", "", RejectEmptyIndex},
		{"3.   ", "", RejectEmptyName},
	}

	for _, tc := range cases {
		got := ClassifyLine(tc.line)
		if got.Reject != tc.reject {
			t.Fatalf("ClassifyLine(%q).Reject=%q, want %q", tc.line, got.Reject, tc.reject)
		}
		if got.Name != tc.name {
			t.Fatalf("ClassifyLine(%q).Name=%q, want %q", tc.line, got.Name, tc.name)
		}
		if got.Accepted() != (tc.reject == RejectNone) {
			t.Fatalf("ClassifyLine(%q).Accepted()=%v unexpected", tc.line, got.Accepted())
		}
	}
}

func TestClassifyLinesHandlesCRLF(t *testing.T) {
	lines := ClassifyLines("1. Buy milk\r\n2. Call mom\r\n")
	var names []string
	for _, l := range lines {
		if l.Accepted() {
			names = append(names, l.Name)
		}
	}
	want := []string{"Buy milk", "Call mom"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("accepted=%v, want %v", names, want)
	}
}
