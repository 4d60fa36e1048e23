package tasmota

import (
	"strings"
	"testing"
)

func TestFormatReply(t *testing.T) {
	r, err := ParseReply([]byte(`{"StatusNET":{"Mac":"AA:BB","IPAddress":"10.0.0.2","Webserver":2},"POWER":"ON","List":[1,"a",null]}`))
	if err != nil {
		t.Fatalf("ParseReply() error = %v", err)
	}

	want := strings.Join([]string{
		"StatusNET:",
		"  IPAddress: 10.0.0.2",
		"  Mac: AA:BB",
		"  Webserver: 2",
		"POWER: ON",
		"List: [1, a, null]",
		"",
	}, "\n")
	if got := FormatReply(r); got != want {
		t.Errorf("FormatReply() =\n%s\nwant\n%s", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	r, err := ParseReply([]byte(`{"Z":1,"A":{"b":true}}`))
	if err != nil {
		t.Fatalf("ParseReply() error = %v", err)
	}

	got, err := FormatJSON(r)
	if err != nil {
		t.Fatalf("FormatJSON() error = %v", err)
	}
	want := "{\n  \"Z\": 1,\n  \"A\": {\n    \"b\": true\n  }\n}"
	if got != want {
		t.Errorf("FormatJSON() =\n%s\nwant\n%s", got, want)
	}
}

func TestReplySummary(t *testing.T) {
	r, err := ParseReply([]byte(`{"POWER1":"ON","StatusSTS":{"a":1,"b":2},"Arr":[1,2,3]}`))
	if err != nil {
		t.Fatalf("ParseReply() error = %v", err)
	}
	want := "POWER1=ON StatusSTS={2 fields} Arr=[3 items]"
	if got := r.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}

	var empty *Reply
	if got := empty.Summary(); got != "(empty reply)" {
		t.Errorf("Summary() on nil = %q", got)
	}
}
