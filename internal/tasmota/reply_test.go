package tasmota

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseReply_KeyOrder(t *testing.T) {
	body := []byte(`{"StatusSNS":{"Time":"2024-01-01T00:00:00"},"Status":{"Module":1},"POWER":"ON"}`)

	r, err := ParseReply(body)
	if err != nil {
		t.Fatalf("ParseReply() error = %v", err)
	}

	want := []string{"StatusSNS", "Status", "POWER"}
	if got := r.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	if first, _ := r.FirstKey(); first != "StatusSNS" {
		t.Errorf("FirstKey() = %q, want StatusSNS", first)
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
	if string(r.Raw()) != string(body) {
		t.Errorf("Raw() = %s, want %s", r.Raw(), body)
	}
}

func TestParseReply_Values(t *testing.T) {
	r, err := ParseReply([]byte(`{"BlinkCount":10,"BlinkTime":2.5,"POWER1":"ON","Flag":true,"Nothing":null}`))
	if err != nil {
		t.Fatalf("ParseReply() error = %v", err)
	}

	if n, ok := r.Int("BlinkCount"); !ok || n != 10 {
		t.Errorf("Int(BlinkCount) = %d, %v; want 10, true", n, ok)
	}
	if _, ok := r.Int("BlinkTime"); ok {
		t.Error("Int(BlinkTime) should reject non-integral numbers")
	}
	if _, ok := r.Int("POWER1"); ok {
		t.Error("Int(POWER1) should reject strings")
	}
	if s, ok := r.String("POWER1"); !ok || s != "ON" {
		t.Errorf("String(POWER1) = %q, %v; want ON, true", s, ok)
	}
	if _, ok := r.String("BlinkCount"); ok {
		t.Error("String(BlinkCount) should reject numbers")
	}
	if r.Has("Nothing") {
		t.Error("Has(Nothing) should be false for null")
	}
	if !r.Has("Flag") {
		t.Error("Has(Flag) should be true")
	}
	if v, _ := r.Get("BlinkCount"); v != json.Number("10") {
		t.Errorf("Get(BlinkCount) = %#v, want json.Number(10)", v)
	}
}

func TestReply_IntIntegralFloat(t *testing.T) {
	r, err := ParseReply([]byte(`{"A":5.0,"B":1e2,"C":5.5,"D":-3.0,"E":1e300}`))
	if err != nil {
		t.Fatalf("ParseReply() error = %v", err)
	}

	tests := []struct {
		key    string
		want   int
		wantOK bool
	}{
		{"A", 5, true},
		{"B", 100, true},
		{"C", 0, false},
		{"D", -3, true},
		{"E", 0, false},
	}
	for _, tt := range tests {
		got, ok := r.Int(tt.key)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Int(%s) = %d, %v; want %d, %v", tt.key, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseReply_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"html", "<html><body>Tasmota</body></html>"},
		{"array", `["POWER","ON"]`},
		{"string", `"ON"`},
		{"truncated", `{"POWER":"ON"`},
		{"trailing data", `{"POWER":"ON"}{"POWER":"OFF"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseReply([]byte(tt.body)); err == nil {
				t.Errorf("ParseReply(%q) should fail", tt.body)
			}
		})
	}
}

func TestParseReply_EmptyObject(t *testing.T) {
	r, err := ParseReply([]byte(" {} \n"))
	if err != nil {
		t.Fatalf("ParseReply() error = %v", err)
	}
	if _, ok := r.FirstKey(); ok {
		t.Error("FirstKey() should report no key for {}")
	}
}

func TestParseReply_DuplicateKeys(t *testing.T) {
	r, err := ParseReply([]byte(`{"A":1,"B":2,"A":3}`))
	if err != nil {
		t.Fatalf("ParseReply() error = %v", err)
	}
	if got := r.Keys(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("Keys() = %v, want [A B]", got)
	}
	if n, _ := r.Int("A"); n != 3 {
		t.Errorf("Int(A) = %d, want last value 3", n)
	}
}

func TestReply_MarshalJSON(t *testing.T) {
	body := `{"Z":1,"A":2}`
	r, err := ParseReply([]byte(body))
	if err != nil {
		t.Fatalf("ParseReply() error = %v", err)
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != body {
		t.Errorf("Marshal() = %s, want %s", data, body)
	}
}

func TestNilReply(t *testing.T) {
	var r *Reply
	if r.Len() != 0 || r.Keys() != nil || r.Raw() != nil {
		t.Error("nil reply accessors should return zero values")
	}
	if _, ok := r.Get("x"); ok {
		t.Error("Get on nil reply should report missing")
	}
	if len(r.Map()) != 0 {
		t.Error("Map on nil reply should be empty")
	}
}
