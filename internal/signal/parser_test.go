package signal

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{name: "plain list", input: "1,2,3", want: []int{1, 2, 3}},
		{name: "surrounding and internal whitespace", input: "  1 , 2 ,3", want: []int{1, 2, 3}},
		{name: "single value", input: "42", want: []int{42}},
		{name: "negative values", input: "-1, -2, 3", want: []int{-1, -2, 3}},
		{name: "explicit plus sign", input: "+7", want: []int{7}},
		{name: "whole decimal", input: "4.0, 5", want: []int{4, 5}},
		{name: "exponent form", input: "1e3", want: []int{1000}},
		{name: "tabs and newlines", input: "\t1,\n2 ", want: []int{1, 2}},
		{name: "order preserved", input: "5, 4, 3, 2, 1", want: []int{5, 4, 3, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantErr     error
		wantContain string
	}{
		{name: "empty", input: "", wantErr: ErrEmptySignal},
		{name: "blank", input: "   ", wantErr: ErrEmptySignal},
		{name: "consecutive commas", input: "1,,3", wantErr: ErrEmptyValue},
		{name: "leading comma", input: ",1,2", wantErr: ErrEmptyValue},
		{name: "trailing comma", input: "1,2,", wantErr: ErrEmptyValue},
		{name: "whitespace only slot", input: "1, ,2", wantErr: ErrEmptyValue},
		{name: "empty slot wins over bad token", input: "abc,,1", wantErr: ErrEmptyValue},
		{name: "empty slot after bad token", input: "1,abc,", wantErr: ErrEmptyValue},
		{name: "word", input: "1,abc,3", wantErr: ErrNotAnInteger, wantContain: "abc"},
		{name: "fraction", input: "1.5,2,3", wantErr: ErrNotAnInteger, wantContain: "1.5"},
		{name: "infinity", input: "Infinity", wantErr: ErrNotAnInteger, wantContain: "Infinity"},
		{name: "negative infinity", input: "-Infinity", wantErr: ErrNotAnInteger, wantContain: "-Infinity"},
		{name: "nan", input: "NaN", wantErr: ErrNotAnInteger, wantContain: "NaN"},
		{name: "inf short form", input: "inf", wantErr: ErrNotAnInteger, wantContain: "inf"},
		{name: "hex literal", input: "0x10", wantErr: ErrNotAnInteger, wantContain: "0x10"},
		{name: "overflow", input: "1e30", wantErr: ErrNotAnInteger, wantContain: "1e30"},
		{name: "first offender reported", input: "1,x,y", wantErr: ErrNotAnInteger, wantContain: `"x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) = %v, expected error", tt.input, got)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if tt.wantContain != "" && !strings.Contains(err.Error(), tt.wantContain) {
				t.Errorf("Parse(%q) error %q does not contain %q", tt.input, err.Error(), tt.wantContain)
			}
		})
	}
}

func TestParse_EmptyValueNeverNotAnInteger(t *testing.T) {
	for _, input := range []string{"1,,3", ",1,2", "1,2,"} {
		_, err := Parse(input)
		if errors.Is(err, ErrNotAnInteger) {
			t.Errorf("Parse(%q) reported NotAnInteger, expected EmptyValue", input)
		}
	}
}

func TestParseError_Verbatim(t *testing.T) {
	_, err := Parse(`1, "quoted" ,3`)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Expected *ParseError, got %T", err)
	}
	if parseErr.Value != `"quoted"` {
		t.Errorf("Expected value %q, got %q", `"quoted"`, parseErr.Value)
	}
	if !strings.Contains(err.Error(), `"quoted"`) {
		t.Errorf("Expected message to carry the piece verbatim, got %q", err.Error())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		input       string
		wantValid   bool
		wantMessage string
	}{
		{input: "1, 2, 3", wantValid: true},
		{input: "", wantValid: false, wantMessage: "signal cannot be empty"},
		{input: "1,,2", wantValid: false, wantMessage: "invalid signal: empty value"},
		{input: "1,two", wantValid: false, wantMessage: `invalid signal: "two". Enter integers separated by commas.`},
	}

	for _, tt := range tests {
		got := Validate(tt.input)
		if got.Valid != tt.wantValid {
			t.Errorf("Validate(%q).Valid = %v, want %v", tt.input, got.Valid, tt.wantValid)
		}
		if got.Message != tt.wantMessage {
			t.Errorf("Validate(%q).Message = %q, want %q", tt.input, got.Message, tt.wantMessage)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty string", got)
	}
	if got := Format([]int{}); got != "" {
		t.Errorf("Format([]) = %q, want empty string", got)
	}
	if got := Format([]int{1, -2, 3, -4}); got != "1, -2, 3, -4" {
		t.Errorf("Format = %q, want %q", got, "1, -2, 3, -4")
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	signals := [][]int{
		{0},
		{1, 2, 3},
		{-5, 0, 5},
		{9007199254740993, -9007199254740993},
		{3, 3, 3, 3},
	}

	for _, xs := range signals {
		got, err := Parse(Format(xs))
		if err != nil {
			t.Errorf("Parse(Format(%v)) error: %v", xs, err)
			continue
		}
		if !reflect.DeepEqual(got, xs) {
			t.Errorf("Parse(Format(%v)) = %v", xs, got)
		}
	}
}
