package utils

import "testing"

func TestFormatAccountNumber(t *testing.T) {
	tests := []struct {
		seq  int64
		want string
	}{
		{1, "EB00000000018"},
		{42, "EB00000000422"},
		{9999999999, "EB99999999990"},
	}
	for _, tt := range tests {
		got := FormatAccountNumber(tt.seq)
		if got != tt.want {
			t.Errorf("FormatAccountNumber(%d) = %q, want %q", tt.seq, got, tt.want)
		}
		if !ValidateAccountNumber(got) {
			t.Errorf("FormatAccountNumber(%d) = %q fails its own validation", tt.seq, got)
		}
	}
}

func TestValidateAccountNumber(t *testing.T) {
	valid := FormatAccountNumber(123456)

	tests := []struct {
		name   string
		number string
		want   bool
	}{
		{"generated number", valid, true},
		{"empty", "", false},
		{"wrong prefix", "XX" + valid[2:], false},
		{"too short", valid[:12], false},
		{"too long", valid + "0", false},
		{"letter in body", "EB0000O234561", false},
		{"corrupted check digit", valid[:12] + flipDigit(valid[12]), false},
		{"corrupted body digit", valid[:5] + flipDigit(valid[5]) + valid[6:], false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateAccountNumber(tt.number); got != tt.want {
				t.Errorf("ValidateAccountNumber(%q) = %v, want %v", tt.number, got, tt.want)
			}
		})
	}
}

func flipDigit(b byte) string {
	if b == '9' {
		return "0"
	}
	return string(b + 1)
}
