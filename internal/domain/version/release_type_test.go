package version

import (
	"testing"
)

func TestMaxReleaseType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    ReleaseType
		b    ReleaseType
		want ReleaseType
	}{
		{name: "major beats minor", a: ReleaseTypeMinor, b: ReleaseTypeMajor, want: ReleaseTypeMajor},
		{name: "minor beats patch", a: ReleaseTypeMinor, b: ReleaseTypePatch, want: ReleaseTypeMinor},
		{name: "patch beats none", a: ReleaseTypeNone, b: ReleaseTypePatch, want: ReleaseTypePatch},
		{name: "none vs none", a: ReleaseTypeNone, b: ReleaseTypeNone, want: ReleaseTypeNone},
		{name: "equal severities keep first", a: ReleaseTypePatch, b: ReleaseTypePatch, want: ReleaseTypePatch},
		{name: "premajor ranks as major", a: ReleaseTypePremajor, b: ReleaseTypeMinor, want: ReleaseTypePremajor},
		{name: "preminor ranks as minor", a: ReleaseTypePatch, b: ReleaseTypePreminor, want: ReleaseTypePreminor},
		{name: "prepatch ties with patch", a: ReleaseTypePatch, b: ReleaseTypePrepatch, want: ReleaseTypePatch},
		{name: "manual does not outrank", a: ReleaseTypeManual, b: ReleaseTypePatch, want: ReleaseTypePatch},
		{name: "initial does not outrank", a: ReleaseTypeInitial, b: ReleaseTypeMinor, want: ReleaseTypeMinor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := MaxReleaseType(tt.a, tt.b); got != tt.want {
				t.Errorf("MaxReleaseType(%s, %s) = %s, want %s", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestReleaseTypeMappings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rt     ReleaseType
		stable ReleaseType
		pre    ReleaseType
	}{
		{rt: ReleaseTypePatch, stable: ReleaseTypePatch, pre: ReleaseTypePrepatch},
		{rt: ReleaseTypeMinor, stable: ReleaseTypeMinor, pre: ReleaseTypePreminor},
		{rt: ReleaseTypeMajor, stable: ReleaseTypeMajor, pre: ReleaseTypePremajor},
		{rt: ReleaseTypePrepatch, stable: ReleaseTypePatch, pre: ReleaseTypePrepatch},
		{rt: ReleaseTypePreminor, stable: ReleaseTypeMinor, pre: ReleaseTypePreminor},
		{rt: ReleaseTypePremajor, stable: ReleaseTypeMajor, pre: ReleaseTypePremajor},
		{rt: ReleaseTypeNone, stable: ReleaseTypeNone, pre: ReleaseTypeNone},
		{rt: ReleaseTypeManual, stable: ReleaseTypeManual, pre: ReleaseTypeManual},
	}

	for _, tt := range tests {
		t.Run(string(tt.rt), func(t *testing.T) {
			t.Parallel()

			if got := tt.rt.Stable(); got != tt.stable {
				t.Errorf("Stable() = %s, want %s", got, tt.stable)
			}
			if got := tt.rt.WithPrerelease(); got != tt.pre {
				t.Errorf("WithPrerelease() = %s, want %s", got, tt.pre)
			}
		})
	}
}

func TestTriggersRelease(t *testing.T) {
	t.Parallel()

	triggers := []ReleaseType{
		ReleaseTypePatch, ReleaseTypeMinor, ReleaseTypeMajor,
		ReleaseTypePrepatch, ReleaseTypePreminor, ReleaseTypePremajor,
		ReleaseTypeManual, ReleaseTypeInitial,
	}
	for _, rt := range triggers {
		if !rt.TriggersRelease() {
			t.Errorf("TriggersRelease(%s) = false, want true", rt)
		}
	}

	if ReleaseTypeNone.TriggersRelease() {
		t.Error("TriggersRelease(none) = true, want false")
	}
	if ReleaseType("bogus").TriggersRelease() {
		t.Error("TriggersRelease(bogus) = true, want false")
	}
}

func TestParseReleaseType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    ReleaseType
		wantErr bool
	}{
		{input: "major", want: ReleaseTypeMajor},
		{input: "MINOR", want: ReleaseTypeMinor},
		{input: " patch ", want: ReleaseTypePatch},
		{input: "manual", want: ReleaseTypeManual},
		{input: "initial", want: ReleaseTypeInitial},
		{input: "prerelease", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseReleaseType(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseReleaseType(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseReleaseType(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseReleaseType(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}
